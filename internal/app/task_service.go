package app

import (
	"errors"
	"slices"
	"strings"
	"time"

	"projectboard/internal/model"
	"projectboard/internal/pkg/optional"
	"projectboard/internal/repository"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskForbidden     = errors.New("not allowed to access this task")
	ErrProjectIDMismatch = errors.New("project_id in body does not match project_id in path")
)

type TaskService struct {
	taskRepo    *repository.TaskRepository
	projectRepo *repository.ProjectRepository
}

type CreateTaskInput struct {
	ProjectID      uint
	AssignedTo     *uint
	Title          string
	Description    *string
	Status         string
	Priority       string
	DueDate        *model.Date
	EstimatedHours *float64
	ActualHours    *float64
}

type TaskPatch struct {
	Title          optional.Field[string]      `json:"title"`
	Description    optional.Field[*string]     `json:"description"`
	Status         optional.Field[string]      `json:"status"`
	Priority       optional.Field[string]      `json:"priority"`
	DueDate        optional.Field[*model.Date] `json:"due_date"`
	EstimatedHours optional.Field[*float64]    `json:"estimated_hours"`
	ActualHours    optional.Field[*float64]    `json:"actual_hours"`
	AssignedTo     optional.Field[*uint]       `json:"assigned_to"`
}

func NewTaskService(taskRepo *repository.TaskRepository, projectRepo *repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// Create requires the target project to pass the ownership predicate before
// the body/path id comparison, so a foreign project id is reported as not
// found rather than as a mismatch.
func (s *TaskService) Create(userID, pathProjectID uint, input CreateTaskInput) (*model.Task, error) {
	if userID == 0 || pathProjectID == 0 {
		return nil, ErrInvalidInput
	}

	project, err := s.projectRepo.GetByIDAndUserID(pathProjectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if input.ProjectID != pathProjectID {
		return nil, ErrProjectIDMismatch
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > 255 {
		return nil, ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = model.TaskStatusTodo
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !slices.Contains(model.TaskStatuses, status) || !slices.Contains(model.Priorities, priority) {
		return nil, ErrInvalidInput
	}

	task := &model.Task{
		ProjectID:      pathProjectID,
		AssignedTo:     input.AssignedTo,
		Title:          title,
		Description:    input.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListForProject fails with ErrProjectNotFound when the project is absent or
// owned by someone else; individual tasks need no further check.
func (s *TaskService) ListForProject(userID, projectID uint, filter repository.TaskFilter) ([]model.Task, error) {
	if err := s.requireOwnedProject(userID, projectID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByProjectID(projectID, filter)
}

func (s *TaskService) StatsForProject(userID, projectID uint) (*model.TaskStats, error) {
	if err := s.requireOwnedProject(userID, projectID); err != nil {
		return nil, err
	}
	return s.taskRepo.StatsByProjectID(projectID)
}

func (s *TaskService) Get(userID, taskID uint) (*model.Task, error) {
	return s.getOwnedTask(userID, taskID)
}

func (s *TaskService) Update(userID, taskID uint, patch TaskPatch) (*model.Task, error) {
	task, err := s.getOwnedTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := validateTaskPatch(patch); err != nil {
		return nil, err
	}

	if patch.Title.Set {
		task.Title = strings.TrimSpace(patch.Title.Value)
	}
	if patch.Description.Set {
		task.Description = patch.Description.Value
	}
	if patch.Status.Set {
		task.Status = patch.Status.Value
	}
	if patch.Priority.Set {
		task.Priority = patch.Priority.Value
	}
	if patch.DueDate.Set {
		task.DueDate = patch.DueDate.Value
	}
	if patch.EstimatedHours.Set {
		task.EstimatedHours = patch.EstimatedHours.Value
	}
	if patch.ActualHours.Set {
		task.ActualHours = patch.ActualHours.Value
	}
	if patch.AssignedTo.Set {
		task.AssignedTo = patch.AssignedTo.Value
	}

	now := time.Now()
	task.UpdatedAt = &now
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(userID, taskID uint) error {
	task, err := s.getOwnedTask(userID, taskID)
	if err != nil {
		return err
	}
	return s.taskRepo.Delete(task.ID)
}

// getOwnedTask is the single place deciding direct task access. Unlike
// projects, an existing task under a foreign project is reported as forbidden
// rather than as missing: the task id itself is not secret, its parent
// project's contents are.
func (s *TaskService) getOwnedTask(userID, taskID uint) (*model.Task, error) {
	if userID == 0 || taskID == 0 {
		return nil, ErrInvalidInput
	}

	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	project, err := s.projectRepo.GetByIDAndUserID(task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrTaskForbidden
	}
	return task, nil
}

func (s *TaskService) requireOwnedProject(userID, projectID uint) error {
	if userID == 0 || projectID == 0 {
		return ErrInvalidInput
	}
	project, err := s.projectRepo.GetByIDAndUserID(projectID, userID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	return nil
}

func validateTaskPatch(patch TaskPatch) error {
	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		if title == "" || len(title) > 255 {
			return ErrInvalidInput
		}
	}
	if patch.Status.Set && !slices.Contains(model.TaskStatuses, patch.Status.Value) {
		return ErrInvalidInput
	}
	if patch.Priority.Set && !slices.Contains(model.Priorities, patch.Priority.Value) {
		return ErrInvalidInput
	}
	return nil
}
