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

var ErrProjectNotFound = errors.New("project not found")

type ProjectService struct {
	projectRepo *repository.ProjectRepository
}

type CreateProjectInput struct {
	UserID        uint
	Title         string
	Description   *string
	ClientName    *string
	Status        string
	Priority      string
	StartDate     *model.Date
	EndDate       *model.Date
	Budget        *float64
	RepositoryURL *string
	DemoURL       *string
	TechStack     []string
}

// ProjectPatch only applies fields present in the request body. Unset fields
// leave the stored value untouched; supplying null clears a nullable field.
type ProjectPatch struct {
	Title         optional.Field[string]      `json:"title"`
	Description   optional.Field[*string]     `json:"description"`
	ClientName    optional.Field[*string]     `json:"client_name"`
	Status        optional.Field[string]      `json:"status"`
	Priority      optional.Field[string]      `json:"priority"`
	StartDate     optional.Field[*model.Date] `json:"start_date"`
	EndDate       optional.Field[*model.Date] `json:"end_date"`
	Budget        optional.Field[*float64]    `json:"budget"`
	RepositoryURL optional.Field[*string]     `json:"repository_url"`
	DemoURL       optional.Field[*string]     `json:"demo_url"`
	TechStack     optional.Field[[]string]    `json:"tech_stack"`
}

func NewProjectService(projectRepo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

func (s *ProjectService) Create(input CreateProjectInput) (*model.Project, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > 255 {
		return nil, ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = model.ProjectStatusPlanning
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !slices.Contains(model.ProjectStatuses, status) || !slices.Contains(model.Priorities, priority) {
		return nil, ErrInvalidInput
	}

	techStack := input.TechStack
	if techStack == nil {
		techStack = []string{}
	}

	project := &model.Project{
		UserID:        input.UserID,
		Title:         title,
		Description:   input.Description,
		ClientName:    input.ClientName,
		Status:        status,
		Priority:      priority,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Budget:        input.Budget,
		RepositoryURL: input.RepositoryURL,
		DemoURL:       input.DemoURL,
		TechStack:     techStack,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) List(userID uint, filter repository.ProjectFilter) ([]model.Project, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.projectRepo.ListByUserID(userID, filter)
}

func (s *ProjectService) Get(userID, projectID uint) (*model.Project, error) {
	if userID == 0 || projectID == 0 {
		return nil, ErrInvalidInput
	}
	project, err := s.projectRepo.GetByIDAndUserID(projectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) Update(userID, projectID uint, patch ProjectPatch) (*model.Project, error) {
	project, err := s.Get(userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := validateProjectPatch(patch); err != nil {
		return nil, err
	}

	if patch.Title.Set {
		project.Title = strings.TrimSpace(patch.Title.Value)
	}
	if patch.Description.Set {
		project.Description = patch.Description.Value
	}
	if patch.ClientName.Set {
		project.ClientName = patch.ClientName.Value
	}
	if patch.Status.Set {
		project.Status = patch.Status.Value
	}
	if patch.Priority.Set {
		project.Priority = patch.Priority.Value
	}
	if patch.StartDate.Set {
		project.StartDate = patch.StartDate.Value
	}
	if patch.EndDate.Set {
		project.EndDate = patch.EndDate.Value
	}
	if patch.Budget.Set {
		project.Budget = patch.Budget.Value
	}
	if patch.RepositoryURL.Set {
		project.RepositoryURL = patch.RepositoryURL.Value
	}
	if patch.DemoURL.Set {
		project.DemoURL = patch.DemoURL.Value
	}
	if patch.TechStack.Set {
		project.TechStack = patch.TechStack.Value
		if project.TechStack == nil {
			project.TechStack = []string{}
		}
	}

	now := time.Now()
	project.UpdatedAt = &now
	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(userID, projectID uint) error {
	project, err := s.Get(userID, projectID)
	if err != nil {
		return err
	}
	return s.projectRepo.DeleteCascade(project.ID)
}

func (s *ProjectService) Stats(userID uint) (*model.ProjectStats, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.projectRepo.StatsByUserID(userID)
}

func validateProjectPatch(patch ProjectPatch) error {
	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		if title == "" || len(title) > 255 {
			return ErrInvalidInput
		}
	}
	if patch.Status.Set && !slices.Contains(model.ProjectStatuses, patch.Status.Value) {
		return ErrInvalidInput
	}
	if patch.Priority.Set && !slices.Contains(model.Priorities, patch.Priority.Value) {
		return ErrInvalidInput
	}
	if patch.ClientName.Set && patch.ClientName.Value != nil && len(*patch.ClientName.Value) > 100 {
		return ErrInvalidInput
	}
	if patch.RepositoryURL.Set && patch.RepositoryURL.Value != nil && len(*patch.RepositoryURL.Value) > 500 {
		return ErrInvalidInput
	}
	if patch.DemoURL.Set && patch.DemoURL.Value != nil && len(*patch.DemoURL.Value) > 500 {
		return ErrInvalidInput
	}
	return nil
}
