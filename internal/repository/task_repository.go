package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"projectboard/internal/model"
)

type TaskFilter struct {
	Status   string
	Priority string
	Skip     int
	Limit    int
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(task *model.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task failed: %w", err)
	}
	return nil
}

// ListByProjectID assumes the caller already verified ownership of the
// project; tasks carry no owner column of their own.
func (r *TaskRepository) ListByProjectID(projectID uint, filter TaskFilter) ([]model.Task, error) {
	query := r.db.Where("project_id = ?", projectID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	tasks := make([]model.Task, 0)
	err := query.
		Order("created_at ASC").
		Offset(clampSkip(filter.Skip)).
		Limit(clampLimit(filter.Limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks failed: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByID(taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task failed: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) Update(task *model.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("update task failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(taskID uint) error {
	if err := r.db.Delete(&model.Task{}, taskID).Error; err != nil {
		return fmt.Errorf("delete task failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) StatsByProjectID(projectID uint) (*model.TaskStats, error) {
	counts, err := countByStatus(r.db.Model(&model.Task{}).Where("project_id = ?", projectID))
	if err != nil {
		return nil, fmt.Errorf("task stats failed: %w", err)
	}

	stats := &model.TaskStats{}
	for status, count := range counts {
		stats.Total += count
		switch status {
		case model.TaskStatusTodo:
			stats.Todo = count
		case model.TaskStatusInProgress:
			stats.InProgress = count
		case model.TaskStatusCompleted:
			stats.Completed = count
		case model.TaskStatusBlocked:
			stats.Blocked = count
		}
	}
	return stats, nil
}
