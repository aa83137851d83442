package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"projectboard/internal/model"
)

// ProjectFilter narrows a user-scoped listing. The ownership predicate itself
// is not part of the filter: every query in this repository is already
// constrained by user_id.
type ProjectFilter struct {
	Status   string
	Priority string
	Search   string
	Skip     int
	Limit    int
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("create project failed: %w", err)
	}
	return nil
}

func (r *ProjectRepository) ListByUserID(userID uint, filter ProjectFilter) ([]model.Project, error) {
	query := r.db.Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	projects := make([]model.Project, 0)
	err := query.
		Order("updated_at DESC").
		Offset(clampSkip(filter.Skip)).
		Limit(clampLimit(filter.Limit)).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	return projects, nil
}

// GetByIDAndUserID reports a project that exists under another owner the same
// way as one that does not exist at all.
func (r *ProjectRepository) GetByIDAndUserID(projectID, userID uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project failed: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) Update(project *model.Project) error {
	if err := r.db.Save(project).Error; err != nil {
		return fmt.Errorf("update project failed: %w", err)
	}
	return nil
}

// DeleteCascade removes the project and all of its tasks in one transaction
// so a failure never leaves orphaned tasks behind.
func (r *ProjectRepository) DeleteCascade(projectID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, projectID).Error
	})
	if err != nil {
		return fmt.Errorf("delete project failed: %w", err)
	}
	return nil
}

func (r *ProjectRepository) StatsByUserID(userID uint) (*model.ProjectStats, error) {
	counts, err := countByStatus(r.db.Model(&model.Project{}).Where("user_id = ?", userID))
	if err != nil {
		return nil, fmt.Errorf("project stats failed: %w", err)
	}

	stats := &model.ProjectStats{}
	for status, count := range counts {
		stats.Total += count
		switch status {
		case model.ProjectStatusPlanning:
			stats.Planning = count
		case model.ProjectStatusInProgress:
			stats.InProgress = count
		case model.ProjectStatusCompleted:
			stats.Completed = count
		case model.ProjectStatusOnHold:
			stats.OnHold = count
		case model.ProjectStatusCancelled:
			stats.Cancelled = count
		}
	}
	return stats, nil
}

type statusCount struct {
	Status string
	Count  int64
}

func countByStatus(query *gorm.DB) (map[string]int64, error) {
	var rows []statusCount
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func clampSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
