package app

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"projectboard/internal/model"
	"projectboard/internal/repository"
)

// newTestDB opens a named in-memory database so every pooled connection sees
// the same data within one test while tests stay isolated from each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Project{}, &model.Task{}))
	return db
}

func newTestServices(t *testing.T) (*gorm.DB, *ProjectService, *TaskService) {
	t.Helper()

	db := newTestDB(t)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	return db, NewProjectService(projectRepo), NewTaskService(taskRepo, projectRepo)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		Username:     "user-" + email,
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func strptr(s string) *string { return &s }
