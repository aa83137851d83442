package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	appsvc "projectboard/internal/app"
	"projectboard/internal/model"
	"projectboard/internal/repository"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// memoryRevoker stands in for the Redis-backed store in tests.
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func newMemoryRevoker() *memoryRevoker {
	return &memoryRevoker{revoked: make(map[string]struct{})}
}

func (m *memoryRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = struct{}{}
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Project{}, &model.Task{}))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := appsvc.NewAuthService(userRepo, newMemoryRevoker(), "test-secret", time.Hour)
	projectService := appsvc.NewProjectService(projectRepo)
	taskService := appsvc.NewTaskService(taskRepo, projectRepo)

	router := gin.New()
	registerAPIRoutes(router, authService, projectService, taskService)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func registerUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"username": "tester",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var resp envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createProject(t *testing.T, router *gin.Engine, token, title string) model.Project {
	t.Helper()

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/projects", token, gin.H{"title": title})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var resp envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	var project model.Project
	require.NoError(t, json.Unmarshal(resp.Data, &project))
	return project
}

func TestRequestsWithoutCredentialAreRejected(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/projects", "/api/v1/projects/stats", "/api/v1/tasks/1"} {
		recorder := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, path)
	}

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/projects", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProjectVisibilityAcrossUsers(t *testing.T) {
	router := newTestRouter(t)
	tokenA := registerUser(t, router, "a@example.com")
	tokenB := registerUser(t, router, "b@example.com")

	project := createProject(t, router, tokenA, "Site redesign")

	recorder := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", project.ID), tokenA, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var resp envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	var got model.Project
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, model.ProjectStatusPlanning, got.Status)

	// Existing-but-foreign and plain missing both read as 404 for projects.
	recorder = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", project.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", project.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", project.ID), tokenA, nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestTaskForbiddenVersusNotFoundOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	tokenA := registerUser(t, router, "a@example.com")
	tokenB := registerUser(t, router, "b@example.com")

	project := createProject(t, router, tokenA, "Site redesign")

	recorder := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/tasks", project.ID), tokenA, gin.H{
		"project_id": project.ID,
		"title":      "wireframes",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var resp envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	var task model.Task
	require.NoError(t, json.Unmarshal(resp.Data, &task))

	recorder = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", task.ID), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code, "known task id under a foreign project is forbidden, not missing")

	recorder = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", task.ID+1000), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/tasks", project.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code, "listing a foreign project's tasks is 404")
}

func TestTaskCreateBodyPathMismatchIs400(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "a@example.com")
	project := createProject(t, router, token, "Site redesign")

	recorder := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/tasks", project.ID), token, gin.H{
		"project_id": project.ID + 1,
		"title":      "wireframes",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/tasks", project.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var resp envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(resp.Data, &tasks))
	assert.Empty(t, tasks)
}

func TestPartialUpdateOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "a@example.com")
	project := createProject(t, router, token, "Site redesign")

	recorder := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d", project.ID), token,
		json.RawMessage(`{"status":"in_progress","description":null}`))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	var updated model.Project
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, model.ProjectStatusInProgress, updated.Status)
	assert.Equal(t, "Site redesign", updated.Title)
	assert.NotNil(t, updated.UpdatedAt)

	recorder = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d", project.ID), token,
		json.RawMessage(`{"status":"shipped"}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestProjectStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "a@example.com")

	createProject(t, router, token, "one")
	createProject(t, router, token, "two")

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/projects/stats", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	var stats model.ProjectStats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.Planning)
}

func TestLogoutRevokesToken(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "a@example.com")

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code, "revoked token no longer authenticates")
}

func TestLoginFlow(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "a@example.com")

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "a@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "a@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "a@example.com",
		"username": "dup",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code, "duplicate email is rejected")
}
