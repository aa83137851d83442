package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"projectboard/internal/app"
	"projectboard/internal/model"
	"projectboard/internal/repository"
	"projectboard/internal/transport/http/response"
)

type TaskHandler struct {
	taskService *app.TaskService
}

type CreateTaskRequest struct {
	ProjectID      uint        `json:"project_id" binding:"required,gt=0"`
	AssignedTo     *uint       `json:"assigned_to"`
	Title          string      `json:"title" binding:"required,max=255"`
	Description    *string     `json:"description"`
	Status         string      `json:"status" binding:"omitempty,max=50"`
	Priority       string      `json:"priority" binding:"omitempty,max=20"`
	DueDate        *model.Date `json:"due_date"`
	EstimatedHours *float64    `json:"estimated_hours"`
	ActualHours    *float64    `json:"actual_hours"`
}

func NewTaskHandler(taskService *app.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListForProject(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	projectID, ok := paramUint(c, "project_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid project id")
		return
	}

	tasks, err := h.taskService.ListForProject(userID, projectID, repository.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Skip:     queryInt(c, "skip", 0),
		Limit:    queryInt(c, "limit", 100),
	})
	if err != nil {
		respondTaskError(c, err, "list tasks failed")
		return
	}

	response.OK(c, tasks)
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	projectID, ok := paramUint(c, "project_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid project id")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	task, err := h.taskService.Create(userID, projectID, app.CreateTaskInput{
		ProjectID:      req.ProjectID,
		AssignedTo:     req.AssignedTo,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	})
	if err != nil {
		respondTaskError(c, err, "create task failed")
		return
	}

	response.Created(c, task)
}

func (h *TaskHandler) StatsForProject(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	projectID, ok := paramUint(c, "project_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid project id")
		return
	}

	stats, err := h.taskService.StatsForProject(userID, projectID)
	if err != nil {
		respondTaskError(c, err, "task stats failed")
		return
	}

	response.OK(c, stats)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	taskID, ok := paramUint(c, "task_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid task id")
		return
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		respondTaskError(c, err, "get task failed")
		return
	}

	response.OK(c, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	taskID, ok := paramUint(c, "task_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid task id")
		return
	}

	var patch app.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	task, err := h.taskService.Update(userID, taskID, patch)
	if err != nil {
		respondTaskError(c, err, "update task failed")
		return
	}

	response.OK(c, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	taskID, ok := paramUint(c, "task_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid task id")
		return
	}

	if err := h.taskService.Delete(userID, taskID); err != nil {
		respondTaskError(c, err, "delete task failed")
		return
	}

	response.NoContent(c)
}

func respondTaskError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrProjectIDMismatch):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, response.CodeProjectNotFound, err.Error())
	case errors.Is(err, app.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, response.CodeTaskNotFound, err.Error())
	case errors.Is(err, app.ErrTaskForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
