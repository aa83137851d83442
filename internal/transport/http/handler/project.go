package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"projectboard/internal/app"
	"projectboard/internal/model"
	"projectboard/internal/repository"
	"projectboard/internal/transport/http/response"
)

type ProjectHandler struct {
	projectService *app.ProjectService
}

type CreateProjectRequest struct {
	Title         string      `json:"title" binding:"required,max=255"`
	Description   *string     `json:"description"`
	ClientName    *string     `json:"client_name" binding:"omitempty,max=100"`
	Status        string      `json:"status" binding:"omitempty,max=50"`
	Priority      string      `json:"priority" binding:"omitempty,max=20"`
	StartDate     *model.Date `json:"start_date"`
	EndDate       *model.Date `json:"end_date"`
	Budget        *float64    `json:"budget"`
	RepositoryURL *string     `json:"repository_url" binding:"omitempty,max=500"`
	DemoURL       *string     `json:"demo_url" binding:"omitempty,max=500"`
	TechStack     []string    `json:"tech_stack"`
}

func NewProjectHandler(projectService *app.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	projects, err := h.projectService.List(userID, repository.ProjectFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Skip:     queryInt(c, "skip", 0),
		Limit:    queryInt(c, "limit", 100),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list projects failed")
		}
		return
	}

	response.OK(c, projects)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	project, err := h.projectService.Create(app.CreateProjectInput{
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		ClientName:    req.ClientName,
		Status:        req.Status,
		Priority:      req.Priority,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Budget:        req.Budget,
		RepositoryURL: req.RepositoryURL,
		DemoURL:       req.DemoURL,
		TechStack:     req.TechStack,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create project failed")
		}
		return
	}

	response.Created(c, project)
}

func (h *ProjectHandler) Stats(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	stats, err := h.projectService.Stats(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "project stats failed")
		return
	}

	response.OK(c, stats)
}

func (h *ProjectHandler) Get(c *gin.Context) {
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

	project, err := h.projectService.Get(userID, projectID)
	if err != nil {
		respondProjectError(c, err, "get project failed")
		return
	}

	response.OK(c, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
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

	var patch app.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	project, err := h.projectService.Update(userID, projectID, patch)
	if err != nil {
		respondProjectError(c, err, "update project failed")
		return
	}

	response.OK(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
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

	if err := h.projectService.Delete(userID, projectID); err != nil {
		respondProjectError(c, err, "delete project failed")
		return
	}

	response.NoContent(c)
}

func respondProjectError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, response.CodeProjectNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	parsed, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
