package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "projectboard/internal/app"
	"projectboard/internal/bootstrap"
	"projectboard/internal/cache"
	"projectboard/internal/repository"
	"projectboard/internal/transport/http/handler"
	"projectboard/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(app.Config.CORS.AllowedOrigins))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	projectRepo := repository.NewProjectRepository(app.MySQL)
	taskRepo := repository.NewTaskRepository(app.MySQL)

	revoker := cache.NewTokenRevoker(app.Redis)
	authService := appsvc.NewAuthService(
		userRepo,
		revoker,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	projectService := appsvc.NewProjectService(projectRepo)
	taskService := appsvc.NewTaskService(taskRepo, projectRepo)

	registerAPIRoutes(router, authService, projectService, taskService)
	return router
}

func registerAPIRoutes(
	router *gin.Engine,
	authService *appsvc.AuthService,
	projectService *appsvc.ProjectService,
	taskService *appsvc.TaskService,
) {
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)

	authRequired := middleware.AuthJWT(authService)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authRequired, authHandler.Logout)
	authGroup.GET("/me", authRequired, authHandler.Me)

	projectGroup := v1.Group("/projects")
	projectGroup.Use(authRequired)
	projectGroup.GET("", projectHandler.List)
	projectGroup.POST("", projectHandler.Create)
	projectGroup.GET("/stats", projectHandler.Stats)
	projectGroup.GET("/:project_id", projectHandler.Get)
	projectGroup.PUT("/:project_id", projectHandler.Update)
	projectGroup.DELETE("/:project_id", projectHandler.Delete)
	projectGroup.GET("/:project_id/tasks", taskHandler.ListForProject)
	projectGroup.POST("/:project_id/tasks", taskHandler.Create)
	projectGroup.GET("/:project_id/tasks/stats", taskHandler.StatsForProject)

	taskGroup := v1.Group("/tasks")
	taskGroup.Use(authRequired)
	taskGroup.GET("/:task_id", taskHandler.Get)
	taskGroup.PUT("/:task_id", taskHandler.Update)
	taskGroup.DELETE("/:task_id", taskHandler.Delete)
}
