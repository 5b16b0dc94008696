package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-flow-api/internal/cache"
	"task-flow-api/internal/client"
	"task-flow-api/internal/config"
	"task-flow-api/internal/database"
	"task-flow-api/internal/handler"
	"task-flow-api/internal/metrics"
	"task-flow-api/internal/middleware"
	"task-flow-api/internal/repository"
	"task-flow-api/internal/service"
)

// Setup wires repositories, services and handlers and returns the engine
func Setup(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	engine := gin.New()
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.CORS(nil))
	engine.Use(middleware.Metrics(m))

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	stateRepo := repository.NewStateRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Shared infrastructure
	workflowCache := cache.NewWorkflowCache(redisClient, logger)
	notiClient := client.NewNotificationClient(cfg.NotiAPI.BaseURL, cfg.NotiAPI.Timeout, logger)

	// Services
	projectService := service.NewProjectService(projectRepo)
	stateService := service.NewStateService(stateRepo, projectRepo)
	workflowService := service.NewWorkflowService(workflowRepo, stateRepo, projectRepo, workflowCache)
	taskTypeService := service.NewTaskTypeService(taskTypeRepo, workflowRepo, projectRepo)
	fieldService := service.NewFieldService(fieldRepo, taskTypeRepo, projectRepo)
	taskService := service.NewTaskService(
		taskRepo, taskTypeRepo, workflowRepo, fieldRepo, projectRepo,
		workflowCache, notiClient, m, logger, cfg.Tasks.StrictFieldPersistence)

	// Handlers
	projectHandler := handler.NewProjectHandler(projectService)
	stateHandler := handler.NewStateHandler(stateService)
	workflowHandler := handler.NewWorkflowHandler(workflowService)
	taskTypeHandler := handler.NewTaskTypeHandler(taskTypeService)
	fieldHandler := handler.NewFieldHandler(fieldService)
	taskHandler := handler.NewTaskHandler(taskService)

	base := engine.Group(cfg.Server.BasePath)

	base.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	base.GET("/ready", func(c *gin.Context) {
		if !database.IsConnected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database not connected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	base.GET("/metrics", gin.WrapH(promhttp.Handler()))
	base.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authorized := base.Group("")
	authorized.Use(middleware.Auth(cfg.JWT.Secret))
	{
		projects := authorized.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:projectId", projectHandler.GetProject)
			projects.PUT("/:projectId", projectHandler.UpdateProject)
			projects.DELETE("/:projectId", projectHandler.DeleteProject)
			projects.GET("/:projectId/members", projectHandler.ListMembers)
			projects.POST("/:projectId/members", projectHandler.AddMember)
			projects.DELETE("/:projectId/members/:userId", projectHandler.RemoveMember)
			projects.GET("/:projectId/states", stateHandler.ListStates)
			projects.PUT("/:projectId/states/reorder", stateHandler.ReorderStates)
			projects.GET("/:projectId/workflows", workflowHandler.ListWorkflows)
			projects.GET("/:projectId/task-types", taskTypeHandler.ListTaskTypes)
			projects.GET("/:projectId/fields", fieldHandler.ListFields)
			projects.GET("/:projectId/tasks", taskHandler.ListTasks)
		}

		states := authorized.Group("/states")
		{
			states.POST("", stateHandler.CreateState)
			states.PUT("/:stateId", stateHandler.UpdateState)
			states.DELETE("/:stateId", stateHandler.DeleteState)
		}

		workflows := authorized.Group("/workflows")
		{
			workflows.POST("", workflowHandler.CreateWorkflow)
			workflows.GET("/:workflowId", workflowHandler.GetWorkflow)
			workflows.PUT("/:workflowId", workflowHandler.UpdateWorkflow)
			workflows.DELETE("/:workflowId", workflowHandler.DeleteWorkflow)
		}

		taskTypes := authorized.Group("/task-types")
		{
			taskTypes.POST("", taskTypeHandler.CreateTaskType)
			taskTypes.PUT("/:taskTypeId", taskTypeHandler.UpdateTaskType)
			taskTypes.DELETE("/:taskTypeId", taskTypeHandler.DeleteTaskType)
			taskTypes.GET("/:taskTypeId/fields", fieldHandler.ListAssignedFields)
			taskTypes.PUT("/:taskTypeId/fields", fieldHandler.AssignFields)
		}

		fields := authorized.Group("/fields")
		{
			fields.POST("", fieldHandler.CreateField)
			fields.PUT("/:fieldId", fieldHandler.UpdateField)
			fields.DELETE("/:fieldId", fieldHandler.DeleteField)
		}

		tasks := authorized.Group("/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:taskId", taskHandler.GetTask)
			tasks.PUT("/:taskId", taskHandler.UpdateTask)
			tasks.DELETE("/:taskId", taskHandler.DeleteTask)
		}
	}

	return engine
}
