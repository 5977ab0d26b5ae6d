package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/vardkurs/coursegen-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName     string
	WorkflowHandler *handlers.WorkflowHandler
	MediaHandler    *handlers.MediaHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Courses
		api.POST("/courses", cfg.WorkflowHandler.CreateCourse)
		api.GET("/courses", cfg.WorkflowHandler.ListCourses)
		api.GET("/courses/:id", cfg.WorkflowHandler.GetCourse)
		api.DELETE("/courses/:id", cfg.WorkflowHandler.DeleteCourse)
		// Workflow
		api.GET("/courses/:id/workflow", cfg.WorkflowHandler.GetWorkflow)
		api.POST("/courses/:id/steps/:step/generate", cfg.WorkflowHandler.GenerateStep)
		api.POST("/courses/:id/steps/:step/regenerate", cfg.WorkflowHandler.RegenerateStep)
		api.POST("/courses/:id/steps/:step/skip", cfg.WorkflowHandler.SkipStep)
		api.POST("/courses/:id/advance", cfg.WorkflowHandler.Advance)
		api.POST("/courses/:id/goto", cfg.WorkflowHandler.GoTo)
		api.POST("/courses/:id/reset", cfg.WorkflowHandler.Reset)
		api.POST("/courses/:id/title", cfg.WorkflowHandler.SelectTitle)
		api.PUT("/courses/:id/settings", cfg.WorkflowHandler.UpdateSettings)
		api.PUT("/courses/:id/video-settings", cfg.WorkflowHandler.UpdateVideoSettings)
		api.POST("/courses/:id/videos/poll", cfg.WorkflowHandler.PollVideos)
		// Export
		api.POST("/courses/:id/export", cfg.WorkflowHandler.StartExport)
		api.GET("/courses/:id/export", cfg.WorkflowHandler.PollExport)
		// Media catalogs
		api.GET("/voices", cfg.MediaHandler.ListVoices)
		api.GET("/avatars", cfg.MediaHandler.ListAvatars)
		api.GET("/media/photos", cfg.MediaHandler.SearchPhotos)
	}

	return router
}
