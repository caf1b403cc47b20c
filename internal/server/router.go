package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/handlers"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	SubmissionHandler   *handlers.SubmissionHandler
	WorkflowHandler     *handlers.WorkflowHandler
	NotificationHandler *handlers.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/submissions", cfg.SubmissionHandler.Create)
	api.GET("/submissions", cfg.SubmissionHandler.ListMine)
	api.GET("/submissions/queue", cfg.SubmissionHandler.ListByStage)
	api.GET("/submissions/:id", cfg.SubmissionHandler.Get)
	api.GET("/submissions/:id/stages", cfg.SubmissionHandler.StageHistory)

	api.POST("/submissions/:id/review", cfg.WorkflowHandler.SubmitReview)
	api.PATCH("/submissions/:id/stage", cfg.WorkflowHandler.SetStage)
	api.POST("/submissions/:id/editor", cfg.WorkflowHandler.AssignEditor)

	api.GET("/notifications", cfg.NotificationHandler.ListMine)

	return router
}
