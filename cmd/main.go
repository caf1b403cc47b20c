package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/analysis"
	openaiclient "github.com/arunlc/AI-Writing-Companion-sub001/internal/clients/openai"
	redisclient "github.com/arunlc/AI-Writing-Companion-sub001/internal/clients/redis"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/db"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/handlers"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/jobs"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/jobs/worker"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/middleware"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/server"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/services"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	addr := utils.GetEnv("SERVER_ADDR", ":8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	submissionRepo := repos.NewSubmissionRepo(thePG, log)
	stageRepo := repos.NewWorkflowStageRepo(thePG, log)
	runRepo := repos.NewAnalysisRunRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// Clients
	var llm analysis.LLM
	if aiClient, aiErr := openaiclient.NewClient(log); aiErr != nil {
		log.Warn("OpenAI client unavailable, analyzers run on fallbacks", "error", aiErr)
	} else {
		llm = services.NewLLMAnalyzer(log, aiClient)
	}

	var bus redisclient.EventBus
	if b, busErr := redisclient.NewEventBus(log); busErr != nil {
		log.Warn("Redis event bus unavailable, notifications stay local", "error", busErr)
	} else {
		bus = b
		defer bus.Close()
	}

	// Services
	log.Info("Setting up services...")
	notifier := services.NewNotifier(log, notificationRepo, bus)
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	workflowService := services.NewWorkflowService(thePG, log, submissionRepo, stageRepo, userRepo, notifier)
	submissionService := services.NewSubmissionService(thePG, log, submissionRepo, runRepo, workflowService)

	cache := analysis.NewResultCache(analysis.DefaultCacheTTL)
	orchestrator := analysis.NewOrchestrator(log, llm, cache)

	// Job worker
	registry := jobs.NewRegistry()
	registry.Register(types.JobTypeSubmissionAnalysis,
		jobs.NewAnalyzeSubmissionHandler(log, submissionRepo, orchestrator, workflowService))
	jobWorker := worker.NewWorker(thePG, log, runRepo, registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	jobWorker.Start(ctx)

	// Consume events published by other instances. Nothing pushes to
	// clients yet, so received events are only traced.
	if bus != nil {
		if err := bus.Subscribe(ctx, func(event redisclient.WorkflowEvent) {
			log.Debug("Workflow event received",
				"type", event.Type,
				"submission_id", event.SubmissionID,
				"user_id", event.UserID,
			)
		}); err != nil {
			log.Warn("Workflow event subscription failed", "error", err)
		}
	}

	// HTTP
	authHandler := handlers.NewAuthHandler(log, authService)
	submissionHandler := handlers.NewSubmissionHandler(log, submissionService, workflowService)
	workflowHandler := handlers.NewWorkflowHandler(log, workflowService)
	notificationHandler := handlers.NewNotificationHandler(log, notifier)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		SubmissionHandler:   submissionHandler,
		WorkflowHandler:     workflowHandler,
		NotificationHandler: notificationHandler,
		AuthMiddleware:      authMiddleware,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("Shutdown signal received")
		cancel()
	}()

	log.Info("Starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
