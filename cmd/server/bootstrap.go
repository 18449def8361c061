package main

import (
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/config"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/handlers"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/services"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/utils"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/logger"
)

// appServices holds the long-lived services and handlers wired at startup.
type appServices struct {
	aiService      *services.AIService
	cleanupService *services.CleanupService
	taskQueue      services.TaskQueue
	worker         *services.Worker
	authHandler    *handlers.AuthHandler
	aiHandler      *handlers.AIHandler
}

// bootstrap initializes all application dependencies: database, queue,
// schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Task queue (Redis-backed if enabled, otherwise in-process)
	taskQueue := services.InitTaskQueue(cfg)
	aiService := services.NewAIService(db, &cfg.AI, taskQueue)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(aiService.ProcessGeneration)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(aiService.ProcessGeneration)
			worker.Start()
		}
	}

	cleanupService := services.NewCleanupService(db)
	cleanupService.StartScheduler()

	return &appServices{
		aiService:      aiService,
		cleanupService: cleanupService,
		taskQueue:      taskQueue,
		worker:         worker,
		authHandler:    handlers.NewAuthHandler(db, &cfg.JWT),
		aiHandler:      handlers.NewAIHandler(aiService),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.cleanupService.StopScheduler()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}
