package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/undergroundpost/touchbase/internal/api"
	"github.com/undergroundpost/touchbase/internal/config"
	"github.com/undergroundpost/touchbase/internal/logger"
	"github.com/undergroundpost/touchbase/internal/repository"
	"github.com/undergroundpost/touchbase/internal/service"
	"github.com/undergroundpost/touchbase/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	contactRepo := repository.NewContactRepository(db)
	tagRepo := repository.NewTagRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	commRepo := repository.NewCommunicationRepository(db)
	leadgenRepo := repository.NewLeadgenRepository(db)
	scraperRepo := repository.NewScraperRepository(db)
	fileRepo := repository.NewFileRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Initialize object storage (supports S3, R2, MinIO)
	objectStorage, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}

	ctx := context.Background()

	// Ensure the attachment bucket exists before serving uploads
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.Fatalf("Failed to ensure storage bucket: %v", err)
	}

	// Initialize services
	contactService := service.NewContactService(contactRepo, tagRepo, activityRepo, commRepo)
	leadgenService := service.NewLeadgenService(
		leadgenRepo,
		contactRepo,
		scraperRepo,
		activityRepo,
		service.NewCompanyGenService(cfg.Leadgen.OpenAIBaseURL),
		service.NewVerifyService(cfg.Leadgen.SearchBaseURL),
		service.NewPeopleSearchService(cfg.Leadgen.ApolloBaseURL),
	)
	aiSearchService := service.NewAISearchService(
		cfg.AISearch.BaseURL,
		cfg.AISearch.APIKey,
		cfg.AISearch.Model,
		contactRepo,
		activityRepo,
	)

	// Sessions left running by a previous process have no goroutine
	// behind them anymore; fail them before accepting traffic.
	if err := leadgenService.Reconcile(ctx); err != nil {
		appLogger.Fatalf("Failed to reconcile leadgen sessions: %v", err)
	}

	// Setup router
	router := api.SetupRouter(&api.Services{
		Contacts:    contactService,
		Leadgen:     leadgenService,
		AISearch:    aiSearchService,
		Tags:        tagRepo,
		Activities:  activityRepo,
		Dashboard:   dashboardRepo,
		ContactRepo: contactRepo,
		LeadgenRepo: leadgenRepo,
		Scraper:     scraperRepo,
		Files:       fileRepo,
		Storage:     objectStorage,
	}, &cfg.Server, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.Infof("Starting API server on port %d (mode=%s)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
