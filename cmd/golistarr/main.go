package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golistarr/internal/api"
	"golistarr/internal/config"
	"golistarr/internal/controllers"
	"golistarr/internal/models"
	"golistarr/internal/scheduler"
	"golistarr/internal/services/catalog"
	"golistarr/internal/services/filestore"
	"golistarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Golistarr")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize file store
	files, err := filestore.NewStore(cfg.FilesDir, db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize file store: %w", err)
	}

	// 5. Initialize catalog client
	catalogClient, err := catalog.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	logger.Info("Catalog client initialized")

	// 6. Initialize controllers
	peopleCtrl := controllers.NewPeopleController(db, catalogClient, logger)
	mediaCtrl := controllers.NewMediaController(db, catalogClient, peopleCtrl, logger)
	importCtrl := controllers.NewImportController(db, files, mediaCtrl, cfg.ImportWorkers, logger)
	listCtrl := controllers.NewListController(db, files, importCtrl, logger)
	analyticsCtrl := controllers.NewAnalyticsController(db, logger)
	cleanupCtrl := controllers.NewCleanupController(db, catalogClient, logger)
	logger.Info("Controllers initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Start import workers
	importCtrl.Start(ctx)
	defer importCtrl.Stop()

	// 8. Initialize scheduler
	sched := scheduler.NewScheduler(cleanupCtrl, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 9. Initialize HTTP server
	server := api.NewServer(cfg, files, listCtrl, analyticsCtrl, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 10. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Golistarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Golistarr stopped")
	return nil
}
