package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"parliament-sync-service/internal/api"
	"parliament-sync-service/internal/client"
	"parliament-sync-service/internal/config"
	"parliament-sync-service/internal/database"
	"parliament-sync-service/internal/logger"
	"parliament-sync-service/internal/parliament"
	"parliament-sync-service/internal/store"
	"parliament-sync-service/internal/sync"
)

func main() {
	// Load Config
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Init Logger
	if err := logger.InitLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("Starting Parliament Sync Service")

	// Init Store
	db, err := database.NewDatabase(cfg.StateStorage)
	if err != nil {
		logger.Log.Fatal("Failed to init database", zap.Error(err))
	}
	dataStore := store.NewMySQLStore(db)
	defer dataStore.Close()

	// Init Upstream Gateway behind the shared rate-limited client
	limiter := client.NewLimiter(cfg.Fetch.RateLimit, cfg.Fetch.GetRateInterval())
	fetchClient := client.New(limiter, cfg.Fetch.MaxRetries, cfg.Fetch.GetBackoffBase())
	gateway := parliament.NewGateway(fetchClient, cfg.Upstream)

	// Init Sync Manager + Scheduler
	syncManager := sync.NewManager(cfg, dataStore, gateway)
	scheduler := sync.NewScheduler(cfg.Scheduler, syncManager)
	scheduler.Start()

	// Init API
	handler := api.NewHandler(syncManager, cfg.Server.AuthToken)
	router := handler.Routes()

	// Start Server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	scheduler.Stop()
	fetchClient.Drain()
	// server.Shutdown(ctx) could be added here
}
