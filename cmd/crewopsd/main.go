package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewops-backend/config"
	"crewops-backend/internal/api"
	"crewops-backend/internal/db"
	"crewops-backend/internal/directory"
	"crewops-backend/internal/notification"
	"crewops-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	logger := log.New(os.Stdout, "crewops-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// A missing VAPID pair or signing key disables the respective
	// channel instead of aborting startup; deliveries report skipped.
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Printf("VAPID keys not configured; web push channel disabled")
	}
	if cfg.NativePush.SigningKey == "" {
		logger.Printf("native push signing key not configured; native channel disabled")
	}

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	dir := directory.New(gormDB)

	registry, err := notification.NewRegistry()
	if err != nil {
		logger.Fatalf("failed to build event registry: %v", err)
	}

	webDriver := notification.NewWebPushDriver(&cfg.Push, appStore)
	nativeDriver, err := notification.NewNativePushDriver(&cfg.NativePush, appStore)
	if err != nil {
		logger.Fatalf("failed to initialize native push driver: %v", err)
	}

	dispatcher := notification.NewDispatcher(appStore, dir, registry, webDriver, nativeDriver)

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, dispatcher)
	pool.Start(ctx)
	logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)

	handler := api.NewHandler(appStore, webpushOptions, dispatcher, pool)
	router := api.NewRouter(handler, cfg.Server.RateLimitPerSec, time.Duration(cfg.Server.CacheTTLSeconds)*time.Second)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
