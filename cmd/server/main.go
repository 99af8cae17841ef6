package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/cache"
	"github.com/SAP-F-2025/issue-service/internal/config"
	"github.com/SAP-F-2025/issue-service/internal/events"
	"github.com/SAP-F-2025/issue-service/internal/handlers"
	"github.com/SAP-F-2025/issue-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/issue-service/internal/services"
	"github.com/SAP-F-2025/issue-service/internal/utils"
	"github.com/SAP-F-2025/issue-service/internal/validator"
	"github.com/SAP-F-2025/issue-service/pkg"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := utils.NewServiceLogger(cfg.IsProduction())
	slog.SetDefault(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	repo := postgres.NewRepository(db)

	var publisher events.EventPublisher
	if cfg.Events.Enabled {
		publisher, err = cfg.Events.CreateEventPublisher(logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}
	bus := events.NewBus(publisher, logger.With("component", "lifecycle_bus"))

	var cacheService cache.CacheService
	if cfg.Notification.UsesRedis() {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	var guard services.DedupGuard
	if cfg.Notification.DedupBackend == "redis" {
		guard = services.NewRedisDedupGuard(cacheService, cfg.Notification.DedupWindow)
	} else {
		guard = services.NewStoreDedupGuard(repo.Notification(), cfg.Notification.DedupWindow)
	}

	var counts *services.UnreadCountCache
	if cfg.Notification.CacheUnreadCounts {
		counts = services.NewUnreadCountCache(cacheService, cfg.Notification.UnreadCountTTL, logger.With("component", "unread_count_cache"))
	}

	serviceManager := services.NewServiceManager(repo, bus, guard, counts, validator.New(), logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlerLogger := utils.NewSlogLogger(logger)
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(handlerLogger), utils.ContextLogger(handlerLogger))

	auth := handlers.AuthMiddleware(cfg.Auth, repo.Directory(), handlerLogger)
	handlers.NewHandlerManager(serviceManager, auth, handlerLogger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "auth_provider", cfg.Auth.Provider)
		serverErrors <- server.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-signals:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
	return nil
}
