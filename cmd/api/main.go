package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "task-flow-api/docs"
	"task-flow-api/internal/config"
	"task-flow-api/internal/database"
	"task-flow-api/internal/job"
	"task-flow-api/internal/metrics"
	"task-flow-api/internal/repository"
	"task-flow-api/internal/router"
)

// @title Task Flow API
// @version 1.0
// @description Task tracking service with workflow transition and custom field validation
// @BasePath /api/tasks
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := initLogger(cfg.Logger.Level)
	defer logger.Sync()

	m := metrics.NewWithLogger(logger)

	dbCfg := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbCfg)
	if err != nil {
		logger.Warn("Initial database connection failed, retrying in background", zap.Error(err))
		database.NewAsync(dbCfg, 5*time.Second, logger)
		for database.GetDB() == nil {
			time.Sleep(time.Second)
		}
		db = database.GetDB()
	} else {
		if err := database.SafeAutoMigrate(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		database.SetDB(db)
		logger.Info("Database connected successfully")
	}

	database.RegisterMetricsCallbacks(db, m)
	dbStatsStop := database.StartDBStatsCollector(db, m)
	defer close(dbStatsStop)

	collector := metrics.NewBusinessMetricsCollector(db, m, logger)
	collector.Start()
	defer collector.Stop()

	redisClient, err := database.NewRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, workflow transition caching disabled", zap.Error(err))
		redisClient = nil
	}

	cleanup := job.NewCleanupJob(repository.NewTaskRepository(db), cfg.Tasks.CleanupSchedule, logger)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start cleanup job", zap.Error(err))
	}
	defer cleanup.Stop()

	engine := router.Setup(cfg, db, redisClient, m, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func initLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger
}
