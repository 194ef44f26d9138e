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

	"golang-idea-radar/internal/scheduler/config"
	delivery "golang-idea-radar/internal/scheduler/delivery/http"
	_ "golang-idea-radar/internal/scheduler/docs"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/migrations"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/postgres"
	"golang-idea-radar/pkg/redis"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduling service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Scheduling Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(postgresCfg, migrations.FS); err != nil {
			appLogger.Fatal("Failed to apply migrations", logger.ErrorField(err))
		}
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	scheduleRepo := repository.NewRunScheduleRepository(db.DB)
	runRepo := repository.NewScrapeRunRepository(db.DB)
	problemRepo := repository.NewProblemRepository(db.DB)
	sourceRepo := repository.NewSourceRepository(db.DB)
	controlRepo := repository.NewRunControlRepository(redisClient.Client)
	statsRepo := repository.NewStatsRepository(db.DB)

	// Initialize services
	runSvc := service.NewRunService(cfg, redisClient.Client, runRepo, problemRepo, controlRepo, appLogger)
	scheduleSvc := service.NewScheduleService(cfg, scheduleRepo, appLogger)
	problemSvc := service.NewProblemService(problemRepo, appLogger)
	sourceSvc := service.NewSourceService(sourceRepo, appLogger)
	statsSvc := service.NewStatsService(statsRepo, redisClient.Client, appLogger)
	schedulerSvc := service.NewSchedulerService(scheduleRepo, scheduleSvc, runSvc, appLogger, cfg.Scheduler.PollingInterval)

	// Start scheduler service
	go schedulerSvc.Start(ctx)

	// Initialize handlers and routes
	e := delivery.NewRouter(delivery.Handlers{
		Problems:  delivery.NewProblemHandler(problemSvc, runSvc, appLogger),
		Runs:      delivery.NewRunHandler(runSvc, appLogger),
		Schedules: delivery.NewScheduleHandler(scheduleSvc, appLogger),
		Sources:   delivery.NewSourceHandler(sourceSvc, appLogger),
		Stats:     delivery.NewStatsHandler(statsSvc, appLogger),
	})

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Idea Radar API
// @version 1.0
// @description Browse mined problems, trigger scrape runs and manage their schedules.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "scheduling-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-scheduler.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing scheduling-service CLI: %s\n", err)
		os.Exit(1)
	}
}
