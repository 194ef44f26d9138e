package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/delivery/consumer"
	"golang-idea-radar/internal/executor/repository"
	"golang-idea-radar/internal/executor/service"
	"golang-idea-radar/internal/executor/strategy"
	"golang-idea-radar/migrations"
	"golang-idea-radar/pkg/common"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/postgres"
	"golang-idea-radar/pkg/redis"
	"golang-idea-radar/pkg/telegram"

	"google.golang.org/genai"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the execution service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	appLogger.Info("Starting Execution Service", zap.String("name", cfg.App.Name))

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
			appLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
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
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	if err := redisClient.EnsureGroup(ctx, common.RedisStreamRunExecution, common.RedisStreamGroup); err != nil {
		appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
	}

	// Initialize repositories
	sourceRepo := repository.NewSourceRepository(db.DB)
	discussionRepo := repository.NewDiscussionRepository(db.DB)
	problemRepo := repository.NewProblemRepository(db.DB)
	runRepo := repository.NewScrapeRunRepository(db.DB)
	claimRepo := repository.NewClaimRepository(redisClient.Client)
	controlRepo := repository.NewRunControlRepository(redisClient.Client)
	searchRepo := repository.NewTavilySearchRepository(cfg, appLogger)

	seeds, err := seedSources(cfg.Sources)
	if err != nil {
		appLogger.Fatal("Invalid source seed configuration", zap.Error(err))
	}
	created, err := sourceRepo.EnsureSeeded(ctx, seeds)
	if err != nil {
		appLogger.Fatal("Failed to seed sources", zap.Error(err))
	}
	appLogger.Info("Sources seeded", logger.IntField("created", created), logger.IntField("configured", len(seeds)))

	// Initialize AI provider
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "anthropic", "":
		repo, err := repository.NewAnthropicAIRepository(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize Anthropic AI repository", zap.Error(err))
		}
		aiRepo = repo
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", zap.Error(err))
		}
		aiRepo = repo
	default:
		appLogger.Fatal("Invalid AI provider specified in config", zap.String("provider", cfg.AI.Provider))
	}

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize strategies
	fetchers := []strategy.SourceFetchStrategy{
		strategy.NewRedditStrategy(cfg, appLogger),
		strategy.NewHackerNewsStrategy(cfg, appLogger),
		strategy.NewRSSStrategy(cfg, appLogger),
	}

	// Initialize services
	orchestrator := service.NewOrchestrator(cfg, appLogger, sourceRepo, discussionRepo, problemRepo, claimRepo, controlRepo, aiRepo, searchRepo, fetchers)
	executorSvc := service.NewExecutorService(cfg, redisClient.Client, runRepo, problemRepo, controlRepo, orchestrator, notifier, appLogger)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, executorSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Execution service started. Waiting for runs...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down execution service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Execution service stopped.")
}

func seedSources(seeds []config.SeedSource) ([]entity.Source, error) {
	sources := make([]entity.Source, 0, len(seeds))
	for _, s := range seeds {
		raw, err := json.Marshal(s.Config)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", s.Name, err)
		}
		sources = append(sources, entity.Source{
			Name:     s.Name,
			Type:     entity.SourceType(s.Type),
			Config:   datatypes.JSON(raw),
			IsActive: s.IsActive,
		})
	}
	return sources, nil
}

func main() {
	rootCmd := &cobra.Command{Use: "execution-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-executor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing execution-service CLI: %s\n", err)
		os.Exit(1)
	}
}
