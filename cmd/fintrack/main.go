package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	api "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/scheduler"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func main() {
	// .env is for local development; missing file is fine.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("starting fintrack API server", log.FieldOperation, log.OpStartup)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	amqpClient, err := amqp.NewClient(ctx, amqp.Config{
		URL:           cfg.AMQPURL,
		Exchange:      cfg.AMQPExchange,
		ImportQueue:   cfg.AMQPImportQueue,
		ExportQueue:   cfg.AMQPExportQueue,
		PrefetchCount: cfg.AMQPPrefetchCount,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	txCache := cache.NewLRUCache[[]core.Transaction](1000, 5*time.Minute)
	cacheManager := cache.NewManager()
	cacheManager.Register(txCache)
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	authService := auth.NewService(repo, cfg.SessionTTL, logger)
	txService := services.NewTransactionService(repo, txCache, logger)
	stService := services.NewStatementService(repo, amqpClient, cfg.UploadDir, cfg.MaxUploadSize, logger)
	rwService := services.NewRewardsService(repo, logger)

	sched := scheduler.New(repo, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", log.FieldError, err)
		os.Exit(1)
	}
	defer sched.Stop()

	server := api.NewServer(api.Config{
		Port:              cfg.Port,
		CORSOrigins:       cfg.CORSOrigins,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, api.Deps{
		Auth:         authService,
		Transactions: txService,
		Statements:   stService,
		Rewards:      rwService,
		AdminStore:   repo,
		ReadyCheck:   repo.Ping,
		Logger:       logger,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("fintrack API server stopped", log.FieldOperation, log.OpShutdown)
}
