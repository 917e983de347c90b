package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/export/google"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// .env is for local development; missing file is fine.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("starting fintrack worker", log.FieldOperation, log.OpStartup)

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
	txService := services.NewTransactionService(repo, txCache, logger)
	rwService := services.NewRewardsService(repo, logger)

	importWorker := worker.NewImportWorker(repo, rwService, txService, cfg.ImportBatchSize, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeStatementImports(ctx, func(msg *amqp.StatementImportMessage) error {
			return importWorker.HandleStatementImport(ctx, msg)
		})
	})

	if cfg.SheetsExportEnabled() {
		sheetsClient, err := google.NewClient(ctx, google.Config{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			SheetName:     cfg.GoogleSheetName,
			ClientFile:    cfg.GoogleOAuthClientFile,
			ClientJSON:    cfg.GoogleOAuthClientJSON,
			TokenFile:     cfg.GoogleOAuthTokenFile,
			TokenJSON:     cfg.GoogleOAuthTokenJSON,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)

		exportWorker := worker.NewExportWorker(repo, sheetsClient, amqpClient, cfg.ExportBatchSize, cfg.ExportInterval, logger)
		g.Go(func() error {
			return exportWorker.RunPublisher(ctx)
		})
		g.Go(func() error {
			return amqpClient.ConsumeTransactionExports(ctx, func(msg *amqp.TransactionExportMessage) error {
				return exportWorker.HandleTransactionExport(ctx, msg)
			})
		})
	} else {
		logger.Info("Google Sheets export disabled, no spreadsheet configured")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("fintrack worker stopped", log.FieldOperation, log.OpShutdown)
}
