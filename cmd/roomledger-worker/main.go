package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"roomledger/internal/amqp"
	"roomledger/internal/config"
	"roomledger/internal/docstore"
	"roomledger/internal/log"
	ports "roomledger/internal/sheets"
	gsheet "roomledger/internal/sheets/google"
	mem "roomledger/internal/sheets/memory"
	"roomledger/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	handler := log.NewHandler(cfg.LogFormat, log.ParseLevel(cfg.LogLevel))
	slog.SetDefault(slog.New(handler))
	logger := log.New(log.Config{Component: "worker", Handler: handler})

	logger.Info("Starting roomledger-worker")

	store, err := docstore.Open(docstore.Config{
		Type:         docstore.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresDSN:  cfg.PostgresDSN,
	}, slog.Default())
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var writer ports.ExpenseWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		writer = mem.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided - exports recorded in memory only")
	}

	exportWorker := worker.NewExportWorker(store, writer, cfg.ExportBatchSize)

	// Pick up expenses added while the worker was down.
	if err := exportWorker.StartupBackfill(ctx); err != nil {
		logger.Error("Startup backfill failed", "error", err)
		// Don't exit - queued messages can still be processed
	}

	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - no AMQP_URL provided, backfill complete, exiting")
		return
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.InstanceName)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	for {
		err := amqpClient.ConsumeExpenseExport(ctx, func(msg *amqp.ExpenseExportMessage) error {
			return exportWorker.HandleExportMessage(ctx, msg)
		})
		if ctx.Err() != nil {
			break
		}
		logger.Error("Message consumption failed, reconnecting", "error", err)
		if err := amqpClient.Reconnect(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("Reconnect failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Worker stopped gracefully")
}
