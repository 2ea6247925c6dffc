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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"roomledger/internal/amqp"
	"roomledger/internal/cache"
	"roomledger/internal/config"
	"roomledger/internal/docstore"
	apphttp "roomledger/internal/http"
	"roomledger/internal/identity"
	"roomledger/internal/log"
	"roomledger/internal/services"
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
	logger := log.New(log.Config{Component: "main", Handler: handler})

	logger.Info("Starting roomledger", "port", cfg.Port, "backend", cfg.DataBackend)

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

	// The AMQP bridge is optional: without it the app is fully functional
	// but changes only reach clients of this instance.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.InstanceName)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("AMQP change bridge connected", "exchange", cfg.AMQPExchange, "instance", cfg.InstanceName)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided, running standalone")
	}

	var hub *docstore.Hub
	var publisher services.ExportPublisher
	if amqpClient != nil {
		hub = docstore.NewHub(amqpClient)
		publisher = amqpClient
	} else {
		hub = docstore.NewHub(nil)
	}

	waterDuty := services.NewWaterDutyService(store, hub)
	expenses := services.NewExpenseService(store, hub, publisher)
	roommates := services.NewRoommateService(store, hub, waterDuty)
	analytics := services.NewAnalyticsService(store, hub)

	cacheManager := cache.NewManager()
	analytics.RegisterCaches(cacheManager)
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	svc := apphttp.Services{
		Budget:    services.NewBudgetService(store, hub),
		Expenses:  expenses,
		Roommates: roommates,
		Cleaning:  services.NewCleaningService(store, hub),
		WaterDuty: waterDuty,
		Analytics: analytics,
		Reset:     services.NewResetService(expenses, roommates),
		Identity:  identity.NewStore(cfg.IdentityFilePath),
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if amqpClient != nil {
		g.Go(func() error {
			for {
				err := amqpClient.ConsumeChanges(gctx, func(msg *amqp.ChangeMessage) error {
					hub.NotifyLocal(msg.Collection)
					return nil
				})
				if gctx.Err() != nil {
					return nil
				}
				logger.Error("Change consumption failed, reconnecting", "error", err)
				if err := amqpClient.Reconnect(gctx); err != nil {
					if gctx.Err() != nil {
						return nil
					}
					return err
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
