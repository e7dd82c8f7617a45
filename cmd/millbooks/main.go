package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/millbooks-erp/millbooks/internal/app"
	"github.com/millbooks-erp/millbooks/internal/costing"
	"github.com/millbooks-erp/millbooks/internal/ledger"
	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/platform/db"
	"github.com/millbooks-erp/millbooks/internal/reports"
	"github.com/millbooks-erp/millbooks/internal/stock"
	"github.com/millbooks-erp/millbooks/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	partyRepo := party.NewRepository(pool)
	partyService := party.NewService(partyRepo, cfg.PhoneCountryCode)
	partyHandler := party.NewHandler(logger, partyService)

	costingRepo := costing.NewRepository(pool)
	costingService := costing.NewService(costingRepo)
	costingHandler := costing.NewHandler(logger, costingService)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, partyService)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	stockRepo := stock.NewRepository(pool)
	stockService := stock.NewService(stockRepo)
	stockHandler := stock.NewHandler(logger, stockService)

	reportsRepo := reports.NewRepository(pool)
	reportsService := reports.NewService(reportsRepo, costingService, partyService)
	reportsHandler := reports.NewHandler(logger, reportsService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	scanTask, err := jobs.NewQualityScanTask()
	if err != nil {
		logger.Error("build quality scan task", slog.Any("error", err))
		os.Exit(1)
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Logger:      logger,
		QualityScan: jobs.NewQualityScanJob(pool, logger),
		Cron: []jobs.CronRegistration{
			{Spec: "@every " + cfg.QualityScanInterval.String(), Task: scanTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("worker stopped", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		PartyHandler:   partyHandler,
		CostingHandler: costingHandler,
		LedgerHandler:  ledgerHandler,
		StockHandler:   stockHandler,
		ReportsHandler: reportsHandler,
		JobsHandler:    jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
