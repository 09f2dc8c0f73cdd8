package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"pocket/internal/amqp"
	"pocket/internal/cache"
	"pocket/internal/cli"
	"pocket/internal/config"
	"pocket/internal/log"
	"pocket/internal/persistence"
	"pocket/internal/sheets"
	gsheet "pocket/internal/sheets/google"
	mem "pocket/internal/sheets/memory"
	"pocket/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelInfo, log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)
	logger = cli.SetupLogger(cfg.Level(), log.ComponentWorker)

	logger.Info("Starting pocket-worker")

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	res, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer res.Cleanup()
	}
	gw := persistence.NewGateway(res.Store, logger.WithComponent(log.ComponentPersistence).Slog())

	// Archive target: Google Sheets when configured, otherwise an in-memory
	// sheet so the pipeline can run locally.
	var (
		writer sheets.HistoryWriter
		lister sheets.ArchiveLister
	)
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleHistorySheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer, lister = client, client
		logger.Info("Google Sheets archive enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleHistorySheetName)
	} else {
		store := mem.New()
		writer, lister = store, store
		logger.Warn("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, archiving in memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	archiver := worker.NewArchiveWorker(gw, writer, lister, logger.WithComponent(log.ComponentWorker).Slog())

	// Catch up on periods reset while the worker was down.
	logger.Info("Performing startup reconcile...")
	if err := archiver.Reconcile(ctx); err != nil {
		logger.Error("Startup reconcile failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cache.RunJanitor(gctx, time.Hour, logger.Slog(), archiver.Cache())
		return nil
	})
	g.Go(func() error {
		err := amqpClient.ConsumeLedgerEvents(gctx, archiver.HandleLedgerEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if cfg.ReconcileInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.ReconcileInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if err := archiver.Reconcile(gctx); err != nil {
						logger.Error("Periodic reconcile failed", log.FieldError, err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
