package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"pocket/internal/amqp"
	"pocket/internal/cli"
	"pocket/internal/config"
	apphttp "pocket/internal/http"
	"pocket/internal/ledger"
	"pocket/internal/log"
	"pocket/internal/persistence"
	"pocket/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelInfo, log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)
	logger = cli.SetupLogger(cfg.Level(), log.ComponentApp)

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	res, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Error("Failed to close store", log.FieldError, err)
			}
		}()
	}

	gw := persistence.NewGateway(res.Store, logger.WithComponent(log.ComponentPersistence).Slog())
	snap, restored := gw.LoadSnapshot(ctx)
	saver := persistence.NewAsyncSaver(gw, logger.WithComponent(log.ComponentPersistence).Slog())

	opts := []ledger.Option{
		ledger.WithSaver(saver),
		ledger.WithLogger(logger.WithComponent(log.ComponentLedger).Slog()),
	}

	var dispatcher *services.EventDispatcher
	if cfg.EventsEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		dispatcher = services.NewEventDispatcher(amqpClient, cfg.EventBufferSize, logger.WithComponent(log.ComponentEvents).Slog())
		opts = append(opts, ledger.WithPublisher(dispatcher))
		logger.Info("Ledger events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Ledger events disabled - no AMQP_URL provided")
	}

	l := ledger.New(opts...)
	l.Restore(snap)

	srv := apphttp.NewServer(":"+cfg.Port, l,
		apphttp.WithLogger(logger.WithComponent(log.ComponentHTTP)),
		apphttp.WithRateLimit(cfg.RateLimitPerMinute, time.Minute),
		apphttp.WithReadiness(func(ctx context.Context) error {
			_, _, err := res.Store.Get(ctx, persistence.SnapshotKey)
			return err
		}),
	)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	// The saver and dispatcher outlive the server so mutations from requests
	// drained during shutdown are still written and published.
	bgCtx, stopBackground := context.WithCancel(context.WithoutCancel(ctx))
	defer stopBackground()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stopBackground()
		return srv.Run(gctx, cfg.ShutdownTimeout)
	})
	g.Go(func() error { return saver.Run(bgCtx) })
	if dispatcher != nil {
		g.Go(func() error { return dispatcher.Run(bgCtx) })
	}

	logger.Info("Starting pocket server",
		"port", cfg.Port,
		"backend", cfg.StoreBackend,
		"restored", restored,
		"currency", l.Currency())

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	stats := srv.SecurityStats()
	logger.Info("Server stopped gracefully",
		"snapshots_written", saver.Written(),
		"snapshot_failures", saver.Failures(),
		"rate_limit_hits", stats.RateLimitHits,
		"suspicious_requests", stats.SuspiciousRequests)
}
