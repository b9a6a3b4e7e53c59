package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"runeScope/internal/config"
	"runeScope/internal/ingest"
	"runeScope/internal/midgard"
	"runeScope/internal/model"
	"runeScope/internal/storage/postgres"
)

func runBackfill(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadIngest(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.From.IsZero() || cfg.To.IsZero() {
		return fmt.Errorf("from and to are required")
	}
	if !cfg.From.Before(cfg.To) {
		return fmt.Errorf("from must be before to")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PgDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	pools := model.DefaultPools()
	if err := store.EnsureSchema(ctx, pools); err != nil {
		return err
	}

	client := midgard.NewClient(midgard.ClientConfig{
		BaseURL:        cfg.MidgardURL,
		RequestTimeout: cfg.RequestTimeout,
		RateDelay:      cfg.RateDelay,
	})

	driver := ingest.NewDriver(ingest.RunConfig{
		StateName: "backfill",
		Resume:    cfg.Resume,
	}, client, store, store, pools, logger)

	windows := ingest.BackfillWindows(cfg.From, cfg.To)

	logger.Info("backfill start",
		zap.Time("from", cfg.From),
		zap.Time("to", cfg.To),
		zap.Int("windows", len(windows)),
		zap.Int("pools", pools.Len()),
		zap.Duration("rate_delay", cfg.RateDelay),
		zap.Bool("resume", cfg.Resume),
	)

	return driver.Run(ctx, windows)
}

func runHourly(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadIngest(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	once, _ := cmd.Flags().GetBool("once")

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PgDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	pools := model.DefaultPools()
	if err := store.EnsureSchema(ctx, pools); err != nil {
		return err
	}

	client := midgard.NewClient(midgard.ClientConfig{
		BaseURL:        cfg.MidgardURL,
		RequestTimeout: cfg.RequestTimeout,
		RateDelay:      cfg.RateDelay,
	})

	driver := ingest.NewDriver(ingest.RunConfig{StateName: "hourly"}, client, store, store, pools, logger)

	process := func(ref time.Time) error {
		w := ingest.LastCompleted(ref)
		logger.Info("ingest window", zap.Stringer("window", w))
		return driver.Run(ctx, []model.Window{w})
	}

	if err := process(time.Now()); err != nil {
		return err
	}
	if once {
		return nil
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			if err := process(t); err != nil {
				return err
			}
		}
	}
}
