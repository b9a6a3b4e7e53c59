package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"runeScope/internal/midgard"
	"runeScope/internal/model"
	"runeScope/internal/storage"
)

// Fetcher supplies the four Midgard history payloads.
type Fetcher interface {
	Earnings(ctx context.Context, w model.Window) (*midgard.EarningsHistory, error)
	RunePool(ctx context.Context, w model.Window) (*midgard.RunePoolHistory, error)
	Swaps(ctx context.Context, pool model.Pool, w model.Window) (*midgard.SwapHistory, error)
	Depths(ctx context.Context, pool model.Pool, w model.Window) (*midgard.DepthHistory, error)
}

// RunConfig holds runtime settings for the driver.
type RunConfig struct {
	// StateName keys the progress marker in the state store.
	StateName string
	// Resume skips windows at or before the saved progress marker.
	Resume bool
}

// Driver walks the window sequence and the pool set, isolating every
// per-pool and per-window failure. A fault costs at most one pool in one
// window; re-running the same range is the retry mechanism.
type Driver struct {
	cfg     RunConfig
	fetcher Fetcher
	store   storage.Store
	state   storage.StateStore
	pools   model.Pools
	logger  *zap.Logger
}

// NewDriver builds a Driver with its dependencies. state may be nil to
// disable progress tracking.
func NewDriver(cfg RunConfig, fetcher Fetcher, store storage.Store, state storage.StateStore, pools model.Pools, logger *zap.Logger) *Driver {
	if cfg.StateName == "" {
		cfg.StateName = "ingest"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		state:   state,
		pools:   pools,
		logger:  logger,
	}
}

// Run processes the windows in order. Only a cancelled context or invalid
// wiring aborts the run; upstream and store faults are logged and isolated.
func (d *Driver) Run(ctx context.Context, windows []model.Window) error {
	if d.fetcher == nil {
		return fmt.Errorf("fetcher is nil")
	}
	if d.store == nil {
		return fmt.Errorf("store is nil")
	}
	if d.pools.Len() == 0 {
		return fmt.Errorf("pool set is empty")
	}

	if d.cfg.Resume && d.state != nil {
		ts, ok, err := d.state.LoadIngestState(ctx, d.cfg.StateName)
		if err != nil {
			return fmt.Errorf("load ingest state: %w", err)
		}
		if ok {
			remaining := windows[:0:0]
			for _, w := range windows {
				if w.End.Unix() > ts {
					remaining = append(remaining, w)
				}
			}
			d.logger.Info("resume from saved state",
				zap.Int64("last_processed", ts),
				zap.Int("skipped", len(windows)-len(remaining)),
			)
			windows = remaining
		}
	}

	for _, w := range windows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.processWindow(ctx, w)

		if d.state != nil {
			if err := d.state.SaveIngestState(ctx, d.cfg.StateName, w.End.Unix()); err != nil {
				d.logger.Warn("save ingest state failed", zap.Error(err), zap.Stringer("window", w))
			}
		}
	}

	return nil
}

func (d *Driver) processWindow(ctx context.Context, w model.Window) {
	earnings, err := d.fetcher.Earnings(ctx, w)
	if err != nil {
		// No earnings means no base group for any pool either.
		d.logger.Warn("fetch earnings failed, window skipped", zap.Error(err), zap.Stringer("window", w))
		return
	}

	runePool, err := d.fetcher.RunePool(ctx, w)
	if err != nil {
		d.logger.Warn("fetch runepool failed, global record skipped", zap.Error(err), zap.Stringer("window", w))
	} else if err := d.store.UpsertGlobal(ctx, w, globalMetrics(earnings, runePool)); err != nil {
		d.logger.Warn("store global record failed", zap.Error(err), zap.Stringer("window", w))
	}

	for _, pool := range d.pools.List() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.processPool(ctx, w, pool, earnings)
	}
}

func (d *Driver) processPool(ctx context.Context, w model.Window, pool model.Pool, earnings *midgard.EarningsHistory) {
	base, ok := baseMetrics(earnings, pool.Asset)
	if !ok {
		d.logger.Info("pool absent from window",
			zap.String("pool", pool.Asset),
			zap.Stringer("window", w),
		)
		return
	}

	swaps, err := d.fetcher.Swaps(ctx, pool, w)
	if err != nil {
		d.logPoolFault("fetch swaps failed", err, pool, w, "swap")
		return
	}

	depths, err := d.fetcher.Depths(ctx, pool, w)
	if err != nil {
		d.logPoolFault("fetch depths failed", err, pool, w, "depth")
		return
	}

	if err := d.store.InsertBase(ctx, pool, w, base); err != nil {
		d.logPoolFault("store base group failed", err, pool, w, "base")
		return
	}
	if err := d.store.UpdateSwap(ctx, pool, w, swapMetrics(swaps)); err != nil {
		d.logPoolFault("store swap group failed", err, pool, w, "swap")
		return
	}
	if err := d.store.UpdateDepth(ctx, pool, w, depthMetrics(depths)); err != nil {
		d.logPoolFault("store depth group failed", err, pool, w, "depth")
		return
	}

	d.logger.Info("pool window stored",
		zap.String("pool", pool.Asset),
		zap.Stringer("window", w),
	)
}

func (d *Driver) logPoolFault(msg string, err error, pool model.Pool, w model.Window, group string) {
	d.logger.Warn(msg,
		zap.Error(err),
		zap.String("pool", pool.Asset),
		zap.Stringer("window", w),
		zap.String("group", group),
	)
}
