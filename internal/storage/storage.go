package storage

import (
	"context"
	"errors"

	"runeScope/internal/model"
)

// ErrMissingBase reports a group update against a (start_time, end_time)
// key with no base row. Base always precedes the swap and depth groups.
var ErrMissingBase = errors.New("no base row for window")

// DepthQuery filters and pages a pool's stored depth rows.
type DepthQuery struct {
	From   *int64 // unix seconds, inclusive lower bound on start_time
	To     *int64 // unix seconds, inclusive upper bound on end_time
	Limit  int
	Offset int
}

// Store persists per-pool and global window records.
type Store interface {
	// EnsureSchema idempotently provisions every pool table plus the
	// global and ingest-state tables. Safe on every startup.
	EnsureSchema(ctx context.Context, pools model.Pools) error

	// InsertBase creates the window's row; a conflicting key is a no-op,
	// the first writer's base fields stay authoritative.
	InsertBase(ctx context.Context, pool model.Pool, w model.Window, base model.BaseMetrics) error

	// UpdateSwap overwrites the swap column group of the keyed row,
	// returning ErrMissingBase when no row exists.
	UpdateSwap(ctx context.Context, pool model.Pool, w model.Window, swap model.SwapMetrics) error

	// UpdateDepth overwrites the depth column group of the keyed row,
	// returning ErrMissingBase when no row exists.
	UpdateDepth(ctx context.Context, pool model.Pool, w model.Window, depth model.DepthMetrics) error

	// UpsertGlobal writes the window-level record; a conflicting key is a
	// no-op.
	UpsertGlobal(ctx context.Context, w model.Window, g model.GlobalMetrics) error

	// DepthHistory returns the pool's stored depth rows, newest first.
	DepthHistory(ctx context.Context, pool model.Pool, q DepthQuery) ([]model.DepthRow, error)
}

// StateStore tracks named ingestion progress markers. Progress is an
// optimization only; correctness comes from idempotent re-runs.
type StateStore interface {
	LoadIngestState(ctx context.Context, name string) (int64, bool, error)
	SaveIngestState(ctx context.Context, name string, ts int64) error
}
