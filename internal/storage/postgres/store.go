package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"runeScope/internal/model"
	"runeScope/internal/storage"
)

// Store provides Postgres persistence for window metrics. Table names are
// spliced from the validated pool set only; all values ride as parameters.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a store to Postgres and verifies the connection.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const poolTableColumns = `
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL,
	asset_liquidity_fees BIGINT NOT NULL DEFAULT 0,
	earnings BIGINT NOT NULL DEFAULT 0,
	rewards BIGINT NOT NULL DEFAULT 0,
	rune_liquidity_fees BIGINT NOT NULL DEFAULT 0,
	saver_earning BIGINT NOT NULL DEFAULT 0,
	total_liquidity_fees_rune BIGINT NOT NULL DEFAULT 0,
	average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	rune_price_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
	from_secured_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	from_secured_count BIGINT NOT NULL DEFAULT 0,
	from_secured_fees BIGINT NOT NULL DEFAULT 0,
	from_secured_volume BIGINT NOT NULL DEFAULT 0,
	from_secured_volume_usd BIGINT NOT NULL DEFAULT 0,
	from_trade_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	from_trade_count BIGINT NOT NULL DEFAULT 0,
	from_trade_fees BIGINT NOT NULL DEFAULT 0,
	from_trade_volume BIGINT NOT NULL DEFAULT 0,
	from_trade_volume_usd BIGINT NOT NULL DEFAULT 0,
	synth_mint_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	synth_mint_count BIGINT NOT NULL DEFAULT 0,
	synth_mint_fees BIGINT NOT NULL DEFAULT 0,
	synth_mint_volume BIGINT NOT NULL DEFAULT 0,
	synth_mint_volume_usd BIGINT NOT NULL DEFAULT 0,
	synth_redeem_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	synth_redeem_count BIGINT NOT NULL DEFAULT 0,
	synth_redeem_fees BIGINT NOT NULL DEFAULT 0,
	synth_redeem_volume BIGINT NOT NULL DEFAULT 0,
	synth_redeem_volume_usd BIGINT NOT NULL DEFAULT 0,
	to_asset_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	to_asset_count BIGINT NOT NULL DEFAULT 0,
	to_asset_fees BIGINT NOT NULL DEFAULT 0,
	to_asset_volume BIGINT NOT NULL DEFAULT 0,
	to_asset_volume_usd BIGINT NOT NULL DEFAULT 0,
	to_rune_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	to_rune_count BIGINT NOT NULL DEFAULT 0,
	to_rune_fees BIGINT NOT NULL DEFAULT 0,
	to_rune_volume BIGINT NOT NULL DEFAULT 0,
	to_rune_volume_usd BIGINT NOT NULL DEFAULT 0,
	to_secured_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	to_secured_count BIGINT NOT NULL DEFAULT 0,
	to_secured_fees BIGINT NOT NULL DEFAULT 0,
	to_secured_volume BIGINT NOT NULL DEFAULT 0,
	to_secured_volume_usd BIGINT NOT NULL DEFAULT 0,
	to_trade_average_slip DOUBLE PRECISION NOT NULL DEFAULT 0,
	to_trade_count BIGINT NOT NULL DEFAULT 0,
	to_trade_fees BIGINT NOT NULL DEFAULT 0,
	to_trade_volume BIGINT NOT NULL DEFAULT 0,
	to_trade_volume_usd BIGINT NOT NULL DEFAULT 0,
	total_count BIGINT NOT NULL DEFAULT 0,
	total_fees BIGINT NOT NULL DEFAULT 0,
	total_volume BIGINT NOT NULL DEFAULT 0,
	total_volume_usd BIGINT NOT NULL DEFAULT 0,
	asset_depth BIGINT NOT NULL DEFAULT 0,
	asset_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	asset_price_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
	liquidity_units BIGINT NOT NULL DEFAULT 0,
	luvi DOUBLE PRECISION NOT NULL DEFAULT 0,
	members_count BIGINT NOT NULL DEFAULT 0,
	rune_depth BIGINT NOT NULL DEFAULT 0,
	synth_supply BIGINT NOT NULL DEFAULT 0,
	synth_units BIGINT NOT NULL DEFAULT 0,
	units BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (start_time, end_time)
`

// EnsureSchema provisions per-pool tables plus the global and state tables.
func (s *Store) EnsureSchema(ctx context.Context, pools model.Pools) error {
	for _, pool := range pools.List() {
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pool.Table, poolTableColumns)
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure table %s: %w", pool.Table, err)
		}
	}

	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rune_global (
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			member_count BIGINT NOT NULL DEFAULT 0,
			member_units BIGINT NOT NULL DEFAULT 0,
			avg_node_count DOUBLE PRECISION NOT NULL DEFAULT 0,
			block_rewards BIGINT NOT NULL DEFAULT 0,
			bonding_earnings BIGINT NOT NULL DEFAULT 0,
			earnings BIGINT NOT NULL DEFAULT 0,
			liquidity_earnings BIGINT NOT NULL DEFAULT 0,
			liquidity_fees BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (start_time, end_time)
		)
	`); err != nil {
		return fmt.Errorf("ensure table rune_global: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ingest_state (
			name TEXT PRIMARY KEY,
			last_processed_ts BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("ensure table ingest_state: %w", err)
	}

	return nil
}

// InsertBase creates the window's row; an existing key is left untouched.
func (s *Store) InsertBase(ctx context.Context, pool model.Pool, w model.Window, base model.BaseMetrics) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (
			start_time, end_time, asset_liquidity_fees, earnings, rewards,
			rune_liquidity_fees, saver_earning, total_liquidity_fees_rune
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (start_time, end_time) DO NOTHING
	`, pool.Table)

	_, err := s.pool.Exec(ctx, sql,
		w.Start, w.End,
		base.AssetLiquidityFees,
		base.Earnings,
		base.Rewards,
		base.RuneLiquidityFees,
		base.SaverEarning,
		base.TotalLiquidityFeesRune,
	)
	if err != nil {
		return fmt.Errorf("insert base %s %s: %w", pool.Table, w, err)
	}
	return nil
}

// UpdateSwap overwrites the swap column group of the keyed row.
func (s *Store) UpdateSwap(ctx context.Context, pool model.Pool, w model.Window, swap model.SwapMetrics) error {
	sql := fmt.Sprintf(`
		UPDATE %s SET
			average_slip = $3,
			rune_price_usd = $4,
			from_secured_average_slip = $5,
			from_secured_count = $6,
			from_secured_fees = $7,
			from_secured_volume = $8,
			from_secured_volume_usd = $9,
			from_trade_average_slip = $10,
			from_trade_count = $11,
			from_trade_fees = $12,
			from_trade_volume = $13,
			from_trade_volume_usd = $14,
			synth_mint_average_slip = $15,
			synth_mint_count = $16,
			synth_mint_fees = $17,
			synth_mint_volume = $18,
			synth_mint_volume_usd = $19,
			synth_redeem_average_slip = $20,
			synth_redeem_count = $21,
			synth_redeem_fees = $22,
			synth_redeem_volume = $23,
			synth_redeem_volume_usd = $24,
			to_asset_average_slip = $25,
			to_asset_count = $26,
			to_asset_fees = $27,
			to_asset_volume = $28,
			to_asset_volume_usd = $29,
			to_rune_average_slip = $30,
			to_rune_count = $31,
			to_rune_fees = $32,
			to_rune_volume = $33,
			to_rune_volume_usd = $34,
			to_secured_average_slip = $35,
			to_secured_count = $36,
			to_secured_fees = $37,
			to_secured_volume = $38,
			to_secured_volume_usd = $39,
			to_trade_average_slip = $40,
			to_trade_count = $41,
			to_trade_fees = $42,
			to_trade_volume = $43,
			to_trade_volume_usd = $44,
			total_count = $45,
			total_fees = $46,
			total_volume = $47,
			total_volume_usd = $48,
			updated_at = now()
		WHERE start_time = $1 AND end_time = $2
	`, pool.Table)

	tag, err := s.pool.Exec(ctx, sql,
		w.Start, w.End,
		swap.AverageSlip,
		swap.RunePriceUSD,
		swap.FromSecured.AverageSlip, swap.FromSecured.Count, swap.FromSecured.Fees, swap.FromSecured.Volume, swap.FromSecured.VolumeUSD,
		swap.FromTrade.AverageSlip, swap.FromTrade.Count, swap.FromTrade.Fees, swap.FromTrade.Volume, swap.FromTrade.VolumeUSD,
		swap.SynthMint.AverageSlip, swap.SynthMint.Count, swap.SynthMint.Fees, swap.SynthMint.Volume, swap.SynthMint.VolumeUSD,
		swap.SynthRedeem.AverageSlip, swap.SynthRedeem.Count, swap.SynthRedeem.Fees, swap.SynthRedeem.Volume, swap.SynthRedeem.VolumeUSD,
		swap.ToAsset.AverageSlip, swap.ToAsset.Count, swap.ToAsset.Fees, swap.ToAsset.Volume, swap.ToAsset.VolumeUSD,
		swap.ToRune.AverageSlip, swap.ToRune.Count, swap.ToRune.Fees, swap.ToRune.Volume, swap.ToRune.VolumeUSD,
		swap.ToSecured.AverageSlip, swap.ToSecured.Count, swap.ToSecured.Fees, swap.ToSecured.Volume, swap.ToSecured.VolumeUSD,
		swap.ToTrade.AverageSlip, swap.ToTrade.Count, swap.ToTrade.Fees, swap.ToTrade.Volume, swap.ToTrade.VolumeUSD,
		swap.TotalCount, swap.TotalFees, swap.TotalVolume, swap.TotalVolumeUSD,
	)
	if err != nil {
		return fmt.Errorf("update swap %s %s: %w", pool.Table, w, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrMissingBase
	}
	return nil
}

// UpdateDepth overwrites the depth column group of the keyed row.
func (s *Store) UpdateDepth(ctx context.Context, pool model.Pool, w model.Window, depth model.DepthMetrics) error {
	sql := fmt.Sprintf(`
		UPDATE %s SET
			asset_depth = $3,
			asset_price = $4,
			asset_price_usd = $5,
			liquidity_units = $6,
			luvi = $7,
			members_count = $8,
			rune_depth = $9,
			synth_supply = $10,
			synth_units = $11,
			units = $12,
			updated_at = now()
		WHERE start_time = $1 AND end_time = $2
	`, pool.Table)

	tag, err := s.pool.Exec(ctx, sql,
		w.Start, w.End,
		depth.AssetDepth,
		depth.AssetPrice,
		depth.AssetPriceUSD,
		depth.LiquidityUnits,
		depth.LUVI,
		depth.MembersCount,
		depth.RuneDepth,
		depth.SynthSupply,
		depth.SynthUnits,
		depth.Units,
	)
	if err != nil {
		return fmt.Errorf("update depth %s %s: %w", pool.Table, w, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrMissingBase
	}
	return nil
}

// UpsertGlobal writes the window-level record; an existing key is a no-op.
func (s *Store) UpsertGlobal(ctx context.Context, w model.Window, g model.GlobalMetrics) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rune_global (
			start_time, end_time, member_count, member_units, avg_node_count,
			block_rewards, bonding_earnings, earnings, liquidity_earnings, liquidity_fees
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (start_time, end_time) DO NOTHING
	`,
		w.Start, w.End,
		g.MemberCount,
		g.MemberUnits,
		g.AvgNodeCount,
		g.BlockRewards,
		g.BondingEarnings,
		g.Earnings,
		g.LiquidityEarnings,
		g.LiquidityFees,
	)
	if err != nil {
		return fmt.Errorf("upsert global %s: %w", w, err)
	}
	return nil
}

// DepthHistory returns a page of the pool's depth rows, newest first.
func (s *Store) DepthHistory(ctx context.Context, pool model.Pool, q storage.DepthQuery) ([]model.DepthRow, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `
		SELECT
			EXTRACT(EPOCH FROM start_time)::BIGINT,
			EXTRACT(EPOCH FROM end_time)::BIGINT,
			asset_depth, asset_price, asset_price_usd, liquidity_units, luvi,
			members_count, rune_depth, synth_supply, synth_units, units
		FROM %s
		WHERE 1=1
	`, pool.Table)

	args := make([]any, 0, 4)
	if q.From != nil {
		args = append(args, *q.From)
		fmt.Fprintf(&sb, " AND start_time >= to_timestamp($%d)", len(args))
	}
	if q.To != nil {
		args = append(args, *q.To)
		fmt.Fprintf(&sb, " AND end_time <= to_timestamp($%d)", len(args))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY start_time DESC LIMIT $%d", len(args))
	args = append(args, offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query depths %s: %w", pool.Table, err)
	}
	defer rows.Close()

	out := make([]model.DepthRow, 0, limit)
	for rows.Next() {
		var r model.DepthRow
		if err := rows.Scan(
			&r.StartTime, &r.EndTime,
			&r.Depth.AssetDepth, &r.Depth.AssetPrice, &r.Depth.AssetPriceUSD,
			&r.Depth.LiquidityUnits, &r.Depth.LUVI, &r.Depth.MembersCount,
			&r.Depth.RuneDepth, &r.Depth.SynthSupply, &r.Depth.SynthUnits, &r.Depth.Units,
		); err != nil {
			return nil, fmt.Errorf("scan depth row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read depth rows: %w", err)
	}
	return out, nil
}

// LoadIngestState returns the named progress marker.
func (s *Store) LoadIngestState(ctx context.Context, name string) (int64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_ts FROM ingest_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}

// SaveIngestState upserts the named progress marker.
func (s *Store) SaveIngestState(ctx context.Context, name string, ts int64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingest_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, ts)
	return err
}

var _ storage.Store = (*Store)(nil)
var _ storage.StateStore = (*Store)(nil)
