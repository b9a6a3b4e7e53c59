package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"runeScope/internal/midgard"
	"runeScope/internal/model"
	"runeScope/internal/storage/memory"
)

type fakeFetcher struct {
	earnings    *midgard.EarningsHistory
	earningsErr error
	runePool    *midgard.RunePoolHistory
	runePoolErr error
	swaps       map[string]*midgard.SwapHistory
	swapsErr    map[string]error
	depths      map[string]*midgard.DepthHistory
	depthsErr   map[string]error

	earningsCalls int
}

func (f *fakeFetcher) Earnings(context.Context, model.Window) (*midgard.EarningsHistory, error) {
	f.earningsCalls++
	if f.earningsErr != nil {
		return nil, f.earningsErr
	}
	if f.earnings == nil {
		return &midgard.EarningsHistory{}, nil
	}
	return f.earnings, nil
}

func (f *fakeFetcher) RunePool(context.Context, model.Window) (*midgard.RunePoolHistory, error) {
	if f.runePoolErr != nil {
		return nil, f.runePoolErr
	}
	if f.runePool == nil {
		return &midgard.RunePoolHistory{}, nil
	}
	return f.runePool, nil
}

func (f *fakeFetcher) Swaps(_ context.Context, pool model.Pool, _ model.Window) (*midgard.SwapHistory, error) {
	if err := f.swapsErr[pool.Asset]; err != nil {
		return nil, err
	}
	if s, ok := f.swaps[pool.Asset]; ok {
		return s, nil
	}
	return &midgard.SwapHistory{}, nil
}

func (f *fakeFetcher) Depths(_ context.Context, pool model.Pool, _ model.Window) (*midgard.DepthHistory, error) {
	if err := f.depthsErr[pool.Asset]; err != nil {
		return nil, err
	}
	if d, ok := f.depths[pool.Asset]; ok {
		return d, nil
	}
	return &midgard.DepthHistory{}, nil
}

func testPools(t *testing.T) model.Pools {
	t.Helper()
	pools, err := model.NewPools([]model.Pool{
		{Asset: "BTC.BTC", Table: "pool_btc_btc"},
		{Asset: "ETH.ETH", Table: "pool_eth_eth"},
	})
	require.NoError(t, err)
	return pools
}

func earningsFor(assets ...string) *midgard.EarningsHistory {
	h := &midgard.EarningsHistory{}
	h.Meta.Earnings = 1000
	for i, asset := range assets {
		h.Meta.Pools = append(h.Meta.Pools, midgard.PoolEarnings{
			Pool:     asset,
			Earnings: midgard.FlexInt(100 * (i + 1)),
			Rewards:  midgard.FlexInt(10 * (i + 1)),
		})
	}
	return h
}

func swapsWithVolume(volume int64) *midgard.SwapHistory {
	h := &midgard.SwapHistory{}
	h.Meta.TotalVolume = midgard.FlexInt(volume)
	h.Meta.ToRuneVolume = midgard.FlexInt(volume)
	return h
}

func depthsWithAssetDepth(depth int64) *midgard.DepthHistory {
	return &midgard.DepthHistory{Intervals: []midgard.DepthInterval{{AssetDepth: midgard.FlexInt(depth)}}}
}

func windowAt(t *testing.T, hour int) model.Window {
	t.Helper()
	start := time.Date(2024, 3, 1, hour, 0, 0, 0, time.UTC)
	return model.Window{Start: start, End: start.Add(time.Hour)}
}

func TestDriverStoresAllGroups(t *testing.T) {
	pools := testPools(t)
	store := memory.NewStore()
	fetcher := &fakeFetcher{
		earnings: earningsFor("BTC.BTC", "ETH.ETH"),
		runePool: &midgard.RunePoolHistory{Intervals: []midgard.RunePoolInterval{{Count: 4, Units: 900}}},
		swaps: map[string]*midgard.SwapHistory{
			"BTC.BTC": swapsWithVolume(5000),
			"ETH.ETH": swapsWithVolume(7000),
		},
		depths: map[string]*midgard.DepthHistory{
			"BTC.BTC": depthsWithAssetDepth(42),
			"ETH.ETH": depthsWithAssetDepth(77),
		},
	}

	driver := NewDriver(RunConfig{}, fetcher, store, nil, pools, nil)
	w := windowAt(t, 13)
	require.NoError(t, driver.Run(context.Background(), []model.Window{w}))

	for _, asset := range []string{"BTC.BTC", "ETH.ETH"} {
		pool, err := pools.Lookup(asset)
		require.NoError(t, err)
		base, swap, depth, hasSwap, hasDepth, ok := store.Record(pool, w)
		require.True(t, ok, "record missing for %s", asset)
		require.True(t, hasSwap, "swap group missing for %s", asset)
		require.True(t, hasDepth, "depth group missing for %s", asset)
		require.NotZero(t, base.Earnings)
		require.NotZero(t, swap.TotalVolume)
		require.NotZero(t, depth.AssetDepth)
	}

	g, ok := store.Global(w)
	require.True(t, ok)
	require.Equal(t, int64(4), g.MemberCount)
	require.Equal(t, int64(900), g.MemberUnits)
	require.Equal(t, int64(1000), g.Earnings)
}

func TestDriverSkipsPoolAbsentFromEarnings(t *testing.T) {
	pools := testPools(t)
	store := memory.NewStore()
	fetcher := &fakeFetcher{earnings: earningsFor("BTC.BTC")}

	driver := NewDriver(RunConfig{}, fetcher, store, nil, pools, nil)
	w := windowAt(t, 13)
	require.NoError(t, driver.Run(context.Background(), []model.Window{w}))

	btc, _ := pools.Lookup("BTC.BTC")
	_, _, _, _, _, ok := store.Record(btc, w)
	require.True(t, ok)

	eth, _ := pools.Lookup("ETH.ETH")
	_, _, _, _, _, ok = store.Record(eth, w)
	require.False(t, ok, "absent pool must not create a record")
}

func TestDriverIsolatesPoolFailure(t *testing.T) {
	pools := testPools(t)
	store := memory.NewStore()
	fetcher := &fakeFetcher{
		earnings: earningsFor("BTC.BTC", "ETH.ETH"),
		swapsErr: map[string]error{"BTC.BTC": &midgard.StatusError{Family: midgard.FamilySwaps, StatusCode: 500}},
	}

	driver := NewDriver(RunConfig{}, fetcher, store, nil, pools, nil)
	w := windowAt(t, 13)
	require.NoError(t, driver.Run(context.Background(), []model.Window{w}))

	// The failed pool wrote nothing; the sibling pool is unaffected.
	btc, _ := pools.Lookup("BTC.BTC")
	_, _, _, _, _, ok := store.Record(btc, w)
	require.False(t, ok)

	eth, _ := pools.Lookup("ETH.ETH")
	_, _, _, hasSwap, hasDepth, ok := store.Record(eth, w)
	require.True(t, ok)
	require.True(t, hasSwap)
	require.True(t, hasDepth)
}

func TestDriverEarningsFailureSkipsWindowOnly(t *testing.T) {
	pools := testPools(t)
	store := memory.NewStore()
	fetcher := &fakeFetcher{earningsErr: &midgard.StatusError{Family: midgard.FamilyEarnings, StatusCode: 503}}

	driver := NewDriver(RunConfig{}, fetcher, store, nil, pools, nil)
	w := windowAt(t, 13)
	require.NoError(t, driver.Run(context.Background(), []model.Window{w}))

	_, ok := store.Global(w)
	require.False(t, ok)
	btc, _ := pools.Lookup("BTC.BTC")
	_, _, _, _, _, ok = store.Record(btc, w)
	require.False(t, ok)
}

func TestDriverRunePoolFailureKeepsPoolPath(t *testing.T) {
	pools := testPools(t)
	store := memory.NewStore()
	fetcher := &fakeFetcher{
		earnings:    earningsFor("BTC.BTC", "ETH.ETH"),
		runePoolErr: &midgard.StatusError{Family: midgard.FamilyRunePool, StatusCode: 502},
	}

	driver := NewDriver(RunConfig{}, fetcher, store, nil, pools, nil)
	w := windowAt(t, 13)
	require.NoError(t, driver.Run(context.Background(), []model.Window{w}))

	_, ok := store.Global(w)
	require.False(t, ok, "global record must be skipped")

	btc, _ := pools.Lookup("BTC.BTC")
	_, _, _, _, _, ok = store.Record(btc, w)
	require.True(t, ok, "pool path must still run")
}

func TestDriverRerunIsIdempotent(t *testing.T) {
	pools := testPools(t)
	store := memory.NewStore()
	fetcher := &fakeFetcher{
		earnings: earningsFor("BTC.BTC", "ETH.ETH"),
		swaps:    map[string]*midgard.SwapHistory{"BTC.BTC": swapsWithVolume(5000)},
		depths:   map[string]*midgard.DepthHistory{"BTC.BTC": depthsWithAssetDepth(42)},
	}

	driver := NewDriver(RunConfig{}, fetcher, store, nil, pools, nil)
	w := windowAt(t, 13)
	btc, _ := pools.Lookup("BTC.BTC")

	require.NoError(t, driver.Run(context.Background(), []model.Window{w}))
	base1, swap1, depth1, _, _, ok := store.Record(btc, w)
	require.True(t, ok)

	require.NoError(t, driver.Run(context.Background(), []model.Window{w}))
	base2, swap2, depth2, _, _, ok := store.Record(btc, w)
	require.True(t, ok)

	require.Equal(t, base1, base2)
	require.Equal(t, swap1, swap2)
	require.Equal(t, depth1, depth2)
}

func TestDriverResumeSkipsCompletedWindows(t *testing.T) {
	pools := testPools(t)
	store := memory.NewStore()
	fetcher := &fakeFetcher{earnings: earningsFor("BTC.BTC", "ETH.ETH")}

	windows := []model.Window{windowAt(t, 10), windowAt(t, 11), windowAt(t, 12)}

	driver := NewDriver(RunConfig{StateName: "backfill", Resume: true}, fetcher, store, store, pools, nil)
	require.NoError(t, driver.Run(context.Background(), windows))
	require.Equal(t, 3, fetcher.earningsCalls)

	ts, ok, err := store.LoadIngestState(context.Background(), "backfill")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, windows[2].End.Unix(), ts)

	// A rerun over the same range finds the saved marker and skips it all.
	fetcher.earningsCalls = 0
	driver = NewDriver(RunConfig{StateName: "backfill", Resume: true}, fetcher, store, store, pools, nil)
	require.NoError(t, driver.Run(context.Background(), windows))
	require.Equal(t, 0, fetcher.earningsCalls)
}
