package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"runeScope/internal/model"
	"runeScope/internal/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store, model.Pool) {
	t.Helper()
	pools, err := model.NewPools([]model.Pool{{Asset: "BTC.BTC", Table: "pool_btc_btc"}})
	require.NoError(t, err)
	pool, err := pools.Lookup("BTC.BTC")
	require.NoError(t, err)
	store := memory.NewStore()
	return NewServer(store, pools, nil), store, pool
}

func seedDepthRow(t *testing.T, store *memory.Store, pool model.Pool, hour int, depth model.DepthMetrics) model.Window {
	t.Helper()
	start := time.Date(2024, 3, 1, hour, 0, 0, 0, time.UTC)
	w := model.Window{Start: start, End: start.Add(time.Hour)}
	ctx := context.Background()
	require.NoError(t, store.InsertBase(ctx, pool, w, model.BaseMetrics{}))
	require.NoError(t, store.UpdateDepth(ctx, pool, w, depth))
	return w
}

func getDepths(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, DepthsResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	var out DepthsResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestDepthsUnknownPool(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec, _ := getDepths(t, s, "/depths?pool=DOGE.DOGE")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = getDepths(t, s, "/depths")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDepthsEmptyRange(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec, out := getDepths(t, s, "/depths?pool=BTC.BTC")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, out.Intervals)
	require.Equal(t, 0, out.AggregatedStats.TotalIntervals)
	require.Equal(t, "0", out.AggregatedStats.AvgAssetDepth)
	require.Equal(t, "0", out.AggregatedStats.AvgLuvi)
}

func TestDepthsRenderingAndOrder(t *testing.T) {
	s, store, pool := newTestServer(t)
	seedDepthRow(t, store, pool, 10, model.DepthMetrics{AssetDepth: 100, LUVI: 1.5, AssetPrice: 2})
	w := seedDepthRow(t, store, pool, 11, model.DepthMetrics{AssetDepth: 200, LUVI: 2.5, AssetPrice: 4})

	rec, out := getDepths(t, s, "/depths?pool=BTC.BTC")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, out.Intervals, 2)

	// Newest first, integers plain, floats with 8 fractional digits.
	newest := out.Intervals[0]
	require.Equal(t, "200", newest.AssetDepth)
	require.Equal(t, "2.50000000", newest.Luvi)
	require.Equal(t, "4.00000000", newest.AssetPrice)
	require.Equal(t, formatInt(w.Start.Unix()), newest.StartTime)
	require.Equal(t, formatInt(w.End.Unix()), newest.EndTime)
}

func TestDepthsPageOnlyAverages(t *testing.T) {
	s, store, pool := newTestServer(t)
	seedDepthRow(t, store, pool, 10, model.DepthMetrics{AssetDepth: 1000, LUVI: 1})
	seedDepthRow(t, store, pool, 11, model.DepthMetrics{AssetDepth: 100, LUVI: 2})
	seedDepthRow(t, store, pool, 12, model.DepthMetrics{AssetDepth: 200, LUVI: 4})

	// interval=2 keeps only the two newest rows on page 1; the averages and
	// the time range cover the page, not the whole matching range.
	rec, out := getDepths(t, s, "/depths?pool=BTC.BTC&interval=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, out.AggregatedStats.TotalIntervals)
	require.Equal(t, "150.00000000", out.AggregatedStats.AvgAssetDepth)
	require.Equal(t, "3.00000000", out.AggregatedStats.AvgLuvi)

	start11 := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	require.Equal(t, formatInt(start11.Unix()), out.AggregatedStats.TimeRangeStart)
	require.Equal(t, formatInt(start11.Add(2*time.Hour).Unix()), out.AggregatedStats.TimeRangeEnd)
}

func TestDepthsPagination(t *testing.T) {
	s, store, pool := newTestServer(t)
	for hour := 10; hour < 15; hour++ {
		seedDepthRow(t, store, pool, hour, model.DepthMetrics{AssetDepth: int64(hour)})
	}

	rec, out := getDepths(t, s, "/depths?pool=BTC.BTC&interval=2&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, out.Intervals, 2)
	require.Equal(t, "12", out.Intervals[0].AssetDepth)
	require.Equal(t, "11", out.Intervals[1].AssetDepth)
}

func TestDepthsTimeFilter(t *testing.T) {
	s, store, pool := newTestServer(t)
	seedDepthRow(t, store, pool, 10, model.DepthMetrics{AssetDepth: 1})
	w := seedDepthRow(t, store, pool, 11, model.DepthMetrics{AssetDepth: 2})
	seedDepthRow(t, store, pool, 12, model.DepthMetrics{AssetDepth: 3})

	target := "/depths?pool=BTC.BTC&from=" + formatInt(w.Start.Unix()) + "&to=" + formatInt(w.End.Unix())
	rec, out := getDepths(t, s, target)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, out.Intervals, 1)
	require.Equal(t, "2", out.Intervals[0].AssetDepth)
}

func TestDepthsInvalidParams(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, target := range []string{
		"/depths?pool=BTC.BTC&from=abc",
		"/depths?pool=BTC.BTC&to=abc",
		"/depths?pool=BTC.BTC&page=0",
		"/depths?pool=BTC.BTC&page=x",
		"/depths?pool=BTC.BTC&interval=0",
	} {
		rec, _ := getDepths(t, s, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
