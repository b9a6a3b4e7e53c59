package api

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"runeScope/internal/model"
	"runeScope/internal/storage"
)

const (
	defaultPage     = 1
	defaultInterval = 100
)

// DepthInterval renders one stored depth row. All values are strings so
// fixed-precision formatting survives the trip to the client: integers as
// plain decimals, floats with exactly 8 fractional digits.
type DepthInterval struct {
	AssetDepth     string `json:"assetDepth"`
	AssetPrice     string `json:"assetPrice"`
	AssetPriceUSD  string `json:"assetPriceUSD"`
	EndTime        string `json:"endTime"`
	LiquidityUnits string `json:"liquidityUnits"`
	Luvi           string `json:"luvi"`
	MembersCount   string `json:"membersCount"`
	RuneDepth      string `json:"runeDepth"`
	StartTime      string `json:"startTime"`
	SynthSupply    string `json:"synthSupply"`
	SynthUnits     string `json:"synthUnits"`
	Units          string `json:"units"`
}

// AggregatedStats carries arithmetic means over the returned page only,
// not the whole matching range. totalIntervals is likewise the page's row
// count and the time range is the page's own min/max.
type AggregatedStats struct {
	AvgAssetDepth     string `json:"avgAssetDepth"`
	AvgAssetPrice     string `json:"avgAssetPrice"`
	AvgAssetPriceUSD  string `json:"avgAssetPriceUSD"`
	AvgLiquidityUnits string `json:"avgLiquidityUnits"`
	AvgLuvi           string `json:"avgLuvi"`
	AvgMembersCount   string `json:"avgMembersCount"`
	AvgRuneDepth      string `json:"avgRuneDepth"`
	AvgSynthSupply    string `json:"avgSynthSupply"`
	AvgSynthUnits     string `json:"avgSynthUnits"`
	AvgUnits          string `json:"avgUnits"`
	TotalIntervals    int    `json:"totalIntervals"`
	TimeRangeStart    string `json:"timeRangeStart"`
	TimeRangeEnd      string `json:"timeRangeEnd"`
}

// DepthsResponse is the /depths payload.
type DepthsResponse struct {
	Intervals       []DepthInterval `json:"intervals"`
	AggregatedStats AggregatedStats `json:"aggregatedStats"`
}

// HandleDepths serves GET /depths?pool&from&to&page&interval.
func (s *Server) HandleDepths(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	pool, err := s.pools.Lookup(qs.Get("pool"))
	if err != nil {
		var unknown *model.ErrUnknownPool
		if errors.As(err, &unknown) {
			writeError(w, http.StatusBadRequest, "invalid pool")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := storage.DepthQuery{Limit: defaultInterval}

	if v := qs.Get("from"); v != "" {
		from, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from")
			return
		}
		query.From = &from
	}
	if v := qs.Get("to"); v != "" {
		to, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to")
			return
		}
		query.To = &to
	}

	page := defaultPage
	if v := qs.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
	}
	if v := qs.Get("interval"); v != "" {
		if query.Limit, err = strconv.Atoi(v); err != nil || query.Limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid interval")
			return
		}
	}
	query.Offset = (page - 1) * query.Limit

	rows, err := s.store.DepthHistory(r.Context(), pool, query)
	if err != nil {
		s.logger.Error("depth history query failed",
			zap.Error(err),
			zap.String("pool", pool.Asset),
		)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, buildDepthsResponse(rows))
}

func buildDepthsResponse(rows []model.DepthRow) DepthsResponse {
	intervals := make([]DepthInterval, 0, len(rows))

	var (
		assetDepths, liquidityUnits, membersCounts []int64
		runeDepths, synthSupplies, synthUnits      []int64
		units                                      []int64
		assetPrices, assetPricesUSD, luvis         []float64
		minStart, maxEnd                           int64
	)

	for i, row := range rows {
		d := row.Depth
		intervals = append(intervals, DepthInterval{
			AssetDepth:     formatInt(d.AssetDepth),
			AssetPrice:     formatFloat(d.AssetPrice),
			AssetPriceUSD:  formatFloat(d.AssetPriceUSD),
			EndTime:        formatInt(row.EndTime),
			LiquidityUnits: formatInt(d.LiquidityUnits),
			Luvi:           formatFloat(d.LUVI),
			MembersCount:   formatInt(d.MembersCount),
			RuneDepth:      formatInt(d.RuneDepth),
			StartTime:      formatInt(row.StartTime),
			SynthSupply:    formatInt(d.SynthSupply),
			SynthUnits:     formatInt(d.SynthUnits),
			Units:          formatInt(d.Units),
		})

		assetDepths = append(assetDepths, d.AssetDepth)
		liquidityUnits = append(liquidityUnits, d.LiquidityUnits)
		membersCounts = append(membersCounts, d.MembersCount)
		runeDepths = append(runeDepths, d.RuneDepth)
		synthSupplies = append(synthSupplies, d.SynthSupply)
		synthUnits = append(synthUnits, d.SynthUnits)
		units = append(units, d.Units)
		assetPrices = append(assetPrices, d.AssetPrice)
		assetPricesUSD = append(assetPricesUSD, d.AssetPriceUSD)
		luvis = append(luvis, d.LUVI)

		if i == 0 || row.StartTime < minStart {
			minStart = row.StartTime
		}
		if i == 0 || row.EndTime > maxEnd {
			maxEnd = row.EndTime
		}
	}

	stats := AggregatedStats{
		AvgAssetDepth:     averageInts(assetDepths),
		AvgAssetPrice:     averageFloats(assetPrices),
		AvgAssetPriceUSD:  averageFloats(assetPricesUSD),
		AvgLiquidityUnits: averageInts(liquidityUnits),
		AvgLuvi:           averageFloats(luvis),
		AvgMembersCount:   averageInts(membersCounts),
		AvgRuneDepth:      averageInts(runeDepths),
		AvgSynthSupply:    averageInts(synthSupplies),
		AvgSynthUnits:     averageInts(synthUnits),
		AvgUnits:          averageInts(units),
		TotalIntervals:    len(intervals),
	}
	if len(intervals) > 0 {
		stats.TimeRangeStart = formatInt(minStart)
		stats.TimeRangeEnd = formatInt(maxEnd)
	}

	return DepthsResponse{Intervals: intervals, AggregatedStats: stats}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

func averageInts(values []int64) string {
	if len(values) == 0 {
		return "0"
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return formatFloat(sum / float64(len(values)))
}

func averageFloats(values []float64) string {
	if len(values) == 0 {
		return "0"
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return formatFloat(sum / float64(len(values)))
}
