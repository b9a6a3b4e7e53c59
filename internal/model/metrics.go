package model

// BaseMetrics holds the per-pool earnings group of a window record. Values
// come from the earnings history pool list and are written first; the swap
// and depth groups update the same keyed row afterwards.
type BaseMetrics struct {
	AssetLiquidityFees     int64
	Earnings               int64
	Rewards                int64
	RuneLiquidityFees      int64
	SaverEarning           int64
	TotalLiquidityFeesRune int64
}

// SwapLeg holds the counters for one trade direction/type.
type SwapLeg struct {
	AverageSlip float64
	Count       int64
	Fees        int64
	Volume      int64
	VolumeUSD   int64
}

// SwapMetrics holds the swap group of a window record: eight directed legs
// plus run-wide totals for the window.
type SwapMetrics struct {
	AverageSlip  float64
	RunePriceUSD float64

	FromSecured SwapLeg
	FromTrade   SwapLeg
	SynthMint   SwapLeg
	SynthRedeem SwapLeg
	ToAsset     SwapLeg
	ToRune      SwapLeg
	ToSecured   SwapLeg
	ToTrade     SwapLeg

	TotalCount     int64
	TotalFees      int64
	TotalVolume    int64
	TotalVolumeUSD int64
}

// DepthMetrics holds the depth group: pool depth, price, and LUVI at window
// end.
type DepthMetrics struct {
	AssetDepth     int64
	AssetPrice     float64
	AssetPriceUSD  float64
	LiquidityUnits int64
	LUVI           float64
	MembersCount   int64
	RuneDepth      int64
	SynthSupply    int64
	SynthUnits     int64
	Units          int64
}

// GlobalMetrics is the window-level (non-pool) record: network earnings and
// rune pool membership.
type GlobalMetrics struct {
	MemberCount       int64
	MemberUnits       int64
	AvgNodeCount      float64
	BlockRewards      int64
	BondingEarnings   int64
	Earnings          int64
	LiquidityEarnings int64
	LiquidityFees     int64
}

// DepthRow is a stored depth record as returned to the read service.
type DepthRow struct {
	StartTime int64
	EndTime   int64
	Depth     DepthMetrics
}
