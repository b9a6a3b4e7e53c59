package midgard

// Payload shapes for the four history endpoint families. Every numeric
// field is Flex-typed so loosely encoded values decode without error.

// EarningsHistory is the /history/earnings response.
type EarningsHistory struct {
	Meta EarningsMeta `json:"meta"`
}

// EarningsMeta carries network-wide earnings plus the per-pool breakdown.
type EarningsMeta struct {
	AvgNodeCount      FlexFloat      `json:"avgNodeCount"`
	BlockRewards      FlexInt        `json:"blockRewards"`
	BondingEarnings   FlexInt        `json:"bondingEarnings"`
	Earnings          FlexInt        `json:"earnings"`
	LiquidityEarnings FlexInt        `json:"liquidityEarnings"`
	LiquidityFees     FlexInt        `json:"liquidityFees"`
	Pools             []PoolEarnings `json:"pools"`
}

// PoolEarnings is one pool's entry in the earnings meta pool list.
type PoolEarnings struct {
	Pool                   string  `json:"pool"`
	AssetLiquidityFees     FlexInt `json:"assetLiquidityFees"`
	Earnings               FlexInt `json:"earnings"`
	Rewards                FlexInt `json:"rewards"`
	RuneLiquidityFees      FlexInt `json:"runeLiquidityFees"`
	SaverEarning           FlexInt `json:"saverEarning"`
	TotalLiquidityFeesRune FlexInt `json:"totalLiquidityFeesRune"`
}

// RunePoolHistory is the /history/runepool response.
type RunePoolHistory struct {
	Intervals []RunePoolInterval `json:"intervals"`
}

// RunePoolInterval carries rune pool membership for one interval.
type RunePoolInterval struct {
	Count FlexInt `json:"count"`
	Units FlexInt `json:"units"`
}

// SwapHistory is the /history/swaps response.
type SwapHistory struct {
	Meta SwapMeta `json:"meta"`
}

// SwapMeta carries the window's swap counters for one pool.
type SwapMeta struct {
	AverageSlip  FlexFloat `json:"averageSlip"`
	RunePriceUSD FlexFloat `json:"runePriceUSD"`

	FromSecuredAverageSlip FlexFloat `json:"fromSecuredAverageSlip"`
	FromSecuredCount       FlexInt   `json:"fromSecuredCount"`
	FromSecuredFees        FlexInt   `json:"fromSecuredFees"`
	FromSecuredVolume      FlexInt   `json:"fromSecuredVolume"`
	FromSecuredVolumeUSD   FlexInt   `json:"fromSecuredVolumeUSD"`

	FromTradeAverageSlip FlexFloat `json:"fromTradeAverageSlip"`
	FromTradeCount       FlexInt   `json:"fromTradeCount"`
	FromTradeFees        FlexInt   `json:"fromTradeFees"`
	FromTradeVolume      FlexInt   `json:"fromTradeVolume"`
	FromTradeVolumeUSD   FlexInt   `json:"fromTradeVolumeUSD"`

	SynthMintAverageSlip FlexFloat `json:"synthMintAverageSlip"`
	SynthMintCount       FlexInt   `json:"synthMintCount"`
	SynthMintFees        FlexInt   `json:"synthMintFees"`
	SynthMintVolume      FlexInt   `json:"synthMintVolume"`
	SynthMintVolumeUSD   FlexInt   `json:"synthMintVolumeUSD"`

	SynthRedeemAverageSlip FlexFloat `json:"synthRedeemAverageSlip"`
	SynthRedeemCount       FlexInt   `json:"synthRedeemCount"`
	SynthRedeemFees        FlexInt   `json:"synthRedeemFees"`
	SynthRedeemVolume      FlexInt   `json:"synthRedeemVolume"`
	SynthRedeemVolumeUSD   FlexInt   `json:"synthRedeemVolumeUSD"`

	ToAssetAverageSlip FlexFloat `json:"toAssetAverageSlip"`
	ToAssetCount       FlexInt   `json:"toAssetCount"`
	ToAssetFees        FlexInt   `json:"toAssetFees"`
	ToAssetVolume      FlexInt   `json:"toAssetVolume"`
	ToAssetVolumeUSD   FlexInt   `json:"toAssetVolumeUSD"`

	ToRuneAverageSlip FlexFloat `json:"toRuneAverageSlip"`
	ToRuneCount       FlexInt   `json:"toRuneCount"`
	ToRuneFees        FlexInt   `json:"toRuneFees"`
	ToRuneVolume      FlexInt   `json:"toRuneVolume"`
	ToRuneVolumeUSD   FlexInt   `json:"toRuneVolumeUSD"`

	ToSecuredAverageSlip FlexFloat `json:"toSecuredAverageSlip"`
	ToSecuredCount       FlexInt   `json:"toSecuredCount"`
	ToSecuredFees        FlexInt   `json:"toSecuredFees"`
	ToSecuredVolume      FlexInt   `json:"toSecuredVolume"`
	ToSecuredVolumeUSD   FlexInt   `json:"toSecuredVolumeUSD"`

	ToTradeAverageSlip FlexFloat `json:"toTradeAverageSlip"`
	ToTradeCount       FlexInt   `json:"toTradeCount"`
	ToTradeFees        FlexInt   `json:"toTradeFees"`
	ToTradeVolume      FlexInt   `json:"toTradeVolume"`
	ToTradeVolumeUSD   FlexInt   `json:"toTradeVolumeUSD"`

	TotalCount     FlexInt `json:"totalCount"`
	TotalFees      FlexInt `json:"totalFees"`
	TotalVolume    FlexInt `json:"totalVolume"`
	TotalVolumeUSD FlexInt `json:"totalVolumeUSD"`
}

// DepthHistory is the /history/depths/{pool} response.
type DepthHistory struct {
	Intervals []DepthInterval `json:"intervals"`
}

// DepthInterval carries the pool's depth/price/LUVI state for one interval.
type DepthInterval struct {
	AssetDepth     FlexInt   `json:"assetDepth"`
	AssetPrice     FlexFloat `json:"assetPrice"`
	AssetPriceUSD  FlexFloat `json:"assetPriceUSD"`
	LiquidityUnits FlexInt   `json:"liquidityUnits"`
	LUVI           FlexFloat `json:"luvi"`
	MembersCount   FlexInt   `json:"membersCount"`
	RuneDepth      FlexInt   `json:"runeDepth"`
	SynthSupply    FlexInt   `json:"synthSupply"`
	SynthUnits     FlexInt   `json:"synthUnits"`
	Units          FlexInt   `json:"units"`
}
