package ingest

import (
	"runeScope/internal/midgard"
	"runeScope/internal/model"
)

// Mapping from Midgard payloads to stored records. All functions are pure;
// the tolerant decoding already happened at unmarshal time.

// globalMetrics combines earnings meta and the first runepool interval into
// the window-level record. An empty runepool interval list contributes
// zeroes, matching the decoder's sparse-window default.
func globalMetrics(earnings *midgard.EarningsHistory, runePool *midgard.RunePoolHistory) model.GlobalMetrics {
	g := model.GlobalMetrics{
		AvgNodeCount:      float64(earnings.Meta.AvgNodeCount),
		BlockRewards:      int64(earnings.Meta.BlockRewards),
		BondingEarnings:   int64(earnings.Meta.BondingEarnings),
		Earnings:          int64(earnings.Meta.Earnings),
		LiquidityEarnings: int64(earnings.Meta.LiquidityEarnings),
		LiquidityFees:     int64(earnings.Meta.LiquidityFees),
	}
	if len(runePool.Intervals) > 0 {
		g.MemberCount = int64(runePool.Intervals[0].Count)
		g.MemberUnits = int64(runePool.Intervals[0].Units)
	}
	return g
}

// baseMetrics locates the pool in the earnings meta pool list. A pool
// absent from the window's list means the pool is skipped for that window.
func baseMetrics(earnings *midgard.EarningsHistory, asset string) (model.BaseMetrics, bool) {
	for _, p := range earnings.Meta.Pools {
		if p.Pool != asset {
			continue
		}
		return model.BaseMetrics{
			AssetLiquidityFees:     int64(p.AssetLiquidityFees),
			Earnings:               int64(p.Earnings),
			Rewards:                int64(p.Rewards),
			RuneLiquidityFees:      int64(p.RuneLiquidityFees),
			SaverEarning:           int64(p.SaverEarning),
			TotalLiquidityFeesRune: int64(p.TotalLiquidityFeesRune),
		}, true
	}
	return model.BaseMetrics{}, false
}

func swapMetrics(swaps *midgard.SwapHistory) model.SwapMetrics {
	m := swaps.Meta
	return model.SwapMetrics{
		AverageSlip:  float64(m.AverageSlip),
		RunePriceUSD: float64(m.RunePriceUSD),
		FromSecured:  swapLeg(m.FromSecuredAverageSlip, m.FromSecuredCount, m.FromSecuredFees, m.FromSecuredVolume, m.FromSecuredVolumeUSD),
		FromTrade:    swapLeg(m.FromTradeAverageSlip, m.FromTradeCount, m.FromTradeFees, m.FromTradeVolume, m.FromTradeVolumeUSD),
		SynthMint:    swapLeg(m.SynthMintAverageSlip, m.SynthMintCount, m.SynthMintFees, m.SynthMintVolume, m.SynthMintVolumeUSD),
		SynthRedeem:  swapLeg(m.SynthRedeemAverageSlip, m.SynthRedeemCount, m.SynthRedeemFees, m.SynthRedeemVolume, m.SynthRedeemVolumeUSD),
		ToAsset:      swapLeg(m.ToAssetAverageSlip, m.ToAssetCount, m.ToAssetFees, m.ToAssetVolume, m.ToAssetVolumeUSD),
		ToRune:       swapLeg(m.ToRuneAverageSlip, m.ToRuneCount, m.ToRuneFees, m.ToRuneVolume, m.ToRuneVolumeUSD),
		ToSecured:    swapLeg(m.ToSecuredAverageSlip, m.ToSecuredCount, m.ToSecuredFees, m.ToSecuredVolume, m.ToSecuredVolumeUSD),
		ToTrade:      swapLeg(m.ToTradeAverageSlip, m.ToTradeCount, m.ToTradeFees, m.ToTradeVolume, m.ToTradeVolumeUSD),

		TotalCount:     int64(m.TotalCount),
		TotalFees:      int64(m.TotalFees),
		TotalVolume:    int64(m.TotalVolume),
		TotalVolumeUSD: int64(m.TotalVolumeUSD),
	}
}

func swapLeg(slip midgard.FlexFloat, count, fees, volume, volumeUSD midgard.FlexInt) model.SwapLeg {
	return model.SwapLeg{
		AverageSlip: float64(slip),
		Count:       int64(count),
		Fees:        int64(fees),
		Volume:      int64(volume),
		VolumeUSD:   int64(volumeUSD),
	}
}

// depthMetrics reads the first depth interval. Upstream omits intervals for
// empty windows; the record then carries zero values rather than skipping.
func depthMetrics(depths *midgard.DepthHistory) model.DepthMetrics {
	if len(depths.Intervals) == 0 {
		return model.DepthMetrics{}
	}
	iv := depths.Intervals[0]
	return model.DepthMetrics{
		AssetDepth:     int64(iv.AssetDepth),
		AssetPrice:     float64(iv.AssetPrice),
		AssetPriceUSD:  float64(iv.AssetPriceUSD),
		LiquidityUnits: int64(iv.LiquidityUnits),
		LUVI:           float64(iv.LUVI),
		MembersCount:   int64(iv.MembersCount),
		RuneDepth:      int64(iv.RuneDepth),
		SynthSupply:    int64(iv.SynthSupply),
		SynthUnits:     int64(iv.SynthUnits),
		Units:          int64(iv.Units),
	}
}
