// Package stats reduces a trade log and equity curve into summary
// performance statistics. The reduction is pure and total: every metric is
// defined for empty input, zero variance and zero trades, so it never
// returns NaN, Inf or an error.
package stats

import (
	"math"

	"github.com/rxtech-lab/stocklab/internal/types"
)

// tradingDaysPerYear annualizes the per-bar Sharpe ratio for daily bars.
const tradingDaysPerYear = 252

// profitFactorCap bounds the profit factor for runs with no losing trades.
const profitFactorCap = 999

// Compute reduces the closed trades and equity curve of one run into a
// Summary.
func Compute(trades []types.Trade, equity []types.EquityPoint, initialCapital float64) types.Summary {
	summary := types.Summary{}

	if initialCapital > 0 && len(equity) > 0 {
		final := equity[len(equity)-1].Value
		summary.TotalReturnPct = (final - initialCapital) / initialCapital * 100
	}

	summary.TotalTrades = len(trades)

	grossProfit := 0.0
	grossLoss := 0.0
	totalHolding := 0

	for _, trade := range trades {
		totalHolding += trade.HoldingBars()

		if trade.IsWinning() {
			summary.WinningTrades++
			grossProfit += trade.PnLDollars
		} else {
			summary.LosingTrades++
			grossLoss += -trade.PnLDollars
		}

		if trade.PnLDollars > summary.MaximumProfit {
			summary.MaximumProfit = trade.PnLDollars
		}

		if trade.PnLDollars < summary.MaximumLoss {
			summary.MaximumLoss = trade.PnLDollars
		}
	}

	if len(trades) > 0 {
		summary.WinRatePct = float64(summary.WinningTrades) / float64(len(trades)) * 100
		summary.AvgHoldingBars = float64(totalHolding) / float64(len(trades))
	}

	switch {
	case grossLoss > 0:
		summary.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		summary.ProfitFactor = profitFactorCap
	}

	summary.MaxDrawdownPct = maxDrawdown(equity)
	summary.SharpeRatio = sharpeRatio(equity)

	return summary
}

// maxDrawdown returns the worst decline from a running equity peak as a
// negative percentage, or 0 when equity never declines.
func maxDrawdown(equity []types.EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Value
	worst := 0.0

	for _, point := range equity {
		if point.Value > peak {
			peak = point.Value
		}

		if peak <= 0 {
			continue
		}

		drawdown := (point.Value - peak) / peak * 100
		if drawdown < worst {
			worst = drawdown
		}
	}

	return worst
}

// sharpeRatio computes mean over sample standard deviation of the per-bar
// return series, annualized by sqrt(252). Zero variance yields 0.
func sharpeRatio(equity []types.EquityPoint) float64 {
	if len(equity) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)

	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			continue
		}

		returns = append(returns, equity[i].Value/prev-1)
	}

	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}

	variance /= float64(len(returns) - 1)

	if variance == 0 {
		return 0
	}

	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
