package strategy

import (
	"math"

	"github.com/rxtech-lab/stocklab/internal/indicator"
	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// WeightedStrategy scores a fixed set of boolean sub-signals (MACD
// crossover-up, RSI inside the neutral band, price above short EMA, price
// above long EMA) with configured weights and enters when the score reaches
// the threshold. Exits follow a fixed priority ladder. All behavior comes
// from the Config; variants are presets, not subtypes.
type WeightedStrategy struct {
	cfg Config
}

// NewWeightedStrategy validates the configuration and builds the strategy.
func NewWeightedStrategy(cfg Config) (*WeightedStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &WeightedStrategy{cfg: cfg}, nil
}

// Name implements Strategy.
func (s *WeightedStrategy) Name() string {
	return s.cfg.Name
}

// Config implements Strategy.
func (s *WeightedStrategy) Config() Config {
	return s.cfg
}

// ShouldEntry implements Strategy. NaN indicator values make their
// sub-signal false and are named in the rationale under "nan_inputs"; they
// never propagate into the score.
func (s *WeightedStrategy) ShouldEntry(f *indicator.Frame, i int, open *types.Position) (types.EntryDecision, error) {
	if i < 0 || i >= f.Len() {
		return types.EntryDecision{}, errors.Newf(errors.ErrCodeStrategyRuntimeError,
			"entry evaluation index %d out of range [0,%d)", i, f.Len())
	}

	if open != nil {
		return types.EntryDecision{
			Signal:    false,
			Threshold: s.cfg.EntryThreshold,
			Rationale: map[string]any{"reason": "already in position"},
		}, nil
	}

	if i < s.cfg.WarmupBars {
		return types.EntryDecision{
			Signal:    false,
			Threshold: s.cfg.EntryThreshold,
			Rationale: map[string]any{"reason": "insufficient data"},
		}, nil
	}

	var nanInputs []string

	macdUp := f.MACDCrossUp[i]
	if math.IsNaN(f.MACDLine[i]) || math.IsNaN(f.MACDSignal[i]) {
		nanInputs = append(nanInputs, "macd")
	}

	rsiNeutral := false

	rsiValue := f.RSI[i]
	if math.IsNaN(rsiValue) {
		nanInputs = append(nanInputs, "rsi")
	} else {
		rsiNeutral = s.cfg.RSIBand.Contains(rsiValue)
	}

	aboveShort := f.PriceAboveEMAShort[i]
	if math.IsNaN(f.EMAShort[i]) {
		nanInputs = append(nanInputs, "ema_short")
	}

	aboveLong := f.PriceAboveEMALong[i]
	if math.IsNaN(f.EMALong[i]) {
		nanInputs = append(nanInputs, "ema_long")
	}

	score := 0.0
	if macdUp {
		score += s.cfg.MACDWeight
	}

	if rsiNeutral {
		score += s.cfg.RSIWeight
	}

	if aboveShort {
		score += s.cfg.EMAShortWeight
	}

	if aboveLong {
		score += s.cfg.EMALongWeight
	}

	rationale := map[string]any{
		"macd_crossover_up":     macdUp,
		"macd_weight":           s.cfg.MACDWeight,
		"rsi_neutral":           rsiNeutral,
		"rsi_weight":            s.cfg.RSIWeight,
		"rsi_value":             rsiValue,
		"price_above_ema_short": aboveShort,
		"ema_short_weight":      s.cfg.EMAShortWeight,
		"price_above_ema_long":  aboveLong,
		"ema_long_weight":       s.cfg.EMALongWeight,
	}

	if len(nanInputs) > 0 {
		rationale["nan_inputs"] = nanInputs
	}

	return types.EntryDecision{
		Signal:    score >= s.cfg.EntryThreshold,
		Score:     score,
		Threshold: s.cfg.EntryThreshold,
		Rationale: rationale,
	}, nil
}

// ShouldExit implements Strategy. The ladder is evaluated in order:
// drawdown-from-peak, take-profit, stop-loss, signal reversal, time-based.
// The first matching rule wins.
func (s *WeightedStrategy) ShouldExit(f *indicator.Frame, i int, open *types.Position) (types.ExitDecision, error) {
	if open == nil {
		return types.ExitDecision{}, errors.New(errors.ErrCodeStrategyRuntimeError,
			"exit evaluation requires an open position")
	}

	if i <= open.EntryIndex || i >= f.Len() {
		return types.ExitDecision{}, errors.Newf(errors.ErrCodeStrategyRuntimeError,
			"exit evaluation index %d out of range (%d,%d)", i, open.EntryIndex, f.Len())
	}

	close := f.Close(i)
	barsHeld := i - open.EntryIndex

	rationale := map[string]any{
		"close":       close,
		"entry_price": open.EntryPrice,
		"peak_price":  open.PeakPrice,
		"bars_held":   barsHeld,
	}

	// 1. Drawdown-from-peak protection.
	if s.cfg.DrawdownPct > 0 {
		drawdown := (close - open.PeakPrice) / open.PeakPrice
		rationale["drawdown_from_peak"] = drawdown

		if drawdown < -s.cfg.DrawdownPct/100 {
			rationale["drawdown_limit_pct"] = s.cfg.DrawdownPct

			return types.ExitDecision{
				Signal:    true,
				ExitType:  types.ExitTypeDrawdownProtection,
				Rationale: rationale,
			}, nil
		}
	}

	gain := (close - open.EntryPrice) / open.EntryPrice
	rationale["gain_from_entry"] = gain

	// 2. Take-profit.
	if gain > s.cfg.TakeProfitPct/100 {
		rationale["take_profit_pct"] = s.cfg.TakeProfitPct

		return types.ExitDecision{
			Signal:    true,
			ExitType:  types.ExitTypeTakeProfit,
			Rationale: rationale,
		}, nil
	}

	// 3. Stop-loss.
	if gain < -s.cfg.StopLossPct/100 {
		rationale["stop_loss_pct"] = s.cfg.StopLossPct

		return types.ExitDecision{
			Signal:    true,
			ExitType:  types.ExitTypeStopLoss,
			Rationale: rationale,
		}, nil
	}

	// 4. Signal reversal.
	if f.MACDCrossDown[i] {
		confirmed := true
		if s.cfg.ConfirmReversal {
			confirmed = crossUpSince(f, open.EntryIndex, i)
			rationale["reversal_confirmed"] = confirmed
		}

		if confirmed {
			rationale["macd_crossover_down"] = true

			return types.ExitDecision{
				Signal:    true,
				ExitType:  types.ExitTypeMACDCrossoverDown,
				Rationale: rationale,
			}, nil
		}
	}

	if s.cfg.ExitOnEMAShortBreak && !math.IsNaN(f.EMAShort[i]) && !f.PriceAboveEMAShort[i] {
		rationale["ema_short"] = f.EMAShort[i]

		return types.ExitDecision{
			Signal:    true,
			ExitType:  types.ExitTypePriceBelowEMAShort,
			Rationale: rationale,
		}, nil
	}

	// 5. Time-based exit.
	if s.cfg.MaxHoldBars > 0 && barsHeld > s.cfg.MaxHoldBars {
		rationale["max_hold_bars"] = s.cfg.MaxHoldBars

		return types.ExitDecision{
			Signal:    true,
			ExitType:  types.ExitTypeTimeBased,
			Rationale: rationale,
		}, nil
	}

	return types.ExitDecision{
		Signal:    false,
		ExitType:  types.ExitTypeNone,
		Rationale: rationale,
	}, nil
}

// crossUpSince reports whether a MACD crossover-up occurred at any bar in
// [entryIndex, i].
func crossUpSince(f *indicator.Frame, entryIndex, i int) bool {
	for j := entryIndex; j <= i; j++ {
		if f.MACDCrossUp[j] {
			return true
		}
	}

	return false
}
