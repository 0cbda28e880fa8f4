// Package engine implements the deterministic single-pass backtest
// simulation: it walks an indicator frame bar by bar, asks the strategy for
// entry and exit decisions, owns the single open position's lifecycle and
// produces an immutable result with a trade log, an equity curve and summary
// statistics.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rxtech-lab/stocklab/internal/indicator"
	"github.com/rxtech-lab/stocklab/internal/logger"
	"github.com/rxtech-lab/stocklab/internal/stats"
	"github.com/rxtech-lab/stocklab/internal/strategy"
	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// OnProcessDataCallback is called for each bar processed. Returning an error
// aborts the run.
type OnProcessDataCallback func(current int, total int) error

// BacktestEngineV1 runs one strategy over one symbol's indicator frame.
// The engine holds no per-run state between calls; Run may be invoked
// concurrently for different frames.
type BacktestEngineV1 struct {
	config BacktestEngineV1Config
	log    *logger.Logger
}

// NewBacktestEngineV1 validates the configuration and builds the engine.
// A nil logger disables logging.
func NewBacktestEngineV1(config BacktestEngineV1Config, log *logger.Logger) (*BacktestEngineV1, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config: config,
		log:    log,
	}, nil
}

// Run executes the simulation. The frame must be chronologically sorted and
// longer than the warm-up window. A position still open at the final bar is
// not force-closed: it is reported on the result with its unrealized PnL.
//
// Given the same frame, strategy configuration and engine configuration, the
// output is bit-for-bit reproducible.
func (b *BacktestEngineV1) Run(frame *indicator.Frame, strat strategy.Strategy, onData OnProcessDataCallback) (*types.BacktestResult, error) {
	if frame == nil || frame.Len() == 0 {
		return nil, errors.NewInsufficientDataError(b.config.WarmupBars+1, 0, "",
			"cannot run backtest on an empty frame")
	}

	if frame.Len() <= b.config.WarmupBars {
		return nil, errors.NewInsufficientDataErrorf(b.config.WarmupBars+1, frame.Len(), frame.Symbol,
			"frame for %s has %d bars, need more than the %d-bar warm-up window",
			frame.Symbol, frame.Len(), b.config.WarmupBars)
	}

	state := newRunState(b.config.InitialCapital)
	total := frame.Len()

	b.log.Debug("Starting backtest run",
		zap.String("symbol", frame.Symbol),
		zap.String("strategy", strat.Name()),
		zap.Int("bars", total),
		zap.Float64("initial_capital", b.config.InitialCapital),
	)

	for i := b.config.WarmupBars; i < total; i++ {
		bar := frame.Bar(i)

		if !b.inWindow(bar) {
			continue
		}

		if onData != nil {
			if err := onData(i+1, total); err != nil {
				return nil, errors.Wrap(errors.ErrCodeBacktestStateError, "backtest aborted by callback", err)
			}
		}

		if state.open == nil {
			if err := b.tryEntry(frame, strat, state, i); err != nil {
				return nil, err
			}
		} else {
			if err := b.tryExit(frame, strat, state, i); err != nil {
				return nil, err
			}
		}

		state.markEquity(bar.Time, bar.Close)
	}

	return b.buildResult(frame, strat, state), nil
}

// tryEntry asks the strategy for an entry decision and opens a position when
// it fires.
func (b *BacktestEngineV1) tryEntry(frame *indicator.Frame, strat strategy.Strategy, state *runState, i int) error {
	decision, err := strat.ShouldEntry(frame, i, state.open)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
			"entry evaluation failed at bar %d", i)
	}

	if nanInputs, ok := decision.Rationale["nan_inputs"]; ok {
		b.log.Debug("NaN indicator inputs treated as false",
			zap.String("symbol", frame.Symbol),
			zap.Int("bar", i),
			zap.Any("inputs", nanInputs),
		)
	}

	if !decision.Signal {
		return nil
	}

	bar := frame.Bar(i)

	shares := b.positionShares(state.cash, bar.Close)
	if shares <= 0 {
		b.log.Debug("Entry signal skipped: cannot size a position",
			zap.String("symbol", frame.Symbol),
			zap.Int("bar", i),
			zap.Float64("cash", state.cash),
		)

		return nil
	}

	reason := fmt.Sprintf("entry score %.4f >= threshold %.4f", decision.Score, decision.Threshold)
	if err := state.openPosition(frame.Symbol, i, bar.Time, bar.Close, shares, reason); err != nil {
		return err
	}

	b.log.Debug("Opened position",
		zap.String("symbol", frame.Symbol),
		zap.Int("bar", i),
		zap.Float64("price", bar.Close),
		zap.Float64("shares", shares),
	)

	return nil
}

// tryExit asks the strategy for an exit decision; on exit the position
// becomes a trade, otherwise the running peak advances.
func (b *BacktestEngineV1) tryExit(frame *indicator.Frame, strat strategy.Strategy, state *runState, i int) error {
	decision, err := strat.ShouldExit(frame, i, state.open)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
			"exit evaluation failed at bar %d", i)
	}

	bar := frame.Bar(i)

	if !decision.Signal {
		state.open.UpdatePeak(bar.Close)

		return nil
	}

	trade, err := state.closePosition(i, bar.Time, bar.Close, exitReason(decision), decision.ExitType)
	if err != nil {
		return err
	}

	b.log.Debug("Closed position",
		zap.String("symbol", frame.Symbol),
		zap.Int("bar", i),
		zap.String("exit_type", string(trade.ExitType)),
		zap.Float64("pnl", trade.PnLDollars),
	)

	return nil
}

// positionShares sizes a new position: PositionSizingPct of current capital,
// clamped to [MinPositionDollars, MaxPositionPct of capital] and to the cash
// actually available. Returns zero when no valid size exists.
func (b *BacktestEngineV1) positionShares(cash, price float64) float64 {
	if price <= 0 || cash <= 0 {
		return 0
	}

	size := cash * b.config.PositionSizingPct / 100

	if size < b.config.MinPositionDollars {
		size = b.config.MinPositionDollars
	}

	if maxSize := cash * b.config.MaxPositionPct / 100; size > maxSize {
		size = maxSize
	}

	if size > cash {
		size = cash
	}

	if size <= 0 {
		return 0
	}

	return size / price
}

func (b *BacktestEngineV1) inWindow(bar types.Bar) bool {
	if b.config.StartTime.IsSome() && bar.Time.Before(b.config.StartTime.Unwrap()) {
		return false
	}

	if b.config.EndTime.IsSome() && bar.Time.After(b.config.EndTime.Unwrap()) {
		return false
	}

	return true
}

func (b *BacktestEngineV1) buildResult(frame *indicator.Frame, strat strategy.Strategy, state *runState) *types.BacktestResult {
	result := &types.BacktestResult{
		Symbol:         frame.Symbol,
		Strategy:       strat.Name(),
		InitialCapital: b.config.InitialCapital,
		Trades:         state.trades,
		EquityCurve:    state.equity,
	}

	lastClose := frame.Close(frame.Len() - 1)
	result.FinalEquity = state.currentEquity(lastClose)

	if state.open != nil {
		open := *state.open
		result.OpenPosition = &open
		result.OpenPositionPnL = open.UnrealizedPnL(lastClose)
	}

	result.Summary = stats.Compute(state.trades, state.equity, b.config.InitialCapital)

	return result
}

func exitReason(decision types.ExitDecision) string {
	switch decision.ExitType {
	case types.ExitTypeDrawdownProtection:
		return fmt.Sprintf("drawdown from peak %.4f breached limit", decision.Rationale["drawdown_from_peak"])
	case types.ExitTypeTakeProfit:
		return fmt.Sprintf("gain from entry %.4f above take-profit", decision.Rationale["gain_from_entry"])
	case types.ExitTypeStopLoss:
		return fmt.Sprintf("loss from entry %.4f below stop-loss", decision.Rationale["gain_from_entry"])
	case types.ExitTypeMACDCrossoverDown:
		return "macd crossover down"
	case types.ExitTypePriceBelowEMAShort:
		return "price below short ema"
	case types.ExitTypeTimeBased:
		return fmt.Sprintf("held %v bars, past maximum", decision.Rationale["bars_held"])
	default:
		return string(decision.ExitType)
	}
}
