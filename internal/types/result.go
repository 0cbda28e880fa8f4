package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EquityPoint is one sample of the equity curve: available capital plus the
// mark-to-market value of any open position at that bar.
type EquityPoint struct {
	Time  time.Time `yaml:"time"`
	Value float64   `yaml:"value"`
}

// Summary holds the aggregate performance statistics of a backtest run.
// All fields are zero-safe: a run with no closed trades produces a Summary
// of zeros, never NaN or Inf.
type Summary struct {
	TotalReturnPct float64 `yaml:"total_return_pct"`
	WinRatePct     float64 `yaml:"win_rate_pct"`
	// SharpeRatio is computed from the per-bar return series of the equity
	// curve, annualized by sqrt(252). Zero when the return series has no
	// variance.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// MaxDrawdownPct is the worst decline from a running equity peak,
	// expressed as a negative percentage (0 when equity never declines).
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct"`
	TotalTrades    int     `yaml:"total_trades"`
	WinningTrades  int     `yaml:"winning_trades"`
	LosingTrades   int     `yaml:"losing_trades"`
	// ProfitFactor is gross profit divided by gross loss (0 when there are
	// no losing trades).
	ProfitFactor   float64 `yaml:"profit_factor"`
	MaximumProfit  float64 `yaml:"maximum_profit"`
	MaximumLoss    float64 `yaml:"maximum_loss"`
	AvgHoldingBars float64 `yaml:"avg_holding_bars"`
}

// BacktestResult is the immutable output of one backtest run.
type BacktestResult struct {
	// ID is a unique identifier for this run, assigned by the caller (the
	// engine itself leaves it empty so that Run output stays deterministic).
	ID string `yaml:"id,omitempty"`
	// Timestamp is when this run was executed, assigned alongside ID.
	Timestamp      time.Time     `yaml:"timestamp,omitempty"`
	Symbol         string        `yaml:"symbol"`
	Strategy       string        `yaml:"strategy"`
	InitialCapital float64       `yaml:"initial_capital"`
	FinalEquity    float64       `yaml:"final_equity"`
	Trades         []Trade       `yaml:"trades"`
	EquityCurve    []EquityPoint `yaml:"equity_curve"`
	// OpenPosition holds a position still open at the final bar. The engine
	// never fabricates an exit for it; it is reported here with its
	// unrealized PnL instead.
	OpenPosition    *Position `yaml:"open_position,omitempty"`
	OpenPositionPnL float64   `yaml:"open_position_pnl,omitempty"`
	Summary         Summary   `yaml:"summary"`
}

// WriteResult marshals the result to YAML and writes it to the given path.
func WriteResult(path string, result *BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
