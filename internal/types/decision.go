package types

// ExitType identifies which exit rule closed a position.
type ExitType string

const (
	// ExitTypeDrawdownProtection fires when price falls too far from the
	// post-entry running peak.
	ExitTypeDrawdownProtection ExitType = "drawdown_protection"
	// ExitTypeTakeProfit fires when the gain from entry exceeds the
	// take-profit percentage.
	ExitTypeTakeProfit ExitType = "take_profit"
	// ExitTypeStopLoss fires when the loss from entry exceeds the stop-loss
	// percentage.
	ExitTypeStopLoss ExitType = "stop_loss"
	// ExitTypeMACDCrossoverDown fires on a MACD signal reversal.
	ExitTypeMACDCrossoverDown ExitType = "macd_crossover_down"
	// ExitTypePriceBelowEMAShort fires when price breaks below the short EMA.
	ExitTypePriceBelowEMAShort ExitType = "price_below_ema_short"
	// ExitTypeTimeBased fires when a position has been held longer than the
	// maximum holding period.
	ExitTypeTimeBased ExitType = "time_based_exit"
	// ExitTypeNone means no exit rule fired.
	ExitTypeNone ExitType = ""
)

// EntryDecision is the result of evaluating entry rules at one bar.
// Rationale names every sub-condition that contributed to the score so the
// decision is fully reproducible: summing the weighted boolean sub-signals
// named in Rationale yields Score again.
type EntryDecision struct {
	Signal    bool           `yaml:"signal"`
	Score     float64        `yaml:"score"`
	Threshold float64        `yaml:"threshold"`
	Rationale map[string]any `yaml:"rationale"`
}

// ExitDecision is the result of evaluating the exit rule ladder at one bar.
type ExitDecision struct {
	Signal    bool           `yaml:"signal"`
	ExitType  ExitType       `yaml:"exit_type"`
	Rationale map[string]any `yaml:"rationale"`
}
