// Package strategy implements the rule evaluators that decide entries and
// exits over an indicator frame. A strategy owns no per-run state: the open
// position is passed in explicitly by the engine, so one strategy instance is
// re-entrant and safe to share across concurrent backtest runs.
package strategy

import (
	"github.com/rxtech-lab/stocklab/internal/indicator"
	"github.com/rxtech-lab/stocklab/internal/types"
)

// Strategy evaluates entry and exit rules at a single bar index.
type Strategy interface {
	// Name returns the strategy's configured name.
	Name() string
	// Config returns the full parameter set the strategy runs with.
	Config() Config
	// ShouldEntry evaluates the entry rules at bar i. The currently open
	// position (nil when flat) is passed in by the engine.
	ShouldEntry(f *indicator.Frame, i int, open *types.Position) (types.EntryDecision, error)
	// ShouldExit evaluates the exit rule ladder at bar i for the given open
	// position. First matching rule wins.
	ShouldExit(f *indicator.Frame, i int, open *types.Position) (types.ExitDecision, error)
}

// New constructs a strategy from a preset name.
func New(name string) (Strategy, error) {
	cfg, err := PresetConfig(name)
	if err != nil {
		return nil, err
	}

	return NewWeightedStrategy(cfg)
}
