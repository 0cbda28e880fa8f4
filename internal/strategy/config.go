package strategy

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// RSIBand is the inclusive RSI range a strategy treats as neutral for entry
// scoring.
type RSIBand struct {
	Low  float64 `yaml:"low" validate:"gte=0,lte=100"`
	High float64 `yaml:"high" validate:"gte=0,lte=100,gtefield=Low"`
}

// Contains reports whether the value lies inside the band (inclusive).
func (b RSIBand) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// Config fully parameterizes a strategy. Variants are named presets of this
// one struct; there is no per-variant code path.
type Config struct {
	Name string `yaml:"name" validate:"required"`

	// Entry scoring: score = sum of weights whose boolean sub-signal holds.
	MACDWeight     float64 `yaml:"macd_weight" validate:"gte=0"`
	RSIWeight      float64 `yaml:"rsi_weight" validate:"gte=0"`
	EMAShortWeight float64 `yaml:"ema_short_weight" validate:"gte=0"`
	EMALongWeight  float64 `yaml:"ema_long_weight" validate:"gte=0"`
	EntryThreshold float64 `yaml:"entry_threshold" validate:"gt=0"`
	RSIBand        RSIBand `yaml:"rsi_band"`

	// Exit rules, in ladder priority order. Percentages of entry price,
	// except DrawdownPct which measures from the post-entry running peak.
	DrawdownPct   float64 `yaml:"drawdown_pct" validate:"gte=0"`
	TakeProfitPct float64 `yaml:"take_profit_pct" validate:"gt=0"`
	StopLossPct   float64 `yaml:"stop_loss_pct" validate:"gt=0"`
	// MaxHoldBars of zero disables the time-based exit.
	MaxHoldBars int `yaml:"max_hold_bars" validate:"gte=0"`

	// ConfirmReversal requires a crossover-up to have been observed since
	// entry before a crossover-down counts as a reversal exit.
	ConfirmReversal bool `yaml:"confirm_reversal"`
	// ExitOnEMAShortBreak adds a price-below-short-EMA reversal trigger.
	ExitOnEMAShortBreak bool `yaml:"exit_on_ema_short_break"`

	// WarmupBars is the minimum leading history before entries are
	// considered.
	WarmupBars int `yaml:"warmup_bars" validate:"gte=1"`
}

// Preset names accepted by New.
const (
	NameBalanced     = "balanced"
	NameCanonical    = "canonical"
	NameAggressive   = "aggressive"
	NameConservative = "conservative"
)

// DefaultWarmupBars is the minimum history every preset requires before
// considering entries.
const DefaultWarmupBars = 50

// BalancedConfig is the default preset.
func BalancedConfig() Config {
	return Config{
		Name:            NameBalanced,
		MACDWeight:      0.5,
		RSIWeight:       0.3,
		EMAShortWeight:  0.1,
		EMALongWeight:   0.1,
		EntryThreshold:  0.3,
		RSIBand:         RSIBand{Low: 40, High: 60},
		DrawdownPct:     8,
		TakeProfitPct:   5,
		StopLossPct:     3,
		MaxHoldBars:     30,
		ConfirmReversal: true,
		WarmupBars:      DefaultWarmupBars,
	}
}

// CanonicalConfig reduces entry to the MACD crossover alone: full weight on
// the crossover signal with a threshold only it can reach, no holding limit,
// and raw (unconfirmed) reversal exits.
func CanonicalConfig() Config {
	return Config{
		Name:           NameCanonical,
		MACDWeight:     1.0,
		EntryThreshold: 1.0,
		RSIBand:        RSIBand{Low: 0, High: 100},
		TakeProfitPct:  5,
		StopLossPct:    3,
		WarmupBars:     DefaultWarmupBars,
	}
}

// AggressiveConfig trades often with tight exits.
func AggressiveConfig() Config {
	return Config{
		Name:                NameAggressive,
		MACDWeight:          0.7,
		RSIWeight:           0.2,
		EMAShortWeight:      0.05,
		EMALongWeight:       0.05,
		EntryThreshold:      0.2,
		RSIBand:             RSIBand{Low: 30, High: 70},
		DrawdownPct:         4,
		TakeProfitPct:       3,
		StopLossPct:         2,
		MaxHoldBars:         7,
		ConfirmReversal:     true,
		ExitOnEMAShortBreak: true,
		WarmupBars:          DefaultWarmupBars,
	}
}

// ConservativeConfig trades rarely with wide exits.
func ConservativeConfig() Config {
	return Config{
		Name:            NameConservative,
		MACDWeight:      0.4,
		RSIWeight:       0.4,
		EMAShortWeight:  0.1,
		EMALongWeight:   0.1,
		EntryThreshold:  0.6,
		RSIBand:         RSIBand{Low: 45, High: 55},
		DrawdownPct:     12,
		TakeProfitPct:   10,
		StopLossPct:     5,
		MaxHoldBars:     60,
		ConfirmReversal: true,
		WarmupBars:      DefaultWarmupBars,
	}
}

var validate = validator.New()

// Validate checks the configuration at construction time. A config whose
// weights cannot ever reach the entry threshold is rejected: it would
// silently never trade.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy configuration", err)
	}

	totalWeight := c.MACDWeight + c.RSIWeight + c.EMAShortWeight + c.EMALongWeight
	if totalWeight == 0 {
		return errors.New(errors.ErrCodeInvalidWeight, "all entry weights are zero")
	}

	if c.EntryThreshold > totalWeight {
		return errors.Newf(errors.ErrCodeInvalidThreshold,
			"entry threshold %f exceeds the maximum reachable score %f",
			c.EntryThreshold, totalWeight)
	}

	return nil
}

// PresetConfig returns the named preset. The lookup is case-insensitive.
func PresetConfig(name string) (Config, error) {
	switch strings.ToLower(name) {
	case NameBalanced, "", "default":
		return BalancedConfig(), nil
	case NameCanonical:
		return CanonicalConfig(), nil
	case NameAggressive:
		return AggressiveConfig(), nil
	case NameConservative:
		return ConservativeConfig(), nil
	default:
		return Config{}, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy %q", name)
	}
}

// LoadConfig reads a strategy configuration from a YAML file. Fields omitted
// from the file keep the balanced preset's values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to read strategy config %s", path)
	}

	cfg := BalancedConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to parse strategy config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
