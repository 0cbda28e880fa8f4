package indicator

import (
	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// Config holds every indicator parameter. It is passed explicitly into
// Calculate; there is no package-level configuration state.
type Config struct {
	MACDFastPeriod   int     `yaml:"macd_fast_period" validate:"gt=0"`
	MACDSlowPeriod   int     `yaml:"macd_slow_period" validate:"gt=0,gtfield=MACDFastPeriod"`
	MACDSignalPeriod int     `yaml:"macd_signal_period" validate:"gt=0"`
	RSIPeriod        int     `yaml:"rsi_period" validate:"gt=0"`
	RSIOverbought    float64 `yaml:"rsi_overbought" validate:"gt=0,lte=100"`
	RSIOversold      float64 `yaml:"rsi_oversold" validate:"gte=0,ltfield=RSIOverbought"`
	EMAShortSpan     int     `yaml:"ema_short_span" validate:"gt=0"`
	EMALongSpan      int     `yaml:"ema_long_span" validate:"gt=0,gtfield=EMAShortSpan"`
	BBPeriod         int     `yaml:"bb_period" validate:"gt=1"`
	BBStdDev         float64 `yaml:"bb_std_dev" validate:"gt=0"`
	VolumePeriod     int     `yaml:"volume_period" validate:"gt=0"`
	VolumeSpikeRatio float64 `yaml:"volume_spike_ratio" validate:"gt=0"`
}

// DefaultConfig returns the standard indicator parameters.
func DefaultConfig() Config {
	return Config{
		MACDFastPeriod:   12,
		MACDSlowPeriod:   26,
		MACDSignalPeriod: 9,
		RSIPeriod:        14,
		RSIOverbought:    70,
		RSIOversold:      30,
		EMAShortSpan:     20,
		EMALongSpan:      50,
		BBPeriod:         20,
		BBStdDev:         2.0,
		VolumePeriod:     20,
		VolumeSpikeRatio: 1.5,
	}
}

var validate = validator.New()

// Validate checks the configuration. Malformed parameters are surfaced at
// construction time, never mid-calculation.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid indicator configuration", err)
	}

	return nil
}
