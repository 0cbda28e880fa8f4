package types

import (
	"time"

	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// Bar is one time-indexed OHLCV observation.
type Bar struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// Validate checks the per-bar invariants: OHLC strictly positive and
// volume non-negative.
func (b Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return errors.Newf(errors.ErrCodeInvalidBar,
			"bar at %s has non-positive OHLC (open=%f high=%f low=%f close=%f)",
			b.Time.Format(time.RFC3339), b.Open, b.High, b.Low, b.Close)
	}

	if b.Volume < 0 {
		return errors.Newf(errors.ErrCodeInvalidBar,
			"bar at %s has negative volume %f", b.Time.Format(time.RFC3339), b.Volume)
	}

	return nil
}

// ValidateSeries checks that bars form a valid series: every bar passes
// Validate and timestamps are strictly increasing.
func ValidateSeries(bars []Bar) error {
	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return err
		}

		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidBar,
				"bar timestamps must be strictly increasing: bar %d (%s) is not after bar %d (%s)",
				i, bar.Time.Format(time.RFC3339), i-1, bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}
