package indicator

import "math"

// bollingerColumns holds the per-bar Bollinger Band series.
type bollingerColumns struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// calculateBollingerBands computes the middle band (SMA over period) and the
// upper/lower bands at stdDev sample standard deviations. Indices with fewer
// than period bars of history are NaN.
func calculateBollingerBands(close []float64, period int, stdDev float64) bollingerColumns {
	n := len(close)
	cols := bollingerColumns{
		Upper:  make([]float64, n),
		Middle: calculateSMA(close, period),
		Lower:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		if i < period-1 {
			cols.Upper[i] = math.NaN()
			cols.Lower[i] = math.NaN()

			continue
		}

		mean := cols.Middle[i]
		variance := 0.0

		for j := i - period + 1; j <= i; j++ {
			diff := close[j] - mean
			variance += diff * diff
		}

		// Sample standard deviation (ddof=1), matching the usual rolling
		// std definition.
		sd := math.Sqrt(variance / float64(period-1))

		cols.Upper[i] = mean + stdDev*sd
		cols.Lower[i] = mean - stdDev*sd
	}

	return cols
}
