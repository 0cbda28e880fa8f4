package indicator

import "math"

// calculateRSI computes the Relative Strength Index using Wilder's smoothing:
// the first average gain/loss is a simple mean over the first period changes,
// subsequent averages blend in each new change with weight 1/period.
// The first period bars carry NaN.
//
// Degenerate averages are mapped to explicit values instead of letting the
// division produce Inf or NaN:
//   - avgLoss == 0 with gains present: RSI = 100 (uninterrupted uptrend)
//   - avgGain == 0 with losses present: RSI = 0 (uninterrupted downtrend)
//   - both zero (flat price): RSI = 50
func calculateRSI(close []float64, period int) []float64 {
	n := len(close)
	out := make([]float64, n)

	for i := 0; i < n && i < period; i++ {
		out[i] = math.NaN()
	}

	if n <= period {
		return out
	}

	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i <= period; i++ {
		change := close[i] - close[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		change := close[i] - close[i-1]

		gain := 0.0
		loss := 0.0

		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50
	case avgLoss == 0:
		return 100
	case avgGain == 0:
		return 0
	default:
		rs := avgGain / avgLoss

		return 100 - (100 / (1 + rs))
	}
}
