package indicator

import "math"

// calculateEMA computes an exponential moving average with span semantics:
// alpha = 2/(span+1), with adjusted weighting (every value in the series is
// weighted, matching pandas ewm with adjust=true) rather than seeding from a
// simple moving average. The result is defined at every index; NaN inputs
// propagate.
func calculateEMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	alpha := 2.0 / float64(span+1)
	decay := 1.0 - alpha

	// Adjusted EMA is a ratio of two geometric recurrences:
	//   num[t] = x[t] + decay*num[t-1]
	//   den[t] = 1    + decay*den[t-1]
	num := 0.0
	den := 0.0
	started := false

	for i, v := range values {
		if math.IsNaN(v) {
			if !started {
				out[i] = math.NaN()
				continue
			}
			// Hold the previous weighted sums through NaN gaps.
			out[i] = num / den

			continue
		}

		if !started {
			num = v
			den = 1.0
			started = true
		} else {
			num = v + decay*num
			den = 1.0 + decay*den
		}

		out[i] = num / den
	}

	return out
}

// calculateSMA computes a simple moving average over the given period.
// Indices with fewer than period values of history are NaN.
func calculateSMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))

	sum := 0.0

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}

	return out
}
