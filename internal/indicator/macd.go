package indicator

import "math"

// macdColumns holds the per-bar MACD series and crossover flags.
type macdColumns struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
	CrossUp   []bool
	CrossDown []bool
}

// calculateMACD computes the MACD line (fast EMA minus slow EMA), its signal
// line (EMA of the MACD line) and histogram, plus boolean crossover flags.
//
// The first slowPeriod bars carry NaN: there is not enough history for the
// slow EMA to be meaningful there. Crossover flags are defined from index 1
// and are false whenever either operand of the comparison is NaN.
func calculateMACD(close []float64, fastPeriod, slowPeriod, signalPeriod int) macdColumns {
	n := len(close)
	cols := macdColumns{
		Line:      make([]float64, n),
		Signal:    make([]float64, n),
		Histogram: make([]float64, n),
		CrossUp:   make([]bool, n),
		CrossDown: make([]bool, n),
	}

	fastEMA := calculateEMA(close, fastPeriod)
	slowEMA := calculateEMA(close, slowPeriod)

	for i := 0; i < n; i++ {
		if i < slowPeriod {
			cols.Line[i] = math.NaN()
		} else {
			cols.Line[i] = fastEMA[i] - slowEMA[i]
		}
	}

	// The signal line smooths only the defined region of the MACD line.
	if n > slowPeriod {
		signalEMA := calculateEMA(cols.Line[slowPeriod:], signalPeriod)
		for i := 0; i < slowPeriod && i < n; i++ {
			cols.Signal[i] = math.NaN()
		}

		copy(cols.Signal[slowPeriod:], signalEMA)
	} else {
		for i := 0; i < n; i++ {
			cols.Signal[i] = math.NaN()
		}
	}

	for i := 0; i < n; i++ {
		if math.IsNaN(cols.Line[i]) || math.IsNaN(cols.Signal[i]) {
			cols.Histogram[i] = math.NaN()
		} else {
			cols.Histogram[i] = cols.Line[i] - cols.Signal[i]
		}
	}

	for i := 1; i < n; i++ {
		if math.IsNaN(cols.Line[i]) || math.IsNaN(cols.Signal[i]) ||
			math.IsNaN(cols.Line[i-1]) || math.IsNaN(cols.Signal[i-1]) {
			continue
		}

		cols.CrossUp[i] = cols.Line[i] > cols.Signal[i] && cols.Line[i-1] <= cols.Signal[i-1]
		cols.CrossDown[i] = cols.Line[i] < cols.Signal[i] && cols.Line[i-1] >= cols.Signal[i-1]
	}

	return cols
}
