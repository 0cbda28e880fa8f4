package indicator

import "math"

// volumeColumns holds the per-bar volume moving average and spike flags.
type volumeColumns struct {
	MA    []float64
	Spike []bool
}

// calculateVolume computes the volume moving average over period and flags
// bars whose volume exceeds spikeRatio times that average. The flag is false
// wherever the average is undefined.
func calculateVolume(volume []float64, period int, spikeRatio float64) volumeColumns {
	cols := volumeColumns{
		MA:    calculateSMA(volume, period),
		Spike: make([]bool, len(volume)),
	}

	for i, ma := range cols.MA {
		if math.IsNaN(ma) {
			continue
		}

		cols.Spike[i] = volume[i] > spikeRatio*ma
	}

	return cols
}
