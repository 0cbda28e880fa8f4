// Package indicator transforms an OHLCV series into a column-oriented frame
// augmented with technical indicators: MACD, RSI, short/long EMA, Bollinger
// Bands and a volume moving average, plus derived boolean state flags.
//
// Every column is a deterministic pure function of the close/volume history
// up to and including its bar; nothing here looks ahead. Bars without enough
// history for a given indicator carry NaN for that indicator only.
package indicator

import (
	"math"

	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// Frame is a Bar-indexed table of OHLCV data plus indicator columns, stored
// as parallel slices. It is read-only once built; concurrent backtest runs
// may share one Frame safely.
type Frame struct {
	Symbol string
	Bars   []types.Bar

	MACDLine      []float64
	MACDSignal    []float64
	MACDHistogram []float64
	MACDCrossUp   []bool
	MACDCrossDown []bool

	RSI           []float64
	RSIOverbought []bool
	RSIOversold   []bool
	RSINeutral    []bool

	EMAShort           []float64
	EMALong            []float64
	PriceAboveEMAShort []bool
	PriceAboveEMALong  []bool

	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64

	VolumeMA    []float64
	VolumeSpike []bool
}

// Calculate builds a Frame from a chronologically ordered OHLCV series.
// It fails fast on structural problems (empty input, invalid bars, invalid
// configuration); NaN prefixes from insufficient history are expected and
// left in place for decision-time handling.
func Calculate(symbol string, bars []types.Bar, cfg Config) (*Frame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, errors.NewInsufficientDataErrorf(1, 0, symbol,
			"cannot calculate indicators for %s: no bars provided", symbol)
	}

	if err := types.ValidateSeries(bars); err != nil {
		return nil, err
	}

	n := len(bars)
	closes := make([]float64, n)
	volumes := make([]float64, n)

	for i, bar := range bars {
		closes[i] = bar.Close
		volumes[i] = bar.Volume
	}

	f := &Frame{
		Symbol: symbol,
		Bars:   bars,
	}

	macd := calculateMACD(closes, cfg.MACDFastPeriod, cfg.MACDSlowPeriod, cfg.MACDSignalPeriod)
	f.MACDLine = macd.Line
	f.MACDSignal = macd.Signal
	f.MACDHistogram = macd.Histogram
	f.MACDCrossUp = macd.CrossUp
	f.MACDCrossDown = macd.CrossDown

	f.RSI = calculateRSI(closes, cfg.RSIPeriod)
	f.RSIOverbought = make([]bool, n)
	f.RSIOversold = make([]bool, n)
	f.RSINeutral = make([]bool, n)

	for i, rsi := range f.RSI {
		if math.IsNaN(rsi) {
			continue
		}

		f.RSIOverbought[i] = rsi > cfg.RSIOverbought
		f.RSIOversold[i] = rsi < cfg.RSIOversold
		f.RSINeutral[i] = !f.RSIOverbought[i] && !f.RSIOversold[i]
	}

	f.EMAShort = calculateEMA(closes, cfg.EMAShortSpan)
	f.EMALong = calculateEMA(closes, cfg.EMALongSpan)
	f.PriceAboveEMAShort = make([]bool, n)
	f.PriceAboveEMALong = make([]bool, n)

	for i := 0; i < n; i++ {
		if !math.IsNaN(f.EMAShort[i]) {
			f.PriceAboveEMAShort[i] = closes[i] > f.EMAShort[i]
		}

		if !math.IsNaN(f.EMALong[i]) {
			f.PriceAboveEMALong[i] = closes[i] > f.EMALong[i]
		}
	}

	bb := calculateBollingerBands(closes, cfg.BBPeriod, cfg.BBStdDev)
	f.BBUpper = bb.Upper
	f.BBMiddle = bb.Middle
	f.BBLower = bb.Lower

	vol := calculateVolume(volumes, cfg.VolumePeriod, cfg.VolumeSpikeRatio)
	f.VolumeMA = vol.MA
	f.VolumeSpike = vol.Spike

	return f, nil
}

// Len returns the number of bars in the frame.
func (f *Frame) Len() int {
	return len(f.Bars)
}

// Close returns the close price at index i.
func (f *Frame) Close(i int) float64 {
	return f.Bars[i].Close
}

// Bar returns the bar at index i.
func (f *Frame) Bar(i int) types.Bar {
	return f.Bars[i]
}
