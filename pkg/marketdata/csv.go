// Package marketdata loads OHLCV series for the backtest core and persists
// run results. The core itself never performs I/O; everything here runs
// before or after a simulation.
package marketdata

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// requiredColumns are the OHLCV columns every source must provide. The time
// column also accepts the name "date".
var requiredColumns = []string{"time", "open", "high", "low", "close", "volume"}

// timeLayouts are the accepted timestamp formats, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadCSV reads a chronologically ordered OHLCV series from a CSV file with
// a header row. A missing required column fails with a MissingColumnError
// naming the column; a malformed cell fails with a parse error naming the
// row. The returned series is validated: strictly increasing timestamps,
// positive OHLC, non-negative volume.
func LoadCSV(path string) ([]types.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to read header of %s", path)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []types.Bar

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to read row %d of %s", row, path)
		}

		bar, err := parseBar(record, columns, row)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no data rows in %s", path)
	}

	if err := types.ValidateSeries(bars); err != nil {
		return nil, err
	}

	return bars, nil
}

// mapColumns resolves required column names to their header positions,
// case-insensitively. "date" is accepted as an alias for "time".
func mapColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))

	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "date" {
			normalized = "time"
		}

		positions[normalized] = i
	}

	columns := make(map[string]int, len(requiredColumns))

	for _, name := range requiredColumns {
		pos, ok := positions[name]
		if !ok {
			return nil, errors.NewMissingColumnError(name)
		}

		columns[name] = pos
	}

	return columns, nil
}

func parseBar(record []string, columns map[string]int, row int) (types.Bar, error) {
	barTime, err := parseTime(record[columns["time"]])
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "row %d: invalid time", row)
	}

	values := make(map[string]float64, 5)

	for _, name := range []string{"open", "high", "low", "close", "volume"} {
		value, err := strconv.ParseFloat(strings.TrimSpace(record[columns[name]]), 64)
		if err != nil {
			return types.Bar{}, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "row %d: invalid %s", row, name)
		}

		values[name] = value
	}

	return types.Bar{
		Time:   barTime,
		Open:   values["open"],
		High:   values["high"],
		Low:    values["low"],
		Close:  values["close"],
		Volume: values["volume"],
	}, nil
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var lastErr error

	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}
