package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ResultTestSuite struct {
	suite.Suite
}

func TestResultSuite(t *testing.T) {
	suite.Run(t, new(ResultTestSuite))
}

func (suite *ResultTestSuite) TestWriteResultRoundTrip() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	result := &BacktestResult{
		ID:             "run-1",
		Timestamp:      start,
		Symbol:         "AAPL",
		Strategy:       "balanced",
		InitialCapital: 10000,
		FinalEquity:    10100,
		Trades: []Trade{
			{
				Symbol:     "AAPL",
				EntryTime:  start,
				ExitTime:   start.AddDate(0, 0, 3),
				EntryIndex: 60,
				ExitIndex:  63,
				EntryPrice: 100,
				ExitPrice:  110,
				Shares:     10,
				PnLPct:     0.1,
				PnLDollars: 100,
				ExitType:   ExitTypeTakeProfit,
			},
		},
		EquityCurve: []EquityPoint{
			{Time: start, Value: 10000},
			{Time: start.AddDate(0, 0, 3), Value: 10100},
		},
		Summary: Summary{
			TotalReturnPct: 1,
			WinRatePct:     100,
			TotalTrades:    1,
			WinningTrades:  1,
		},
	}

	path := filepath.Join(suite.T().TempDir(), "result.yaml")
	suite.NoError(WriteResult(path, result))

	data, err := os.ReadFile(path)
	suite.NoError(err)

	var loaded BacktestResult
	suite.NoError(yaml.Unmarshal(data, &loaded))

	suite.Equal(result.ID, loaded.ID)
	suite.Equal(result.Symbol, loaded.Symbol)
	suite.Equal(result.Strategy, loaded.Strategy)
	suite.Len(loaded.Trades, 1)
	suite.Equal(ExitTypeTakeProfit, loaded.Trades[0].ExitType)
	suite.Equal(result.Summary.TotalTrades, loaded.Summary.TotalTrades)
	suite.Nil(loaded.OpenPosition)
}

func (suite *ResultTestSuite) TestWriteResultOmitsEmptyRunID() {
	result := &BacktestResult{Symbol: "AAPL", Strategy: "canonical"}

	path := filepath.Join(suite.T().TempDir(), "result.yaml")
	suite.NoError(WriteResult(path, result))

	data, err := os.ReadFile(path)
	suite.NoError(err)
	suite.NotContains(string(data), "id:")
}

func (suite *ResultTestSuite) TestWriteResultBadPath() {
	err := WriteResult(filepath.Join(suite.T().TempDir(), "missing", "result.yaml"), &BacktestResult{})
	suite.Error(err)
}
