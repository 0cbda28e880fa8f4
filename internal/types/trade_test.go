package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) openPosition() Position {
	return Position{
		Symbol:      "AAPL",
		EntryPrice:  100,
		EntryTime:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EntryIndex:  60,
		Shares:      10,
		PeakPrice:   100,
		EntryReason: "entry score 1.0000 >= threshold 1.0000",
	}
}

func (suite *TradeTestSuite) TestUpdatePeakAdvances() {
	pos := suite.openPosition()

	suite.Equal(105.0, pos.UpdatePeak(105))
	suite.Equal(105.0, pos.PeakPrice)
}

func (suite *TradeTestSuite) TestUpdatePeakNeverDecreases() {
	pos := suite.openPosition()
	pos.UpdatePeak(120)

	suite.Equal(120.0, pos.UpdatePeak(90))
	suite.Equal(120.0, pos.PeakPrice)
}

func (suite *TradeTestSuite) TestPositionValues() {
	pos := suite.openPosition()

	suite.Equal(1000.0, pos.EntryValue())
	suite.Equal(1100.0, pos.MarketValue(110))
	suite.InDelta(100.0, pos.UnrealizedPnL(110), 1e-9)
	suite.InDelta(-50.0, pos.UnrealizedPnL(95), 1e-9)
}

func (suite *TradeTestSuite) TestCloseTradeWinning() {
	pos := suite.openPosition()
	exitTime := pos.EntryTime.AddDate(0, 0, 5)

	trade := CloseTrade(pos, 65, exitTime, 110, "gain from entry 0.1000 above take-profit", ExitTypeTakeProfit)

	suite.Equal("AAPL", trade.Symbol)
	suite.Equal(60, trade.EntryIndex)
	suite.Equal(65, trade.ExitIndex)
	suite.Equal(pos.EntryTime, trade.EntryTime)
	suite.Equal(exitTime, trade.ExitTime)
	suite.InDelta(0.1, trade.PnLPct, 1e-9)
	suite.InDelta(100.0, trade.PnLDollars, 1e-9)
	suite.Equal(ExitTypeTakeProfit, trade.ExitType)
	suite.True(trade.IsWinning())
	suite.Equal(5, trade.HoldingBars())
}

func (suite *TradeTestSuite) TestCloseTradeLosing() {
	pos := suite.openPosition()

	trade := CloseTrade(pos, 62, pos.EntryTime.AddDate(0, 0, 2), 96, "stop loss", ExitTypeStopLoss)

	suite.InDelta(-0.04, trade.PnLPct, 1e-9)
	suite.InDelta(-40.0, trade.PnLDollars, 1e-9)
	suite.False(trade.IsWinning())
}

func (suite *TradeTestSuite) TestCloseTradeFlatIsNotWinning() {
	pos := suite.openPosition()

	trade := CloseTrade(pos, 61, pos.EntryTime.AddDate(0, 0, 1), 100, "macd crossover down", ExitTypeMACDCrossoverDown)

	suite.Zero(trade.PnLDollars)
	suite.False(trade.IsWinning())
}

func (suite *TradeTestSuite) TestCloseTradeExactDecimalArithmetic() {
	pos := suite.openPosition()
	pos.EntryPrice = 0.1
	pos.Shares = 3

	trade := CloseTrade(pos, 61, pos.EntryTime.AddDate(0, 0, 1), 0.3, "take profit", ExitTypeTakeProfit)

	// 0.3 - 0.1 is not exactly 0.2 in float64; decimal keeps it exact.
	suite.Equal(0.6, trade.PnLDollars)
	suite.Equal(2.0, trade.PnLPct)
}
