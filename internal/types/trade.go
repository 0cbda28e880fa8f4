package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the engine's record of the one currently-open trade. It is
// created when a strategy signals entry while no position is open, mutated
// only to advance PeakPrice while open, and converted into a Trade on exit.
type Position struct {
	Symbol     string    `yaml:"symbol"`
	EntryPrice float64   `yaml:"entry_price"`
	EntryTime  time.Time `yaml:"entry_time"`
	EntryIndex int       `yaml:"entry_index"`
	Shares     float64   `yaml:"shares"`
	// PeakPrice is the highest close observed since entry, seeded with the
	// close of the entry bar. Non-decreasing for the life of the position.
	PeakPrice   float64 `yaml:"peak_price"`
	EntryReason string  `yaml:"entry_reason"`
}

// UpdatePeak advances the running peak. Returns the new peak.
func (p *Position) UpdatePeak(close float64) float64 {
	if close > p.PeakPrice {
		p.PeakPrice = close
	}

	return p.PeakPrice
}

// EntryValue returns the dollar value of the position at entry.
func (p *Position) EntryValue() float64 {
	return p.EntryPrice * p.Shares
}

// MarketValue returns the mark-to-market dollar value at the given price.
func (p *Position) MarketValue(price float64) float64 {
	return price * p.Shares
}

// UnrealizedPnL returns the open profit or loss in dollars at the given price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	priceDec := decimal.NewFromFloat(price)
	entryDec := decimal.NewFromFloat(p.EntryPrice)
	sharesDec := decimal.NewFromFloat(p.Shares)

	pnl, _ := priceDec.Sub(entryDec).Mul(sharesDec).Float64()

	return pnl
}

// Trade is an immutable closed trade record, created exactly once when a
// position exits.
type Trade struct {
	Symbol      string    `yaml:"symbol"`
	EntryTime   time.Time `yaml:"entry_time"`
	ExitTime    time.Time `yaml:"exit_time"`
	EntryIndex  int       `yaml:"entry_index"`
	ExitIndex   int       `yaml:"exit_index"`
	EntryPrice  float64   `yaml:"entry_price"`
	ExitPrice   float64   `yaml:"exit_price"`
	Shares      float64   `yaml:"shares"`
	PnLPct      float64   `yaml:"pnl_pct"`
	PnLDollars  float64   `yaml:"pnl_dollars"`
	EntryReason string    `yaml:"entry_reason"`
	ExitReason  string    `yaml:"exit_reason"`
	ExitType    ExitType  `yaml:"exit_type"`
}

// CloseTrade converts an open position plus exit bar data into a Trade.
// PnL is computed with decimal arithmetic to keep the accounting exact.
func CloseTrade(pos Position, exitIndex int, exitTime time.Time, exitPrice float64, exitReason string, exitType ExitType) Trade {
	entryDec := decimal.NewFromFloat(pos.EntryPrice)
	exitDec := decimal.NewFromFloat(exitPrice)
	sharesDec := decimal.NewFromFloat(pos.Shares)

	pnlPct, _ := exitDec.Sub(entryDec).Div(entryDec).Float64()
	pnlDollars, _ := exitDec.Sub(entryDec).Mul(sharesDec).Float64()

	return Trade{
		Symbol:      pos.Symbol,
		EntryTime:   pos.EntryTime,
		ExitTime:    exitTime,
		EntryIndex:  pos.EntryIndex,
		ExitIndex:   exitIndex,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   exitPrice,
		Shares:      pos.Shares,
		PnLPct:      pnlPct,
		PnLDollars:  pnlDollars,
		EntryReason: pos.EntryReason,
		ExitReason:  exitReason,
		ExitType:    exitType,
	}
}

// IsWinning reports whether the trade closed with a positive PnL.
func (t Trade) IsWinning() bool {
	return t.PnLDollars > 0
}

// HoldingBars returns the number of bars the trade was held.
func (t Trade) HoldingBars() int {
	return t.ExitIndex - t.EntryIndex
}
