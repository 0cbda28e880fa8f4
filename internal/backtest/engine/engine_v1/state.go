package engine

import (
	"time"

	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// runState is the mutable state the engine owns for the duration of one run:
// available cash, the single open position, the append-only trade log and the
// growing equity curve. It is never shared between runs.
type runState struct {
	cash   float64
	open   *types.Position
	trades []types.Trade
	equity []types.EquityPoint
}

func newRunState(initialCapital float64) *runState {
	return &runState{
		cash:   initialCapital,
		open:   nil,
		trades: nil,
		equity: nil,
	}
}

// openPosition commits cash to a new position. The engine must be flat.
func (s *runState) openPosition(symbol string, index int, barTime time.Time, price, shares float64, reason string) error {
	if s.open != nil {
		return errors.New(errors.ErrCodeBacktestStateError, "cannot open a position while one is already open")
	}

	cost := price * shares
	if cost > s.cash {
		return errors.Newf(errors.ErrCodeBacktestStateError,
			"position cost %f exceeds available cash %f", cost, s.cash)
	}

	s.cash -= cost
	s.open = &types.Position{
		Symbol:      symbol,
		EntryPrice:  price,
		EntryTime:   barTime,
		EntryIndex:  index,
		Shares:      shares,
		PeakPrice:   price,
		EntryReason: reason,
	}

	return nil
}

// closePosition converts the open position into a Trade at the given exit
// bar, releases the proceeds back to cash and clears the open slot.
func (s *runState) closePosition(index int, barTime time.Time, price float64, reason string, exitType types.ExitType) (types.Trade, error) {
	if s.open == nil {
		return types.Trade{}, errors.New(errors.ErrCodeBacktestStateError, "cannot close: no open position")
	}

	trade := types.CloseTrade(*s.open, index, barTime, price, reason, exitType)
	s.cash += price * s.open.Shares
	s.open = nil
	s.trades = append(s.trades, trade)

	return trade, nil
}

// markEquity appends an equity curve point for the given bar: cash plus the
// mark-to-market value of the open position, if any.
func (s *runState) markEquity(barTime time.Time, price float64) {
	value := s.cash
	if s.open != nil {
		value += s.open.MarketValue(price)
	}

	s.equity = append(s.equity, types.EquityPoint{Time: barTime, Value: value})
}

// currentEquity returns cash plus open-position value at the given price.
func (s *runState) currentEquity(price float64) float64 {
	if s.open != nil {
		return s.cash + s.open.MarketValue(price)
	}

	return s.cash
}
