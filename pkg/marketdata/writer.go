package marketdata

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/stocklab/internal/logger"
	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// ResultWriter persists backtest results to a DuckDB database so runs can be
// inspected and compared after the fact. The simulation core never touches
// this; callers persist the immutable result it hands back.
type ResultWriter struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewResultWriter opens (or creates) the results database at path and
// ensures the schema exists.
func NewResultWriter(path string, log *logger.Logger) (*ResultWriter, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open results database", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	w := &ResultWriter{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := w.initialize(); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *ResultWriter) initialize() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			executed_at TIMESTAMP,
			symbol TEXT,
			strategy TEXT,
			initial_capital DOUBLE,
			final_equity DOUBLE,
			total_return_pct DOUBLE,
			win_rate_pct DOUBLE,
			sharpe_ratio DOUBLE,
			max_drawdown_pct DOUBLE,
			total_trades INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT,
			symbol TEXT,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_price DOUBLE,
			exit_price DOUBLE,
			shares DOUBLE,
			pnl_pct DOUBLE,
			pnl_dollars DOUBLE,
			entry_reason TEXT,
			exit_reason TEXT,
			exit_type TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS equity_curve (
			run_id TEXT,
			time TIMESTAMP,
			value DOUBLE
		)`,
	}

	for _, statement := range statements {
		if _, err := w.db.Exec(statement); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create results schema", err)
		}
	}

	return nil
}

// WriteResult persists one run. The result must carry an ID.
func (w *ResultWriter) WriteResult(result *types.BacktestResult) error {
	if result.ID == "" {
		return errors.New(errors.ErrCodeWriteFailed, "result has no run ID")
	}

	w.logger.Debug("Persisting backtest result",
		zap.String("run_id", result.ID),
		zap.String("symbol", result.Symbol),
		zap.Int("trades", len(result.Trades)),
	)

	query, args, err := w.sq.Insert("runs").
		Columns("run_id", "executed_at", "symbol", "strategy", "initial_capital", "final_equity",
			"total_return_pct", "win_rate_pct", "sharpe_ratio", "max_drawdown_pct", "total_trades").
		Values(result.ID, result.Timestamp, result.Symbol, result.Strategy, result.InitialCapital,
			result.FinalEquity, result.Summary.TotalReturnPct, result.Summary.WinRatePct,
			result.Summary.SharpeRatio, result.Summary.MaxDrawdownPct, result.Summary.TotalTrades).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build run insert", err)
	}

	if _, err := w.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert run", err)
	}

	for _, trade := range result.Trades {
		query, args, err := w.sq.Insert("trades").
			Columns("run_id", "symbol", "entry_time", "exit_time", "entry_price", "exit_price",
				"shares", "pnl_pct", "pnl_dollars", "entry_reason", "exit_reason", "exit_type").
			Values(result.ID, trade.Symbol, trade.EntryTime, trade.ExitTime, trade.EntryPrice,
				trade.ExitPrice, trade.Shares, trade.PnLPct, trade.PnLDollars,
				trade.EntryReason, trade.ExitReason, string(trade.ExitType)).
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build trade insert", err)
		}

		if _, err := w.db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert trade", err)
		}
	}

	for _, point := range result.EquityCurve {
		query, args, err := w.sq.Insert("equity_curve").
			Columns("run_id", "time", "value").
			Values(result.ID, point.Time, point.Value).
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build equity insert", err)
		}

		if _, err := w.db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert equity point", err)
		}
	}

	return nil
}

// Close releases the underlying database.
func (w *ResultWriter) Close() error {
	return w.db.Close()
}
