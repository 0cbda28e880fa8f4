package marketdata

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/stocklab/internal/logger"
	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// DuckDBSource reads OHLCV series from parquet or CSV files through an
// in-process DuckDB view.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBSource opens an in-memory DuckDB instance.
func NewDuckDBSource(log *logger.Logger) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize creates (or replaces) the market_data view over the given data
// file. Parquet and CSV files are supported. It verifies that the view
// exposes every required OHLCV column, failing with a MissingColumnError
// otherwise.
func (d *DuckDBSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB market data view", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	var reader string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		reader = "read_parquet"
	case ".csv":
		reader = "read_csv_auto"
	default:
		return errors.Newf(errors.ErrCodeDataSourceUnavailable, "unsupported data file extension %q", filepath.Ext(path))
	}

	// CREATE VIEW has no placeholder support; the reader name is fixed above.
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s('%s');`, reader, path)
	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to create view over %s", path)
	}

	return d.verifyColumns()
}

// verifyColumns checks the view schema for every required OHLCV column.
func (d *DuckDBSource) verifyColumns() error {
	rows, err := d.db.Query(`DESCRIBE market_data`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe market_data view", err)
	}
	defer rows.Close()

	present := make(map[string]bool)

	for rows.Next() {
		var name, colType string

		var null, key, defaultValue, extra sql.NullString

		if err := rows.Scan(&name, &colType, &null, &key, &defaultValue, &extra); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan view schema", err)
		}

		normalized := strings.ToLower(name)
		if normalized == "date" {
			normalized = "time"
		}

		present[normalized] = true
	}

	if err := rows.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read view schema", err)
	}

	for _, column := range requiredColumns {
		if !present[column] {
			return errors.NewMissingColumnError(column)
		}
	}

	return nil
}

// Count returns the number of bars in the optional time window.
func (d *DuckDBSource) Count(start, end optional.Option[time.Time]) (int, error) {
	builder := d.sq.Select("COUNT(*)").From("market_data")
	builder = applyWindow(builder, start, end)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count market data", err)
	}

	return count, nil
}

// ReadBars loads the bars in the optional time window, ordered by time.
func (d *DuckDBSource) ReadBars(start, end optional.Option[time.Time]) ([]types.Bar, error) {
	builder := d.sq.Select("time", "open", "high", "low", "close", "volume").
		From("market_data").
		OrderBy("time ASC")
	builder = applyWindow(builder, start, end)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build select query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to scan bar", err)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read market data", err)
	}

	if len(bars) == 0 {
		return nil, errors.New(errors.ErrCodeNoDataFound, "no market data in the requested window")
	}

	if err := types.ValidateSeries(bars); err != nil {
		return nil, err
	}

	return bars, nil
}

// Close releases the underlying database.
func (d *DuckDBSource) Close() error {
	return d.db.Close()
}

func applyWindow(builder squirrel.SelectBuilder, start, end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return builder
}
