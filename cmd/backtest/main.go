package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yamlv2 "gopkg.in/yaml.v2"

	engine "github.com/rxtech-lab/stocklab/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/stocklab/internal/indicator"
	"github.com/rxtech-lab/stocklab/internal/logger"
	"github.com/rxtech-lab/stocklab/internal/strategy"
	"github.com/rxtech-lab/stocklab/internal/types"
	"github.com/rxtech-lab/stocklab/pkg/marketdata"
)

// backtestAction is the core logic executed by the CLI command: load bars,
// compute the indicator frame, run the simulation and write the report.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dataPath := cmd.String("data")
	symbol := cmd.String("symbol")

	bars, err := loadBars(dataPath, log)
	if err != nil {
		return err
	}

	log.Info("Loaded market data",
		zap.String("symbol", symbol),
		zap.String("path", dataPath),
		zap.Int("bars", len(bars)),
	)

	strat, err := loadStrategy(cmd)
	if err != nil {
		return err
	}

	engineConfig, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}

	frame, err := indicator.Calculate(symbol, bars, indicator.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to calculate indicators: %w", err)
	}

	backtester, err := engine.NewBacktestEngineV1(engineConfig, log)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(frame.Len()), "backtesting")
	onData := func(current, total int) error {
		return bar.Set(current)
	}

	result, err := backtester.Run(frame, strat, onData)
	if err != nil {
		return err
	}

	_ = bar.Finish()

	result.ID = uuid.NewString()
	result.Timestamp = time.Now()

	log.Info("Backtest complete",
		zap.String("run_id", result.ID),
		zap.String("strategy", strat.Name()),
		zap.Int("trades", result.Summary.TotalTrades),
		zap.Float64("total_return_pct", result.Summary.TotalReturnPct),
		zap.Float64("win_rate_pct", result.Summary.WinRatePct),
		zap.Float64("sharpe_ratio", result.Summary.SharpeRatio),
		zap.Float64("max_drawdown_pct", result.Summary.MaxDrawdownPct),
	)

	if output := cmd.String("output"); output != "" {
		if err := types.WriteResult(output, result); err != nil {
			return err
		}

		log.Info("Wrote result report", zap.String("path", output))
	}

	if dbPath := cmd.String("db"); dbPath != "" {
		writer, err := marketdata.NewResultWriter(dbPath, log)
		if err != nil {
			return err
		}
		defer writer.Close()

		if err := writer.WriteResult(result); err != nil {
			return err
		}

		log.Info("Persisted result", zap.String("db", dbPath))
	}

	return nil
}

// loadBars picks a loader by file extension: CSV directly, parquet through
// DuckDB.
func loadBars(path string, log *logger.Logger) ([]types.Bar, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return marketdata.LoadCSV(path)
	case ".parquet":
		source, err := marketdata.NewDuckDBSource(log)
		if err != nil {
			return nil, err
		}
		defer source.Close()

		if err := source.Initialize(path); err != nil {
			return nil, err
		}

		return source.ReadBars(optional.None[time.Time](), optional.None[time.Time]())
	default:
		return nil, fmt.Errorf("unsupported data file extension %q", filepath.Ext(path))
	}
}

func loadStrategy(cmd *cli.Command) (strategy.Strategy, error) {
	if configPath := cmd.String("strategy-config"); configPath != "" {
		cfg, err := strategy.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}

		return strategy.NewWeightedStrategy(cfg)
	}

	return strategy.New(cmd.String("strategy"))
}

func loadEngineConfig(cmd *cli.Command) (engine.BacktestEngineV1Config, error) {
	config := engine.DefaultConfig()

	if configPath := cmd.String("engine-config"); configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return config, fmt.Errorf("failed to read engine config: %w", err)
		}

		if err := yamlv2.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse engine config: %w", err)
		}
	}

	if capital := cmd.Float("capital"); capital > 0 {
		config.InitialCapital = capital
	}

	return config, config.Validate()
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a rule-based trading strategy over historical OHLCV data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the OHLCV data file (.csv or .parquet)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Symbol the data belongs to",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Strategy preset (balanced, canonical, aggressive, conservative)",
				Value: "balanced",
			},
			&cli.StringFlag{
				Name:  "strategy-config",
				Usage: "Path to a YAML strategy configuration (overrides --strategy)",
			},
			&cli.StringFlag{
				Name:  "engine-config",
				Usage: "Path to a YAML engine configuration",
			},
			&cli.FloatFlag{
				Name:  "capital",
				Usage: "Initial capital in USD (overrides engine config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path to write the YAML result report",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to a DuckDB database to persist the run into",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
