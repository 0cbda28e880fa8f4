package engine

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/stocklab/pkg/errors"
)

// BacktestEngineV1Config controls one simulation run. It is passed explicitly
// into the engine; there is no process-wide configuration state.
type BacktestEngineV1Config struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0" validate:"gt=0"`
	// PositionSizingPct is the percentage of current capital allocated per
	// trade, bounded below by MinPositionDollars and above by MaxPositionPct
	// of current capital.
	PositionSizingPct  float64 `yaml:"position_sizing_pct" json:"position_sizing_pct" jsonschema:"title=Position Sizing Percent,description=Percentage of current capital allocated per trade" validate:"gt=0,lte=100"`
	MinPositionDollars float64 `yaml:"min_position_dollars" json:"min_position_dollars" jsonschema:"title=Minimum Position Dollars,description=Smallest dollar amount a position may be sized to" validate:"gte=0"`
	MaxPositionPct     float64 `yaml:"max_position_pct" json:"max_position_pct" jsonschema:"title=Maximum Position Percent,description=Largest share of current capital a single position may take" validate:"gt=0,lte=100"`
	// WarmupBars is the number of leading bars skipped before the engine
	// starts asking for decisions.
	WarmupBars int                        `yaml:"warmup_bars" json:"warmup_bars" jsonschema:"title=Warmup Bars,description=Leading bars skipped before decisions start" validate:"gte=1"`
	StartTime  optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime    optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital     float64    `yaml:"initial_capital"`
		PositionSizingPct  float64    `yaml:"position_sizing_pct"`
		MinPositionDollars float64    `yaml:"min_position_dollars"`
		MaxPositionPct     float64    `yaml:"max_position_pct"`
		WarmupBars         int        `yaml:"warmup_bars"`
		StartTime          *time.Time `yaml:"start_time"`
		EndTime            *time.Time `yaml:"end_time"`
	}

	config := Config{
		PositionSizingPct:  DefaultConfig().PositionSizingPct,
		MinPositionDollars: DefaultConfig().MinPositionDollars,
		MaxPositionPct:     DefaultConfig().MaxPositionPct,
		WarmupBars:         DefaultConfig().WarmupBars,
	}
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.PositionSizingPct = config.PositionSizingPct
	c.MinPositionDollars = config.MinPositionDollars
	c.MaxPositionPct = config.MaxPositionPct
	c.WarmupBars = config.WarmupBars

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

var validate = validator.New()

// Validate surfaces malformed engine parameters at construction time, not
// mid-simulation.
func (c BacktestEngineV1Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest engine configuration", err)
	}

	if c.PositionSizingPct > c.MaxPositionPct {
		return errors.Newf(errors.ErrCodeBacktestConfigError,
			"position sizing %f%% exceeds the maximum position size %f%%",
			c.PositionSizingPct, c.MaxPositionPct)
	}

	return nil
}

// DefaultConfig returns a BacktestEngineV1Config with standard values.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:     10000,
		PositionSizingPct:  10,
		MinPositionDollars: 100,
		MaxPositionPct:     25,
		WarmupBars:         50,
		StartTime:          optional.None[time.Time](),
		EndTime:            optional.None[time.Time](),
	}
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
