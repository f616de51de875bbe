package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required,oneof=development staging production"`
	Logging     struct {
		Level  string `yaml:"level" default:"info" validate:"required"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout" validate:"required"`
	} `yaml:"logging"`
	Indicators struct {
		RSIPeriod        int `yaml:"rsi_period" default:"14" validate:"gte=2"`
		SMAShort         int `yaml:"sma_short" default:"10" validate:"gte=1"`
		SMALong          int `yaml:"sma_long" default:"20" validate:"gte=1"`
		VolatilityWindow int `yaml:"volatility_window" default:"30" validate:"gte=2"`
		RangeWindow      int `yaml:"range_window" default:"30" validate:"gte=1"`
	} `yaml:"indicators"`
	Labeling struct {
		RSIOversold   float64 `yaml:"rsi_oversold" default:"35" validate:"gt=0,lt=100"`
		RSIOverbought float64 `yaml:"rsi_overbought" default:"65" validate:"gt=0,lt=100,gtfield=RSIOversold"`
	} `yaml:"labeling"`
	Model struct {
		Path            string  `yaml:"path" default:"./data/strategy_model.json" validate:"required"`
		Trees           int     `yaml:"trees" default:"100" validate:"gte=1"`
		MaxDepth        int     `yaml:"max_depth" default:"10" validate:"gte=1"`
		MinSamplesSplit int     `yaml:"min_samples_split" default:"5" validate:"gte=2"`
		Seed            int64   `yaml:"seed" default:"42"`
		TestSize        float64 `yaml:"test_size" default:"0.2" validate:"gt=0,lt=1"`
	} `yaml:"model"`
	Drift struct {
		ReferencePath       string  `yaml:"reference_path" default:"./data/drift_reference.json" validate:"required"`
		MaxReference        int     `yaml:"max_reference" default:"1000" validate:"gte=1"`
		MinReference        int     `yaml:"min_reference" default:"50" validate:"gte=1"`
		MinCurrent          int     `yaml:"min_current" default:"10" validate:"gte=1"`
		PValueThreshold     float64 `yaml:"p_value_threshold" default:"0.05" validate:"gt=0,lt=1"`
		ProportionThreshold float64 `yaml:"proportion_threshold" default:"0.2" validate:"gt=0,lt=1"`
	} `yaml:"drift"`
	Portfolio struct {
		Path string `yaml:"path" default:"./data/portfolio.json" validate:"required"`
	} `yaml:"portfolio"`
}

// Default returns a configuration with every field at its default value.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file, fills defaults for
// omitted fields and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("DRIFT_REFERENCE_PATH"); v != "" {
		c.Drift.ReferencePath = v
	}
	if v := os.Getenv("PORTFOLIO_PATH"); v != "" {
		c.Portfolio.Path = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Indicators.SMAShort >= c.Indicators.SMALong {
		return fmt.Errorf("indicators.sma_short must be below indicators.sma_long")
	}
	return nil
}
