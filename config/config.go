// Package config is the YAML/JSON surface of the tool: the backtest
// parameter set plus data location, journaling, periods, and universe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/khkim/krxscreen/backtest"
	"github.com/khkim/krxscreen/strategy"
)

// Config is the complete tool configuration.
type Config struct {
	Backtest backtest.Config  `json:"backtest" yaml:"backtest"`
	Scorer   string           `json:"scorer" yaml:"scorer"`
	Weights  strategy.Weights `json:"weights" yaml:"weights"`
	Data     DataConfig       `json:"data" yaml:"data"`
	Journal  JournalConfig    `json:"journal" yaml:"journal"`
	Periods  []PeriodConfig   `json:"periods" yaml:"periods"`
}

// NewScorer builds the configured scorer. The rating scorer takes its
// weights from the config; other scorers come from the registry.
func (c *Config) NewScorer() (strategy.Scorer, error) {
	if strings.EqualFold(c.Scorer, "rating") {
		return strategy.NewRating(c.Weights), nil
	}
	return strategy.ByName(c.Scorer)
}

// DataConfig locates price history and the universe.
type DataConfig struct {
	Dir       string            `json:"dir" yaml:"dir"`             // per-code CSV files
	Benchmark string            `json:"benchmark" yaml:"benchmark"` // index code
	ThemeMap  string            `json:"theme_map,omitempty" yaml:"theme_map,omitempty"`
	Universe  map[string]string `json:"universe" yaml:"universe"` // code -> name

	RetryAttempts int    `json:"retry_attempts" yaml:"retry_attempts"`
	RetryTimeout  string `json:"retry_timeout" yaml:"retry_timeout"` // e.g. "10s"
}

// JournalConfig selects run persistence.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "sqlite", "csv", or "none"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile  string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	ResultsJSON string `json:"results_json,omitempty" yaml:"results_json,omitempty"`
}

// PeriodConfig is one backtest window with YYYY-MM-DD bounds.
type PeriodConfig struct {
	Name  string `json:"name" yaml:"name"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Period parses the window bounds.
func (p PeriodConfig) Period() (backtest.Period, error) {
	start, err := time.Parse(time.DateOnly, p.Start)
	if err != nil {
		return backtest.Period{}, fmt.Errorf("config: period %s: bad start %q: %w", p.Name, p.Start, err)
	}
	end, err := time.Parse(time.DateOnly, p.End)
	if err != nil {
		return backtest.Period{}, fmt.Errorf("config: period %s: bad end %q: %w", p.Name, p.End, err)
	}
	if !start.Before(end) {
		return backtest.Period{}, fmt.Errorf("config: period %s: start must precede end", p.Name)
	}
	return backtest.Period{Name: p.Name, Start: start, End: end}, nil
}

// RetryTimeout parses the per-request timeout, defaulting to 10s.
func (d DataConfig) Timeout() (time.Duration, error) {
	if d.RetryTimeout == "" {
		return 10 * time.Second, nil
	}
	return time.ParseDuration(d.RetryTimeout)
}

// LoadFromFile loads a config file, trying YAML first and falling back
// to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("config: parse %s (tried YAML and JSON): %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes the config as YAML (or JSON for .json paths).
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the full surface.
func (c *Config) Validate() error {
	if err := c.Backtest.Validate(); err != nil {
		return err
	}
	if c.Scorer == "" {
		return fmt.Errorf("config: scorer is required")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("config: data.dir is required")
	}
	if c.Data.Benchmark == "" {
		return fmt.Errorf("config: data.benchmark is required")
	}
	if len(c.Data.Universe) == 0 {
		return fmt.Errorf("config: data.universe must name at least one instrument")
	}
	if _, err := c.Data.Timeout(); err != nil {
		return fmt.Errorf("config: bad retry_timeout: %w", err)
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("config: journal.db_path required for sqlite")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("config: journal trades_file and equity_file required for csv")
		}
	case "none", "":
	default:
		return fmt.Errorf("config: journal.type must be sqlite, csv, or none")
	}
	if len(c.Periods) == 0 {
		return fmt.Errorf("config: at least one period is required")
	}
	for _, p := range c.Periods {
		if _, err := p.Period(); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a runnable configuration: the canonical parameter
// set, the blue-chip universe, and the three benchmark windows.
func Default() *Config {
	return &Config{
		Backtest: backtest.DefaultConfig(),
		Scorer:   "rating",
		Weights:  strategy.DefaultWeights(),
		Data: DataConfig{
			Dir:       "./data",
			Benchmark: "KS11",
			Universe: map[string]string{
				"005930": "Samsung Electronics",
				"000660": "SK hynix",
				"086520": "Ecopro",
				"005380": "Hyundai Motor",
				"005490": "POSCO Holdings",
				"035420": "NAVER",
				"068270": "Celltrion",
				"042700": "Hanmi Semiconductor",
				"006400": "Samsung SDI",
			},
			RetryAttempts: 3,
			RetryTimeout:  "10s",
		},
		Journal: JournalConfig{
			Type:        "sqlite",
			DBPath:      "./krxscreen.sqlite",
			ResultsJSON: "./data/backtest_results.json",
		},
		Periods: []PeriodConfig{
			{Name: "recent", Start: "2022-01-01", End: "2024-12-31"},
			{Name: "covid", Start: "2020-01-01", End: "2023-12-31"},
			{Name: "box", Start: "2015-01-01", End: "2019-12-31"},
		},
	}
}
