package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/parlay/evaluation"
	"github.com/rustyeddy/parlay/pkg/validate"
	"github.com/rustyeddy/parlay/risk"
	"github.com/rustyeddy/parlay/suggest"
	"gopkg.in/yaml.v3"
)

// Config is everything the CLI and server need around the scoring core.
type Config struct {
	Profile     risk.Profile      `json:"profile" yaml:"profile"`
	Classifier  risk.Thresholds   `json:"classifier" yaml:"classifier"`
	Suggestions SuggestionsConfig `json:"suggestions" yaml:"suggestions"`
	Journal     JournalConfig     `json:"journal" yaml:"journal"`
	Server      ServerConfig      `json:"server" yaml:"server"`
	Log         LogConfig         `json:"log" yaml:"log"`
}

type SuggestionsConfig struct {
	CorrelationWeight float64             `json:"correlation_weight" yaml:"correlation_weight" validate:"gte=0"`
	LowestRiskMax     float64             `json:"lowest_risk_max" yaml:"lowest_risk_max" validate:"gte=0,ltefield=BalancedMax"`
	BalancedMax       float64             `json:"balanced_max" yaml:"balanced_max" validate:"gte=0"`
	Limit             int                 `json:"limit" yaml:"limit" validate:"gte=0"`
	DNA               *suggest.DNAProfile `json:"dna,omitempty" yaml:"dna,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type    string `json:"type" yaml:"type" validate:"oneof=none csv sqlite"`
	CSVFile string `json:"csv_file,omitempty" yaml:"csv_file,omitempty"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Port           int      `json:"port" yaml:"port" validate:"gte=1,lte=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	ReadTimeout    string   `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   string   `json:"write_timeout" yaml:"write_timeout"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `json:"development" yaml:"development"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if err := c.Classifier.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c.Suggestions); err != nil {
		return fmt.Errorf("suggestions: %w", err)
	}
	if c.Suggestions.DNA != nil {
		if err := c.Suggestions.DNA.Validate(); err != nil {
			return err
		}
	}
	if err := validate.Struct(c.Journal); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if c.Journal.Type == "csv" && c.Journal.CSVFile == "" {
		return fmt.Errorf("journal csv_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if err := validate.Struct(c.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if _, _, err := c.Server.Timeouts(); err != nil {
		return err
	}
	if err := validate.Struct(c.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Timeouts parses the server read and write timeouts.
func (s ServerConfig) Timeouts() (read, write time.Duration, err error) {
	if read, err = time.ParseDuration(s.ReadTimeout); err != nil {
		return 0, 0, fmt.Errorf("server.read_timeout: %w", err)
	}
	if write, err = time.ParseDuration(s.WriteTimeout); err != nil {
		return 0, 0, fmt.Errorf("server.write_timeout: %w", err)
	}
	return read, write, nil
}

// SuggestEngine builds the suggestion engine described by the config.
func (c *Config) SuggestEngine() *suggest.Engine {
	var policy suggest.Policy = suggest.AllowAll{}
	if c.Suggestions.DNA != nil {
		policy = *c.Suggestions.DNA
	}
	e := suggest.New(policy)
	e.CorrelationWeight = c.Suggestions.CorrelationWeight
	e.LowestRiskMax = c.Suggestions.LowestRiskMax
	e.BalancedMax = c.Suggestions.BalancedMax
	e.Limit = c.Suggestions.Limit
	return e
}

func (c *Config) Evaluator() *evaluation.Evaluator {
	return evaluation.New(
		evaluation.WithThresholds(c.Classifier),
		evaluation.WithSuggester(c.SuggestEngine()),
	)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Profile:    risk.DefaultProfile(),
		Classifier: risk.DefaultThresholds(),
		Suggestions: SuggestionsConfig{
			CorrelationWeight: suggest.DefaultCorrelationWeight,
			LowestRiskMax:     suggest.DefaultLowestRiskMax,
			BalancedMax:       suggest.DefaultBalancedMax,
			Limit:             5,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./parlay.sqlite",
		},
		Server: ServerConfig{
			Port:           8085,
			AllowedOrigins: []string{"http://localhost:3000"},
			ReadTimeout:    "10s",
			WriteTimeout:   "10s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func decode(data []byte, out any) error {
	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, out); err != nil {
		if jerr := json.Unmarshal(data, out); jerr != nil {
			return fmt.Errorf("tried YAML and JSON: %w", err)
		}
	}
	return nil
}

func isYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
