// Package config loads ziwei settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds CLI and adapter settings.
type Config struct {
	// DBPath is the chart archive location.
	DBPath string `yaml:"db_path"`

	// Format is the default output format: json, grid or text.
	Format string `yaml:"format"`

	Log    LogConfig    `yaml:"log"`
	Gemini GeminiConfig `yaml:"gemini"`
	Batch  BatchConfig  `yaml:"batch"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"`
}

// GeminiConfig configures the interpretation service.
type GeminiConfig struct {
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	ThinkingBudget int32         `yaml:"thinking_budget"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxAttempts    int           `yaml:"max_attempts"`
}

// BatchConfig bounds the batch runner.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath: filepath.Join(homeDir(), ".ziwei", "charts.db"),
		Format: "json",
		Log:    LogConfig{Level: "warn"},
		Gemini: GeminiConfig{
			Model:          "gemini-2.5-flash",
			ThinkingBudget: 1024,
			Timeout:        90 * time.Second,
			MaxAttempts:    3,
		},
		Batch: BatchConfig{Workers: 4},
	}
}

// DefaultPath is $ZIWEI_CONFIG or ~/.ziwei/config.yaml.
func DefaultPath() string {
	if env := os.Getenv("ZIWEI_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(homeDir(), ".ziwei", "config.yaml")
}

// Load reads path on top of the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		var y yamlConfig
		if err := yaml.Unmarshal(b, &y); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		y.apply(&cfg)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the CLI cannot honour.
func (c Config) Validate() error {
	switch c.Format {
	case "json", "grid", "text":
	default:
		return fmt.Errorf("unknown format %q (json, grid, text)", c.Format)
	}
	if c.Gemini.MaxAttempts < 1 {
		return fmt.Errorf("gemini.max_attempts must be at least 1")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ZIWEI_DB"); v != "" {
		c.DBPath = v
	}
	// API_KEY is the variable the web client used; GEMINI_API_KEY takes precedence.
	if v := os.Getenv("API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("ZIWEI_GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
}

// yamlConfig uses pointers so absent keys keep their defaults.
type yamlConfig struct {
	DBPath *string `yaml:"db_path"`
	Format *string `yaml:"format"`
	Log    struct {
		Debug *bool   `yaml:"debug"`
		Level *string `yaml:"level"`
	} `yaml:"log"`
	Gemini struct {
		APIKey         *string        `yaml:"api_key"`
		Model          *string        `yaml:"model"`
		ThinkingBudget *int32         `yaml:"thinking_budget"`
		Timeout        *time.Duration `yaml:"timeout"`
		MaxAttempts    *int           `yaml:"max_attempts"`
	} `yaml:"gemini"`
	Batch struct {
		Workers *int `yaml:"workers"`
	} `yaml:"batch"`
}

func (y yamlConfig) apply(cfg *Config) {
	set(&cfg.DBPath, y.DBPath)
	set(&cfg.Format, y.Format)
	set(&cfg.Log.Debug, y.Log.Debug)
	set(&cfg.Log.Level, y.Log.Level)
	set(&cfg.Gemini.APIKey, y.Gemini.APIKey)
	set(&cfg.Gemini.Model, y.Gemini.Model)
	set(&cfg.Gemini.ThinkingBudget, y.Gemini.ThinkingBudget)
	set(&cfg.Gemini.Timeout, y.Gemini.Timeout)
	set(&cfg.Gemini.MaxAttempts, y.Gemini.MaxAttempts)
	set(&cfg.Batch.Workers, y.Batch.Workers)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}
