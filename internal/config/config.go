// Package config loads taskdesk settings from defaults, YAML files and the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tgienger/taskdesk/internal/db"
)

// EnvPrefix is prepended to every environment override, e.g. TASKDESK_API_URL
const EnvPrefix = "TASKDESK"

// Config is the merged configuration
type Config struct {
	APIURL          string        `mapstructure:"api_url" yaml:"api_url"`
	DataDir         string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogFile         string        `mapstructure:"log_file" yaml:"log_file"`
	SearchDebounce  time.Duration `mapstructure:"search_debounce" yaml:"search_debounce"`
	SuggestDebounce time.Duration `mapstructure:"suggest_debounce" yaml:"suggest_debounce"`
	PageSize        int           `mapstructure:"page_size" yaml:"page_size"`
	Theme           string        `mapstructure:"theme" yaml:"theme"`
}

var keys = []string{"api_url", "data_dir", "log_file", "search_debounce", "suggest_debounce", "page_size", "theme"}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:          "http://localhost:4000/api",
		SearchDebounce:  400 * time.Millisecond,
		SuggestDebounce: 450 * time.Millisecond,
		PageSize:        10,
		Theme:           "tokyo-night",
	}
}

// Load merges defaults, the global file, the project file and the
// environment, in that order. A .env file in the working directory is
// loaded into the environment first without overriding existing variables.
func Load() (*Config, error) {
	return LoadFrom(GlobalConfigPath(), ProjectConfigPath())
}

// LoadFrom is Load with explicit file paths; missing files are skipped
func LoadFrom(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	if cfg.DataDir == "" {
		dir, err := db.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	cfg.LogFile = expandHome(cfg.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "taskdesk.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

func loadEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	return v.Unmarshal(cfg)
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url %q must be an http(s) URL", c.APIURL)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", c.PageSize)
	}
	if c.SearchDebounce < 0 || c.SuggestDebounce < 0 {
		return fmt.Errorf("debounce delays cannot be negative")
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// GlobalConfigPath returns the path to the per-user config file
func GlobalConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "taskdesk", "config.yaml")
}

// ProjectConfigPath returns the path to the config file in the working directory
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".taskdesk.yaml")
}
