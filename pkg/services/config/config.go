package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "FINATLAS"

const (
	SourceFMP    = "fmp"
	SourceDuckDB = "duckdb"
)

type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Key           string        `mapstructure:"key"`
	Profile       string        `mapstructure:"profile"`
	Credentials   string        `mapstructure:"credentials"`
	Symbol        string        `mapstructure:"symbol"`
	Period        string        `mapstructure:"period"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type ViewConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type Config struct {
	Source string       `mapstructure:"source"`
	API    APIConfig    `mapstructure:"api"`
	Server ServerConfig `mapstructure:"server"`
	View   ViewConfig   `mapstructure:"view"`
	Store  StoreConfig  `mapstructure:"store"`
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fmpcfg"
	}
	return filepath.Join(home, ".fmpcfg")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source", SourceFMP)
	v.SetDefault("api.base_url", "https://financialmodelingprep.com")
	v.SetDefault("api.key", "")
	v.SetDefault("api.profile", "default")
	v.SetDefault("api.credentials", defaultCredentialsPath())
	v.SetDefault("api.symbol", "AAPL")
	v.SetDefault("api.period", "annual")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_per_minute", 0)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("view.page_size", 10)
	v.SetDefault("store.path", "fin-atlas.db")
}

// NewViper returns a viper instance with defaults and environment binding
// (FINATLAS_API_SYMBOL, FINATLAS_SERVER_PORT, ...). Commands bind their
// flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and decodes it.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.Source {
	case SourceFMP, SourceDuckDB:
	default:
		return nil, fmt.Errorf("unsupported source %q, expected %q or %q", cfg.Source, SourceFMP, SourceDuckDB)
	}
	if cfg.View.PageSize < 1 {
		return nil, fmt.Errorf("view.page_size must be at least 1, got %d", cfg.View.PageSize)
	}
	return &cfg, nil
}

// ResolveAPIKey returns the configured key, falling back to the credentials
// profile file.
func (c *Config) ResolveAPIKey(ctx context.Context) (string, error) {
	if c.API.Key != "" {
		return c.API.Key, nil
	}

	registry, err := NewRegistry(c.API.Credentials)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("no api key configured and credentials file %s does not exist", c.API.Credentials)
		}
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}
	return registry.GetAPIKey(ctx, c.API.Profile)
}
