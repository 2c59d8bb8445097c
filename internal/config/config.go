// Package config loads the application's typed configuration from viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration, populated from the config file,
// environment variables and flags.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Taxonomy  TaxonomyConfig  `mapstructure:"taxonomy"`
	Plaid     PlaidConfig     `mapstructure:"plaid"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TaxonomyConfig configures the external business-category lookup.
type TaxonomyConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	DefaultLocation string        `mapstructure:"default_location"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// PlaidConfig configures the optional bank-feed transaction source. When
// disabled, the similarity engine reads transactions from storage instead.
type PlaidConfig struct {
	ClientID    string `mapstructure:"client_id"`
	Secret      string `mapstructure:"secret"`
	Environment string `mapstructure:"environment"`
	Enabled     bool   `mapstructure:"enabled"`
}

// RecommendConfig holds the overwrite-signal weights.
type RecommendConfig struct {
	UserWeight    float64 `mapstructure:"user_weight"`
	SimilarWeight float64 `mapstructure:"similar_weight"`
	DBWeight      float64 `mapstructure:"db_weight"`
	Decay         float64 `mapstructure:"decay"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load unmarshals the current viper state into a Config, applying defaults
// for anything unset.
func Load() (*Config, error) {
	viper.SetDefault("database.path", defaultDatabasePath())
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("taxonomy.timeout", 5*time.Second)
	viper.SetDefault("taxonomy.cache_ttl", 15*time.Minute)
	viper.SetDefault("plaid.environment", "sandbox")
	viper.SetDefault("recommend.user_weight", 0.5)
	viper.SetDefault("recommend.similar_weight", 0.3)
	viper.SetDefault("recommend.db_weight", 0.2)
	viper.SetDefault("recommend.decay", 1.0)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
