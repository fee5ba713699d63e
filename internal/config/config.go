package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BP_SOLVER_WORKERS
const EnvPrefix = "BP"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LoadConfig loads configuration with priority:
// 1. Environment variables (BP_ prefix)
// 2. Config file (blueprints.yaml, or configPath)
// 3. Defaults
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("blueprints")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Booleans cannot be defaulted after Unmarshal
	v.SetDefault("metrics.enabled", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration populated only with defaults
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	SetDefaults(cfg)
	return cfg
}

// bindEnv registers every key so AutomaticEnv overrides reach Unmarshal even when
// the key is absent from the config file.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"solver.quality_horizon",
		"solver.product_horizon",
		"solver.product_count",
		"solver.workers",
		"solver.memoize",
		"solver.disable_prune",
		"solver.disable_caps",
		"logging.level",
		"logging.format",
		"logging.output",
		"server.address",
		"server.rate_limit",
		"server.burst",
		"server.max_body_bytes",
		"server.max_horizon",
		"database.enabled",
		"database.type",
		"database.path",
		"database.url",
		"metrics.enabled",
		"metrics.path",
	} {
		_ = v.BindEnv(key)
	}
}
