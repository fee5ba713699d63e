package config

// Default horizons and counts for the two scoring modes
const (
	DefaultQualityHorizon = 24
	DefaultProductHorizon = 32
	DefaultProductCount   = 3

	// MaxHorizon is the largest horizon accepted anywhere in configuration or flags
	MaxHorizon = 64
	// DefaultServerMaxHorizon keeps a single HTTP request to a search that finishes quickly
	DefaultServerMaxHorizon = 32
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Solver defaults
	if cfg.Solver.QualityHorizon == 0 {
		cfg.Solver.QualityHorizon = DefaultQualityHorizon
	}
	if cfg.Solver.ProductHorizon == 0 {
		cfg.Solver.ProductHorizon = DefaultProductHorizon
	}
	if cfg.Solver.ProductCount == 0 {
		cfg.Solver.ProductCount = DefaultProductCount
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost:8080"
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 5
	}
	if cfg.Server.Burst == 0 {
		cfg.Server.Burst = 10
	}
	if cfg.Server.MaxHorizon == 0 {
		cfg.Server.MaxHorizon = DefaultServerMaxHorizon
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "blueprints.db"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
