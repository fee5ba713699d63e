package config

// ServerConfig holds the HTTP solve service configuration
type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`

	// Solve requests per second and burst allowance
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`
	Burst     int     `mapstructure:"burst" validate:"min=1"`

	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"min=1"`

	// Largest horizon a request may ask for
	MaxHorizon int `mapstructure:"max_horizon" validate:"min=1,max=64"`
}

// MetricsConfig holds metrics exposure configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}
