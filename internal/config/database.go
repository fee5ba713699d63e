package config

// DatabaseConfig holds result store configuration
type DatabaseConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Database type: sqlite or postgres
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`

	// SQLite file path (":memory:" for an in-memory store)
	Path string `mapstructure:"path"`

	// Postgres connection URL
	URL string `mapstructure:"url" validate:"required_if=Type postgres"`
}
