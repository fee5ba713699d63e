package config

// SolverConfig holds search and scoring settings
type SolverConfig struct {
	// Horizon used by the id × yield quality sum
	QualityHorizon int `mapstructure:"quality_horizon" validate:"min=0,max=64"`

	// Horizon and blueprint count used by the product of yields
	ProductHorizon int `mapstructure:"product_horizon" validate:"min=0,max=64"`
	ProductCount   int `mapstructure:"product_count" validate:"min=1"`

	// Concurrent blueprint searches (0 = one per CPU)
	Workers int `mapstructure:"workers" validate:"min=0,max=1024"`

	Memoize      bool `mapstructure:"memoize"`
	DisablePrune bool `mapstructure:"disable_prune"`
	DisableCaps  bool `mapstructure:"disable_caps"`
}
