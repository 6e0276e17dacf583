package config

// Config is the root configuration structure
type Config struct {
	Version      int             `yaml:"version"`
	Server       ServerConfig    `yaml:"server"`
	Database     DatabaseConfig  `yaml:"database"`
	Coverage     CoverageConfig  `yaml:"coverage"`
	Optimizer    OptimizerConfig `yaml:"optimizer"`
	SeedBuiltins *bool           `yaml:"seed_builtins,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CoverageConfig tunes the coverage evaluator
type CoverageConfig struct {
	// Workers bounds the number of concurrent depth computations.
	Workers int `yaml:"workers"`
	// BufferQuadSegs is the number of segments per quarter circle
	// used when buffering footprints.
	BufferQuadSegs int `yaml:"buffer_quad_segs"`
}

// OptimizerConfig selects and tunes the default strategy searcher
type OptimizerConfig struct {
	Searcher string `yaml:"searcher"`
	Samples  int    `yaml:"samples"`
	Workers  int    `yaml:"workers"`
	Seed     int64  `yaml:"seed,omitempty"`
}
