package kdtree

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// DefaultLeafMaxSize is the leaf capacity used by DefaultConfig.
const DefaultLeafMaxSize = 10

// Config controls index construction and batch querying.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// LeafMaxSize is the largest number of points a leaf node may hold.
	// Smaller leaves give deeper trees with tighter pruning; larger leaves
	// build faster and scan more points per visited leaf.
	// Must be >= 1. Unlike the other fields, zero is not replaced by a
	// default. Default: 10.
	LeafMaxSize int

	// Workers bounds the goroutines used by the batch query methods.
	// 0 means runtime.NumCPU(). Must be >= 0.
	Workers int

	// Logger receives build and batch diagnostics at debug level.
	// nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		LeafMaxSize: DefaultLeafMaxSize,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.LeafMaxSize < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidLeafSize, cfg.LeafMaxSize)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("kdtree: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", cfg.Workers)
	}
	return nil
}
