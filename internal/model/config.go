package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the complete traceplot configuration
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Units       UnitsConfig       `yaml:"units"`
	Output      OutputConfig      `yaml:"output"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Watch       WatchConfig       `yaml:"watch"`
}

// InputConfig controls how trace blobs are read
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes"` // Max bytes to read from a file or STDIN
}

// UnitsConfig documents the unit contract between the parsing core and the
// presentation layer. The core always emits raw source units; exports are
// multiplied by Scale before being handed to a viewer.
type UnitsConfig struct {
	Scale float64 `yaml:"scale"` // Conversion factor applied on export
	Label string  `yaml:"label"` // Unit label after conversion (for column headers)
}

// OutputConfig controls export rendering
type OutputConfig struct {
	JSONPath string `yaml:"json_path"` // JSON export path ("" disables)
	CSVPath  string `yaml:"csv_path"`  // CSV export path ("" disables)
	YAMLPath string `yaml:"yaml_path"` // YAML export path ("" disables)
	Verbose  bool   `yaml:"verbose"`
}

// CacheConfig controls the export cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// WatchConfig controls live re-parsing of a growing trace file
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := ".traceplot-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".traceplot", "cache")
	}

	return &Config{
		Input: InputConfig{
			MaxBytes: 64 << 20, // One simulation run's console output is far smaller
		},
		Units: UnitsConfig{
			Scale: 1e-3, // Simulator logs meters; viewers want kilometers
			Label: "km",
		},
		Output: OutputConfig{
			JSONPath: "dataset.json",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}
