package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the complete modality configuration
type Config struct {
	Analyzer     AnalyzerConfig     `yaml:"analyzer" mapstructure:"analyzer"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// AnalyzerConfig describes how the external analyzer is invoked
type AnalyzerConfig struct {
	Binary   string        `yaml:"binary" mapstructure:"binary"`     // Executable name or path
	Args     []string      `yaml:"args" mapstructure:"args"`         // Extra arguments, passed verbatim
	Encoding string        `yaml:"encoding" mapstructure:"encoding"` // Encoding of the analyzer's stdout
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`   // Per-sentence timeout
}

// CacheConfig controls caching of analyzer output
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits how often analyzer processes are spawned
type RateLimitingConfig struct {
	SpawnsPerSecond float64 `yaml:"spawns_per_second" mapstructure:"spawns_per_second"`
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // json, yaml, markdown, html, text
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, none
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "modality-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".modality", "cache")
	}

	return &Config{
		Analyzer: AnalyzerConfig{
			Binary:   "zunda",
			Args:     []string{},
			Encoding: "utf-8",
			Timeout:  30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimiting: RateLimitingConfig{
			SpawnsPerSecond: 20,
			Burst:           5,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
