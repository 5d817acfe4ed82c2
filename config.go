package csgcore

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the YAML-loadable counterpart to the functional-options
// Config (options.go): the same fields, tagged for the `-c config.yaml`
// CLI flag, plus a LogLevel string the driver uses to configure the
// package logger (logger.go).
type ConfigFile struct {
	// CacheSizeBytes is the kernel-cache byte budget.
	CacheSizeBytes int64 `yaml:"cache_size_bytes" json:"cache_size_bytes"`
	// GeometryCacheSizeBytes is the geometry-cache byte budget.
	GeometryCacheSizeBytes int64 `yaml:"geometry_cache_size_bytes" json:"geometry_cache_size_bytes"`

	// Fa is the minimum angle per fragment, in degrees.
	Fa float64 `yaml:"fa" json:"fa"`
	// Fs is the minimum fragment length.
	Fs float64 `yaml:"fs" json:"fs"`
	// Fn is a forced fragment count (0 disables the override).
	Fn int `yaml:"fn" json:"fn"`

	// Parallel enables parallel postfix traversal.
	Parallel bool `yaml:"parallel" json:"parallel"`

	// TermLimit caps the CSG-normalizer product count; 0 is unlimited.
	TermLimit int `yaml:"term_limit" json:"term_limit"`

	// LazyUnion is copied into Config.LazyUnion; the evaluator does not
	// read it, and the root is always evaluated as a union.
	LazyUnion bool `yaml:"lazy_union" json:"lazy_union"`

	// LogLevel is one of "debug", "info", "warn", "error"; empty keeps
	// the package's default (silent) logger.
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// DefaultConfigFile returns a ConfigFile populated from DefaultConfig,
// suitable as a starting point for `-c config.yaml` generation.
func DefaultConfigFile() ConfigFile {
	def := DefaultConfig()
	return ConfigFile{
		CacheSizeBytes:         def.KernelCacheBytes,
		GeometryCacheSizeBytes: def.GeometryCacheBytes,
		Fa:                     def.Fa,
		Fs:                     def.Fs,
		Fn:                     def.Fn,
		Parallel:               def.Parallel,
		TermLimit:              def.TermLimit,
		LazyUnion:              def.LazyUnion,
	}
}

// LoadConfigFile reads and parses a YAML configuration file.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := DefaultConfigFile()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration's numeric ranges.
func (c *ConfigFile) Validate() error {
	if c.CacheSizeBytes < 0 {
		return fmt.Errorf("cache_size_bytes must be >= 0, got %d", c.CacheSizeBytes)
	}
	if c.GeometryCacheSizeBytes < 0 {
		return fmt.Errorf("geometry_cache_size_bytes must be >= 0, got %d", c.GeometryCacheSizeBytes)
	}
	if c.Fa <= 0 {
		return fmt.Errorf("fa must be > 0, got %f", c.Fa)
	}
	if c.Fs <= 0 {
		return fmt.Errorf("fs must be > 0, got %f", c.Fs)
	}
	if c.Fn < 0 {
		return fmt.Errorf("fn must be >= 0, got %d", c.Fn)
	}
	if c.TermLimit < 0 {
		return fmt.Errorf("term_limit must be >= 0, got %d", c.TermLimit)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel into a slog.Level; an empty LogLevel
// resolves to slog.LevelWarn, the level most of §7's warnings use.
func (c *ConfigFile) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "", "warn":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q, want one of debug/info/warn/error", c.LogLevel)
	}
}

// ToConfig converts a loaded ConfigFile to the Config the Evaluator
// consumes.
func (c *ConfigFile) ToConfig() Config {
	return Config{
		KernelCacheBytes:   c.CacheSizeBytes,
		GeometryCacheBytes: c.GeometryCacheSizeBytes,
		Fa:                 c.Fa,
		Fs:                 c.Fs,
		Fn:                 c.Fn,
		Parallel:           c.Parallel,
		TermLimit:          c.TermLimit,
		LazyUnion:          c.LazyUnion,
	}
}

// ToYAML serializes the config to YAML bytes.
func (c *ConfigFile) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
