// Package config loads lignin configuration from TOML, YAML, or JSON
// files, with defaults suitable for typical JavaScript projects.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for lignin.
type Config struct {
	// Entries are configured entry-point paths, relative to the
	// analyzed root. When empty, entry points are inferred from the
	// project manifest or the import structure.
	Entries []string `koanf:"entries"`

	// Exclude controls which files the scanner skips.
	Exclude ExcludeConfig `koanf:"exclude"`

	// Analysis controls build behavior.
	Analysis AnalysisConfig `koanf:"analysis"`

	// Duplicates controls the duplicate-symbol analysis.
	Duplicates DuplicatesConfig `koanf:"duplicates"`

	// Cache controls the on-disk fact cache.
	Cache CacheConfig `koanf:"cache"`

	// Output controls output formatting.
	Output OutputConfig `koanf:"output"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns"`
	Dirs      []string `koanf:"dirs"`
	Gitignore bool     `koanf:"gitignore"`
}

// AnalysisConfig controls graph construction.
type AnalysisConfig struct {
	// Workers caps the analysis worker pool; 0 means 2x NumCPU.
	Workers int `koanf:"workers"`
	// MaxFileSize skips larger files when > 0.
	MaxFileSize int64 `koanf:"max_file_size"`
}

// DuplicatesConfig controls duplicate-symbol detection.
type DuplicatesConfig struct {
	MinGroupSize   int      `koanf:"min_group_size"`
	FuzzyThreshold float64  `koanf:"fuzzy_threshold"`
	ExcludeNames   []string `koanf:"exclude_names"`
}

// CacheConfig controls the on-disk fact cache.
type CacheConfig struct {
	Enabled bool `koanf:"enabled"`
	// Dir overrides the per-user cache directory when set.
	Dir string `koanf:"dir"`
	// TTLHours bounds entry age; 0 uses the built-in default.
	TTLHours int `koanf:"ttl_hours"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
			},
			Dirs: []string{
				"node_modules",
				".git",
				"dist",
				"build",
				"coverage",
				".next",
			},
			Gitignore: true,
		},
		Analysis: AnalysisConfig{
			Workers:     0,
			MaxFileSize: 0,
		},
		Duplicates: DuplicatesConfig{
			MinGroupSize:   2,
			FuzzyThreshold: 0.8,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations, falling back to the
// defaults when none exists or loading fails.
func LoadOrDefault() *Config {
	names := []string{
		"lignin.toml",
		"lignin.yaml",
		"lignin.yml",
		"lignin.json",
		".lignin.toml",
		".lignin.yaml",
		".lignin.yml",
		".lignin.json",
	}

	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}
