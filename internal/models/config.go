package models

import (
	"runtime"
	"time"
)

// Config holds configuration for a resolution run
type Config struct {
	// Project description file, or a directory containing one
	Path string

	// Output settings
	OutputFormat string // "json", "terminal", "sarif"
	OutputFile   string // Optional output file path

	// Behavior settings
	FailOnWarnings bool
	Workers        int

	// Cache settings
	CacheDir   string // Defaults to ~/.cache/incgraph
	CacheTTL   time.Duration
	NoCache    bool
	ClearCache bool // Drop every cached entry before resolving

	// Logging
	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path:         ".",
		OutputFormat: "json",
		Workers:      runtime.NumCPU(),
		CacheTTL:     24 * time.Hour,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}
