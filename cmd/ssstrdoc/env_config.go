package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/marktsuchida/ssstrdoc/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // SSSTRDOC_CONFIG: config file name or path
	Timeout    time.Duration // SSSTRDOC_TIMEOUT: per-page groff timeout
	Workers    int           // SSSTRDOC_WORKERS: parallel groff runs
	AssetPath  string        // SSSTRDOC_ASSET_PATH: template and style overrides
}

// knownEnvVars lists valid SSSTRDOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SSSTRDOC_CONFIG":     true,
	"SSSTRDOC_TIMEOUT":    true,
	"SSSTRDOC_WORKERS":    true,
	"SSSTRDOC_ASSET_PATH": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable or non-positive numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("SSSTRDOC_CONFIG"),
		AssetPath:  os.Getenv("SSSTRDOC_ASSET_PATH"),
	}
	if timeout := os.Getenv("SSSTRDOC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := os.Getenv("SSSTRDOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SSSTRDOC_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "SSSTRDOC_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero,
// so the order is: CLI flags > config file > env vars > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 && cfg.HTML.Timeout == "" {
		cfg.HTML.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 && cfg.HTML.Workers == 0 {
		cfg.HTML.Workers = env.Workers
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
