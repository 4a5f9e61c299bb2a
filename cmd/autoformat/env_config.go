package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-autoformat/internal/config"
)

// envPrefix marks the variables read by the CLI.
const envPrefix = "AUTOFORMAT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // AUTOFORMAT_CONFIG: config file name or path
	Tone       string        // AUTOFORMAT_TONE: default tone
	Provider   string        // AUTOFORMAT_AI_PROVIDER: gemini, endpoint, none
	Endpoint   string        // AUTOFORMAT_AI_ENDPOINT: format-with-ai endpoint URL
	Style      string        // AUTOFORMAT_STYLE: style sheet name
	PageSize   string        // AUTOFORMAT_PAGE_SIZE: letter, a4, legal
	Timeout    time.Duration // AUTOFORMAT_TIMEOUT: export timeout
	Addr       string        // AUTOFORMAT_ADDR: server listen address
	LogLevel   string        // AUTOFORMAT_LOG_LEVEL: debug, info, warn, error
	Workers    int           // AUTOFORMAT_WORKERS: concurrent surfaces
}

// knownEnvVars lists valid AUTOFORMAT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"AUTOFORMAT_CONFIG":      true,
	"AUTOFORMAT_TONE":        true,
	"AUTOFORMAT_AI_PROVIDER": true,
	"AUTOFORMAT_AI_ENDPOINT": true,
	"AUTOFORMAT_STYLE":       true,
	"AUTOFORMAT_PAGE_SIZE":   true,
	"AUTOFORMAT_TIMEOUT":     true,
	"AUTOFORMAT_ADDR":        true,
	"AUTOFORMAT_LOG_LEVEL":   true,
	"AUTOFORMAT_WORKERS":     true,
}

// loadEnvConfig reads the AUTOFORMAT_* variables through getenv.
// Unparseable durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("AUTOFORMAT_CONFIG"),
		Tone:       getenv("AUTOFORMAT_TONE"),
		Provider:   getenv("AUTOFORMAT_AI_PROVIDER"),
		Endpoint:   getenv("AUTOFORMAT_AI_ENDPOINT"),
		Style:      getenv("AUTOFORMAT_STYLE"),
		PageSize:   getenv("AUTOFORMAT_PAGE_SIZE"),
		Addr:       getenv("AUTOFORMAT_ADDR"),
		LogLevel:   getenv("AUTOFORMAT_LOG_LEVEL"),
	}

	if timeout := getenv("AUTOFORMAT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("AUTOFORMAT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized AUTOFORMAT_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values on top of the loaded config.
// The timeout is handled separately in resolveTimeout.
// Order of precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via the merge functions).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Tone != "" {
		cfg.Format.Tone = env.Tone
	}
	if env.Provider != "" {
		cfg.AI.Provider = env.Provider
	}
	if env.Endpoint != "" {
		cfg.AI.EndpointURL = env.Endpoint
	}
	if env.Style != "" {
		cfg.Export.Style = env.Style
	}
	if env.PageSize != "" {
		cfg.Export.Page.Size = env.PageSize
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Workers > 0 {
		cfg.Export.Workers = env.Workers
	}
}
