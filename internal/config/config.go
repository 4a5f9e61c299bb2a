// Package config loads the YAML configuration of the formatter, exporter,
// HTTP server and logger. Secrets are never read from the file; the AI
// credential comes from the environment variable named by ai.apiKeyEnv.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-autoformat/internal/ai"
	"github.com/alnah/go-autoformat/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxNameLength        = 100  // default export name
	MaxModelLength       = 100  // "gemini-1.5-flash-latest"
	MaxEnvNameLength     = 100  // "GEMINI_API_KEY"
	MaxURLLength         = 2048 // browser limit
	MaxPathLength        = 4096 // asset directory
	MaxStyleLength       = 64   // style sheet name
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxAddrLength        = 255  // "host:port"
	MaxAllowedOrigins    = 32
)

// AI providers.
const (
	ProviderGemini   = "gemini"
	ProviderEndpoint = "endpoint"
	ProviderNone     = "none" // rule-based only
)

// Defaults.
const (
	DefaultConfigName      = "autoformat"
	DefaultAITimeout       = 60
	DefaultExportTimeout   = 30
	DefaultImageQuality    = 98
	DefaultScale           = 2.0
	DefaultMargin          = 1.0
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultExportName      = "document"
	maxTimeoutSeconds      = 600
	maxWorkers             = 64
	maxScale               = 4.0
	maxMarginInches        = 3.0
	minMarginInches        = 0.0
	maxMaxBodyBytes        = 32 << 20
	defaultPageSize        = "letter"
	defaultPageOrientation = "portrait"
)

// Config holds all configuration.
type Config struct {
	AI     AIConfig     `yaml:"ai"`
	Format FormatConfig `yaml:"format"`
	Export ExportConfig `yaml:"export"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// AIConfig selects and configures the AI formatting client.
type AIConfig struct {
	Provider       string `yaml:"provider"`       // "gemini", "endpoint", "none"
	Model          string `yaml:"model"`          // Gemini model name
	APIKeyEnv      string `yaml:"apiKeyEnv"`      // env var holding the credential
	BaseURL        string `yaml:"baseURL"`        // Gemini API override (empty = default)
	EndpointURL    string `yaml:"endpointURL"`    // format-with-ai endpoint for provider "endpoint"
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // per-request bound on the AI call
}

// FormatConfig holds formatting defaults.
type FormatConfig struct {
	Tone string `yaml:"tone"` // "casual", "professional", "story"
}

// ExportConfig holds export options.
type ExportConfig struct {
	DefaultName    string     `yaml:"defaultName"`    // used when no filename or title is given
	Style          string     `yaml:"style"`          // embedded style sheet name
	AssetPath      string     `yaml:"assetPath"`      // directory overriding embedded assets
	Page           PageConfig `yaml:"page"`           // PDF page settings
	ImageQuality   int        `yaml:"imageQuality"`   // JPEG quality 1-100
	Scale          float64    `yaml:"scale"`          // device scale factor for rasterized output
	TimeoutSeconds int        `yaml:"timeoutSeconds"` // per-export bound
	Workers        int        `yaml:"workers"`        // concurrent surfaces (0 = auto)
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"` // CORS origins (empty = "*")
	MaxBodyBytes   int64    `yaml:"maxBodyBytes"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Mode  string `yaml:"mode"`  // "development", "production"
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:       ProviderGemini,
			Model:          ai.DefaultModel,
			APIKeyEnv:      ai.DefaultAPIKeyEnv,
			TimeoutSeconds: DefaultAITimeout,
		},
		Format: FormatConfig{Tone: string(ai.DefaultTone)},
		Export: ExportConfig{
			DefaultName: DefaultExportName,
			Page: PageConfig{
				Size:        defaultPageSize,
				Orientation: defaultPageOrientation,
				Margin:      DefaultMargin,
			},
			ImageQuality:   DefaultImageQuality,
			Scale:          DefaultScale,
			TimeoutSeconds: DefaultExportTimeout,
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{Mode: "development", Level: "info"},
	}
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for callers who build
// a Config by hand.
func (c *Config) Validate() error {
	if err := c.validateAI(); err != nil {
		return err
	}
	if _, err := ai.ParseTone(c.Format.Tone); err != nil {
		return fmt.Errorf("format.tone: %w", err)
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLog()
}

func (c *Config) validateAI() error {
	switch strings.ToLower(c.AI.Provider) {
	case "", ProviderGemini, ProviderEndpoint, ProviderNone:
	default:
		return fmt.Errorf("%w: ai.provider %q (must be gemini, endpoint, or none)", ErrInvalidValue, c.AI.Provider)
	}
	if err := validateFieldLength("ai.model", c.AI.Model, MaxModelLength); err != nil {
		return err
	}
	if err := validateFieldLength("ai.apiKeyEnv", c.AI.APIKeyEnv, MaxEnvNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("ai.baseURL", c.AI.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("ai.endpointURL", c.AI.EndpointURL, MaxURLLength); err != nil {
		return err
	}
	if strings.EqualFold(c.AI.Provider, ProviderEndpoint) && strings.TrimSpace(c.AI.EndpointURL) == "" {
		return fmt.Errorf("%w: ai.endpointURL required when provider is endpoint", ErrInvalidValue)
	}
	return validateRange("ai.timeoutSeconds", c.AI.TimeoutSeconds, 0, maxTimeoutSeconds)
}

func (c *Config) validateExport() error {
	e := c.Export
	if err := validateFieldLength("export.defaultName", e.DefaultName, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.style", e.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.assetPath", e.AssetPath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.page.size", e.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.page.orientation", e.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if e.Page.Margin < minMarginInches || e.Page.Margin > maxMarginInches {
		return fmt.Errorf("%w: export.page.margin must be between %.1f and %.1f, got %.2f",
			ErrInvalidValue, minMarginInches, maxMarginInches, e.Page.Margin)
	}
	if e.ImageQuality != 0 {
		if err := validateRange("export.imageQuality", e.ImageQuality, 1, 100); err != nil {
			return err
		}
	}
	if e.Scale != 0 && (e.Scale < 1 || e.Scale > maxScale) {
		return fmt.Errorf("%w: export.scale must be between 1 and %.0f, got %.2f", ErrInvalidValue, maxScale, e.Scale)
	}
	if err := validateRange("export.timeoutSeconds", e.TimeoutSeconds, 0, maxTimeoutSeconds); err != nil {
		return err
	}
	return validateRange("export.workers", e.Workers, 0, maxWorkers)
}

func (c *Config) validateServer() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if len(c.Server.AllowedOrigins) > MaxAllowedOrigins {
		return fmt.Errorf("%w: server.allowedOrigins has %d entries (max %d)",
			ErrInvalidValue, len(c.Server.AllowedOrigins), MaxAllowedOrigins)
	}
	for i, o := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), o, MaxURLLength); err != nil {
			return err
		}
	}
	if c.Server.MaxBodyBytes < 0 || c.Server.MaxBodyBytes > maxMaxBodyBytes {
		return fmt.Errorf("%w: server.maxBodyBytes must be between 0 and %d, got %d",
			ErrInvalidValue, maxMaxBodyBytes, c.Server.MaxBodyBytes)
	}
	return nil
}

func (c *Config) validateLog() error {
	switch strings.ToLower(c.Log.Mode) {
	case "", "development", "dev", "production", "prod":
	default:
		return fmt.Errorf("%w: log.mode %q (must be development or production)", ErrInvalidValue, c.Log.Mode)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateRange(fieldName string, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidValue, fieldName, lo, hi, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-autoformat/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-autoformat", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
