package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/ai"
	"github.com/alnah/go-autoformat/internal/config"
	"github.com/alnah/go-autoformat/internal/fileutil"
	"github.com/alnah/go-autoformat/internal/hints"
	"github.com/alnah/go-autoformat/internal/logger"
)

// Command names.
const (
	cmdFormat  = "format"
	cmdExport  = "export"
	cmdServe   = "serve"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

// stdinArg selects standard input as the content source.
const stdinArg = "-"

// maxInputBytes bounds content read from a file or stdin.
const maxInputBytes = 8 << 20

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrUnknownCommand = errors.New("unknown command")
)

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case cmdFormat:
		err = runFormatCmd(rest, env)
	case cmdExport:
		err = runExportCmd(rest, env)
	case cmdServe:
		err = runServeCmd(rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "autoformat %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, autoformat.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, fileutil.ErrOutputExists):
		return hints.ForOutputExists()
	case errors.Is(err, autoformat.ErrStyleNotFound):
		return hints.ForStyleNotFound(availableStyles)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(config.DefaultConfigName))
	}
	return ""
}

// availableStyles lists the embedded style sheets.
var availableStyles = []string{"default", "compact"}

// configSearchPaths returns the locations LoadConfig tries for name.
func configSearchPaths(name string) []string {
	paths := []string{name + ".yaml", name + ".yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "go-autoformat", name+".yaml"))
	}
	return paths
}

// loadConfig loads the config file named by the flag or AUTOFORMAT_CONFIG,
// then applies environment overrides. Without either, defaults are used.
func loadConfig(flagConfig string, env *Environment) (*config.Config, error) {
	ec := loadEnvConfig(env.Getenv)
	if env.Environ != nil {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	name := flagConfig
	if name == "" {
		name = ec.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(ec, cfg)
	return cfg, nil
}

// newLogger builds the command logger. Commands that write to stdout stay
// silent unless verbose; the server logs per the config.
func newLogger(cfg *config.Config, verbose, always bool) (*logger.Logger, error) {
	switch {
	case verbose:
		return logger.New(cfg.Log.Mode, "debug")
	case always:
		return logger.New(cfg.Log.Mode, cfg.Log.Level)
	default:
		return logger.Nop(), nil
	}
}

// buildAIClient returns the client for the configured provider, or nil for
// provider "none". A missing credential is reported as ai.ErrConfiguration.
func buildAIClient(cfg config.AIConfig, getenv func(string) string) (ai.Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderEndpoint:
		return ai.NewEndpointClient(cfg.EndpointURL, nil), nil
	default:
		envName := cfg.APIKeyEnv
		if envName == "" {
			envName = ai.DefaultAPIKeyEnv
		}
		key := strings.TrimSpace(getenv(envName))
		if key == "" {
			return nil, fmt.Errorf("%w: %s is not set", ai.ErrConfiguration, envName)
		}
		return ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:  key,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}), nil
	}
}

// buildFormatter wires the AI client (unless disabled) into a Formatter.
// A missing credential degrades to rule-based formatting with a warning.
func buildFormatter(cfg *config.Config, f aiFlags, env *Environment, log *logger.Logger, quiet bool) (*autoformat.Formatter, error) {
	opts := []autoformat.FormatterOption{autoformat.WithLogger(log)}

	timeout, err := resolveTimeout(f.aiTimeout, 0, cfg.AI.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, autoformat.WithAITimeout(timeout))
	}

	if !f.noAI {
		client, err := env.NewAIClient(cfg.AI, env.Getenv)
		switch {
		case errors.Is(err, ai.ErrConfiguration):
			if !quiet {
				envName := cfg.AI.APIKeyEnv
				if envName == "" {
					envName = ai.DefaultAPIKeyEnv
				}
				fmt.Fprintf(env.Stderr, "warning: %v, using rule-based formatting%s\n", err, hints.ForMissingAPIKey(envName))
			}
		case err != nil:
			return nil, err
		case client != nil:
			opts = append(opts, autoformat.WithAIClient(client))
		}
	}

	return autoformat.NewFormatter(opts...), nil
}

// resolveTone picks the flag tone over the config tone.
func resolveTone(flagTone string, cfg *config.Config) (autoformat.Tone, error) {
	if flagTone != "" {
		return autoformat.ParseTone(flagTone)
	}
	return autoformat.ParseTone(cfg.Format.Tone)
}

// resolveTimeout returns the timeout by priority: flag > env > config seconds.
// Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration, cfgSeconds int) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	if cfgSeconds > 0 {
		return time.Duration(cfgSeconds) * time.Second, nil
	}
	return 0, nil
}

// exporterOptions merges flags over the export config section.
func exporterOptions(cfg *config.Config, page pageFlags, a assetFlags, r renderFlags, env *Environment, log *logger.Logger) ([]autoformat.ExporterOption, error) {
	ec := cfg.Export

	timeout, err := resolveTimeout(r.timeout, loadEnvConfig(env.Getenv).Timeout, ec.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	settings := &autoformat.PageSettings{
		Size:        firstNonEmpty(page.size, ec.Page.Size, autoformat.PageSizeLetter),
		Orientation: firstNonEmpty(page.orientation, ec.Page.Orientation, autoformat.OrientationPortrait),
		Margin:      ec.Page.Margin,
	}
	if page.marginSet {
		settings.Margin = page.margin
	}

	opts := []autoformat.ExporterOption{
		autoformat.WithPage(settings),
		autoformat.WithExportLogger(log),
	}
	if timeout > 0 {
		opts = append(opts, autoformat.WithExportTimeout(timeout))
	}
	if style := firstNonEmpty(a.style, ec.Style); style != "" {
		opts = append(opts, autoformat.WithStyle(style))
	}
	if path := firstNonEmpty(a.assetPath, ec.AssetPath); path != "" {
		opts = append(opts, autoformat.WithAssetPath(path))
	}
	if q := firstPositive(r.quality, ec.ImageQuality); q > 0 {
		opts = append(opts, autoformat.WithImageQuality(q))
	}
	if s := r.scale; s > 0 {
		opts = append(opts, autoformat.WithScale(s))
	} else if ec.Scale > 0 {
		opts = append(opts, autoformat.WithScale(ec.Scale))
	}
	if w := firstPositive(r.workers, ec.Workers); w > 0 {
		opts = append(opts, autoformat.WithWorkers(w))
	}
	if ec.DefaultName != "" {
		opts = append(opts, autoformat.WithDefaultName(ec.DefaultName))
	}
	return opts, nil
}

// readInput reads content from the single positional arg, or stdin when
// there is none or it is "-".
func readInput(args []string, env *Environment) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrInvalidFlags, len(args))
	}

	var r io.Reader
	var source string
	if len(args) == 0 || args[0] == stdinArg {
		if env.Stdin == nil {
			return "", ErrNoInput
		}
		r, source = env.Stdin, "stdin"
	} else {
		f, err := os.Open(args[0]) // #nosec G304 -- user-provided input path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer func() { _ = f.Close() }()
		r, source = f, args[0]
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadInput, source, err)
	}
	if len(data) > maxInputBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrReadInput, source, maxInputBytes)
	}
	return string(data), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
