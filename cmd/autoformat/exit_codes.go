package main

import (
	"errors"
	"os"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/config"
	"github.com/alnah/go-autoformat/internal/fileutil"
)

// Exit codes for the autoformat CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, output exists
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, autoformat.ErrBrowserConnect) ||
		errors.Is(err, autoformat.ErrPageCreate) ||
		errors.Is(err, autoformat.ErrPageLoad) ||
		errors.Is(err, autoformat.ErrPDFGeneration) ||
		errors.Is(err, autoformat.ErrImageCapture) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrOutputExists) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, autoformat.ErrEmptyContent) ||
		errors.Is(err, autoformat.ErrInvalidTone) ||
		errors.Is(err, autoformat.ErrInvalidExportKind) ||
		errors.Is(err, autoformat.ErrInvalidPageSize) ||
		errors.Is(err, autoformat.ErrInvalidOrientation) ||
		errors.Is(err, autoformat.ErrInvalidMargin) ||
		errors.Is(err, autoformat.ErrInvalidImageQuality) ||
		errors.Is(err, autoformat.ErrInvalidScale) ||
		errors.Is(err, autoformat.ErrStyleNotFound) ||
		errors.Is(err, autoformat.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
