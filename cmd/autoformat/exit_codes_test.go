package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/config"
	"github.com/alnah/go-autoformat/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", autoformat.ErrBrowserConnect, ExitBrowser},
		{"page create", autoformat.ErrPageCreate, ExitBrowser},
		{"page load", autoformat.ErrPageLoad, ExitBrowser},
		{"pdf generation", autoformat.ErrPDFGeneration, ExitBrowser},
		{"image capture", autoformat.ErrImageCapture, ExitBrowser},
		{"export wrapping browser", fmt.Errorf("%w: %w", autoformat.ErrExport, autoformat.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"not exist", os.ErrNotExist, ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"output exists", fmt.Errorf("%w: out.pdf", fileutil.ErrOutputExists), ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"write output", fmt.Errorf("%w: %w", ErrWriteOutput, errors.New("disk full")), ExitIO},

		// Usage errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config value", config.ErrInvalidValue, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid flags", ErrInvalidFlags, ExitUsage},
		{"invalid timeout", ErrInvalidTimeout, ExitUsage},
		{"no input", ErrNoInput, ExitUsage},
		{"empty content", autoformat.ErrEmptyContent, ExitUsage},
		{"invalid tone", autoformat.ErrInvalidTone, ExitUsage},
		{"invalid kind", autoformat.ErrInvalidExportKind, ExitUsage},
		{"page size", autoformat.ErrInvalidPageSize, ExitUsage},
		{"orientation", autoformat.ErrInvalidOrientation, ExitUsage},
		{"margin", autoformat.ErrInvalidMargin, ExitUsage},
		{"quality", autoformat.ErrInvalidImageQuality, ExitUsage},
		{"scale", autoformat.ErrInvalidScale, ExitUsage},
		{"style", autoformat.ErrStyleNotFound, ExitUsage},
		{"asset path", autoformat.ErrInvalidAssetPath, ExitUsage},
		{"wrapped usage", fmt.Errorf("loading config: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"export without cause", autoformat.ErrExport, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes must follow Unix conventions: 0 success, 1 general, 2 usage")
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code >= 126 {
			t.Errorf("custom exit code %d collides with shell-reserved codes", code)
		}
	}
}
