package autoformat

import (
	"errors"

	"github.com/alnah/go-autoformat/internal/ai"
)

// Sentinel errors of the AI path. The Formatter recovers from all of them by
// falling back to rule-based formatting; they surface through
// FormattingResult.FallbackErr.
var (
	ErrConfiguration = ai.ErrConfiguration
	ErrUpstream      = ai.ErrUpstream
	ErrEmptyResult   = ai.ErrEmptyResult
	ErrTransport     = ai.ErrTransport
	ErrUnsafeMarkup  = ai.ErrUnsafeMarkup
	ErrInvalidTone   = ai.ErrInvalidTone
)

// Sentinel errors for library operations.
var (
	ErrEmptyContent      = errors.New("content cannot be empty")
	ErrInvalidExportKind = errors.New("invalid export kind")
	ErrSuperseded        = errors.New("format request superseded by a newer one")

	// Export errors. ErrExport wraps every failure of Exporter.Export.
	ErrExport         = errors.New("export failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrImageCapture   = errors.New("image capture failed")
	ErrTemplateRender = errors.New("document template rendering failed")
	ErrPoolClosed     = errors.New("surface pool closed")

	// Page settings validation errors.
	ErrInvalidPageSize     = errors.New("invalid page size")
	ErrInvalidOrientation  = errors.New("invalid orientation")
	ErrInvalidMargin       = errors.New("invalid margin")
	ErrInvalidImageQuality = errors.New("invalid image quality")
	ErrInvalidScale        = errors.New("invalid scale")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
