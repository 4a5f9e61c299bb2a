package autoformat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-autoformat/internal/ai"
)

// Tone selects the voice of AI formatting.
type Tone = ai.Tone

// Supported tones.
const (
	ToneCasual       = ai.ToneCasual
	ToneProfessional = ai.ToneProfessional
	ToneStory        = ai.ToneStory
	DefaultTone      = ai.DefaultTone
)

// ParseTone resolves a tone name case-insensitively. The empty string yields
// DefaultTone.
func ParseTone(s string) (Tone, error) {
	return ai.ParseTone(s)
}

// Source records which path produced a FormattingResult.
type Source string

// Formatting sources.
const (
	SourceAI        Source = "ai"
	SourceRuleBased Source = "rule-based"
)

// Document is the editing state owned by a Session.
type Document struct {
	Title           string
	RawContent      string
	Tone            Tone
	FormattedMarkup string // empty until a format succeeds
}

// FormattingResult is the outcome of one Formatter.Format call.
type FormattingResult struct {
	Markup      string
	Source      Source
	FallbackErr error // AI failure that triggered the fallback, nil for SourceAI
}

// ExportKind selects the output format of an export.
type ExportKind string

// Export kinds.
const (
	ExportPDF  ExportKind = "pdf"
	ExportTXT  ExportKind = "txt"
	ExportMD   ExportKind = "md"
	ExportJPEG ExportKind = "jpeg"
)

// ExportKinds returns the supported kinds in display order.
func ExportKinds() []ExportKind {
	return []ExportKind{ExportPDF, ExportTXT, ExportMD, ExportJPEG}
}

// ParseExportKind resolves a kind name case-insensitively. "jpg" is accepted
// for ExportJPEG.
func ParseExportKind(s string) (ExportKind, error) {
	k := ExportKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ExportPDF, ExportTXT, ExportMD, ExportJPEG:
		return k, nil
	case "jpg":
		return ExportJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExportKind, s)
}

// Extension returns the file extension without the dot.
func (k ExportKind) Extension() string {
	if k == ExportJPEG {
		return "jpg"
	}
	return string(k)
}

// ContentType returns the MIME type of the exported bytes.
func (k ExportKind) ContentType() string {
	switch k {
	case ExportPDF:
		return "application/pdf"
	case ExportTXT:
		return "text/plain; charset=utf-8"
	case ExportMD:
		return "text/markdown; charset=utf-8"
	case ExportJPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// ExportRequest holds the inputs of one export.
// ContentBody is markup for PDF, JPEG and MD, and plain text for TXT.
type ExportRequest struct {
	Title          string
	CustomFilename string
	ContentBody    string
	Kind           ExportKind
}

// ExportResult holds the exported bytes and their metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.0
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// Raster defaults for image export.
const (
	DefaultImageQuality = 98
	DefaultScale        = 2.0
	MaxScale            = 4.0
)

// PageSettings configures page dimensions for PDF and image exports.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// dimensions returns the paper width and height in inches.
func (p *PageSettings) dimensions() (width, height float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeA4:
		width, height = 8.27, 11.69
	case PageSizeLegal:
		width, height = 8.5, 14
	default:
		width, height = 8.5, 11
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

// Notice levels.
const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message about the outcome of an operation.
type Notice struct {
	Level       NoticeLevel `json:"level"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// NoticeRecorder collects notices in memory.
type NoticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify appends n.
func (r *NoticeRecorder) Notify(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Notices returns a copy of the recorded notices.
func (r *NoticeRecorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

type notifierKey struct{}

// ContextWithNotifier returns a context whose notices go to n instead of the
// notifier configured on the Formatter or Exporter.
func ContextWithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

// notifierFrom returns the notifier carried by ctx, else fallback.
func notifierFrom(ctx context.Context, fallback Notifier) Notifier {
	if n, ok := ctx.Value(notifierKey{}).(Notifier); ok && n != nil {
		return n
	}
	return fallback
}
