package autoformat

import (
	"context"
	"html"
	"regexp"
	"strings"
	"sync"
)

// documentFormatter is the formatting dependency of a Session.
type documentFormatter interface {
	Format(ctx context.Context, content string, tone Tone) (*FormattingResult, error)
}

// documentExporter is the export dependency of a Session.
type documentExporter interface {
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}

// Compile-time interface checks
var (
	_ documentFormatter = (*Formatter)(nil)
	_ documentExporter  = (*Exporter)(nil)
)

// Session owns one Document. Setters and Export may be called from any
// goroutine; a Format started while another is pending cancels it, and only
// the latest request may store its result.
type Session struct {
	formatter documentFormatter
	exporter  documentExporter

	mu         sync.Mutex
	doc        Document
	generation uint64
	cancel     context.CancelFunc
}

// NewSession creates a Session with an empty document in DefaultTone.
func NewSession(formatter documentFormatter, exporter documentExporter) *Session {
	return &Session{
		formatter: formatter,
		exporter:  exporter,
		doc:       Document{Tone: DefaultTone},
	}
}

// Document returns a copy of the current document.
func (s *Session) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// SetTitle sets the document title.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	s.doc.Title = title
	s.mu.Unlock()
}

// SetContent replaces the raw content. Formatted markup of the previous
// content is dropped.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	if content != s.doc.RawContent {
		s.doc.RawContent = content
		s.doc.FormattedMarkup = ""
	}
	s.mu.Unlock()
}

// SetTone parses and sets the tone. An invalid tone leaves the document
// unchanged.
func (s *Session) SetTone(name string) error {
	tone, err := ParseTone(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc.Tone = tone
	s.mu.Unlock()
	return nil
}

// Format formats the current content and stores the markup. A newer call
// cancels this one; if this call finishes after being superseded its result
// is discarded and ErrSuperseded is returned.
func (s *Session) Format(ctx context.Context) (*FormattingResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	content, tone := s.doc.RawContent, s.doc.Tone
	s.mu.Unlock()

	res, err := s.formatter.Format(ctx, content, tone)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	if content != s.doc.RawContent {
		// Content changed while the request was in flight.
		return nil, ErrSuperseded
	}
	s.doc.FormattedMarkup = res.Markup
	return res, nil
}

// Export exports the current document.
func (s *Session) Export(ctx context.Context, kind ExportKind, customFilename string) (*ExportResult, error) {
	req, err := NewExportRequest(s.Document(), kind, customFilename)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(ctx, req)
}

// NewExportRequest builds the request for doc. TXT exports carry the raw
// content. The other kinds carry the formatted markup, or the escaped raw
// content when the document was never formatted.
func NewExportRequest(doc Document, kind ExportKind, customFilename string) (ExportRequest, error) {
	kind, err := ParseExportKind(string(kind))
	if err != nil {
		return ExportRequest{}, err
	}
	if strings.TrimSpace(doc.RawContent) == "" && strings.TrimSpace(doc.FormattedMarkup) == "" {
		return ExportRequest{}, ErrEmptyContent
	}

	body := doc.RawContent
	if kind != ExportTXT {
		body = doc.FormattedMarkup
		if strings.TrimSpace(body) == "" {
			body = EscapeRawContent(doc.RawContent)
		}
	}

	return ExportRequest{
		Title:          doc.Title,
		CustomFilename: customFilename,
		ContentBody:    body,
		Kind:           kind,
	}, nil
}

var blankLines = regexp.MustCompile(`\n\s*\n`)

// EscapeRawContent renders unformatted text as markup: blank-line separated
// blocks become paragraphs and single line breaks become <br>.
func EscapeRawContent(content string) string {
	content = strings.ReplaceAll(strings.ReplaceAll(content, "\r\n", "\n"), "\r", "\n")

	var buf strings.Builder
	for _, block := range blankLines.Split(content, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(strings.TrimSpace(line))
		}
		buf.WriteString("<p>")
		buf.WriteString(strings.Join(lines, "<br>"))
		buf.WriteString("</p>\n")
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
