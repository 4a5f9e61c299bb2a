package autoformat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// stubFormatter implements documentFormatter. Calls block on release when it
// is non-nil, until the call's context ends or release is closed.
type stubFormatter struct {
	release chan struct{}
	started chan struct{}

	mu       sync.Mutex
	contents []string
}

func (f *stubFormatter) Format(ctx context.Context, content string, tone Tone) (*FormattingResult, error) {
	f.mu.Lock()
	f.contents = append(f.contents, content)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			// Finish anyway to exercise the generation check.
		}
	}
	return &FormattingResult{Markup: "<p>" + content + "|" + string(tone) + "</p>", Source: SourceRuleBased}, nil
}

// stubExporter implements documentExporter and records the request.
type stubExporter struct {
	last ExportRequest
}

func (e *stubExporter) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	e.last = req
	return &ExportResult{Filename: "x." + req.Kind.Extension()}, nil
}

func TestSession_FormatStoresMarkup(t *testing.T) {
	t.Parallel()

	s := NewSession(&stubFormatter{}, &stubExporter{})
	s.SetContent("hello")
	if err := s.SetTone("story"); err != nil {
		t.Fatalf("SetTone() error: %v", err)
	}

	res, err := s.Format(context.Background())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if got := s.Document().FormattedMarkup; got != res.Markup || got != "<p>hello|story</p>" {
		t.Errorf("FormattedMarkup = %q", got)
	}
}

func TestSession_InvalidToneLeavesDocumentUnchanged(t *testing.T) {
	t.Parallel()

	s := NewSession(&stubFormatter{}, &stubExporter{})
	if err := s.SetTone("casual"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTone("sarcastic"); !errors.Is(err, ErrInvalidTone) {
		t.Errorf("err = %v, want ErrInvalidTone", err)
	}
	if tone := s.Document().Tone; tone != ToneCasual {
		t.Errorf("Tone = %q, want casual", tone)
	}
}

func TestSession_DefaultTone(t *testing.T) {
	t.Parallel()

	s := NewSession(&stubFormatter{}, &stubExporter{})
	if tone := s.Document().Tone; tone != DefaultTone {
		t.Errorf("Tone = %q, want %q", tone, DefaultTone)
	}
}

func TestSession_SetContentDropsMarkup(t *testing.T) {
	t.Parallel()

	s := NewSession(&stubFormatter{}, &stubExporter{})
	s.SetContent("one")
	if _, err := s.Format(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.SetContent("one")
	if s.Document().FormattedMarkup == "" {
		t.Error("unchanged content dropped the markup")
	}
	s.SetContent("two")
	if s.Document().FormattedMarkup != "" {
		t.Error("new content kept stale markup")
	}
}

func TestSession_SupersededRequestIsDiscarded(t *testing.T) {
	t.Parallel()

	f := &stubFormatter{release: make(chan struct{}), started: make(chan struct{}, 2)}
	s := NewSession(f, &stubExporter{})
	s.SetContent("first")

	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Format(context.Background())
		firstErr <- err
	}()
	<-f.started

	s.SetContent("second")
	close(f.release)
	res, err := s.Format(context.Background())
	if err != nil {
		t.Fatalf("second Format() error: %v", err)
	}
	<-f.started

	if err := <-firstErr; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first Format() err = %v, want ErrSuperseded", err)
	}
	if got := s.Document().FormattedMarkup; got != res.Markup || !strings.Contains(got, "second") {
		t.Errorf("FormattedMarkup = %q, want result of the second request", got)
	}
}

func TestSession_ExportBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		formatted bool
		kind      ExportKind
		wantBody  string
	}{
		{"txt uses raw content", "a <b>", true, ExportTXT, "a <b>"},
		{"pdf uses formatted markup", "a", true, ExportPDF, "<p>a|professional</p>"},
		{"pdf escapes raw content", "a <b>", false, ExportPDF, "<p>a &lt;b&gt;</p>"},
		{"md escapes raw content", "x & y", false, ExportMD, "<p>x &amp; y</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exp := &stubExporter{}
			s := NewSession(&stubFormatter{}, exp)
			s.SetTitle("T")
			s.SetContent(tt.raw)
			if tt.formatted {
				if _, err := s.Format(context.Background()); err != nil {
					t.Fatal(err)
				}
			}

			if _, err := s.Export(context.Background(), tt.kind, "custom"); err != nil {
				t.Fatalf("Export() error: %v", err)
			}
			if exp.last.ContentBody != tt.wantBody {
				t.Errorf("ContentBody = %q, want %q", exp.last.ContentBody, tt.wantBody)
			}
			if exp.last.Title != "T" || exp.last.CustomFilename != "custom" || exp.last.Kind != tt.kind {
				t.Errorf("request = %+v", exp.last)
			}
		})
	}
}

func TestSession_ExportErrors(t *testing.T) {
	t.Parallel()

	s := NewSession(&stubFormatter{}, &stubExporter{})
	if _, err := s.Export(context.Background(), ExportPDF, ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("empty document: err = %v, want ErrEmptyContent", err)
	}
	s.SetContent("x")
	if _, err := s.Export(context.Background(), "rtf", ""); !errors.Is(err, ErrInvalidExportKind) {
		t.Errorf("bad kind: err = %v, want ErrInvalidExportKind", err)
	}
}

func TestEscapeRawContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"one", "<p>one</p>"},
		{"line one\nline two", "<p>line one<br>line two</p>"},
		{"para one\n\n\npara two", "<p>para one</p>\n<p>para two</p>"},
		{"<script>", "<p>&lt;script&gt;</p>"},
		{"a\r\n\r\nb", "<p>a</p>\n<p>b</p>"},
		{"  \n ", ""},
	}

	for _, tt := range tests {
		if got := EscapeRawContent(tt.input); got != tt.want {
			t.Errorf("EscapeRawContent(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
