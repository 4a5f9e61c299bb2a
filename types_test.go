package autoformat

import (
	"context"
	"errors"
	"testing"
)

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{"nil uses defaults", nil, nil},
		{"defaults", DefaultPageSettings(), nil},
		{"case-insensitive", &PageSettings{Size: "A4", Orientation: "Landscape", Margin: 0.5}, nil},
		{"zero margin", &PageSettings{Size: "legal", Orientation: "portrait", Margin: 0}, nil},
		{"unknown size", &PageSettings{Size: "tabloid", Orientation: "portrait", Margin: 1}, ErrInvalidPageSize},
		{"unknown orientation", &PageSettings{Size: "a4", Orientation: "diagonal", Margin: 1}, ErrInvalidOrientation},
		{"negative margin", &PageSettings{Size: "a4", Orientation: "portrait", Margin: -1}, ErrInvalidMargin},
		{"margin too large", &PageSettings{Size: "a4", Orientation: "portrait", Margin: 3.5}, ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.page.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageSettings_Dimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page          PageSettings
		width, height float64
	}{
		{PageSettings{Size: "letter", Orientation: "portrait"}, 8.5, 11},
		{PageSettings{Size: "a4", Orientation: "portrait"}, 8.27, 11.69},
		{PageSettings{Size: "legal", Orientation: "landscape"}, 14, 8.5},
	}

	for _, tt := range tests {
		w, h := tt.page.dimensions()
		if w != tt.width || h != tt.height {
			t.Errorf("%+v: got %vx%v, want %vx%v", tt.page, w, h, tt.width, tt.height)
		}
	}
}

func TestParseExportKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ExportKind
		wantErr bool
	}{
		{"pdf", ExportPDF, false},
		{"TXT", ExportTXT, false},
		{" md ", ExportMD, false},
		{"jpeg", ExportJPEG, false},
		{"jpg", ExportJPEG, false},
		{"docx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportKind(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidExportKind) {
				t.Errorf("ParseExportKind(%q) err = %v, want ErrInvalidExportKind", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseExportKind(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestExportKind_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind        ExportKind
		ext         string
		contentType string
	}{
		{ExportPDF, "pdf", "application/pdf"},
		{ExportTXT, "txt", "text/plain; charset=utf-8"},
		{ExportMD, "md", "text/markdown; charset=utf-8"},
		{ExportJPEG, "jpg", "image/jpeg"},
	}

	for _, tt := range tests {
		if got := tt.kind.Extension(); got != tt.ext {
			t.Errorf("%s.Extension() = %q, want %q", tt.kind, got, tt.ext)
		}
		if got := tt.kind.ContentType(); got != tt.contentType {
			t.Errorf("%s.ContentType() = %q, want %q", tt.kind, got, tt.contentType)
		}
	}
	if len(ExportKinds()) != 4 {
		t.Errorf("ExportKinds() = %v", ExportKinds())
	}
}

func TestParseTone(t *testing.T) {
	t.Parallel()

	if tone, err := ParseTone(""); err != nil || tone != DefaultTone {
		t.Errorf("ParseTone(\"\") = %q, %v", tone, err)
	}
	if tone, err := ParseTone("Story"); err != nil || tone != ToneStory {
		t.Errorf("ParseTone(\"Story\") = %q, %v", tone, err)
	}
	if _, err := ParseTone("loud"); !errors.Is(err, ErrInvalidTone) {
		t.Errorf("ParseTone(\"loud\") err = %v", err)
	}
}

func TestNotifierFunc(t *testing.T) {
	t.Parallel()

	var got Notice
	n := NotifierFunc(func(x Notice) { got = x })
	n.Notify(Notice{Title: "hi"})
	if got.Title != "hi" {
		t.Errorf("got %+v", got)
	}
}

func TestNotifierFrom(t *testing.T) {
	t.Parallel()

	fallback := &NoticeRecorder{}
	if notifierFrom(context.Background(), fallback) != fallback {
		t.Error("notifierFrom without value did not return fallback")
	}
	carried := &NoticeRecorder{}
	ctx := ContextWithNotifier(context.Background(), carried)
	if notifierFrom(ctx, fallback) != carried {
		t.Error("notifierFrom did not return the carried notifier")
	}
}
