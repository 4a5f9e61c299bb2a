package ai

import (
	"errors"
	"testing"
)

func TestParseTone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Tone
		wantErr error
	}{
		{"", ToneProfessional, nil},
		{"casual", ToneCasual, nil},
		{"  Story ", ToneStory, nil},
		{"PROFESSIONAL", ToneProfessional, nil},
		{"angry", "", ErrInvalidTone},
	}

	for _, tt := range tests {
		got, err := ParseTone(tt.input)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseTone(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTone_Valid(t *testing.T) {
	t.Parallel()

	for _, tone := range Tones() {
		if !tone.Valid() {
			t.Errorf("%q.Valid() = false", tone)
		}
	}
	if Tone("").Valid() {
		t.Error(`Tone("").Valid() = true`)
	}
	if !DefaultTone.Valid() {
		t.Error("DefaultTone is not valid")
	}
}
