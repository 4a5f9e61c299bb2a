package ai

import (
	"fmt"
	"strings"
)

// Tone selects the voice of the AI instruction.
type Tone string

// Supported tones.
const (
	ToneCasual       Tone = "casual"
	ToneProfessional Tone = "professional"
	ToneStory        Tone = "story"
)

// DefaultTone is used when no tone is given.
const DefaultTone = ToneProfessional

// Tones returns every supported tone in display order.
func Tones() []Tone {
	return []Tone{ToneCasual, ToneProfessional, ToneStory}
}

// ParseTone converts a user-supplied name into a Tone.
// Matching is case-insensitive; an empty string yields DefaultTone.
func ParseTone(s string) (Tone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTone, nil
	}
	t := Tone(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (expected casual, professional or story)", ErrInvalidTone, s)
	}
	return t, nil
}

// Valid reports whether t is a supported tone.
func (t Tone) Valid() bool {
	_, err := toneInstruction(t)
	return err == nil
}

func (t Tone) String() string { return string(t) }
