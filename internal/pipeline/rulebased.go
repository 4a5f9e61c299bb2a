package pipeline

import (
	"html"
	"strings"
)

// TextFormatter defines the contract for infallible text formatting.
type TextFormatter interface {
	FormatText(content string) string
}

// RuleBased formats text with Normalize, Classify and Render.
// It has no external dependencies and cannot fail, which makes it the
// fallback of the AI-assisted path.
type RuleBased struct{}

// Compile-time interface check.
var _ TextFormatter = (*RuleBased)(nil)

// FormatText runs Normalize, Classify and Render on content.
// Non-blank content always yields non-empty markup.
func (r *RuleBased) FormatText(content string) string {
	normalized := Normalize(content)
	blocks := Classify(strings.Split(normalized, "\n"))
	out := Render(blocks)
	if out == "" && strings.TrimSpace(content) != "" {
		out = "<p>" + html.EscapeString(strings.TrimSpace(content)) + "</p>"
	}
	return out
}
