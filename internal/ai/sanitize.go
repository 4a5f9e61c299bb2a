package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-autoformat/internal/markup"
)

// Code fence wrapping a whole reply: ```html ... ```
var enclosingFence = regexp.MustCompile("(?s)^```[A-Za-z]*[ \t]*\n?(.*?)\n?```$")

var mdConverter = markup.NewMarkdownConverter()

// Sanitize turns a raw model reply into markup restricted to the allowed
// subset. Enclosing code fences are stripped and a Markdown-only reply is
// converted to HTML first. An empty result is ErrEmptyResult and a reply
// nesting too deep is ErrUnsafeMarkup.
func Sanitize(ctx context.Context, raw string) (string, error) {
	text := stripFences(raw)
	if text == "" {
		return "", ErrEmptyResult
	}

	if !markup.IsHTML(text) {
		converted, err := mdConverter.ToHTML(ctx, text)
		if err != nil {
			return "", err
		}
		text = converted
	}

	clean, err := markup.Sanitize(text)
	if err != nil {
		if errors.Is(err, markup.ErrTooDeep) {
			return "", fmt.Errorf("%w: %v", ErrUnsafeMarkup, err)
		}
		return "", err
	}
	if clean == "" {
		return "", ErrEmptyResult
	}
	return clean, nil
}

// stripFences removes one enclosing pair of code fences, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := enclosingFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	return s
}
