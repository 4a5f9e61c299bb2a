package markup

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// MarkdownWriter converts HTML fragments to CommonMark.
type MarkdownWriter struct {
	conv *converter.Converter
}

// NewMarkdownWriter creates a MarkdownWriter with the base and CommonMark plugins.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// ToMarkdown converts an HTML fragment to Markdown. Inline styles are dropped.
func (w *MarkdownWriter) ToMarkdown(fragment string) (string, error) {
	md, err := w.conv.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return strings.TrimSpace(md), nil
}
