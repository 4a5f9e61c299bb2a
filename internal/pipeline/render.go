package pipeline

import (
	"html"
	"strings"
)

// Inline presentation attributes. The rendered fragment is injected into
// preview surfaces that do not load a style sheet.
const (
	headingStyle   = "font-size: 1.5em; font-weight: 600; margin: 1.2em 0 0.6em; line-height: 1.3"
	paragraphStyle = "margin: 0 0 1em; line-height: 1.6"
	listStyle      = "margin: 0 0 1em; padding-left: 1.5em; list-style-type: disc"
	itemStyle      = "margin: 0 0 0.4em; line-height: 1.6"
	codeStyle      = "font-family: monospace; background-color: #f4f4f4; padding: 0 0.25em; border-radius: 3px"
)

// Render emits markup for a Block sequence.
// Headings become <h2>, consecutive list items one <ul>, and a paragraph
// start with its continuations one <p>. Block order is preserved.
func Render(blocks []Block) string {
	var buf strings.Builder
	var para []string
	inList := false

	flushParagraph := func() {
		if len(para) == 0 {
			return
		}
		writeElement(&buf, "p", paragraphStyle, strings.Join(para, " "))
		buf.WriteByte('\n')
		para = para[:0]
	}
	closeList := func() {
		if !inList {
			return
		}
		buf.WriteString("</ul>\n")
		inList = false
	}

	for _, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			flushParagraph()
			closeList()
			writeElement(&buf, "h2", headingStyle, b.Text)
			buf.WriteByte('\n')
		case BlockListItem:
			flushParagraph()
			if !inList {
				buf.WriteString(`<ul style="` + listStyle + `">` + "\n")
				inList = true
			}
			writeElement(&buf, "li", itemStyle, b.Text)
			buf.WriteByte('\n')
		case BlockParagraphStart:
			flushParagraph()
			closeList()
			para = append(para, b.Text)
		case BlockParagraphContinuation:
			closeList()
			para = append(para, b.Text)
		}
	}
	flushParagraph()
	closeList()

	return strings.TrimSuffix(buf.String(), "\n")
}

// writeElement writes <tag style="...">text</tag> with escaped text and
// inline code spans.
func writeElement(buf *strings.Builder, tag, style, text string) {
	buf.WriteString("<" + tag + ` style="` + style + `">`)
	buf.WriteString(renderInline(text))
	buf.WriteString("</" + tag + ">")
}

// renderInline escapes text and turns backtick spans into <code> elements.
// An unmatched delimiter is kept as a literal character.
func renderInline(text string) string {
	parts := strings.Split(text, CodeDelimiter)
	if len(parts) < 3 {
		return html.EscapeString(text)
	}

	var buf strings.Builder
	for i, part := range parts {
		escaped := html.EscapeString(part)
		switch {
		case i%2 == 0:
			buf.WriteString(escaped)
		case i == len(parts)-1:
			// odd number of delimiters: the last span never closed
			buf.WriteString(CodeDelimiter + escaped)
		default:
			buf.WriteString(`<code style="` + codeStyle + `">` + escaped + "</code>")
		}
	}
	return buf.String()
}
