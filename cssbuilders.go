package autoformat

import (
	"fmt"
	"strings"
)

// Orphan and widow line counts for printed paragraphs and list items.
const (
	defaultOrphans = 2
	defaultWidows  = 2
)

// buildPageBreaksCSS generates CSS for page break control: a heading never
// ends a page and short paragraphs and list items are kept whole.
func buildPageBreaksCSS() string {
	var buf strings.Builder

	buf.WriteString(`
/* Page breaks: prevent heading alone at page bottom */
h1, h2, h3 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Page breaks: keep list items whole */
li {
  break-inside: avoid;
  page-break-inside: avoid;
}
`)

	fmt.Fprintf(&buf, `
/* Page breaks: orphan/widow control */
p, li {
  orphans: %d;
  widows: %d;
}
`, defaultOrphans, defaultWidows)

	return buf.String()
}

// buildScreenCSS generates CSS for image exports, which have no printer
// margins: the page margin becomes body padding on a white background.
func buildScreenCSS(page *PageSettings) string {
	margin := DefaultMargin
	if page != nil {
		margin = page.Margin
	}
	return fmt.Sprintf(`
/* Image export: page margin as padding */
html, body {
  background: #ffffff;
}
body {
  margin: 0;
  padding: %.2fin;
}
`, margin)
}
