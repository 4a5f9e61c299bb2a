package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BlockKind identifies the variant of a Block.
type BlockKind int

// Block variants.
const (
	BlockHeading BlockKind = iota + 1
	BlockListItem
	BlockParagraphStart
	BlockParagraphContinuation
)

// String returns the variant name.
func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "list-item"
	case BlockParagraphStart:
		return "paragraph-start"
	case BlockParagraphContinuation:
		return "paragraph-continuation"
	}
	return "unknown"
}

// Block is a classified unit of structure.
// Consecutive list items form one list; a ParagraphStart followed by its
// ParagraphContinuation blocks forms one paragraph.
type Block struct {
	Kind BlockKind
	Text string
	Line int // 0-indexed source line
}

// Heading thresholds.
const (
	minAllCapsHeadingLen = 5
	minShortHeadingLen   = 4
	maxShortHeadingLen   = 79
)

var (
	// Bullet list marker: "- item", "* item", "• item"
	bulletMarker = regexp.MustCompile(`^[-*•]\s+`)

	// Numeric marker: "1. item", "2) item"
	numericMarker = regexp.MustCompile(`^\d+[.)]\s+`)

	// Heading prefixes: "Chapter 1", "Section A"
	headingPrefix = regexp.MustCompile(`(?i)^(?:chapter|section)\b`)

	// Entirely uppercase letters and spaces
	allCapsLine = regexp.MustCompile(`^[\p{Lu} ]+$`)
)

// lineInfo carries the classification facts of one line.
type lineInfo struct {
	text     string
	bullet   bool
	numeric  bool
	prefixed bool
	allCaps  bool
}

func inspectLine(line string) lineInfo {
	text := strings.TrimSpace(line)
	return lineInfo{
		text:     text,
		bullet:   bulletMarker.MatchString(text),
		numeric:  numericMarker.MatchString(text),
		prefixed: headingPrefix.MatchString(text),
		allCaps:  isAllCaps(text),
	}
}

func (l lineInfo) blank() bool      { return l.text == "" }
func (l lineInfo) hasMarker() bool  { return l.bullet || l.numeric }
func (l lineInfo) structural() bool { return l.hasMarker() || l.prefixed || l.allCaps }

// Classify turns normalized lines into an ordered Block sequence.
// Rules are evaluated per non-empty line in precedence order: continuation
// merge, heading, list item, paragraph. Blank lines close any open list or
// paragraph and produce no block.
func Classify(lines []string) []Block {
	infos := make([]lineInfo, len(lines))
	for i, line := range lines {
		infos[i] = inspectLine(line)
	}

	c := &classifier{infos: infos}
	for i := range infos {
		c.step(i)
	}
	c.closeParagraph()
	return c.blocks
}

// openGroup tracks which group the previous line left open.
type openGroup int

const (
	groupNone openGroup = iota
	groupList
	groupParagraph
)

type classifier struct {
	infos  []lineInfo
	blocks []Block
	open   openGroup
	prev   string // text of the previous non-blank line
}

func (c *classifier) step(i int) {
	info := c.infos[i]
	if info.blank() {
		c.closeParagraph()
		c.open = groupNone
		c.prev = ""
		return
	}

	switch {
	case c.continuesParagraph(info):
		c.emit(BlockParagraphContinuation, info.text, i)
	case c.isHeading(i):
		c.closeParagraph()
		c.open = groupNone
		c.emit(BlockHeading, headingText(info.text), i)
	case info.hasMarker():
		c.closeParagraph()
		c.open = groupList
		c.emit(BlockListItem, ensureTerminal(stripMarker(info.text)), i)
	case c.open == groupParagraph:
		c.emit(BlockParagraphContinuation, info.text, i)
	default:
		c.open = groupParagraph
		c.emit(BlockParagraphStart, info.text, i)
	}
	c.prev = info.text
}

// continuesParagraph implements the continuation merge: an open paragraph
// whose last line has no sentence ending absorbs the next plain line.
func (c *classifier) continuesParagraph(info lineInfo) bool {
	return c.open == groupParagraph && !endsSentence(c.prev) && !info.structural()
}

// isHeading applies the heading rules to line i.
// Bullet lines are never headings, and a numbered line next to another
// marker line belongs to a list.
func (c *classifier) isHeading(i int) bool {
	info := c.infos[i]
	if info.bullet {
		return false
	}
	if info.numeric {
		return !c.adjacentMarker(i)
	}
	if info.prefixed {
		return true
	}
	if info.allCaps && utf8.RuneCountInString(info.text) >= minAllCapsHeadingLen {
		return true
	}
	n := utf8.RuneCountInString(info.text)
	return n >= minShortHeadingLen && n <= maxShortHeadingLen && !strings.ContainsAny(info.text, ".,")
}

// adjacentMarker reports whether the line before or after i carries a list marker.
func (c *classifier) adjacentMarker(i int) bool {
	if i > 0 && c.infos[i-1].hasMarker() {
		return true
	}
	return i+1 < len(c.infos) && c.infos[i+1].hasMarker()
}

func (c *classifier) emit(kind BlockKind, text string, line int) {
	c.blocks = append(c.blocks, Block{Kind: kind, Text: text, Line: line})
}

// closeParagraph terminates the open paragraph by ensuring its last line
// ends with sentence punctuation.
func (c *classifier) closeParagraph() {
	if c.open != groupParagraph || len(c.blocks) == 0 {
		return
	}
	last := &c.blocks[len(c.blocks)-1]
	last.Text = ensureTerminal(last.Text)
	c.open = groupNone
}

// isAllCaps reports whether s is made of uppercase letters and spaces only.
func isAllCaps(s string) bool {
	return s != "" && allCapsLine.MatchString(s) && strings.TrimSpace(s) != ""
}

// headingText re-cases all-caps headings; other headings stay verbatim.
// A Caser is stateful, so one is created per call.
func headingText(s string) string {
	if isAllCaps(s) {
		return cases.Title(language.English).String(s)
	}
	return s
}

// stripMarker removes a leading bullet or numeric marker.
func stripMarker(s string) string {
	if loc := bulletMarker.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	if loc := numericMarker.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	return s
}

// closers may follow the sentence punctuation of a terminated sentence.
const closers = `"')]”’` + CodeDelimiter

// endsSentence reports whether s ends with . ! or ?, ignoring closing
// quotes and brackets.
func endsSentence(s string) bool {
	s = strings.TrimRight(s, closers)
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '.' || r == '!' || r == '?'
}

// ensureTerminal appends a period unless s already ends a sentence.
// A trailing colon is kept; a trailing comma or semicolon becomes a period.
func ensureTerminal(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" || endsSentence(s) || strings.HasSuffix(s, ":") {
		return s
	}
	return strings.TrimRight(s, ",;") + "."
}
