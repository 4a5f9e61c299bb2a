package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to a single blank line
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Standalone lowercase first-person pronoun
	pronounPattern = regexp.MustCompile(`\bi\b`)

	// Lowercase letter after sentence punctuation and whitespace
	sentenceStart = regexp.MustCompile(`([.!?]\s+)(\p{Ll})`)

	// Runs of identical terminal punctuation. RE2 has no backreferences,
	// so each mark gets its own pattern.
	punctuationRuns = []struct {
		pattern *regexp.Regexp
		single  string
	}{
		{regexp.MustCompile(`!{2,}`), "!"},
		{regexp.MustCompile(`\?{2,}`), "?"},
		{regexp.MustCompile(`\.{2,}`), "."},
		{regexp.MustCompile(`,{2,}`), ","},
	}

	// Horizontal whitespace (line breaks are structure, not spacing)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)

	// Whitespace before punctuation
	spaceBeforePunct = regexp.MustCompile(` +([.,!?;:])`)

	// Sentence end glued to the next sentence ("done.Next"). The word before
	// the mark needs four letters so identifiers like os.Exit survive.
	missingSentenceSpace = regexp.MustCompile(`(\p{L}{3}\p{Ll}[.!?])(\p{Lu})`)

	// Short capitalized word glued to the next sentence ("Hi.There"). Package
	// identifiers are lowercase and initialisms like U.S. have no lowercase
	// letter, so neither matches.
	shortSentenceEnd = regexp.MustCompile(`^(["'(]?\p{Lu}\p{Ll}{1,2}[.!?])(\p{Lu})`)
)

// Normalize applies the lexical cleanup rules to raw text.
// Steps run in a fixed order; later steps assume earlier ones ran.
// Line breaks are preserved so the result can be classified line by line.
func Normalize(text string) string {
	text = normalizeLineEndings(text)
	text = fixPronouns(text)
	text = capitalizeSentences(text)
	text = collapsePunctuation(text)
	text = normalizeSpacing(text)
	text = markCodeTokens(text)
	return text
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(text string) string {
	return crlfOrCR.ReplaceAllString(text, "\n")
}

// fixPronouns upper-cases the standalone pronoun "i".
// "i.e." is left alone.
func fixPronouns(text string) string {
	matches := pronounPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var buf strings.Builder
	buf.Grow(len(text))
	last := 0
	for _, m := range matches {
		if insideWord(text, m[0], m[1]) || isAbbreviation(text, m[1]) {
			continue
		}
		buf.WriteString(text[last:m[0]])
		buf.WriteByte('I')
		last = m[1]
	}
	buf.WriteString(text[last:])
	return buf.String()
}

// insideWord reports whether the match at [start, end) touches a letter or
// digit. RE2's \b only knows ASCII, so "Žižić" would otherwise match.
func insideWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			return true
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			return true
		}
	}
	return false
}

// isAbbreviation reports whether the pronoun ending at end is the first
// letter of a dotted abbreviation such as "i.e.".
func isAbbreviation(text string, end int) bool {
	if end+1 >= len(text) || text[end] != '.' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[end+1:])
	return unicode.IsLetter(r)
}

// capitalizeSentences upper-cases the first letter of the text and the
// first letter following sentence punctuation and whitespace.
func capitalizeSentences(text string) string {
	text = sentenceStart.ReplaceAllStringFunc(text, func(m string) string {
		r, size := utf8.DecodeLastRuneInString(m)
		return m[:len(m)-size] + string(unicode.ToUpper(r))
	})
	return capitalizeFirst(text)
}

// capitalizeFirst upper-cases the first non-space character of the text.
func capitalizeFirst(text string) string {
	for i, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsLower(r) {
			return text
		}
		return text[:i] + string(unicode.ToUpper(r)) + text[i+utf8.RuneLen(r):]
	}
	return text
}

// collapsePunctuation reduces runs of the same terminal mark to one.
func collapsePunctuation(text string) string {
	for _, p := range punctuationRuns {
		text = p.pattern.ReplaceAllString(text, p.single)
	}
	return text
}

// normalizeSpacing collapses whitespace inside lines, trims every line,
// compresses blank lines and fixes spacing around sentence punctuation.
func normalizeSpacing(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = horizontalSpace.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		line = spaceBeforePunct.ReplaceAllString(line, "$1")
		lines[i] = separateSentences(line)
	}
	text = strings.Join(lines, "\n")
	text = multipleBlankLines.ReplaceAllString(text, "\n\n")
	return strings.Trim(text, "\n")
}

// separateSentences inserts the missing space after a sentence end glued
// to a capitalized word. Code-like tokens are skipped.
func separateSentences(line string) string {
	tokens := strings.Split(line, " ")
	for i, tok := range tokens {
		core, _ := splitTrailingPunct(tok)
		if isCodeToken(core, "") {
			continue
		}
		tok = shortSentenceEnd.ReplaceAllString(tok, "$1 $2")
		tokens[i] = missingSentenceSpace.ReplaceAllString(tok, "$1 $2")
	}
	return strings.Join(tokens, " ")
}
