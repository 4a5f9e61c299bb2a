package pipeline

import (
	"regexp"
	"strings"
)

// CodeDelimiter opens and closes an inline code span.
const CodeDelimiter = "`"

var (
	// Source file names: main.go, src/index.ts, config.yaml
	fileNamePattern = regexp.MustCompile(`^[\w./-]*\w\.(?:go|js|jsx|mjs|ts|tsx|py|rb|rs|java|kt|c|h|cpp|hpp|cs|php|sh|bash|ps1|json|ya?ml|toml|sql|css|scss|html?|xml|vue|svelte|swift|lua)$`)

	// Call expressions: print(), os.Exit(1), console.log("x")
	callPattern = regexp.MustCompile(`^[A-Za-z_$][\w$.]*\(\S*\)[;]?$`)

	// Comment and shebang markers
	commentPattern = regexp.MustCompile(`^(?://|#!)`)
)

// statementOpeners are keywords that rarely appear in prose.
var statementOpeners = map[string]bool{
	"func":     true,
	"function": true,
	"const":    true,
	"def":      true,
	"elif":     true,
	"lambda":   true,
	"fn":       true,
	"#include": true,
	"#define":  true,
	"#import":  true,
}

// moduleMarkers are code only when followed by a module-like token.
var moduleMarkers = map[string]bool{
	"import": true,
	"export": true,
}

// trailingPunct is sentence punctuation kept outside a code span.
const trailingPunct = ".,;:!?"

// markCodeTokens wraps code-like tokens in inline code delimiters.
// The span closes at the next whitespace. Text already inside a code span
// is left alone.
func markCodeTokens(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = markLineCodeTokens(line)
	}
	return strings.Join(lines, "\n")
}

func markLineCodeTokens(line string) string {
	if line == "" {
		return line
	}

	tokens := strings.Split(line, " ")
	inSpan := false
	for i, tok := range tokens {
		if inSpan || strings.Contains(tok, CodeDelimiter) {
			if strings.Count(tok, CodeDelimiter)%2 == 1 {
				inSpan = !inSpan
			}
			continue
		}

		var next string
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}
		core, tail := splitTrailingPunct(tok)
		if isCodeToken(core, next) {
			tokens[i] = CodeDelimiter + core + CodeDelimiter + tail
		}
	}
	return strings.Join(tokens, " ")
}

// splitTrailingPunct separates sentence punctuation from the end of a token.
// Call expressions keep a trailing semicolon.
func splitTrailingPunct(tok string) (core, tail string) {
	if callPattern.MatchString(tok) {
		return tok, ""
	}
	core = strings.TrimRight(tok, trailingPunct)
	return core, tok[len(core):]
}

// isCodeToken reports whether tok looks like source code.
// next is the following token, used for import/export markers.
func isCodeToken(tok, next string) bool {
	if tok == "" {
		return false
	}
	switch {
	case statementOpeners[tok]:
		return true
	case moduleMarkers[tok]:
		return isModuleReference(next)
	case commentPattern.MatchString(tok):
		return true
	case fileNamePattern.MatchString(tok):
		return true
	case callPattern.MatchString(tok):
		return true
	}
	return false
}

// isModuleReference reports whether tok can follow import or export in code.
func isModuleReference(tok string) bool {
	if tok == "" {
		return false
	}
	if tok == "default" {
		return true
	}
	switch tok[0] {
	case '{', '*', '"', '\'':
		return true
	}
	return false
}
