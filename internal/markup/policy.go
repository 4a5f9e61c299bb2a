package markup

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// ErrTooDeep indicates markup nests elements deeper than MaxDepth.
var ErrTooDeep = errors.New("markup nesting too deep")

// Elements allowed in formatted markup.
var allowedElements = []string{
	"h1", "h2", "h3", "p", "ul", "ol", "li",
	"strong", "em", "b", "i", "code", "br",
}

// Presentation properties the renderer emits as inline styles.
var allowedStyles = []string{
	"font-size", "font-weight", "font-style", "font-family",
	"margin", "padding", "padding-left", "line-height",
	"list-style-type", "background-color", "border-radius",
	"text-align", "text-decoration",
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared sanitizing policy. A bluemonday policy is safe
// for concurrent use once built.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(allowedElements...)
		p.AllowStyles(allowedStyles...).OnElements(allowedElements...)
		policy = p
	})
	return policy
}

// Sanitize strips everything outside the allowed markup subset and rejects
// the result when its nesting exceeds MaxDepth.
func Sanitize(fragment string) (string, error) {
	clean := strings.TrimSpace(Policy().Sanitize(fragment))
	depth, err := Depth(clean)
	if err != nil {
		return "", err
	}
	if depth > MaxDepth {
		return "", fmt.Errorf("%w: depth %d exceeds %d", ErrTooDeep, depth, MaxDepth)
	}
	return clean, nil
}
