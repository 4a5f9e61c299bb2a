package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxDepth bounds element nesting in formatted markup. A nested list with
// inline emphasis and code stays well under it.
const MaxDepth = 12

// Depth returns the deepest element nesting level of an HTML fragment.
// Text-only input has depth 0.
func Depth(fragment string) (int, error) {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return 0, err
	}

	type frame struct {
		node  *html.Node
		depth int
	}
	stack := make([]frame, 0, len(nodes))
	for _, n := range nodes {
		stack = append(stack, frame{node: n})
	}

	deepest := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		depth := f.depth
		if f.node.Type == html.ElementNode {
			depth++
			if depth > deepest {
				deepest = depth
			}
		}
		for c := f.node.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, frame{node: c, depth: depth})
		}
	}
	return deepest, nil
}

// parseFragment parses content in a <body> context so no document wrapper
// is added.
func parseFragment(content string) ([]*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	return html.ParseFragment(strings.NewReader(content), body)
}

// IsHTML reports whether content contains at least one element.
func IsHTML(content string) bool {
	nodes, err := parseFragment(content)
	if err != nil {
		return false
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return true
		}
	}
	return false
}
