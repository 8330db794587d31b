// Package markdown extracts plain-text summaries from snippet bodies.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseBody parses a Markdown body (header already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// Excerpt returns the plain text of the first paragraph of body, with
// inline markup stripped and whitespace collapsed. Headings, lists and code
// blocks are skipped.
func Excerpt(body []byte) string {
	root := ParseBody(body)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if p, ok := n.(*gmast.Paragraph); ok {
			return collapse(inlineText(p, body))
		}
	}
	return ""
}

// Headings returns the plain text of every heading in document order.
func Headings(body []byte) []string {
	var out []string
	_ = gmast.Walk(ParseBody(body), func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			out = append(out, collapse(inlineText(h, body)))
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}

func inlineText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(node.Value)
		case *gmast.AutoLink:
			buf.Write(node.Label(source))
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
