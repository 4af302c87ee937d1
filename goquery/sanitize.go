package goquery

import (
	"bytes"
	"strings"

	"github.com/fwojciec/quizdoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Sanitizer implements quizdoc.Sanitizer at compile time.
var _ quizdoc.Sanitizer = (*Sanitizer)(nil)

// droppedTags are removed together with their content. Their children are
// code or embedded documents rather than readable text.
var droppedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
}

// Sanitizer strips markup down to quizdoc.AllowedTags.
// Sanitizer is safe for concurrent use.
type Sanitizer struct {
	allowed map[string]bool
}

// NewSanitizer creates a Sanitizer for quizdoc.AllowedTags.
func NewSanitizer() *Sanitizer {
	allowed := make(map[string]bool, len(quizdoc.AllowedTags))
	for _, tag := range quizdoc.AllowedTags {
		allowed[tag] = true
	}
	return &Sanitizer{allowed: allowed}
}

// Sanitize parses markup as a fragment and unwraps every element that is not
// allowed, depth-first. Allowed elements lose their attributes. Comments are
// removed and text passes through.
func (s *Sanitizer) Sanitize(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return markup
	}

	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return html.EscapeString(quizdoc.TextContent(markup))
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	s.sanitizeChildren(root)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return html.EscapeString(quizdoc.TextContent(markup))
		}
	}
	return buf.String()
}

// sanitizeChildren rewrites the subtree below parent. Children are collected
// before any mutation so that unwrapping never disturbs the iteration.
func (s *Sanitizer) sanitizeChildren(parent *html.Node) {
	for _, c := range childNodes(parent) {
		switch c.Type {
		case html.TextNode:
		case html.ElementNode:
			if droppedTags[c.DataAtom] {
				parent.RemoveChild(c)
				continue
			}
			s.sanitizeChildren(c)
			if c.Namespace == "" && s.allowed[c.Data] {
				c.Attr = nil
				continue
			}
			for _, gc := range childNodes(c) {
				c.RemoveChild(gc)
				parent.InsertBefore(gc, c)
			}
			parent.RemoveChild(c)
		default:
			parent.RemoveChild(c)
		}
	}
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}
