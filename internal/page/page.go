// Package page provides a read-only view of an HTML document as a tree of
// nodes addressable by CSS selectors. Parsing is done with goquery, so page
// content is only ever treated as data.
package page

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a loaded page snapshot.
type Document interface {
	// Scripts returns the text of every <script> element in document order.
	Scripts() []string

	// Root returns the top of the element tree.
	Root() Node
}

// Node is a single element in a Document.
type Node interface {
	// FindFirst returns the first descendant matching selector.
	FindFirst(selector string) (Node, bool)

	// FindAll returns every descendant matching selector in document order.
	FindAll(selector string) []Node

	// Clone returns a detached deep copy. Changes to the copy never reach
	// the document it came from.
	Clone() Node

	// RemoveChild detaches child, which must be a descendant of the node.
	// It reports whether anything was removed.
	RemoveChild(child Node) bool

	// Text returns the rendered text of the node with whitespace collapsed.
	Text() string
}

// Parse reads an HTML document.
func Parse(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &htmlDocument{doc: doc}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (Document, error) {
	return Parse(strings.NewReader(s))
}

type htmlDocument struct {
	doc *goquery.Document
}

func (d *htmlDocument) Scripts() []string {
	var scripts []string
	d.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scripts = append(scripts, s.Text())
	})
	return scripts
}

func (d *htmlDocument) Root() Node {
	return &htmlNode{sel: d.doc.Selection}
}

// htmlNode wraps a goquery selection holding exactly one node.
type htmlNode struct {
	sel *goquery.Selection
}

func (h *htmlNode) node() *html.Node {
	if h == nil || h.sel == nil || len(h.sel.Nodes) == 0 {
		return nil
	}
	return h.sel.Nodes[0]
}

func (h *htmlNode) FindFirst(selector string) (Node, bool) {
	m, err := compile(selector)
	if err != nil {
		return nil, false
	}
	found := h.sel.FindMatcher(m).First()
	if found.Length() == 0 {
		return nil, false
	}
	return &htmlNode{sel: found}, true
}

func (h *htmlNode) FindAll(selector string) []Node {
	m, err := compile(selector)
	if err != nil {
		return nil
	}
	var nodes []Node
	h.sel.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &htmlNode{sel: s})
	})
	return nodes
}

func (h *htmlNode) Clone() Node {
	return &htmlNode{sel: h.sel.Clone()}
}

func (h *htmlNode) RemoveChild(child Node) bool {
	c, ok := child.(*htmlNode)
	if !ok {
		return false
	}
	target := c.node()
	root := h.node()
	if target == nil || root == nil || target == root || target.Parent == nil {
		return false
	}
	for p := target.Parent; p != nil; p = p.Parent {
		if p == root {
			target.Parent.RemoveChild(target)
			return true
		}
	}
	return false
}

func (h *htmlNode) Text() string {
	n := h.node()
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeVisibleText(&b, n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// hiddenElements never contribute rendered text.
var hiddenElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

// blockElements break the text flow around them.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

func writeVisibleText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if hiddenElements[n.Data] {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeVisibleText(b, c)
	}
	if block {
		b.WriteByte(' ')
	}
}

var (
	matchersMu sync.Mutex
	matchers   = map[string]cascadia.Selector{}
)

// compile parses a CSS selector once and caches it for later lookups.
func compile(selector string) (cascadia.Selector, error) {
	matchersMu.Lock()
	defer matchersMu.Unlock()

	if m, ok := matchers[selector]; ok {
		return m, nil
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
	}
	matchers[selector] = m
	return m, nil
}
