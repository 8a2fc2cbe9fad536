package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// HTMLDocument wraps a golang.org/x/net/html tree.
type HTMLDocument struct {
	top   *html.Node
	root  *htmlElement
	nodes map[*html.Node]Node
}

type htmlElement struct {
	n   *html.Node
	doc *HTMLDocument
}

type htmlNode struct {
	n   *html.Node
	doc *HTMLDocument
}

// ParseHTML parses an HTML document. contentType may name the charset; the
// content is sniffed when it is empty.
func ParseHTML(r io.Reader, contentType string) (*HTMLDocument, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect html charset: %w", err)
	}
	top, err := html.ParseWithOptions(cr, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}

	doc := &HTMLDocument{top: top, nodes: make(map[*html.Node]Node)}
	for c := top.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			doc.root = doc.wrap(c).(*htmlElement)
			break
		}
	}
	if doc.root == nil {
		return nil, fmt.Errorf("html document has no root element")
	}
	return doc, nil
}

func (d *HTMLDocument) wrap(n *html.Node) Node {
	if w, ok := d.nodes[n]; ok {
		return w
	}
	var w Node
	if n.Type == html.ElementNode {
		w = &htmlElement{n: n, doc: d}
	} else {
		w = &htmlNode{n: n, doc: d}
	}
	d.nodes[n] = w
	return w
}

func (d *HTMLDocument) Root() Element { return d.root }

func (d *HTMLDocument) Elements() []Element {
	return walk(d.root, nil)
}

func (d *HTMLDocument) StyleSheets() []string {
	var sheets []string
	for _, e := range d.Elements() {
		he := e.(*htmlElement)
		if he.TagName() != "style" {
			continue
		}
		var sb strings.Builder
		for c := he.n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		sheets = append(sheets, sb.String())
	}
	return sheets
}

func (e *htmlElement) ParentNode() Node {
	if e.n.Parent == nil {
		return nil
	}
	return e.doc.wrap(e.n.Parent)
}

func (e *htmlElement) TagName() string { return strings.ToLower(e.n.Data) }

func (e *htmlElement) Attribute(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (e *htmlElement) ChildElements() []Element {
	var out []Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c).(*htmlElement))
		}
	}
	return out
}

func (e *htmlElement) String() string { return "<" + e.TagName() + ">" }

func (n *htmlNode) ParentNode() Node {
	if n.n.Parent == nil {
		return nil
	}
	return n.doc.wrap(n.n.Parent)
}
