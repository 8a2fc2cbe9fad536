package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// XMLDocument wraps an etree document, typically SVG. Its attributes may
// carry presentation hints.
type XMLDocument struct {
	doc   *etree.Document
	top   *xmlNode
	nodes map[*etree.Element]*xmlElement
}

type xmlElement struct {
	e   *etree.Element
	doc *XMLDocument
}

// xmlNode stands for the etree document itself, which is not an element.
type xmlNode struct{}

func (*xmlNode) ParentNode() Node { return nil }

// ParseXML parses an XML document.
func ParseXML(r io.Reader) (*XMLDocument, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse xml: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("xml document has no root element")
	}
	return &XMLDocument{doc: doc, top: &xmlNode{}, nodes: make(map[*etree.Element]*xmlElement)}, nil
}

func (d *XMLDocument) wrap(e *etree.Element) *xmlElement {
	if w, ok := d.nodes[e]; ok {
		return w
	}
	w := &xmlElement{e: e, doc: d}
	d.nodes[e] = w
	return w
}

func (d *XMLDocument) Root() Element { return d.wrap(d.doc.Root()) }

func (d *XMLDocument) Elements() []Element {
	return walk(d.Root(), nil)
}

func (d *XMLDocument) StyleSheets() []string {
	var sheets []string
	for _, e := range d.Elements() {
		xe := e.(*xmlElement)
		if xe.TagName() != "style" {
			continue
		}
		if t, ok := xe.Attribute("type"); ok && !strings.EqualFold(strings.TrimSpace(t), "text/css") {
			continue
		}
		var sb strings.Builder
		for _, tok := range xe.e.Child {
			if cd, ok := tok.(*etree.CharData); ok {
				sb.WriteString(cd.Data)
			}
		}
		sheets = append(sheets, sb.String())
	}
	return sheets
}

// PresentationAttribute returns the attribute of e named like property.
func (d *XMLDocument) PresentationAttribute(e Element, property string) (string, bool) {
	return e.Attribute(property)
}

func (e *xmlElement) ParentNode() Node {
	p := e.e.Parent()
	if p == nil {
		return nil
	}
	if p.Tag == "" {
		return e.doc.top
	}
	return e.doc.wrap(p)
}

func (e *xmlElement) TagName() string { return strings.ToLower(e.e.Tag) }

func (e *xmlElement) Attribute(name string) (string, bool) {
	a := e.e.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func (e *xmlElement) ChildElements() []Element {
	children := e.e.ChildElements()
	out := make([]Element, 0, len(children))
	for _, c := range children {
		out = append(out, e.doc.wrap(c))
	}
	return out
}

func (e *xmlElement) String() string { return "<" + e.e.FullTag() + ">" }
