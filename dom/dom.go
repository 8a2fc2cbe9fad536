// Package dom adapts parsed documents to the small element model the style
// machinery depends on: parent traversal, tag names and attributes.
package dom

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Node is any tree node. ParentNode returns nil at the top.
type Node interface {
	ParentNode() Node
}

// Element is an element node.
type Element interface {
	Node
	// TagName returns the local name in lower case.
	TagName() string
	// Attribute returns the named attribute.
	Attribute(name string) (string, bool)
	// ChildElements returns element children in document order.
	ChildElements() []Element
}

// Document is a parsed document.
type Document interface {
	// Root returns the document element.
	Root() Element
	// Elements returns all elements in document order.
	Elements() []Element
	// StyleSheets returns the text of embedded style elements in order.
	StyleSheets() []string
}

// PresentationalHints is implemented by documents whose attributes may carry
// style properties, such as SVG.
type PresentationalHints interface {
	PresentationAttribute(e Element, property string) (string, bool)
}

// ParentElement returns the nearest ancestor of n that is an element,
// skipping other nodes. It returns nil for the root element.
func ParentElement(n Node) Element {
	if n == nil {
		return nil
	}
	for p := n.ParentNode(); p != nil; p = p.ParentNode() {
		if e, ok := p.(Element); ok {
			return e
		}
	}
	return nil
}

// ID returns the id attribute of e.
func ID(e Element) string {
	id, _ := e.Attribute("id")
	return strings.TrimSpace(id)
}

// HasClass reports whether the class attribute of e lists class.
func HasClass(e Element, class string) bool {
	attr, ok := e.Attribute("class")
	if !ok {
		return false
	}
	for c := range strings.FieldsSeq(attr) {
		if c == class {
			return true
		}
	}
	return false
}

// Path returns a stable location of e such as /html[1]/body[1]/div[2].
func Path(e Element) string {
	var parts []string
	for cur := e; cur != nil; {
		parent := ParentElement(cur)
		idx := 1
		if parent != nil {
			for _, sib := range parent.ChildElements() {
				if sib == cur {
					break
				}
				if sib.TagName() == cur.TagName() {
					idx++
				}
			}
		}
		parts = append(parts, fmt.Sprintf("%s[%d]", cur.TagName(), idx))
		cur = parent
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(parts[i])
	}
	return sb.String()
}

// walk appends e and its descendants in document order.
func walk(e Element, out []Element) []Element {
	out = append(out, e)
	for _, c := range e.ChildElements() {
		out = walk(c, out)
	}
	return out
}

// Load parses the file at path. Files ending in .html or .htm are read as
// HTML, everything else as XML.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open document: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Ext(path))
}

// Read parses r choosing the parser by file extension.
func Read(r io.Reader, ext string) (Document, error) {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return ParseHTML(r, "")
	default:
		return ParseXML(r)
	}
}
