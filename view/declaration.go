package view

import (
	"strings"

	"cssvm/resolve"
	"cssvm/value"
)

type entry struct {
	v         value.Value
	important bool
	origin    resolve.Origin
}

// Declaration is an ordered property map of value, priority and origin.
//
// A computed declaration knows its parent's computed declaration: reading a
// property stored as inherit answers with the parent's value instead.
type Declaration struct {
	entries map[string]entry
	order   []string
	parent  func() *Declaration
}

// NewDeclaration returns an empty declaration without a parent.
func NewDeclaration() *Declaration {
	return &Declaration{entries: make(map[string]entry)}
}

func newComputed(parent func() *Declaration) *Declaration {
	d := NewDeclaration()
	d.parent = parent
	return d
}

// SetProperty stores v for name replacing any previous entry.
func (d *Declaration) SetProperty(name string, v value.Value, important bool, origin resolve.Origin) {
	name = strings.ToLower(name)
	if _, ok := d.entries[name]; !ok {
		d.order = append(d.order, name)
	}
	d.entries[name] = entry{v: v, important: important, origin: origin}
}

// RemoveProperty drops name.
func (d *Declaration) RemoveProperty(name string) {
	name = strings.ToLower(name)
	if _, ok := d.entries[name]; !ok {
		return
	}
	delete(d.entries, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// lookup returns the entry answering for name, following inherit to the
// parent.
func (d *Declaration) lookup(name string) (entry, bool) {
	name = strings.ToLower(name)
	for cur := d; cur != nil; {
		e, ok := cur.entries[name]
		if !ok {
			return entry{}, false
		}
		if !value.IsInherit(e.v) || cur.parent == nil {
			return e, true
		}
		p := cur.parent()
		if p == nil {
			return e, true
		}
		cur = p
	}
	return entry{}, false
}

// PropertyValue returns the value of name or nil.
func (d *Declaration) PropertyValue(name string) value.Value {
	e, _ := d.lookup(name)
	return e.v
}

// PropertyPriority reports whether name is important.
func (d *Declaration) PropertyPriority(name string) bool {
	e, _ := d.lookup(name)
	return e.important
}

// PropertyOrigin returns the origin of name. Missing properties report
// UserAgent.
func (d *Declaration) PropertyOrigin(name string) resolve.Origin {
	e, _ := d.lookup(name)
	return e.origin
}

// Stored returns the value kept for name without following inherit.
func (d *Declaration) Stored(name string) (value.Value, bool) {
	e, ok := d.entries[strings.ToLower(name)]
	return e.v, ok
}

// Names returns property names in the order they were first set.
func (d *Declaration) Names() []string {
	return append([]string(nil), d.order...)
}

func (d *Declaration) Len() int { return len(d.order) }

// CSSText serializes the declaration as a declaration block body.
func (d *Declaration) CSSText() string {
	var sb strings.Builder
	for i, name := range d.order {
		if i > 0 {
			sb.WriteByte(' ')
		}
		e := d.entries[name]
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(e.v.CSSText())
		if e.important {
			sb.WriteString(" !important")
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

// target adapts a declaration to factory.Target for one origin.
type target struct {
	d      *Declaration
	origin resolve.Origin
}

func (t target) SetPropertyValue(name string, v value.Value, important bool) {
	t.d.SetProperty(name, v, important, t.origin)
}
