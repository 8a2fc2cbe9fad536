// Package resolve rewrites cascaded values that depend on context, such as
// inherit, bolder or em sizes, into computed values by consulting the parent
// element's computed style.
//
// Computed styles are built top down, so a resolver may assume the parent's
// style is already resolved. Resolvers hold no per element state.
package resolve

import (
	"fmt"
	"strings"

	"cssvm/dom"
	"cssvm/value"
)

// Origin is the cascade origin of a declaration.
type Origin uint8

const (
	UserAgent Origin = iota
	User
	Author
)

func (o Origin) String() string {
	switch o {
	case UserAgent:
		return "user-agent"
	case User:
		return "user"
	case Author:
		return "author"
	default:
		return fmt.Sprintf("Origin(%d)", o)
	}
}

// Declaration is a style declaration resolvers read from and write into.
type Declaration interface {
	// PropertyValue returns the stored value or nil.
	PropertyValue(name string) value.Value
	PropertyPriority(name string) bool
	PropertyOrigin(name string) Origin
	SetProperty(name string, v value.Value, important bool, origin Origin)
}

// View gives access to computed styles.
type View interface {
	// ComputedStyle returns the computed style of elt, or nil when none can
	// be produced.
	ComputedStyle(elt dom.Element, pseudo string) Declaration
}

// Resolver computes one property.
type Resolver interface {
	PropertyName() string
	IsInherited() bool
	DefaultValue() value.Value
	// Resolve rewrites cascaded, already stored in out, into its computed
	// form. It never fails: a missing ancestor is the root element case.
	Resolve(elt dom.Element, pseudo string, view View, out Declaration,
		cascaded value.Value, important bool, origin Origin)
}

// parentStyle returns the computed style of the nearest element ancestor.
func parentStyle(elt dom.Element, view View) Declaration {
	parent := dom.ParentElement(elt)
	if parent == nil || view == nil {
		return nil
	}
	return view.ComputedStyle(parent, "")
}

// Simple is a resolver with nothing to resolve: the cascaded value is
// already absolute or handled by default substitution.
type Simple struct {
	name      string
	inherited bool
	def       value.Value
}

func NewSimple(name string, inherited bool, def value.Value) *Simple {
	return &Simple{name: strings.ToLower(name), inherited: inherited, def: def}
}

func (r *Simple) PropertyName() string      { return r.name }
func (r *Simple) IsInherited() bool         { return r.inherited }
func (r *Simple) DefaultValue() value.Value { return r.def }

func (r *Simple) Resolve(dom.Element, string, View, Declaration, value.Value, bool, Origin) {}
