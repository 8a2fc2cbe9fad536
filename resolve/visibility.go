package resolve

import (
	"cssvm/dom"
	"cssvm/keywords"
	"cssvm/value"
)

//go:generate go tool go-enum --marshal --names --nocase

// Fallback decides what an inherit value becomes on the root element: keep
// leaves the inherit value in place, default replaces it with the property
// default.
// ENUM(keep, default)
type Fallback uint8

// Visibility copies the parent's computed visibility, priority and origin
// when the cascaded value is inherit.
type Visibility struct {
	fallback Fallback
}

func NewVisibility(fallback Fallback) *Visibility {
	return &Visibility{fallback: fallback}
}

func (r *Visibility) PropertyName() string      { return "visibility" }
func (r *Visibility) IsInherited() bool         { return true }
func (r *Visibility) DefaultValue() value.Value { return keywords.Visible }

func (r *Visibility) Resolve(elt dom.Element, _ string, view View, out Declaration,
	cascaded value.Value, important bool, origin Origin) {
	if !value.IsInherit(cascaded) {
		return
	}
	ps := parentStyle(elt, view)
	if ps == nil || ps.PropertyValue("visibility") == nil {
		if r.fallback == FallbackDefault {
			out.SetProperty("visibility", r.DefaultValue(), important, origin)
		}
		return
	}
	out.SetProperty("visibility",
		ps.PropertyValue("visibility"),
		ps.PropertyPriority("visibility"),
		ps.PropertyOrigin("visibility"))
}
