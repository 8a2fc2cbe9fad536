// Package value is the immutable CSS value model: floats with units, strings,
// identifiers and URIs, RGB colors, rectangles, lists and the inherit marker.
//
// Values never change after construction. Typed accessors called on the wrong
// variant fail with an InvalidAccess *Error.
package value

import (
	"strconv"
	"strings"
)

// Value is a CSS value. The set of implementations is closed.
type Value interface {
	// Kind returns the variant discriminator.
	Kind() Kind
	// PrimitiveType returns the primitive type code, Unknown for inherit and lists.
	PrimitiveType() Type
	// CSSText returns the canonical CSS serialization.
	CSSText() string
	// String is CSSText, for fmt.
	String() string

	// FloatValue returns the magnitude converted to unit.
	FloatValue(unit Type) (float64, error)
	// StringValue returns the text of a string, URI or identifier.
	StringValue() (string, error)
	// RGBColorValue returns the color of an rgb value.
	RGBColorValue() (RGBColor, error)
	// RectValue returns the rectangle of a rect value.
	RectValue() (Rect, error)
	// Len returns the number of list items, 0 for non lists.
	Len() int
	// Item returns list item i.
	Item(i int) (Value, error)

	// Copy returns an independent deep copy.
	Copy() Value
	// Equal reports structural equality.
	Equal(other Value) bool

	sealed()
}

// immutable supplies failing typed accessors; variants override the ones
// they support.
type immutable struct{}

func (immutable) sealed() {}

func (immutable) FloatValue(unit Type) (float64, error) {
	return 0, invalidAccess("", unit.String(), "value is not a float")
}

func (immutable) StringValue() (string, error) {
	return "", invalidAccess("", "", "value is not a string")
}

func (immutable) RGBColorValue() (RGBColor, error) {
	return RGBColor{}, invalidAccess("", "", "value is not an rgb color")
}

func (immutable) RectValue() (Rect, error) {
	return Rect{}, invalidAccess("", "", "value is not a rect")
}

func (immutable) Len() int { return 0 }

func (immutable) Item(i int) (Value, error) {
	return nil, invalidAccess("", strconv.Itoa(i), "value is not a list")
}

// Inherit is the inherit marker. It never equals any other variant.
var Inherit Value = inherit{}

type inherit struct{ immutable }

func (inherit) Kind() Kind          { return KindInherit }
func (inherit) PrimitiveType() Type { return Unknown }
func (inherit) CSSText() string     { return "inherit" }
func (inherit) String() string      { return "inherit" }
func (v inherit) Copy() Value       { return v }

func (inherit) Equal(other Value) bool {
	return other != nil && other.Kind() == KindInherit
}

// IsInherit reports whether v is the inherit marker.
func IsInherit(v Value) bool {
	return v != nil && v.Kind() == KindInherit
}

// Float is a number with a unit.
type Float struct {
	immutable
	unit Type
	f    float64
	dim  string
}

// NewFloat returns a float value. It panics when unit is not numeric or is
// Dimension, which needs NewDimension.
func NewFloat(unit Type, f float64) Float {
	if !unit.IsNumeric() || unit == Dimension {
		panic("value: NewFloat called with non numeric unit " + unit.String())
	}
	return Float{unit: unit, f: f}
}

// NewDimension returns a float with an unrecognized unit, kept verbatim.
func NewDimension(f float64, unitText string) Float {
	return Float{unit: Dimension, f: f, dim: unitText}
}

func (v Float) Kind() Kind          { return KindFloat }
func (v Float) PrimitiveType() Type { return v.unit }

// Magnitude returns the number in the value's own unit.
func (v Float) Magnitude() float64 { return v.f }

// DimensionText returns the unit text of a Dimension value.
func (v Float) DimensionText() string { return v.dim }

func (v Float) FloatValue(unit Type) (float64, error) {
	f, err := Convert(v.f, v.unit, unit)
	if err != nil {
		return 0, err
	}
	return f, nil
}

func (v Float) CSSText() string {
	s := strconv.FormatFloat(v.f, 'f', -1, 64)
	if v.unit == Dimension {
		return s + v.dim
	}
	return s + unitSuffix[v.unit]
}

func (v Float) String() string { return v.CSSText() }
func (v Float) Copy() Value    { return v }

func (v Float) Equal(other Value) bool {
	o, ok := other.(Float)
	if !ok {
		return false
	}
	return o.unit == v.unit && o.f == v.f && strings.EqualFold(o.dim, v.dim)
}

// Str is a string, URI or identifier.
type Str struct {
	immutable
	t Type
	s string
}

// NewString returns a quoted string value. NUL characters are replaced with
// U+FFFD as CSS input preprocessing does.
func NewString(s string) Str { return Str{t: String, s: strings.ReplaceAll(s, "\x00", "\uFFFD")} }

// NewURI returns a URI value.
func NewURI(s string) Str { return Str{t: URI, s: strings.ReplaceAll(s, "\x00", "\uFFFD")} }

// NewIdent returns an identifier in canonical lower case form.
func NewIdent(s string) Str { return Str{t: Ident, s: strings.ToLower(s)} }

func (v Str) Kind() Kind          { return KindString }
func (v Str) PrimitiveType() Type { return v.t }

func (v Str) StringValue() (string, error) { return v.s, nil }

func (v Str) CSSText() string {
	switch v.t {
	case String:
		return `"` + escapeQuoted(v.s) + `"`
	case URI:
		if strings.ContainsAny(v.s, " \"'()\\") || strings.IndexFunc(v.s, isControl) >= 0 {
			return `url("` + escapeQuoted(v.s) + `")`
		}
		return "url(" + v.s + ")"
	default:
		return v.s
	}
}

func (v Str) String() string { return v.CSSText() }
func (v Str) Copy() Value    { return v }

func (v Str) Equal(other Value) bool {
	o, ok := other.(Str)
	return ok && o.t == v.t && o.s == v.s
}

// escapeQuoted escapes a string for use inside CSS double quotes. Control
// characters are written as hex escapes terminated by a space.
func escapeQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`) && strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case isControl(r):
			b.WriteByte('\\')
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool { return r < 0x20 || r == 0x7f }

// RGBColor is an rgb() color. Each channel is a number or percentage value.
type RGBColor struct {
	immutable
	red, green, blue Value
}

func NewRGBColor(red, green, blue Value) RGBColor {
	return RGBColor{red: red, green: green, blue: blue}
}

func (v RGBColor) Red() Value   { return v.red }
func (v RGBColor) Green() Value { return v.green }
func (v RGBColor) Blue() Value  { return v.blue }

func (v RGBColor) Kind() Kind          { return KindRGBColor }
func (v RGBColor) PrimitiveType() Type { return RGBColorType }

func (v RGBColor) RGBColorValue() (RGBColor, error) { return v, nil }

func (v RGBColor) CSSText() string {
	return "rgb(" + text(v.red) + ", " + text(v.green) + ", " + text(v.blue) + ")"
}

func (v RGBColor) String() string { return v.CSSText() }

func (v RGBColor) Copy() Value {
	return RGBColor{red: copyOf(v.red), green: copyOf(v.green), blue: copyOf(v.blue)}
}

func (v RGBColor) Equal(other Value) bool {
	o, ok := other.(RGBColor)
	return ok && equal(v.red, o.red) && equal(v.green, o.green) && equal(v.blue, o.blue)
}

// Rect is a rect() value in top, right, bottom, left order.
type Rect struct {
	immutable
	top, right, bottom, left Value
}

func NewRect(top, right, bottom, left Value) Rect {
	return Rect{top: top, right: right, bottom: bottom, left: left}
}

func (v Rect) Top() Value    { return v.top }
func (v Rect) Right() Value  { return v.right }
func (v Rect) Bottom() Value { return v.bottom }
func (v Rect) Left() Value   { return v.left }

func (v Rect) Kind() Kind          { return KindRect }
func (v Rect) PrimitiveType() Type { return RectType }

func (v Rect) RectValue() (Rect, error) { return v, nil }

func (v Rect) CSSText() string {
	return "rect(" + text(v.top) + ", " + text(v.right) + ", " + text(v.bottom) + ", " + text(v.left) + ")"
}

func (v Rect) String() string { return v.CSSText() }

func (v Rect) Copy() Value {
	return Rect{top: copyOf(v.top), right: copyOf(v.right), bottom: copyOf(v.bottom), left: copyOf(v.left)}
}

func (v Rect) Equal(other Value) bool {
	o, ok := other.(Rect)
	return ok && equal(v.top, o.top) && equal(v.right, o.right) &&
		equal(v.bottom, o.bottom) && equal(v.left, o.left)
}

// List is an ordered sequence of values. The separator only affects CSSText.
type List struct {
	immutable
	sep   byte
	items []Value
}

// NewList returns a list joined by sep, which is ',' or ' '.
func NewList(sep byte, items ...Value) List {
	return List{sep: sep, items: append([]Value(nil), items...)}
}

func (v List) Kind() Kind          { return KindList }
func (v List) PrimitiveType() Type { return Unknown }
func (v List) Separator() byte     { return v.sep }
func (v List) Len() int            { return len(v.items) }

func (v List) Item(i int) (Value, error) {
	if i < 0 || i >= len(v.items) {
		return nil, invalidAccess("", strconv.Itoa(i), "list index out of range")
	}
	return v.items[i], nil
}

// Items returns a copy of the list items.
func (v List) Items() []Value {
	return append([]Value(nil), v.items...)
}

func (v List) CSSText() string {
	glue := " "
	if v.sep == ',' {
		glue = ", "
	}
	parts := make([]string, len(v.items))
	for i, it := range v.items {
		parts[i] = text(it)
	}
	return strings.Join(parts, glue)
}

func (v List) String() string { return v.CSSText() }

func (v List) Copy() Value {
	items := make([]Value, len(v.items))
	for i, it := range v.items {
		items[i] = copyOf(it)
	}
	return List{sep: v.sep, items: items}
}

func (v List) Equal(other Value) bool {
	o, ok := other.(List)
	if !ok || len(o.items) != len(v.items) {
		return false
	}
	for i := range v.items {
		if !equal(v.items[i], o.items[i]) {
			return false
		}
	}
	return true
}

func text(v Value) string {
	if v == nil {
		return ""
	}
	return v.CSSText()
}

func copyOf(v Value) Value {
	if v == nil {
		return nil
	}
	return v.Copy()
}

func equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Equal reports whether a and b are structurally equal; two nils are equal.
func Equal(a, b Value) bool {
	return equal(a, b)
}
