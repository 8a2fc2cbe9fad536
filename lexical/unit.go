// Package lexical turns CSS property value text into chains of lexical units,
// the token stream the value factories consume.
package lexical

import (
	"fmt"
	"strconv"
	"strings"
)

// Type discriminates lexical units.
type Type uint8

const (
	OperatorComma Type = iota
	OperatorSlash
	OperatorPlus
	OperatorMinus
	OperatorMultiply
	Inherit
	Integer
	Real
	Em
	Ex
	Pixel
	Inch
	Centimeter
	Millimeter
	Point
	Pica
	Percentage
	URI
	RGBColor
	Degree
	Gradian
	Radian
	Millisecond
	Second
	Hertz
	Kilohertz
	Ident
	StringLiteral
	Attr
	Counter
	RectFunction
	Function
	Dimension
)

var typeNames = [...]string{
	OperatorComma:    "comma",
	OperatorSlash:    "slash",
	OperatorPlus:     "plus",
	OperatorMinus:    "minus",
	OperatorMultiply: "multiply",
	Inherit:          "inherit",
	Integer:          "integer",
	Real:             "real",
	Em:               "em",
	Ex:               "ex",
	Pixel:            "px",
	Inch:             "in",
	Centimeter:       "cm",
	Millimeter:       "mm",
	Point:            "pt",
	Pica:             "pc",
	Percentage:       "percentage",
	URI:              "uri",
	RGBColor:         "rgb",
	Degree:           "deg",
	Gradian:          "grad",
	Radian:           "rad",
	Millisecond:      "ms",
	Second:           "s",
	Hertz:            "Hz",
	Kilohertz:        "kHz",
	Ident:            "ident",
	StringLiteral:    "string",
	Attr:             "attr",
	Counter:          "counter",
	RectFunction:     "rect",
	Function:         "function",
	Dimension:        "dimension",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// dimensionUnits maps lower case unit text to unit types.
var dimensionUnits = map[string]Type{
	"em":   Em,
	"ex":   Ex,
	"px":   Pixel,
	"in":   Inch,
	"cm":   Centimeter,
	"mm":   Millimeter,
	"pt":   Point,
	"pc":   Pica,
	"deg":  Degree,
	"grad": Gradian,
	"rad":  Radian,
	"ms":   Millisecond,
	"s":    Second,
	"hz":   Hertz,
	"khz":  Kilohertz,
}

// Unit is one lexical unit in a chain. Function units carry their arguments
// as a parameter chain.
type Unit struct {
	typ    Type
	i      int
	f      float64
	s      string
	params *Unit
	next   *Unit
	prev   *Unit
}

func (u *Unit) Type() Type { return u.typ }

// IntegerValue returns the value of an Integer unit.
func (u *Unit) IntegerValue() int { return u.i }

// FloatValue returns the numeric value of real, percentage and dimensioned units.
func (u *Unit) FloatValue() float64 { return u.f }

// StringValue returns the text of identifiers, strings, URIs and attr() names.
func (u *Unit) StringValue() string { return u.s }

// FunctionName returns the lower case name of a function unit.
func (u *Unit) FunctionName() string {
	switch u.typ {
	case RGBColor:
		return "rgb"
	case RectFunction:
		return "rect"
	case Attr:
		return "attr"
	case Counter, Function:
		return u.s
	}
	return ""
}

// DimensionUnitText returns the unit text of a Dimension unit as written.
func (u *Unit) DimensionUnitText() string {
	if u.typ == Dimension {
		return u.s
	}
	return ""
}

// Parameters returns the first argument of a function unit.
func (u *Unit) Parameters() *Unit { return u.params }

func (u *Unit) Next() *Unit     { return u.next }
func (u *Unit) Previous() *Unit { return u.prev }

// Len returns the number of units in the chain starting at u.
func (u *Unit) Len() int {
	n := 0
	for ; u != nil; u = u.next {
		n++
	}
	return n
}

// Text returns CSS text for this unit alone. It is used for error context.
func (u *Unit) Text() string {
	if u == nil {
		return "<end>"
	}
	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	switch u.typ {
	case OperatorComma:
		return ","
	case OperatorSlash:
		return "/"
	case OperatorPlus:
		return "+"
	case OperatorMinus:
		return "-"
	case OperatorMultiply:
		return "*"
	case Inherit:
		return "inherit"
	case Integer:
		return strconv.Itoa(u.i)
	case Real:
		return num(u.f)
	case Percentage:
		return num(u.f) + "%"
	case Dimension:
		return num(u.f) + u.s
	case Ident:
		return u.s
	case StringLiteral:
		return strconv.Quote(u.s)
	case URI:
		return "url(" + u.s + ")"
	case RGBColor, RectFunction, Attr, Counter, Function:
		var sb strings.Builder
		sb.WriteString(u.FunctionName())
		sb.WriteByte('(')
		sb.WriteString(u.params.ChainText())
		sb.WriteByte(')')
		return sb.String()
	}
	if suffix := typeNames[u.typ]; u.typ >= Em && u.typ <= Kilohertz {
		return num(u.f) + suffix
	}
	return u.typ.String()
}

// ChainText returns the text of the whole chain starting at u.
func (u *Unit) ChainText() string {
	var parts []string
	for ; u != nil; u = u.next {
		t := u.Text()
		if u.typ == OperatorComma && len(parts) > 0 {
			parts[len(parts)-1] += t
			continue
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}

// IsLength reports whether u is a length unit or a plain number.
func (u *Unit) IsLength() bool {
	switch u.typ {
	case Em, Ex, Pixel, Inch, Centimeter, Millimeter, Point, Pica, Integer, Real, Dimension:
		return true
	}
	return false
}

// Number returns the numeric value of integer and real units.
func (u *Unit) Number() float64 {
	if u.typ == Integer {
		return float64(u.i)
	}
	return u.f
}

func link(units []*Unit) *Unit {
	for i, u := range units {
		if i > 0 {
			u.prev = units[i-1]
		}
		if i+1 < len(units) {
			u.next = units[i+1]
		}
	}
	if len(units) == 0 {
		return nil
	}
	return units[0]
}

// Chain links units into a chain and returns its head. Useful for building
// input programmatically.
func Chain(units ...*Unit) *Unit {
	return link(units)
}

// NewIdent returns an identifier unit.
func NewIdent(s string) *Unit { return &Unit{typ: Ident, s: s} }

// NewInteger returns an integer unit.
func NewInteger(i int) *Unit { return &Unit{typ: Integer, i: i, f: float64(i)} }

// NewReal returns a real unit.
func NewReal(f float64) *Unit { return &Unit{typ: Real, f: f} }

// NewDimensioned returns a unit of type t, which must be percentage or a
// dimension type, with magnitude f.
func NewDimensioned(t Type, f float64) *Unit { return &Unit{typ: t, f: f} }

// NewOperator returns an operator unit.
func NewOperator(t Type) *Unit { return &Unit{typ: t} }

// NewString returns a string unit.
func NewString(s string) *Unit { return &Unit{typ: StringLiteral, s: s} }

// NewURI returns a URI unit.
func NewURI(s string) *Unit { return &Unit{typ: URI, s: s} }

// NewInherit returns the inherit unit.
func NewInherit() *Unit { return &Unit{typ: Inherit} }

// NewFunction returns a function unit of type t (RGBColor, RectFunction,
// Attr, Counter or Function) with the given parameter chain.
func NewFunction(t Type, name string, params *Unit) *Unit {
	u := &Unit{typ: t, params: params}
	switch t {
	case Function, Counter:
		u.s = strings.ToLower(name)
	case Attr:
		if params != nil {
			u.s = params.s
		}
	}
	return u
}
