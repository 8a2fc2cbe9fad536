package value

import "fmt"

// Type is a primitive value type code. Numbering follows the DOM Level 2
// CSSPrimitiveValue constants so codes stay stable across serialization.
type Type uint8

const (
	Unknown Type = iota
	Number
	Percentage
	Ems
	Exs
	Px
	Cm
	Mm
	In
	Pt
	Pc
	Deg
	Rad
	Grad
	Ms
	S
	Hz
	KHz
	Dimension
	String
	URI
	Ident
	Attr
	Counter
	RectType
	RGBColorType
)

var typeNames = [...]string{
	Unknown:      "unknown",
	Number:       "number",
	Percentage:   "percentage",
	Ems:          "em",
	Exs:          "ex",
	Px:           "px",
	Cm:           "cm",
	Mm:           "mm",
	In:           "in",
	Pt:           "pt",
	Pc:           "pc",
	Deg:          "deg",
	Rad:          "rad",
	Grad:         "grad",
	Ms:           "ms",
	S:            "s",
	Hz:           "Hz",
	KHz:          "kHz",
	Dimension:    "dimension",
	String:       "string",
	URI:          "uri",
	Ident:        "ident",
	Attr:         "attr",
	Counter:      "counter",
	RectType:     "rect",
	RGBColorType: "rgbcolor",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// IsNumeric reports whether t is a unit a Float value may carry.
func (t Type) IsNumeric() bool {
	return t >= Number && t <= Dimension
}

// unitSuffix is the CSS text appended to a magnitude. Dimension carries its
// own unit text and is handled by Float.
var unitSuffix = map[Type]string{
	Number:     "",
	Percentage: "%",
	Ems:        "em",
	Exs:        "ex",
	Px:         "px",
	Cm:         "cm",
	Mm:         "mm",
	In:         "in",
	Pt:         "pt",
	Pc:         "pc",
	Deg:        "deg",
	Rad:        "rad",
	Grad:       "grad",
	Ms:         "ms",
	S:          "s",
	Hz:         "Hz",
	KHz:        "kHz",
}

// UnitSuffix returns the CSS unit text for a numeric type.
func UnitSuffix(t Type) (string, error) {
	if s, ok := unitSuffix[t]; ok {
		return s, nil
	}
	return "", invalidAccess("", t.String(), "unit has no textual representation")
}

// Kind discriminates the value variants.
type Kind uint8

const (
	KindInherit Kind = iota
	KindFloat
	KindString
	KindRGBColor
	KindRect
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInherit:
		return "inherit"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindRGBColor:
		return "rgbcolor"
	case KindRect:
		return "rect"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}
