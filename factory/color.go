package factory

import (
	"strings"

	"go.uber.org/zap"

	"cssvm/keywords"
	"cssvm/lexical"
	"cssvm/value"
)

// SystemColors maps system color keywords to their rgb channels.
type SystemColors map[string][3]uint8

func rgbValue(c [3]uint8) value.RGBColor {
	return value.NewRGBColor(
		value.NewFloat(value.Number, float64(c[0])),
		value.NewFloat(value.Number, float64(c[1])),
		value.NewFloat(value.Number, float64(c[2])),
	)
}

var basicColors = func() map[string]value.Value {
	m := make(map[string]value.Value, len(keywords.BasicColors))
	for name, c := range keywords.BasicColors {
		m[name] = rgbValue(c)
	}
	return m
}()

// RGB accepts rgb() triples and hex colors.
type RGB struct {
	base
}

func NewRGB(property string, p lexical.Parser, log *zap.Logger) *RGB {
	return &RGB{base: newBase(property, p, log)}
}

func (f *RGB) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	if err := f.single(lu); err != nil {
		return nil, err
	}
	switch lu.Type() {
	case lexical.Inherit:
		return value.Inherit, nil
	case lexical.RGBColor:
		return rgbTriple(f.base, lu)
	}
	return nil, f.invalid(lu, "rgb color expected")
}

// rgbTriple reads the three comma separated channels of an rgb unit.
func rgbTriple(b base, lu *lexical.Unit) (value.Value, error) {
	var channels [3]value.Value
	p := lu.Parameters()
	for i := range channels {
		if i > 0 {
			if p == nil || p.Type() != lexical.OperatorComma {
				return nil, b.invalid(p, "comma expected in rgb()")
			}
			p = p.Next()
		}
		if p == nil {
			return nil, b.invalid(lu, "rgb() needs three channels")
		}
		c, err := rgbChannel(b, p)
		if err != nil {
			return nil, err
		}
		channels[i] = c
		p = p.Next()
	}
	if p != nil {
		return nil, b.invalid(p, "rgb() takes exactly three channels")
	}
	return value.NewRGBColor(channels[0], channels[1], channels[2]), nil
}

func rgbChannel(b base, lu *lexical.Unit) (value.Value, error) {
	switch lu.Type() {
	case lexical.Integer:
		return value.NewFloat(value.Number, float64(lu.IntegerValue())), nil
	case lexical.Real:
		return value.NewFloat(value.Number, lu.FloatValue()), nil
	case lexical.Percentage:
		return value.NewFloat(value.Percentage, lu.FloatValue()), nil
	}
	return nil, b.invalid(lu, "number or percentage expected")
}

// Color accepts rgb colors, the basic color names and the system colors.
type Color struct {
	base
	system SystemColors
}

// NewColor creates a color factory. When system is non nil, system color
// keywords found in it produce rgb values instead of identifiers.
func NewColor(property string, p lexical.Parser, log *zap.Logger, system SystemColors) *Color {
	return &Color{base: newBase(property, p, log), system: system}
}

func (f *Color) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	if err := f.single(lu); err != nil {
		return nil, err
	}
	return f.color(lu)
}

func (f *Color) color(lu *lexical.Unit) (value.Value, error) {
	switch lu.Type() {
	case lexical.Inherit:
		return value.Inherit, nil
	case lexical.RGBColor:
		return rgbTriple(f.base, lu)
	case lexical.Ident:
		if v, ok := f.named(lu.StringValue()); ok {
			return v, nil
		}
		return nil, f.invalid(lu, "unknown color")
	}
	return nil, f.invalid(lu, "color expected")
}

func (f *Color) named(s string) (value.Value, bool) {
	name := strings.ToLower(s)
	if v, ok := basicColors[name]; ok {
		return v, true
	}
	v, ok := keywords.SystemColors.Lookup(name)
	if !ok {
		return nil, false
	}
	if c, ok := f.system[name]; ok {
		return rgbValue(c), true
	}
	return v, true
}

func (f *Color) CreateStringValue(t value.Type, s string) (value.Value, error) {
	if t != value.Ident {
		return nil, f.invalidString(s, "identifier expected")
	}
	if v, ok := f.named(s); ok {
		return v, nil
	}
	return nil, f.invalidString(s, "unknown color")
}

// Paint handles the SVG fill and stroke properties: none, currentColor, a
// color, or a url optionally followed by a fallback.
type Paint struct {
	*Color
}

func NewPaint(property string, p lexical.Parser, log *zap.Logger, system SystemColors) *Paint {
	return &Paint{Color: NewColor(property, p, log, system)}
}

func (f *Paint) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	if lu.Type() != lexical.URI {
		if err := f.single(lu); err != nil {
			return nil, err
		}
		return f.paint(lu)
	}

	uri := value.NewURI(lu.StringValue())
	fallback := lu.Next()
	if fallback == nil {
		return uri, nil
	}
	if err := f.single(fallback); err != nil {
		return nil, err
	}
	if fallback.Type() == lexical.Inherit {
		return nil, f.invalid(fallback, "inherit is not a paint fallback")
	}
	v, err := f.paint(fallback)
	if err != nil {
		return nil, err
	}
	return value.NewList(' ', uri, v), nil
}

func (f *Paint) paint(lu *lexical.Unit) (value.Value, error) {
	if lu.Type() == lexical.Ident {
		if v, ok := keywords.Paint.Lookup(lu.StringValue()); ok {
			return v, nil
		}
	}
	return f.color(lu)
}

func (f *Paint) CreateStringValue(t value.Type, s string) (value.Value, error) {
	switch t {
	case value.URI:
		return value.NewURI(s), nil
	case value.Ident:
		if v, ok := keywords.Paint.Lookup(s); ok {
			return v, nil
		}
	}
	return f.Color.CreateStringValue(t, s)
}
