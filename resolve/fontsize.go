package resolve

import (
	"math"

	"cssvm/dom"
	"cssvm/keywords"
	"cssvm/value"
)

const (
	DefaultMediumFontSize        = 16.0
	DefaultPixelUnitToMillimeter = 25.4 / 96
	fontScale                    = 1.2
)

// absoluteSizes are the size keywords smallest first; medium sits at index 3.
var absoluteSizes = []string{"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large"}

// FontSize resolves larger, smaller, em, ex and percentages into pixels
// against the parent's computed font size. Absolute values pass through.
type FontSize struct {
	medium float64
	pxToMM float64
}

// NewFontSize creates the font size resolver. Non positive arguments select
// the defaults.
func NewFontSize(mediumPx, pixelUnitToMillimeter float64) *FontSize {
	if mediumPx <= 0 {
		mediumPx = DefaultMediumFontSize
	}
	if pixelUnitToMillimeter <= 0 {
		pixelUnitToMillimeter = DefaultPixelUnitToMillimeter
	}
	return &FontSize{medium: mediumPx, pxToMM: pixelUnitToMillimeter}
}

func (r *FontSize) PropertyName() string      { return "font-size" }
func (r *FontSize) IsInherited() bool         { return true }
func (r *FontSize) DefaultValue() value.Value { return keywords.Medium }

func (r *FontSize) Resolve(elt dom.Element, _ string, view View, out Declaration,
	cascaded value.Value, important bool, origin Origin) {
	if cascaded == nil {
		return
	}

	var scale func(parent float64) float64
	switch {
	case cascaded.Equal(keywords.Larger):
		scale = func(p float64) float64 { return p * fontScale }
	case cascaded.Equal(keywords.Smaller):
		scale = func(p float64) float64 { return p / fontScale }
	default:
		f, ok := cascaded.(value.Float)
		if !ok {
			return
		}
		m := f.Magnitude()
		switch f.PrimitiveType() {
		case value.Ems:
			scale = func(p float64) float64 { return p * m }
		case value.Exs:
			scale = func(p float64) float64 { return p * m * 0.5 }
		case value.Percentage:
			scale = func(p float64) float64 { return p * m / 100 }
		default:
			return
		}
	}

	parent := r.medium
	if ps := parentStyle(elt, view); ps != nil {
		parent = r.Pixels(ps.PropertyValue("font-size"))
	}
	out.SetProperty("font-size", value.NewFloat(value.Px, scale(parent)), important, origin)
}

// Pixels converts a computed font size into pixels.
func (r *FontSize) Pixels(v value.Value) float64 {
	if v == nil {
		return r.medium
	}
	if s, err := v.StringValue(); err == nil && v.PrimitiveType() == value.Ident {
		for i, k := range absoluteSizes {
			if s == k {
				return r.medium * math.Pow(fontScale, float64(i-3))
			}
		}
		return r.medium
	}
	f, ok := v.(value.Float)
	if !ok {
		return r.medium
	}
	switch t := f.PrimitiveType(); {
	case t == value.Px || t == value.Number:
		return f.Magnitude()
	case value.FamilyOf(t) == value.FamilyLength:
		mm, _ := f.FloatValue(value.Mm)
		return mm / r.pxToMM
	case t == value.Ems:
		return r.medium * f.Magnitude()
	case t == value.Exs:
		return r.medium * f.Magnitude() * 0.5
	case t == value.Percentage:
		return r.medium * f.Magnitude() / 100
	}
	return r.medium
}
