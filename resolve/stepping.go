package resolve

import (
	"cssvm/dom"
	"cssvm/keywords"
	"cssvm/value"
)

// FontWeight resolves bolder and lighter one step from the parent weight,
// saturating at 100 and 900.
type FontWeight struct{}

func NewFontWeight() *FontWeight { return &FontWeight{} }

func (r *FontWeight) PropertyName() string      { return "font-weight" }
func (r *FontWeight) IsInherited() bool         { return true }
func (r *FontWeight) DefaultValue() value.Value { return keywords.Normal }

func (r *FontWeight) Resolve(elt dom.Element, _ string, view View, out Declaration,
	cascaded value.Value, important bool, origin Origin) {
	var step int
	switch {
	case cascaded == nil:
		return
	case cascaded.Equal(keywords.Bolder):
		step = 1
	case cascaded.Equal(keywords.Lighter):
		step = -1
	default:
		return
	}

	var w int
	if ps := parentStyle(elt, view); ps != nil {
		w = weightOf(ps.PropertyValue("font-weight")) + step*100
	} else {
		w = 400 + step*100
	}
	w = min(max(w, keywords.FontWeights[0]), keywords.FontWeights[len(keywords.FontWeights)-1])
	out.SetProperty("font-weight", value.NewFloat(value.Number, float64(w)), important, origin)
}

// weightOf maps a computed weight to its number; anything unexpected counts
// as normal.
func weightOf(v value.Value) int {
	if v == nil {
		return 400
	}
	switch {
	case v.Equal(keywords.Bold):
		return 700
	case v.Equal(keywords.Normal):
		return 400
	}
	if f, err := v.FloatValue(value.Number); err == nil {
		return int(f)
	}
	return 400
}

// stretchOrder lists absolute font widths narrowest first.
var stretchOrder = []value.Value{
	value.NewIdent("ultra-condensed"),
	value.NewIdent("extra-condensed"),
	value.NewIdent("condensed"),
	value.NewIdent("semi-condensed"),
	keywords.Normal,
	value.NewIdent("semi-expanded"),
	value.NewIdent("expanded"),
	value.NewIdent("extra-expanded"),
	value.NewIdent("ultra-expanded"),
}

const stretchNormal = 4

// FontStretch resolves wider and narrower one step from the parent width,
// saturating at both ends.
type FontStretch struct{}

func NewFontStretch() *FontStretch { return &FontStretch{} }

func (r *FontStretch) PropertyName() string      { return "font-stretch" }
func (r *FontStretch) IsInherited() bool         { return true }
func (r *FontStretch) DefaultValue() value.Value { return keywords.Normal }

func (r *FontStretch) Resolve(elt dom.Element, _ string, view View, out Declaration,
	cascaded value.Value, important bool, origin Origin) {
	var step int
	switch {
	case cascaded == nil:
		return
	case cascaded.Equal(keywords.Wider):
		step = 1
	case cascaded.Equal(keywords.Narrower):
		step = -1
	default:
		return
	}

	idx := stretchNormal
	if ps := parentStyle(elt, view); ps != nil {
		idx = stretchIndex(ps.PropertyValue("font-stretch"))
	}
	idx = min(max(idx+step, 0), len(stretchOrder)-1)
	out.SetProperty("font-stretch", stretchOrder[idx], important, origin)
}

func stretchIndex(v value.Value) int {
	if v == nil {
		return stretchNormal
	}
	for i, s := range stretchOrder {
		if v.Equal(s) {
			return i
		}
	}
	return stretchNormal
}
