package factory

import (
	"strings"

	"go.uber.org/zap"

	"cssvm/keywords"
	"cssvm/lexical"
	"cssvm/value"
)

// FontFamily builds a comma separated list of family names. Unquoted runs of
// identifiers are joined with single spaces into one string entry; a lone
// generic family keyword stays an identifier.
type FontFamily struct {
	base
}

func NewFontFamily(p lexical.Parser, log *zap.Logger) *FontFamily {
	return &FontFamily{base: newBase("font-family", p, log)}
}

func (f *FontFamily) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	if lu.Type() == lexical.Inherit {
		if err := f.single(lu); err != nil {
			return nil, err
		}
		return value.Inherit, nil
	}

	var items []value.Value
	for {
		switch lu.Type() {
		case lexical.StringLiteral:
			items = append(items, value.NewString(lu.StringValue()))
			lu = lu.Next()
		case lexical.Ident:
			words := []string{lu.StringValue()}
			for lu = lu.Next(); lu != nil && lu.Type() == lexical.Ident; lu = lu.Next() {
				words = append(words, lu.StringValue())
			}
			if len(words) == 1 {
				if v, ok := keywords.FontFamily.Lookup(words[0]); ok {
					items = append(items, v)
					break
				}
			}
			items = append(items, value.NewString(strings.Join(words, " ")))
		default:
			return nil, f.invalid(lu, "family name expected")
		}

		if lu == nil {
			return value.NewList(',', items...), nil
		}
		if lu.Type() != lexical.OperatorComma {
			return nil, f.invalid(lu, "comma expected")
		}
		if lu = lu.Next(); lu == nil {
			return nil, f.invalid(lu, "family name expected after comma")
		}
	}
}

func (f *FontFamily) CreateStringValue(t value.Type, s string) (value.Value, error) {
	switch t {
	case value.String:
		return value.NewList(',', value.NewString(s)), nil
	case value.Ident:
		if v, ok := keywords.FontFamily.Lookup(s); ok {
			return value.NewList(',', v), nil
		}
		return value.NewList(',', value.NewString(s)), nil
	}
	return f.base.CreateStringValue(t, s)
}

// FontWeight accepts normal, bold, bolder, lighter and the nine numeric
// weights. Reals are truncated before the check.
type FontWeight struct {
	base
}

func NewFontWeight(p lexical.Parser, log *zap.Logger) *FontWeight {
	return &FontWeight{base: newBase("font-weight", p, log)}
}

func (f *FontWeight) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	if err := f.single(lu); err != nil {
		return nil, err
	}
	switch lu.Type() {
	case lexical.Inherit:
		return value.Inherit, nil
	case lexical.Ident:
		if v, ok := keywords.FontWeight.Lookup(lu.StringValue()); ok {
			return v, nil
		}
		return nil, f.invalid(lu, "unknown identifier")
	case lexical.Integer:
		if v, ok := weight(lu.IntegerValue()); ok {
			return v, nil
		}
		return nil, f.invalid(lu, "weight must be a multiple of 100 between 100 and 900")
	case lexical.Real:
		if v, ok := weight(int(lu.FloatValue())); ok {
			return v, nil
		}
		return nil, f.invalid(lu, "weight must be a multiple of 100 between 100 and 900")
	}
	return nil, f.invalid(lu, "weight expected")
}

func weight(i int) (value.Value, bool) {
	if i < 100 || i > 900 || i%100 != 0 {
		return nil, false
	}
	return value.NewFloat(value.Number, float64(i)), true
}

func (f *FontWeight) CreateFloatValue(unit value.Type, v float64) (value.Value, error) {
	if unit == value.Number {
		if w, ok := weight(int(v)); ok {
			return w, nil
		}
	}
	return nil, f.invalidString(value.NewFloat(value.Number, v).CSSText(), "invalid weight")
}

func (f *FontWeight) CreateStringValue(t value.Type, s string) (value.Value, error) {
	if t == value.Ident {
		if v, ok := keywords.FontWeight.Lookup(s); ok {
			return v, nil
		}
	}
	return nil, f.invalidString(s, "unknown identifier")
}

// FontSize accepts lengths, percentages and the size keywords.
type FontSize struct {
	base
	length *Length
}

func NewFontSize(p lexical.Parser, log *zap.Logger) *FontSize {
	l := NewLength("font-size", p, log)
	l.percentages = true
	return &FontSize{base: newBase("font-size", p, log), length: l}
}

func (f *FontSize) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	if err := f.single(lu); err != nil {
		return nil, err
	}
	switch lu.Type() {
	case lexical.Inherit:
		return value.Inherit, nil
	case lexical.Ident:
		if v, ok := keywords.FontSize.Lookup(lu.StringValue()); ok {
			return v, nil
		}
		return nil, f.invalid(lu, "unknown identifier")
	}
	return f.length.length(lu)
}

func (f *FontSize) CreateFloatValue(unit value.Type, v float64) (value.Value, error) {
	return f.length.CreateFloatValue(unit, v)
}

func (f *FontSize) CreateStringValue(t value.Type, s string) (value.Value, error) {
	if t == value.Ident {
		if v, ok := keywords.FontSize.Lookup(s); ok {
			return v, nil
		}
	}
	return nil, f.invalidString(s, "unknown identifier")
}
