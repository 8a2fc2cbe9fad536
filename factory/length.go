package factory

import (
	"strings"

	"go.uber.org/zap"

	"cssvm/keywords"
	"cssvm/lexical"
	"cssvm/value"
)

// Length accepts lengths and plain numbers. The percentage variant also
// takes percentages and auto.
type Length struct {
	base
	percentages bool
	auto        bool
}

// NewLength creates a factory for a property holding a length.
func NewLength(property string, p lexical.Parser, log *zap.Logger) *Length {
	return &Length{base: newBase(property, p, log)}
}

// NewPercentageLength creates a factory for a property holding a length, a
// percentage or auto.
func NewPercentageLength(property string, p lexical.Parser, log *zap.Logger) *Length {
	return &Length{base: newBase(property, p, log), percentages: true, auto: true}
}

func (f *Length) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	if err := f.single(lu); err != nil {
		return nil, err
	}
	if lu.Type() == lexical.Inherit {
		return value.Inherit, nil
	}
	return f.length(lu)
}

// length converts a single unit without looking at its neighbours.
func (f *Length) length(lu *lexical.Unit) (value.Value, error) {
	switch lu.Type() {
	case lexical.Ident:
		if f.auto && strings.EqualFold(lu.StringValue(), "auto") {
			return keywords.Auto, nil
		}
		return nil, f.invalid(lu, "unknown identifier")
	case lexical.Percentage:
		if !f.percentages {
			return nil, f.invalid(lu, "percentage not allowed")
		}
	}
	if !lu.IsLength() && lu.Type() != lexical.Percentage {
		return nil, f.invalid(lu, "length expected")
	}
	v, _ := numeric(lu)
	return v, nil
}

func (f *Length) CreateFloatValue(unit value.Type, v float64) (value.Value, error) {
	switch unit {
	case value.Number, value.Ems, value.Exs, value.Px, value.Cm, value.Mm,
		value.In, value.Pt, value.Pc:
		return value.NewFloat(unit, v), nil
	case value.Percentage:
		if f.percentages {
			return value.NewFloat(unit, v), nil
		}
	}
	return nil, f.invalidString(unit.String(), "unit not allowed")
}

func (f *Length) CreateStringValue(t value.Type, s string) (value.Value, error) {
	if f.auto && t == value.Ident && strings.EqualFold(s, "auto") {
		return keywords.Auto, nil
	}
	return f.base.CreateStringValue(t, s)
}
