package factory

import (
	"go.uber.org/zap"

	"cssvm/keywords"
	"cssvm/lexical"
	"cssvm/value"
)

// Identifier accepts one keyword from a fixed table, or inherit.
type Identifier struct {
	base
	table *keywords.Table
}

// NewIdentifier creates a keyword factory for property backed by table.
func NewIdentifier(property string, table *keywords.Table, p lexical.Parser, log *zap.Logger) *Identifier {
	return &Identifier{base: newBase(property, p, log), table: table}
}

func NewOverflow(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("overflow", keywords.Overflow, p, log)
}

func NewVisibility(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("visibility", keywords.Visibility, p, log)
}

func NewDisplay(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("display", keywords.Display, p, log)
}

func NewDirection(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("direction", keywords.Direction, p, log)
}

func NewUnicodeBidi(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("unicode-bidi", keywords.UnicodeBidi, p, log)
}

func NewFontStyle(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("font-style", keywords.FontStyle, p, log)
}

func NewFontVariant(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("font-variant", keywords.FontVariant, p, log)
}

func NewFontStretch(p lexical.Parser, log *zap.Logger) *Identifier {
	return NewIdentifier("font-stretch", keywords.FontStretch, p, log)
}

func (f *Identifier) CreateValue(lu *lexical.Unit) (value.Value, error) {
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
		if v, ok := f.table.Lookup(lu.StringValue()); ok {
			return v, nil
		}
		return nil, f.invalid(lu, "unknown identifier")
	}
	return nil, f.invalid(lu, "identifier expected")
}

func (f *Identifier) CreateStringValue(t value.Type, s string) (value.Value, error) {
	if t != value.Ident {
		return nil, f.invalidString(s, "identifier expected")
	}
	if v, ok := f.table.Lookup(s); ok {
		return v, nil
	}
	return nil, f.invalidString(s, "unknown identifier")
}
