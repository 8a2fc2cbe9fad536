package factory

import (
	"strings"

	"go.uber.org/zap"

	"cssvm/keywords"
	"cssvm/lexical"
	"cssvm/value"
)

// Cursor accepts any number of "url(...)," entries followed by exactly one
// cursor keyword. The result is always a list.
type Cursor struct {
	base
}

func NewCursor(p lexical.Parser, log *zap.Logger) *Cursor {
	return &Cursor{base: newBase("cursor", p, log)}
}

func (f *Cursor) CreateValue(lu *lexical.Unit) (value.Value, error) {
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
	for lu != nil && lu.Type() == lexical.URI {
		items = append(items, value.NewURI(lu.StringValue()))
		lu = lu.Next()
		if lu == nil {
			return nil, f.invalid(lu, "cursor keyword expected after url")
		}
		if lu.Type() != lexical.OperatorComma {
			return nil, f.invalid(lu, "comma expected")
		}
		lu = lu.Next()
		if lu == nil {
			return nil, f.invalid(lu, "cursor keyword expected")
		}
	}

	if lu.Type() != lexical.Ident {
		return nil, f.invalid(lu, "cursor keyword expected")
	}
	v, ok := keywords.Cursor.Lookup(lu.StringValue())
	if !ok {
		return nil, f.invalid(lu, "unknown cursor")
	}
	if err := f.single(lu); err != nil {
		return nil, err
	}
	return value.NewList(',', append(items, v)...), nil
}

func (f *Cursor) CreateStringValue(t value.Type, s string) (value.Value, error) {
	if t == value.Ident {
		if v, ok := keywords.Cursor.Lookup(s); ok {
			return value.NewList(',', v), nil
		}
	}
	return nil, f.invalidString(s, "unknown cursor")
}

// TextDecoration accepts none or a space separated list of decoration
// keywords.
type TextDecoration struct {
	base
}

func NewTextDecoration(p lexical.Parser, log *zap.Logger) *TextDecoration {
	return &TextDecoration{base: newBase("text-decoration", p, log)}
}

func (f *TextDecoration) CreateValue(lu *lexical.Unit) (value.Value, error) {
	if lu == nil {
		return nil, f.invalid(lu, "empty value")
	}
	switch {
	case lu.Type() == lexical.Inherit:
		if err := f.single(lu); err != nil {
			return nil, err
		}
		return value.Inherit, nil
	case lu.Type() == lexical.Ident && strings.EqualFold(lu.StringValue(), "none"):
		if err := f.single(lu); err != nil {
			return nil, err
		}
		return keywords.None, nil
	}

	var items []value.Value
	for ; lu != nil; lu = lu.Next() {
		if lu.Type() != lexical.Ident {
			return nil, f.invalid(lu, "decoration keyword expected")
		}
		v, ok := keywords.TextDecoration.Lookup(lu.StringValue())
		if !ok {
			return nil, f.invalid(lu, "unknown decoration")
		}
		items = append(items, v)
	}
	return value.NewList(' ', items...), nil
}

func (f *TextDecoration) CreateStringValue(t value.Type, s string) (value.Value, error) {
	if t == value.Ident {
		if strings.EqualFold(s, "none") {
			return keywords.None, nil
		}
		if v, ok := keywords.TextDecoration.Lookup(s); ok {
			return value.NewList(' ', v), nil
		}
	}
	return nil, f.invalidString(s, "unknown decoration")
}
