package factory

import (
	"strings"

	"go.uber.org/zap"

	"cssvm/keywords"
	"cssvm/lexical"
	"cssvm/value"
)

// Rect accepts rect(top, right, bottom, left) with length arguments.
type Rect struct {
	base
	length *Length
	auto   bool
}

// NewRect creates a rect factory whose arguments must all be lengths.
func NewRect(property string, p lexical.Parser, log *zap.Logger) *Rect {
	return &Rect{base: newBase(property, p, log), length: NewLength(property, p, log)}
}

// NewClip creates the clip factory: auto, or a rect whose arguments may also
// be auto.
func NewClip(p lexical.Parser, log *zap.Logger) *Rect {
	return &Rect{base: newBase("clip", p, log), length: NewLength("clip", p, log), auto: true}
}

func (f *Rect) CreateValue(lu *lexical.Unit) (value.Value, error) {
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
		if f.auto && strings.EqualFold(lu.StringValue(), "auto") {
			return keywords.Auto, nil
		}
		return nil, f.invalid(lu, "unknown identifier")
	case lexical.RectFunction:
		return f.rect(lu)
	}
	return nil, f.invalid(lu, "rect() expected")
}

func (f *Rect) rect(lu *lexical.Unit) (value.Value, error) {
	var sides [4]value.Value
	p := lu.Parameters()
	for i := range sides {
		if i > 0 {
			if p == nil || p.Type() != lexical.OperatorComma {
				return nil, f.invalid(p, "comma expected in rect()")
			}
			p = p.Next()
		}
		if p == nil {
			return nil, f.invalid(lu, "rect() needs four arguments")
		}
		v, err := f.side(p)
		if err != nil {
			return nil, err
		}
		sides[i] = v
		p = p.Next()
	}
	if p != nil {
		return nil, f.invalid(p, "rect() takes exactly four arguments")
	}
	return value.NewRect(sides[0], sides[1], sides[2], sides[3]), nil
}

func (f *Rect) side(lu *lexical.Unit) (value.Value, error) {
	if f.auto && lu.Type() == lexical.Ident && strings.EqualFold(lu.StringValue(), "auto") {
		return keywords.Auto, nil
	}
	return f.length.length(lu)
}
