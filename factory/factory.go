// Package factory turns lexical units into typed values, one factory per
// property. Every factory validates its property's grammar and fails with an
// InvalidAccess *value.Error on anything else.
package factory

import (
	"go.uber.org/zap"

	"cssvm/lexical"
	"cssvm/value"
)

// Factory builds values for one property.
type Factory interface {
	// PropertyName returns the bound property.
	PropertyName() string
	// Parser returns the token parser used for textual input.
	Parser() lexical.Parser
	// CreateValue builds a value from a lexical unit chain.
	CreateValue(lu *lexical.Unit) (value.Value, error)
	// CreateFloatValue builds a value from an already decoded number.
	CreateFloatValue(unit value.Type, f float64) (value.Value, error)
	// CreateStringValue builds a value from an already decoded string.
	CreateStringValue(t value.Type, s string) (value.Value, error)
}

// Target receives installed values.
type Target interface {
	SetPropertyValue(name string, v value.Value, important bool)
}

// Parse tokenizes text with the factory's parser. Syntax errors are reported
// as InvalidAccess for the factory's property.
func Parse(f Factory, text string) (*lexical.Unit, error) {
	lu, err := f.Parser().ParsePropertyValue(text)
	if err != nil {
		return nil, &value.Error{
			Code:     value.InvalidAccess,
			Property: f.PropertyName(),
			Token:    text,
			Reason:   "malformed value",
			Err:      err,
		}
	}
	return lu, nil
}

// FromText parses text with the factory's parser and builds the value.
func FromText(f Factory, text string) (value.Value, error) {
	lu, err := Parse(f, text)
	if err != nil {
		return nil, err
	}
	return f.CreateValue(lu)
}

// Install builds the value for lu and stores it in dst under the factory's
// property.
func Install(f Factory, lu *lexical.Unit, dst Target, important bool) error {
	v, err := f.CreateValue(lu)
	if err != nil {
		return err
	}
	dst.SetPropertyValue(f.PropertyName(), v, important)
	return nil
}

// base carries what every factory shares. Its CreateFloatValue and
// CreateStringValue report NotSupported.
type base struct {
	property string
	parser   lexical.Parser
	log      *zap.Logger
}

func newBase(property string, p lexical.Parser, log *zap.Logger) base {
	if log == nil {
		log = zap.NewNop()
	}
	if p == nil {
		p = lexical.NewTokenParser(log)
	}
	return base{property: property, parser: p, log: log.Named("factory")}
}

func (b base) PropertyName() string   { return b.property }
func (b base) Parser() lexical.Parser { return b.parser }

func (b base) CreateFloatValue(unit value.Type, _ float64) (value.Value, error) {
	return nil, value.NewNotSupported(b.property, unit.String(), "property takes no numeric value")
}

func (b base) CreateStringValue(t value.Type, s string) (value.Value, error) {
	return nil, value.NewNotSupported(b.property, s, "property takes no "+t.String()+" value")
}

// invalid logs and builds the InvalidAccess error for unit lu.
func (b base) invalid(lu *lexical.Unit, reason string) error {
	tok := lu.Text()
	b.log.Debug("Rejected value",
		zap.String("property", b.property),
		zap.String("token", tok),
		zap.String("reason", reason))
	return value.NewInvalidAccess(b.property, tok, reason)
}

func (b base) invalidString(s, reason string) error {
	b.log.Debug("Rejected value",
		zap.String("property", b.property),
		zap.String("token", s),
		zap.String("reason", reason))
	return value.NewInvalidAccess(b.property, s, reason)
}

// single fails when anything follows lu.
func (b base) single(lu *lexical.Unit) error {
	if lu.Next() != nil {
		return b.invalid(lu.Next(), "unexpected trailing unit")
	}
	return nil
}

var lexicalUnits = map[lexical.Type]value.Type{
	lexical.Em:          value.Ems,
	lexical.Ex:          value.Exs,
	lexical.Pixel:       value.Px,
	lexical.Inch:        value.In,
	lexical.Centimeter:  value.Cm,
	lexical.Millimeter:  value.Mm,
	lexical.Point:       value.Pt,
	lexical.Pica:        value.Pc,
	lexical.Percentage:  value.Percentage,
	lexical.Degree:      value.Deg,
	lexical.Gradian:     value.Grad,
	lexical.Radian:      value.Rad,
	lexical.Millisecond: value.Ms,
	lexical.Second:      value.S,
	lexical.Hertz:       value.Hz,
	lexical.Kilohertz:   value.KHz,
}

// numeric converts a numeric lexical unit into a float value.
func numeric(lu *lexical.Unit) (value.Float, bool) {
	switch lu.Type() {
	case lexical.Integer:
		return value.NewFloat(value.Number, float64(lu.IntegerValue())), true
	case lexical.Real:
		return value.NewFloat(value.Number, lu.FloatValue()), true
	case lexical.Dimension:
		return value.NewDimension(lu.FloatValue(), lu.DimensionUnitText()), true
	}
	if t, ok := lexicalUnits[lu.Type()]; ok {
		return value.NewFloat(t, lu.FloatValue()), true
	}
	return value.Float{}, false
}
