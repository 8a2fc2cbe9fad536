package factory

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cssvm/lexical"
	"cssvm/value"
)

// Map is the set of factories known to a style context, keyed by property.
// It is built once and read afterwards.
type Map struct {
	parser    lexical.Parser
	log       *zap.Logger
	factories map[string]Factory
	order     []string
}

// NewMap creates an empty factory map.
func NewMap(p lexical.Parser, log *zap.Logger) *Map {
	if log == nil {
		log = zap.NewNop()
	}
	if p == nil {
		p = lexical.NewTokenParser(log)
	}
	return &Map{parser: p, log: log, factories: make(map[string]Factory)}
}

// Options configure NewDefaultMap.
type Options struct {
	SystemColors SystemColors
}

// NewDefaultMap returns a map holding every property factory of this package.
func NewDefaultMap(p lexical.Parser, log *zap.Logger, opts Options) *Map {
	m := NewMap(p, log)
	p, log = m.parser, m.log
	for _, f := range []Factory{
		NewColor("color", p, log, opts.SystemColors),
		NewCursor(p, log),
		NewDirection(p, log),
		NewDisplay(p, log),
		NewFontFamily(p, log),
		NewFontSize(p, log),
		NewFontStretch(p, log),
		NewFontStyle(p, log),
		NewFontVariant(p, log),
		NewFontWeight(p, log),
		NewTextDecoration(p, log),
		NewUnicodeBidi(p, log),
		NewVisibility(p, log),
		NewOverflow(p, log),
		NewClip(p, log),
		NewPercentageLength("width", p, log),
		NewPercentageLength("height", p, log),
		NewPaint("fill", p, log, opts.SystemColors),
		NewPaint("stroke", p, log, opts.SystemColors),
		NewLength("stroke-width", p, log),
	} {
		if err := m.Register(f); err != nil {
			// names above are distinct
			panic(err)
		}
	}
	return m
}

// Register adds f under its property name.
func (m *Map) Register(f Factory) error {
	name := strings.ToLower(f.PropertyName())
	if _, ok := m.factories[name]; ok {
		return fmt.Errorf("factory for property %q already registered", name)
	}
	m.factories[name] = f
	m.order = append(m.order, name)
	return nil
}

// Get returns the factory for property.
func (m *Map) Get(property string) (Factory, bool) {
	f, ok := m.factories[strings.ToLower(property)]
	return f, ok
}

// Names returns property names in registration order.
func (m *Map) Names() []string {
	return append([]string(nil), m.order...)
}

func (m *Map) Parser() lexical.Parser { return m.parser }

// CreateValue parses text and builds the value for property.
func (m *Map) CreateValue(property, text string) (value.Value, error) {
	f, ok := m.Get(property)
	if !ok {
		return nil, value.NewNotSupported(property, text, "unknown property")
	}
	return FromText(f, text)
}
