package resolve

import (
	"fmt"
	"strings"

	"cssvm/keywords"
	"cssvm/value"
)

// Registry holds the resolvers of a view in registration order. It is filled
// at view construction and only read afterwards.
type Registry struct {
	resolvers map[string]Resolver
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register adds r for property name.
func (g *Registry) Register(name string, r Resolver) error {
	name = strings.ToLower(name)
	if _, ok := g.resolvers[name]; ok {
		return fmt.Errorf("resolver for property %q already registered", name)
	}
	g.resolvers[name] = r
	g.order = append(g.order, name)
	return nil
}

func (g *Registry) Get(name string) (Resolver, bool) {
	r, ok := g.resolvers[strings.ToLower(name)]
	return r, ok
}

// Names returns registered property names in order.
func (g *Registry) Names() []string {
	return append([]string(nil), g.order...)
}

// All returns resolvers in registration order.
func (g *Registry) All() []Resolver {
	out := make([]Resolver, 0, len(g.order))
	for _, n := range g.order {
		out = append(out, g.resolvers[n])
	}
	return out
}

// Options configure NewDefaultRegistry.
type Options struct {
	MediumFontSize        float64
	PixelUnitToMillimeter float64
	InheritFallback       Fallback
}

func black() value.Value {
	zero := value.NewFloat(value.Number, 0)
	return value.NewRGBColor(zero, zero, zero)
}

// NewDefaultRegistry registers a resolver for every property the default
// factory map knows.
func NewDefaultRegistry(opts Options) *Registry {
	g := NewRegistry()
	for _, r := range []Resolver{
		NewSimple("color", true, black()),
		NewSimple("cursor", true, keywords.Auto),
		NewSimple("direction", true, keywords.LTR),
		NewSimple("display", false, keywords.Inline),
		NewSimple("font-family", true, value.NewList(',', value.NewIdent("serif"))),
		NewFontSize(opts.MediumFontSize, opts.PixelUnitToMillimeter),
		NewFontStretch(),
		NewSimple("font-style", true, keywords.Normal),
		NewSimple("font-variant", true, keywords.Normal),
		NewFontWeight(),
		NewSimple("text-decoration", false, keywords.None),
		NewSimple("unicode-bidi", false, keywords.Normal),
		NewVisibility(opts.InheritFallback),
		NewSimple("overflow", false, keywords.Visible),
		NewSimple("clip", false, keywords.Auto),
		NewSimple("width", false, keywords.Auto),
		NewSimple("height", false, keywords.Auto),
		NewSimple("fill", true, black()),
		NewSimple("stroke", true, keywords.None),
		NewSimple("stroke-width", true, value.NewFloat(value.Number, 1)),
	} {
		if err := g.Register(r.PropertyName(), r); err != nil {
			panic(err)
		}
	}
	return g
}
