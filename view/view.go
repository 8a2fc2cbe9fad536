// Package view computes styles for document elements: it cascades the
// user agent, user and author sheets into a declaration per element and then
// runs the registered resolvers over it.
//
// A View is not safe for concurrent use.
package view

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssvm/css"
	"cssvm/dom"
	"cssvm/factory"
	"cssvm/resolve"
	"cssvm/value"
)

// ErrUnknownPseudo is returned for pseudo-elements the selector model does
// not know.
var ErrUnknownPseudo = errors.New("unknown pseudo-element")

// Options configure a view.
type Options struct {
	// Medium selects @media blocks, "screen" when empty.
	Medium string
	// UserAgent and User sheets apply to every document.
	UserAgent []*css.Stylesheet
	User      []*css.Stylesheet
	// PresentationAttributes enables attribute hints for documents that
	// provide them.
	PresentationAttributes bool
	// InheritFallback decides what an explicit inherit on the root becomes.
	InheritFallback resolve.Fallback
}

type key struct {
	elt    dom.Element
	pseudo css.PseudoElement
}

type computed struct {
	decl *Declaration
	err  error
}

// sheetRules are the rules of one sheet applying to the medium.
type sheetRules struct {
	origin resolve.Origin
	rules  []css.Rule
}

// View is the computed style machinery for one document.
type View struct {
	id        uuid.UUID
	doc       dom.Document
	hints     dom.PresentationalHints
	factories *factory.Map
	resolvers *resolve.Registry
	parser    *css.Parser
	fallback  resolve.Fallback
	sheets    []sheetRules
	cache     map[key]computed
	fixed     map[key]*Declaration
	log       *zap.Logger
}

// New creates a view over doc. Author sheets are read from the document's
// style elements.
func New(doc dom.Document, factories *factory.Map, resolvers *resolve.Registry, opts Options, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if opts.Medium == "" {
		opts.Medium = "screen"
	}

	v := &View{
		id:        id,
		doc:       doc,
		factories: factories,
		resolvers: resolvers,
		parser:    css.NewParser(log),
		fallback:  opts.InheritFallback,
		cache:     make(map[key]computed),
		fixed:     make(map[key]*Declaration),
		log:       log.Named("view").With(zap.Stringer("view", id)),
	}
	if h, ok := doc.(dom.PresentationalHints); ok && opts.PresentationAttributes {
		v.hints = h
	}

	for _, s := range opts.UserAgent {
		v.sheets = append(v.sheets, sheetRules{resolve.UserAgent, s.Rules(opts.Medium)})
	}
	for _, s := range opts.User {
		v.sheets = append(v.sheets, sheetRules{resolve.User, s.Rules(opts.Medium)})
	}
	for i, text := range doc.StyleSheets() {
		s := v.parser.Parse([]byte(text), fmt.Sprintf("style[%d]", i+1))
		for _, w := range s.Warnings {
			v.log.Debug("Author stylesheet", zap.String("warning", w))
		}
		v.sheets = append(v.sheets, sheetRules{resolve.Author, s.Rules(opts.Medium)})
	}

	v.log.Debug("View created", zap.Int("sheets", len(v.sheets)), zap.String("medium", opts.Medium))
	return v
}

func (v *View) ID() uuid.UUID { return v.id }

func (v *View) Document() dom.Document { return v.doc }

func (v *View) Resolvers() *resolve.Registry { return v.resolvers }

// ComputedStyle implements resolve.View. It returns nil when the style
// cannot be computed.
func (v *View) ComputedStyle(elt dom.Element, pseudo string) resolve.Declaration {
	d, _ := v.Style(elt, pseudo)
	if d == nil {
		return nil
	}
	return d
}

// Style returns the computed style of elt. The declaration is returned even
// when some cascaded declarations were rejected; the error then lists them.
func (v *View) Style(elt dom.Element, pseudo string) (*Declaration, error) {
	if elt == nil {
		return nil, errors.New("no element")
	}
	pe, ok := css.ParsePseudoElement(pseudo)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPseudo, pseudo)
	}
	k := key{elt, pe}
	if d, ok := v.fixed[k]; ok {
		return d, nil
	}
	if c, ok := v.cache[k]; ok {
		return c.decl, c.err
	}

	d := newComputed(func() *Declaration {
		p := dom.ParentElement(elt)
		if p == nil {
			return nil
		}
		pd, _ := v.Style(p, "")
		return pd
	})
	err := v.cascade(elt, pe, d)
	v.computeRelativeValues(elt, pe, d)
	v.cache[k] = computed{decl: d, err: err}
	return d, err
}

// SetComputedStyle installs d as the permanent computed style of elt. Dispose
// does not remove it.
func (v *View) SetComputedStyle(elt dom.Element, pseudo string, d *Declaration) error {
	pe, ok := css.ParsePseudoElement(pseudo)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPseudo, pseudo)
	}
	v.fixed[key{elt, pe}] = d
	return nil
}

// Dispose drops every cached computed style.
func (v *View) Dispose() {
	clear(v.cache)
}

// candidate is a declaration competing in the cascade.
type candidate struct {
	decl   css.Declaration
	origin resolve.Origin
	rank   int
	inline bool
	spec   css.Specificity
	seq    int
}

// rank orders origins and priorities: user agent, user, author, author
// important, user important.
func rank(origin resolve.Origin, important bool) int {
	switch {
	case origin == resolve.User && important:
		return 4
	case origin == resolve.Author && important:
		return 3
	case origin == resolve.Author:
		return 2
	case origin == resolve.User:
		return 1
	default:
		return 0
	}
}

// cascade collects the declarations applying to elt and installs them in
// ascending precedence so that the winner is written last.
func (v *View) cascade(elt dom.Element, pe css.PseudoElement, d *Declaration) error {
	var cands []candidate
	add := func(decl css.Declaration, origin resolve.Origin, spec css.Specificity, inline bool) {
		cands = append(cands, candidate{
			decl:   decl,
			origin: origin,
			rank:   rank(origin, decl.Important),
			inline: inline,
			spec:   spec,
			seq:    len(cands),
		})
	}

	// Presentation attributes act as author rules of zero specificity
	// preceding all author sheets.
	var hints []css.Declaration
	if v.hints != nil && pe == css.PseudoNone {
		for _, name := range v.factories.Names() {
			if text, ok := v.hints.PresentationAttribute(elt, name); ok {
				hints = append(hints, css.Declaration{Property: name, Raw: text})
			}
		}
	}
	hinted := false
	for _, s := range v.sheets {
		if s.origin == resolve.Author && !hinted {
			for _, h := range hints {
				add(h, resolve.Author, css.Specificity{}, false)
			}
			hinted = true
		}
		for _, r := range s.rules {
			if r.Selector.Pseudo != pe || !r.Selector.Matches(elt) {
				continue
			}
			spec := r.Selector.Specificity()
			for _, decl := range r.Declarations {
				add(decl, s.origin, spec, false)
			}
		}
	}
	if !hinted {
		for _, h := range hints {
			add(h, resolve.Author, css.Specificity{}, false)
		}
	}

	if pe == css.PseudoNone {
		if style, ok := elt.Attribute("style"); ok {
			for _, decl := range v.parser.ParseDeclarations([]byte(style)) {
				add(decl, resolve.Author, css.Specificity{}, true)
			}
		}
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		if a.inline != b.inline {
			if a.inline {
				return 1
			}
			return -1
		}
		if a.spec.Less(b.spec) {
			return -1
		}
		if b.spec.Less(a.spec) {
			return 1
		}
		return cmp.Compare(a.seq, b.seq)
	})

	var errs error
	for _, c := range cands {
		if err := v.apply(d, c.decl, c.origin); err != nil {
			v.log.Warn("Skipping declaration",
				zap.String("element", dom.Path(elt)),
				zap.String("property", c.decl.Property),
				zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// ApplyDeclarations installs decls into d in order. Invalid declarations are
// skipped; their errors are combined in the result.
func (v *View) ApplyDeclarations(d *Declaration, decls []css.Declaration, origin resolve.Origin) error {
	var errs error
	for _, decl := range decls {
		errs = multierr.Append(errs, v.apply(d, decl, origin))
	}
	return errs
}

// apply installs one declaration. Properties without a factory are ignored.
func (v *View) apply(d *Declaration, decl css.Declaration, origin resolve.Origin) error {
	f, ok := v.factories.Get(decl.Property)
	if !ok {
		v.log.Debug("Ignoring unknown property", zap.String("property", decl.Property))
		return nil
	}
	lu, err := factory.Parse(f, decl.Raw)
	if err != nil {
		return err
	}
	return factory.Install(f, lu, target{d: d, origin: origin}, decl.Important)
}

// computeRelativeValues fills in missing properties and runs every resolver
// over the cascaded declaration.
func (v *View) computeRelativeValues(elt dom.Element, pe css.PseudoElement, d *Declaration) {
	root := dom.ParentElement(elt) == nil
	for _, r := range v.resolvers.All() {
		name := r.PropertyName()
		cv, ok := d.Stored(name)
		switch {
		case !ok && (!r.IsInherited() || root):
			cv = r.DefaultValue()
			d.SetProperty(name, cv, false, resolve.UserAgent)
		case !ok:
			cv = value.Inherit
			d.SetProperty(name, cv, false, resolve.UserAgent)
		case root && value.IsInherit(cv) && v.fallback == resolve.FallbackDefault:
			e := d.entries[name]
			cv = r.DefaultValue()
			d.SetProperty(name, cv, e.important, e.origin)
		}
		e := d.entries[name]
		r.Resolve(elt, pe.String(), v, d, cv, e.important, e.origin)
	}
}
