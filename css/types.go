package css

import (
	"fmt"
	"io"
	"strings"

	"cssvm/dom"
)

// MediaQuery represents a single parsed @media query.
type MediaQuery struct {
	Raw      string         // Original media query string
	Type     string         // Media type (e.g., "screen", "print") or empty
	Negated  bool           // true if "not" modifier was used on main type
	Features []MediaFeature // Additional "and" conditions
}

// MediaFeature represents a single media condition joined by "and".
type MediaFeature struct {
	Name    string // Feature or media type name
	Negated bool   // true if "not" modifier was used
}

// Evaluate returns true if this media query matches medium. The "all" type
// matches every medium, an empty type behaves like "all".
func (mq MediaQuery) Evaluate(medium string) bool {
	typeMatches := mediumMatches(mq.Type, medium)
	if mq.Negated {
		typeMatches = !typeMatches
	}
	if !typeMatches {
		return false
	}

	// Features are joined with AND
	for _, f := range mq.Features {
		featureMatches := mediumMatches(f.Name, medium)
		if f.Negated {
			featureMatches = !featureMatches
		}
		if !featureMatches {
			return false
		}
	}
	return true
}

func mediumMatches(name, medium string) bool {
	switch name = strings.ToLower(name); name {
	case "", "all":
		return true
	default:
		return name == strings.ToLower(medium)
	}
}

// MediaQueryList is a comma separated list of media queries. It matches when
// any of its queries does; an empty list matches everything.
type MediaQueryList []MediaQuery

func (l MediaQueryList) Evaluate(medium string) bool {
	if len(l) == 0 {
		return true
	}
	for _, q := range l {
		if q.Evaluate(medium) {
			return true
		}
	}
	return false
}

// String returns the raw query texts joined by commas.
func (l MediaQueryList) String() string {
	raws := make([]string, 0, len(l))
	for _, q := range l {
		raws = append(raws, q.Raw)
	}
	return strings.Join(raws, ", ")
}

// Declaration is a single property declaration in source order.
type Declaration struct {
	Property  string // Lowercased property name
	Raw       string // Value text without the priority
	Important bool   // true when declared !important
}

// PseudoElement represents which pseudo-element a rule applies to.
type PseudoElement int

const (
	PseudoNone   PseudoElement = iota // No pseudo-element
	PseudoBefore                      // ::before
	PseudoAfter                       // ::after
)

// String returns the CSS representation of the pseudo-element.
func (p PseudoElement) String() string {
	switch p {
	case PseudoBefore:
		return "::before"
	case PseudoAfter:
		return "::after"
	default:
		return ""
	}
}

// ParsePseudoElement maps a pseudo-element name with or without leading
// colons to its constant.
func ParsePseudoElement(s string) (PseudoElement, bool) {
	switch strings.ToLower(strings.TrimLeft(s, ":")) {
	case "":
		return PseudoNone, true
	case "before":
		return PseudoBefore, true
	case "after":
		return PseudoAfter, true
	}
	return PseudoNone, false
}

// Specificity counts ids, classes and type selectors. Comparison is
// lexicographic.
type Specificity [3]int

// Less reports whether s sorts before o.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// Selector represents a parsed CSS selector with its components.
type Selector struct {
	Raw       string        // Original selector string
	Element   string        // Element name (e.g., "p", "h1") or empty
	Universal bool          // true for "*"
	ID        string        // Id without hash or empty
	Classes   []string      // Class names without dots
	Pseudo    PseudoElement // Pseudo-element if present
	Ancestor  *Selector     // Ancestor selector for descendant selectors (e.g., "p code" -> Ancestor is "p")
}

// IsSimple returns true if this selector constrains anything at all.
func (s Selector) IsSimple() bool {
	return s.Universal || s.Element != "" || s.ID != "" || len(s.Classes) > 0
}

// IsDescendant returns true if this is a descendant selector.
func (s Selector) IsDescendant() bool {
	return s.Ancestor != nil
}

// Specificity sums ids, classes and types over the whole compound selector.
// Pseudo-elements count as types.
func (s Selector) Specificity() Specificity {
	var sp Specificity
	for cur := &s; cur != nil; cur = cur.Ancestor {
		if cur.ID != "" {
			sp[0]++
		}
		sp[1] += len(cur.Classes)
		if cur.Element != "" {
			sp[2]++
		}
		if cur.Pseudo != PseudoNone {
			sp[2]++
		}
	}
	return sp
}

// Matches reports whether e (and its ancestors for descendant selectors)
// satisfies the selector. Pseudo-elements are matched by the caller.
func (s Selector) Matches(e dom.Element) bool {
	if e == nil || !s.matchesSelf(e) {
		return false
	}
	if s.Ancestor == nil {
		return true
	}
	for p := dom.ParentElement(e); p != nil; p = dom.ParentElement(p) {
		if s.Ancestor.Matches(p) {
			return true
		}
	}
	return false
}

func (s Selector) matchesSelf(e dom.Element) bool {
	if s.Element != "" && !strings.EqualFold(s.Element, e.TagName()) {
		return false
	}
	if s.ID != "" && dom.ID(e) != s.ID {
		return false
	}
	for _, c := range s.Classes {
		if !dom.HasClass(e, c) {
			return false
		}
	}
	return true
}

// Rule represents a single CSS rule (selector + declarations).
type Rule struct {
	Selector     Selector      // Parsed selector
	Declarations []Declaration // Declarations in source order
	SourceLine   int           // Line number in source for error reporting
}

// GetProperty returns the last declaration for a property.
func (r Rule) GetProperty(name string) (Declaration, bool) {
	name = strings.ToLower(name)
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == name {
			return r.Declarations[i], true
		}
	}
	return Declaration{}, false
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule or MediaBlock is non-nil.
type StylesheetItem struct {
	Rule       *Rule       // A plain rule (selector + declarations)
	MediaBlock *MediaBlock // A @media block containing nested rules
}

// MediaBlock represents a @media block with its queries and nested rules.
type MediaBlock struct {
	Queries MediaQueryList
	Rules   []Rule
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Warnings for unsupported features
}

// Rules returns the rules applying to medium in source order, with matching
// media blocks flattened in place.
func (s *Stylesheet) Rules(medium string) []Rule {
	if s == nil {
		return nil
	}
	var rules []Rule
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			rules = append(rules, *item.Rule)
		case item.MediaBlock != nil && item.MediaBlock.Queries.Evaluate(medium):
			rules = append(rules, item.MediaBlock.Rules...)
		}
	}
	return rules
}

// RulesBySelector returns all top-level rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector.Raw == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Declarations keep their source order.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector.Raw)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeDeclarations(w, rule.Declarations, indent+"  ")
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

func writeDeclarations(w io.Writer, decls []Declaration, indent string) (int, error) {
	var total int
	for _, d := range decls {
		prio := ""
		if d.Important {
			prio = " !important"
		}
		n, err := fmt.Fprintf(w, "%s%s: %s%s;\n", indent, d.Property, d.Raw, prio)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Queries)
	total += n
	if err != nil {
		return total, err
	}
	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
