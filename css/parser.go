package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if p.atEnd(parser) {
				return sheet
			}

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			if atRule == "@media" {
				queries := p.parseMediaQueries(parser.Values())
				rules := p.parseMediaBlockRules(parser, sheet)
				p.log.Debug("Parsed @media block", zap.Stringer("query", queries), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{Queries: queries, Rules: rules},
				})
				continue
			}
			// Skip other @-rules with blocks (@font-face, @page, ...)
			p.skipAtRuleBlock(parser)
			sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+atRule)
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case css.AtRuleGrammar:
			// Simple @-rule without block (e.g., @import, @charset)
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.BeginRulesetGrammar:
			sheet.Items = append(sheet.Items, p.parseRuleset(parser, data, sheet)...)
		}
	}
}

// ParseDeclarations parses the body of a style attribute.
func (p *Parser) ParseDeclarations(data []byte) []Declaration {
	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, true)

	var decls []Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.atEnd(parser) {
				return decls
			}
		case css.DeclarationGrammar:
			if d, ok := p.parseDeclaration(data, parser.Values()); ok {
				decls = append(decls, d)
			}
		}
	}
}

// atEnd reports whether the parser is exhausted. Recoverable errors are
// logged and parsing goes on.
func (p *Parser) atEnd(parser *css.Parser) bool {
	err := parser.Err()
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	p.log.Debug("CSS parse error", zap.Error(err))
	return false
}

// parseRuleset reads the declarations of the ruleset just opened and creates
// one rule per supported selector in the group.
func (p *Parser) parseRuleset(parser *css.Parser, data []byte, sheet *Stylesheet) []StylesheetItem {
	selectors := p.parseSelectors(data, parser.Values())
	decls := p.parseDeclarations(parser)

	var items []StylesheetItem
	for _, selStr := range selectors {
		sel := p.parseSelector(selStr, sheet)
		if !sel.IsSimple() {
			continue
		}
		rule := Rule{
			Selector:     sel,
			Declarations: append([]Declaration(nil), decls...),
		}
		items = append(items, StylesheetItem{Rule: &rule})
	}
	return items
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	// Split by comma for grouped selectors
	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if p.atEnd(parser) {
				return decls
			}

		case css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar:
			if d, ok := p.parseDeclaration(data, parser.Values()); ok {
				decls = append(decls, d)
			}

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) are not supported
			continue
		}
	}
}

// parseDeclaration builds a declaration from the property name and value
// tokens, splitting off a trailing !important.
func (p *Parser) parseDeclaration(name []byte, tokens []css.Token) (Declaration, bool) {
	tokens = trimWhitespace(tokens)
	if len(tokens) > 0 && tokens[0].TokenType == css.ColonToken {
		tokens = trimWhitespace(tokens[1:])
	}

	d := Declaration{Property: strings.ToLower(strings.TrimSpace(string(name)))}
	if n := len(tokens); n >= 2 &&
		tokens[n-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[n-1].Data), "important") {
		i := n - 2
		for i >= 0 && tokens[i].TokenType == css.WhitespaceToken {
			i--
		}
		if i >= 0 && tokens[i].TokenType == css.DelimToken && string(tokens[i].Data) == "!" {
			d.Important = true
			tokens = trimWhitespace(tokens[:i])
		}
	}

	d.Raw = rawText(tokens)
	if d.Property == "" || d.Raw == "" {
		p.log.Debug("Skipping empty declaration", zap.String("property", d.Property))
		return d, false
	}
	return d, true
}

func trimWhitespace(tokens []css.Token) []css.Token {
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// rawText joins tokens collapsing whitespace runs into a single space.
func rawText(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

// parseSelector parses a single selector string into a Selector.
func (p *Parser) parseSelector(selStr string, sheet *Stylesheet) Selector {
	selStr = strings.TrimSpace(selStr)
	sel := Selector{Raw: selStr}

	// Check for unsupported selector patterns first
	if strings.ContainsAny(selStr, "+~>") {
		// Sibling/child combinators
		sheet.Warnings = append(sheet.Warnings, "unsupported combinator selector: "+selStr)
		p.log.Debug("Skipping combinator selector", zap.String("selector", selStr))
		return sel
	}
	if strings.Contains(selStr, "[") {
		// Attribute selector
		sheet.Warnings = append(sheet.Warnings, "unsupported attribute selector: "+selStr)
		p.log.Debug("Skipping attribute selector", zap.String("selector", selStr))
		return sel
	}

	parts := strings.Fields(selStr)
	if len(parts) == 1 {
		return p.parseSimpleSelector(parts[0], sheet)
	}
	return p.parseDescendantSelector(selStr, parts, sheet)
}

// parseDescendantSelector parses a descendant selector like "p code" or
// "#main .note em". Any unsupported part rejects the whole selector.
func (p *Parser) parseDescendantSelector(selStr string, parts []string, sheet *Stylesheet) Selector {
	var ancestor *Selector
	for i, part := range parts {
		s := p.parseSimpleSelector(part, sheet)
		if !s.IsSimple() {
			return Selector{Raw: selStr}
		}
		if i < len(parts)-1 && s.Pseudo != PseudoNone {
			sheet.Warnings = append(sheet.Warnings, "pseudo-element not in last position: "+selStr)
			p.log.Debug("Skipping selector", zap.String("selector", selStr))
			return Selector{Raw: selStr}
		}
		s.Ancestor = ancestor
		if i > 0 {
			s.Raw = strings.Join(parts[:i+1], " ")
		}
		ancestor = &s
	}
	sel := *ancestor
	sel.Raw = selStr
	return sel
}

// parseSimpleSelector parses a compound selector: an optional element name or
// "*", any number of .class and #id parts and an optional pseudo-element.
func (p *Parser) parseSimpleSelector(selStr string, sheet *Stylesheet) Selector {
	selStr = strings.TrimSpace(selStr)
	sel := Selector{Raw: selStr}

	remaining := selStr
	if before, pseudo, found := strings.Cut(selStr, "::"); found {
		pe, ok := ParsePseudoElement(pseudo)
		if !ok || pe == PseudoNone {
			sheet.Warnings = append(sheet.Warnings, "unsupported pseudo-element: "+selStr)
			p.log.Debug("Skipping unsupported pseudo-element", zap.String("selector", selStr))
			return sel
		}
		sel.Pseudo, remaining = pe, before
	} else if before, pseudo, found := strings.Cut(remaining, ":"); found {
		// Single colon - old style pseudo-element or an unsupported pseudo-class
		pe, ok := ParsePseudoElement(pseudo)
		if !ok || pe == PseudoNone {
			sheet.Warnings = append(sheet.Warnings, "unsupported pseudo-class: "+selStr)
			p.log.Debug("Skipping pseudo-class selector", zap.String("selector", selStr))
			return sel
		}
		sel.Pseudo, remaining = pe, before
	}

	if remaining == "" {
		// "::before" alone applies to every element
		sel.Universal = sel.Pseudo != PseudoNone
		return sel
	}

	// Element or universal part runs up to the first '.' or '#'
	head := remaining
	if i := strings.IndexAny(remaining, ".#"); i >= 0 {
		head, remaining = remaining[:i], remaining[i:]
	} else {
		remaining = ""
	}
	switch head {
	case "":
	case "*":
		sel.Universal = true
	default:
		if !isName(head) {
			sheet.Warnings = append(sheet.Warnings, "unsupported selector: "+selStr)
			return Selector{Raw: selStr}
		}
		sel.Element = strings.ToLower(head)
	}

	for remaining != "" {
		kind := remaining[0]
		rest := remaining[1:]
		end := strings.IndexAny(rest, ".#")
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		remaining = rest[end:]
		if !isName(name) {
			sheet.Warnings = append(sheet.Warnings, "unsupported selector: "+selStr)
			p.log.Debug("Skipping malformed selector", zap.String("selector", selStr))
			return Selector{Raw: selStr}
		}
		if kind == '#' {
			if sel.ID != "" && sel.ID != name {
				// Can never match, keep the rule out entirely
				return Selector{Raw: selStr}
			}
			sel.ID = name
		} else {
			sel.Classes = append(sel.Classes, name)
		}
	}
	return sel
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r == '-' || r == '_':
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= 0x80:
		default:
			return false
		}
	}
	return true
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.atEnd(parser) {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseMediaQueries parses a comma separated media query list.
func (p *Parser) parseMediaQueries(tokens []css.Token) MediaQueryList {
	var list MediaQueryList
	start := 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].TokenType != css.CommaToken {
			continue
		}
		if mq, ok := p.parseMediaQuery(tokens[start:i]); ok {
			list = append(list, mq)
		}
		start = i + 1
	}
	return list
}

// parseMediaQuery parses queries like "print", "not screen" or
// "screen and not print". Parenthesized media features are ignored.
func (p *Parser) parseMediaQuery(tokens []css.Token) (MediaQuery, bool) {
	mq := MediaQuery{Raw: rawText(trimWhitespace(tokens))}
	if mq.Raw == "" {
		return mq, false
	}

	var idents []string
	depth := 0
	for _, t := range tokens {
		switch t.TokenType {
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		case css.IdentToken:
			if depth == 0 {
				idents = append(idents, strings.ToLower(string(t.Data)))
			}
		}
	}
	if len(idents) == 0 {
		return mq, true
	}

	i := 0
	switch idents[i] {
	case "not":
		mq.Negated = true
		i++
	case "only":
		i++
	}

	if i < len(idents) && idents[i] != "and" {
		mq.Type = idents[i]
		i++
	}

	// Parse "and [not] feature" pairs
	for i < len(idents) {
		if idents[i] != "and" {
			i++
			continue
		}
		i++
		if i >= len(idents) {
			break
		}
		feature := MediaFeature{}
		if idents[i] == "not" {
			feature.Negated = true
			i++
			if i >= len(idents) {
				break
			}
		}
		feature.Name = idents[i]
		mq.Features = append(mq.Features, feature)
		i++
	}
	return mq, true
}

// parseMediaBlockRules parses rules inside an @media block and returns them.
func (p *Parser) parseMediaBlockRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if p.atEnd(parser) {
				return rules
			}

		case css.EndAtRuleGrammar:
			return rules

		case css.BeginAtRuleGrammar:
			p.skipAtRuleBlock(parser)

		case css.BeginRulesetGrammar:
			for _, item := range p.parseRuleset(parser, data, sheet) {
				rules = append(rules, *item.Rule)
			}
		}
	}
}
