package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssvm/css"
	"cssvm/dom"
)

// allRules collects all top-level rules from a stylesheet's Items.
// It does NOT flatten @media blocks.
func allRules(sheet *css.Stylesheet) []css.Rule {
	var rules []css.Rule
	for _, item := range sheet.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

func TestParser_ParseDefaultUserAgent(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	sheet := p.Parse(css.DefaultUserAgent(), "default.css")

	rules := allRules(sheet)
	if len(rules) == 0 {
		t.Fatal("expected rules to be parsed from the built in stylesheet")
	}
	for _, sel := range []string{"h1", "b", "svg"} {
		if len(sheet.RulesBySelector(sel)) == 0 {
			t.Errorf("expected %q selector rule", sel)
		}
	}
	if len(sheet.Rules("print")) <= len(sheet.Rules("screen")) {
		t.Error("expected the print media block to add rules for print only")
	}
}

func TestParser_ElementSelector(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`P { text-indent: 1em; }`))

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	rule := rules[0]
	if rule.Selector.Element != "p" {
		t.Errorf("expected element 'p', got '%s'", rule.Selector.Element)
	}
	if len(rule.Selector.Classes) != 0 || rule.Selector.ID != "" {
		t.Errorf("expected no class or id, got %+v", rule.Selector)
	}

	d, ok := rule.GetProperty("text-indent")
	if !ok {
		t.Fatal("expected text-indent declaration")
	}
	if d.Raw != "1em" || d.Important {
		t.Errorf("expected 1em, got %+v", d)
	}
}

func TestParser_CompoundSelector(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p.note.wide#main::before { color: red; }`))

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d (warnings %v)", len(rules), sheet.Warnings)
	}
	sel := rules[0].Selector
	if sel.Element != "p" || sel.ID != "main" || sel.Pseudo != css.PseudoBefore {
		t.Errorf("unexpected selector %+v", sel)
	}
	if len(sel.Classes) != 2 || sel.Classes[0] != "note" || sel.Classes[1] != "wide" {
		t.Errorf("expected classes note and wide, got %v", sel.Classes)
	}
	if got, want := sel.Specificity(), (css.Specificity{1, 2, 2}); got != want {
		t.Errorf("specificity: got %v, want %v", got, want)
	}
}

func TestParser_UniversalAndPseudo(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`* { color: red; } *::after { color: blue; } em:before { color: green; }`))

	rules := allRules(sheet)
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if !rules[0].Selector.Universal || rules[0].Selector.Specificity() != (css.Specificity{}) {
		t.Errorf("expected universal selector, got %+v", rules[0].Selector)
	}
	if !rules[1].Selector.Universal || rules[1].Selector.Pseudo != css.PseudoAfter {
		t.Errorf("expected universal ::after, got %+v", rules[1].Selector)
	}
	if rules[2].Selector.Element != "em" || rules[2].Selector.Pseudo != css.PseudoBefore {
		t.Errorf("expected em::before, got %+v", rules[2].Selector)
	}
}

func TestParser_Important(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { color: red !important; color: blue; font-weight: bold ! IMPORTANT }`))

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	want := []css.Declaration{
		{Property: "color", Raw: "red", Important: true},
		{Property: "color", Raw: "blue"},
		{Property: "font-weight", Raw: "bold", Important: true},
	}
	got := rules[0].Declarations
	if len(got) != len(want) {
		t.Fatalf("expected %d declarations, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("declaration %d: got %+v, want %+v", i, got[i], want[i])
		}
	}

	// the last declaration wins
	if d, _ := rules[0].GetProperty("color"); d.Raw != "blue" {
		t.Errorf("expected last color declaration, got %+v", d)
	}
}

func TestParser_GroupedSelectors(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`h1, h2 , .title { font-weight: bold; }`))

	rules := allRules(sheet)
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	for i, raw := range []string{"h1", "h2", ".title"} {
		if rules[i].Selector.Raw != raw {
			t.Errorf("rule %d: expected %q, got %q", i, raw, rules[i].Selector.Raw)
		}
		if len(rules[i].Declarations) != 1 {
			t.Errorf("rule %d: expected 1 declaration", i)
		}
	}

	// declarations are not shared between grouped rules
	rules[0].Declarations[0].Raw = "changed"
	if rules[1].Declarations[0].Raw != "bold" {
		t.Error("grouped rules share declarations")
	}
}

func TestParser_DescendantSelector(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`#main .note em { font-style: normal; }`))

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	sel := rules[0].Selector
	if sel.Raw != "#main .note em" || sel.Element != "em" || !sel.IsDescendant() {
		t.Fatalf("unexpected selector %+v", sel)
	}
	anc := sel.Ancestor
	if len(anc.Classes) != 1 || anc.Classes[0] != "note" || anc.Ancestor == nil {
		t.Fatalf("unexpected ancestor %+v", anc)
	}
	if anc.Ancestor.ID != "main" {
		t.Errorf("expected #main at the top, got %+v", anc.Ancestor)
	}
	if got, want := sel.Specificity(), (css.Specificity{1, 1, 1}); got != want {
		t.Errorf("specificity: got %v, want %v", got, want)
	}
}

func TestParser_UnsupportedSelectors(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
		a > b { color: red; }
		a[href] { color: red; }
		a:hover { color: red; }
		p::first-line { color: red; }
		p { color: green; }
	`))

	rules := allRules(sheet)
	if len(rules) != 1 || rules[0].Selector.Raw != "p" {
		t.Fatalf("expected only the p rule, got %+v", rules)
	}
	if len(sheet.Warnings) != 4 {
		t.Errorf("expected 4 warnings, got %v", sheet.Warnings)
	}
}

func TestParser_SkipsOtherAtRules(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
		@import url("other.css");
		@font-face { font-family: "X"; src: url(x.ttf); }
		p { color: red; }
	`))

	if len(sheet.Items) != 1 || sheet.Items[0].Rule == nil {
		t.Fatalf("expected a single rule item, got %+v", sheet.Items)
	}
}

func TestParser_MediaBlocks(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
		p { margin: 0; }
		@media print, screen and (min-width: 10em) {
			p { margin: 1em; }
			.x { margin: 2em; }
		}
		@media not print {
			p { margin: 3em; }
		}
		.test { color: red; }
	`))

	if len(sheet.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(sheet.Items))
	}

	mb := sheet.Items[1].MediaBlock
	if mb == nil {
		t.Fatal("expected second item to be a MediaBlock")
	}
	if len(mb.Queries) != 2 || mb.Queries[0].Type != "print" || mb.Queries[1].Type != "screen" {
		t.Fatalf("unexpected queries %+v", mb.Queries)
	}
	if len(mb.Queries[1].Features) != 0 {
		t.Errorf("parenthesized features must be ignored, got %+v", mb.Queries[1].Features)
	}
	if len(mb.Rules) != 2 {
		t.Errorf("expected 2 rules inside the block, got %d", len(mb.Rules))
	}

	not := sheet.Items[2].MediaBlock
	if not == nil || !not.Queries[0].Negated {
		t.Fatal("expected negated query")
	}

	tests := []struct {
		medium string
		rules  int
	}{
		{"screen", 5},
		{"print", 4},
		{"speech", 3},
	}
	for _, tt := range tests {
		if got := len(sheet.Rules(tt.medium)); got != tt.rules {
			t.Errorf("%s: expected %d rules, got %d", tt.medium, tt.rules, got)
		}
	}

	// Source order is preserved with blocks flattened in place
	rules := sheet.Rules("screen")
	if d, _ := rules[1].GetProperty("margin"); d.Raw != "1em" {
		t.Errorf("expected media rule in second position, got %+v", rules[1])
	}
}

func TestMediaQuery_Evaluate(t *testing.T) {
	tests := []struct {
		name   string
		query  css.MediaQuery
		medium string
		want   bool
	}{
		{"all", css.MediaQuery{Type: "all"}, "print", true},
		{"empty type", css.MediaQuery{}, "print", true},
		{"match", css.MediaQuery{Type: "screen"}, "Screen", true},
		{"mismatch", css.MediaQuery{Type: "screen"}, "print", false},
		{"negated", css.MediaQuery{Type: "screen", Negated: true}, "print", true},
		{"and not", css.MediaQuery{Type: "all", Features: []css.MediaFeature{{Name: "print", Negated: true}}}, "print", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Evaluate(tt.medium); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if !(css.MediaQueryList{}).Evaluate("print") {
		t.Error("empty list must match")
	}
}

func TestParser_ParseDeclarations(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	decls := p.ParseDeclarations([]byte(`color: red; Font-Size:  12px !important`))
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %+v", decls)
	}
	if decls[0] != (css.Declaration{Property: "color", Raw: "red"}) {
		t.Errorf("unexpected %+v", decls[0])
	}
	if decls[1] != (css.Declaration{Property: "font-size", Raw: "12px", Important: true}) {
		t.Errorf("unexpected %+v", decls[1])
	}

	if got := p.ParseDeclarations(nil); len(got) != 0 {
		t.Errorf("expected no declarations, got %+v", got)
	}
}

func TestParser_RawValueWhitespace(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	decls := p.ParseDeclarations([]byte("font-family:  \"Times New Roman\" ,\n serif"))
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration, got %+v", decls)
	}
	raw := decls[0].Raw
	if !strings.HasPrefix(raw, `"Times New Roman"`) || !strings.HasSuffix(raw, "serif") || strings.ContainsAny(raw, "\n\t") {
		t.Errorf("unexpected raw %q", raw)
	}
}

func TestSelector_Matches(t *testing.T) {
	doc, err := dom.ParseXML(strings.NewReader(
		`<doc><section id="main"><p class="note wide"><em/></p></section><p class="note"><em/></p></doc>`))
	if err != nil {
		t.Fatal(err)
	}
	elems := doc.Elements()
	// doc, section, p, em, p, em
	if len(elems) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(elems))
	}
	inner, outer := elems[3], elems[5]

	p := css.NewParser(zap.NewNop())
	sheet := p.Parse([]byte(`#main .note em {} .note em {} p.wide {} section p.note {} em {}`))

	tests := []struct {
		selector string
		elem     dom.Element
		want     bool
	}{
		{"#main .note em", inner, true},
		{"#main .note em", outer, false},
		{".note em", outer, true},
		{"p.wide", elems[2], true},
		{"p.wide", elems[4], false},
		{"section p.note", elems[4], false},
		{"em", outer, true},
	}
	for _, tt := range tests {
		rules := sheet.RulesBySelector(tt.selector)
		if len(rules) != 1 {
			t.Fatalf("%s: expected 1 rule, got %d", tt.selector, len(rules))
		}
		if got := rules[0].Selector.Matches(tt.elem); got != tt.want {
			t.Errorf("%s on %s: got %v, want %v", tt.selector, dom.Path(tt.elem), got, tt.want)
		}
	}
}

func TestSpecificity_Less(t *testing.T) {
	tests := []struct {
		a, b css.Specificity
		want bool
	}{
		{css.Specificity{0, 0, 1}, css.Specificity{0, 1, 0}, true},
		{css.Specificity{0, 9, 9}, css.Specificity{1, 0, 0}, true},
		{css.Specificity{1, 0, 0}, css.Specificity{0, 9, 9}, false},
		{css.Specificity{0, 1, 0}, css.Specificity{0, 1, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Less(tt.b); got != tt.want {
			t.Errorf("%v < %v: got %v", tt.a, tt.b, got)
		}
	}
}

func TestStylesheet_String(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { text-indent: 1em; margin: 0 !important; } @media print { a { color: red; } }`))
	output := sheet.String()

	for _, want := range []string{"p {", "  text-indent: 1em;", "  margin: 0 !important;", "@media print {", "  a {", "    color: red;"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}

	// Declarations keep source order
	if strings.Index(output, "text-indent") > strings.Index(output, "margin") {
		t.Errorf("expected source order, got:\n%s", output)
	}

	// Round trip
	again := p.Parse([]byte(output))
	if again.String() != output {
		t.Errorf("round trip mismatch:\n%s\nvs\n%s", output, again.String())
	}
}
