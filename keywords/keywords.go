// Package keywords holds the per-property identifier tables. Tables are built
// at package initialization and never modified afterwards, so they are safe
// for concurrent lookups.
package keywords

import (
	"strings"

	"cssvm/value"
)

// Table maps canonical lower case keywords to shared identifier values.
type Table struct {
	words map[string]value.Value
	order []string
}

func newTable(words ...string) *Table {
	t := &Table{words: make(map[string]value.Value, len(words)), order: words}
	for _, w := range words {
		t.words[w] = value.NewIdent(w)
	}
	return t
}

// Lookup finds keyword s ignoring ASCII case.
func (t *Table) Lookup(s string) (value.Value, bool) {
	v, ok := t.words[strings.ToLower(s)]
	return v, ok
}

// Must returns the value for a keyword known to be in the table.
func (t *Table) Must(s string) value.Value {
	v, ok := t.Lookup(s)
	if !ok {
		panic("keywords: unknown keyword " + s)
	}
	return v
}

// Words returns the table keywords in declaration order.
func (t *Table) Words() []string {
	return append([]string(nil), t.order...)
}

func (t *Table) Len() int { return len(t.order) }

// Shared identifier values.
var (
	Auto         = value.NewIdent("auto")
	None         = value.NewIdent("none")
	Normal       = value.NewIdent("normal")
	Bold         = value.NewIdent("bold")
	Bolder       = value.NewIdent("bolder")
	Lighter      = value.NewIdent("lighter")
	Wider        = value.NewIdent("wider")
	Narrower     = value.NewIdent("narrower")
	Larger       = value.NewIdent("larger")
	Smaller      = value.NewIdent("smaller")
	Medium       = value.NewIdent("medium")
	Visible      = value.NewIdent("visible")
	Inline       = value.NewIdent("inline")
	LTR          = value.NewIdent("ltr")
	CurrentColor = value.NewIdent("currentcolor")
)

var (
	Overflow    = newTable("visible", "hidden", "scroll", "auto")
	Visibility  = newTable("visible", "hidden", "collapse")
	Direction   = newTable("ltr", "rtl")
	UnicodeBidi = newTable("normal", "embed", "bidi-override")
	FontStyle   = newTable("normal", "italic", "oblique")
	FontVariant = newTable("normal", "small-caps")

	Display = newTable(
		"inline", "block", "list-item", "run-in", "compact", "marker",
		"table", "inline-table", "table-row-group", "table-header-group",
		"table-footer-group", "table-row", "table-column-group", "table-column",
		"table-cell", "table-caption", "none",
	)

	// FontStretch lists the absolute widths in ascending order after the
	// keywords normal, wider and narrower.
	FontStretch = newTable(
		"normal", "wider", "narrower",
		"ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
		"semi-expanded", "expanded", "extra-expanded", "ultra-expanded",
	)

	FontWeight     = newTable("normal", "bold", "bolder", "lighter")
	TextDecoration = newTable("underline", "overline", "line-through", "blink")

	Cursor = newTable(
		"auto", "crosshair", "default", "e-resize", "help", "move",
		"n-resize", "ne-resize", "nw-resize", "pointer", "s-resize",
		"se-resize", "sw-resize", "text", "w-resize", "wait",
	)

	// FontFamily holds the generic family names.
	FontFamily = newTable("serif", "sans-serif", "cursive", "fantasy", "monospace", "monospaced")

	// FontSize lists the absolute sizes smallest first, then the relative ones.
	FontSize = newTable(
		"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large",
		"larger", "smaller",
	)

	Paint = newTable("none", "currentcolor")

	SystemColors = newTable(
		"activeborder", "activecaption", "appworkspace", "background",
		"buttonface", "buttonhighlight", "buttonshadow", "buttontext",
		"captiontext", "graytext", "highlight", "highlighttext",
		"inactiveborder", "inactivecaption", "inactivecaptiontext",
		"infobackground", "infotext", "menu", "menutext", "scrollbar",
		"threeddarkshadow", "threedface", "threedhighlight",
		"threedlightshadow", "threedshadow", "window", "windowframe",
		"windowtext",
	)
)

// BasicColors are the sixteen HTML 4 color names.
var BasicColors = map[string][3]uint8{
	"black":   {0, 0, 0},
	"silver":  {192, 192, 192},
	"gray":    {128, 128, 128},
	"white":   {255, 255, 255},
	"maroon":  {128, 0, 0},
	"red":     {255, 0, 0},
	"purple":  {128, 0, 128},
	"fuchsia": {255, 0, 255},
	"green":   {0, 128, 0},
	"lime":    {0, 255, 0},
	"olive":   {128, 128, 0},
	"yellow":  {255, 255, 0},
	"navy":    {0, 0, 128},
	"blue":    {0, 0, 255},
	"teal":    {0, 128, 128},
	"aqua":    {0, 255, 255},
}

// FontWeights are the numeric weights in ascending order.
var FontWeights = [...]int{100, 200, 300, 400, 500, 600, 700, 800, 900}
