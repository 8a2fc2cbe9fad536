package view_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssvm/css"
	"cssvm/dom"
	"cssvm/factory"
	"cssvm/resolve"
	"cssvm/value"
	"cssvm/view"
)

func newLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func newView(t *testing.T, doc dom.Document, opts view.Options) *view.View {
	t.Helper()
	log := newLogger(t)
	return view.New(doc,
		factory.NewDefaultMap(nil, log, factory.Options{}),
		resolve.NewDefaultRegistry(resolve.Options{InheritFallback: opts.InheritFallback}),
		opts, log)
}

func parseHTML(t *testing.T, text string) dom.Document {
	t.Helper()
	doc, err := dom.ParseHTML(strings.NewReader(text), "")
	require.NoError(t, err)
	return doc
}

func parseXML(t *testing.T, text string) dom.Document {
	t.Helper()
	doc, err := dom.ParseXML(strings.NewReader(text))
	require.NoError(t, err)
	return doc
}

func sheet(text string) *css.Stylesheet {
	return css.NewParser(nil).Parse([]byte(text))
}

func byID(t *testing.T, doc dom.Document, id string) dom.Element {
	t.Helper()
	for _, e := range doc.Elements() {
		if dom.ID(e) == id {
			return e
		}
	}
	t.Fatalf("no element with id %q", id)
	return nil
}

func byTag(t *testing.T, doc dom.Document, tag string) dom.Element {
	t.Helper()
	for _, e := range doc.Elements() {
		if e.TagName() == tag {
			return e
		}
	}
	t.Fatalf("no %s element", tag)
	return nil
}

func text(t *testing.T, v *view.View, e dom.Element, pseudo, property string) string {
	t.Helper()
	d, _ := v.Style(e, pseudo)
	require.NotNil(t, d)
	pv := d.PropertyValue(property)
	require.NotNil(t, pv, property)
	return pv.CSSText()
}

const page = `<html><head><style>
p { color: red; font-weight: bold }
#x { color: blue }
.big { font-size: 2em }
p em { font-weight: bolder }
div { visibility: hidden }
p::before { color: green }
</style></head>
<body style="font-size: 10px"><div id="d"><p id="x" class="big">a<em id="e">b</em></p><p id="y" style="color: rgb(1, 2, 3); font-weight: nonsense">c</p></div></body></html>`

func TestView_Cascade(t *testing.T) {
	doc := parseHTML(t, page)
	v := newView(t, doc, view.Options{})

	x, y, e := byID(t, doc, "x"), byID(t, doc, "y"), byID(t, doc, "e")

	assert.Equal(t, "rgb(0, 0, 255)", text(t, v, x, "", "color"), "id beats type")
	assert.Equal(t, "rgb(1, 2, 3)", text(t, v, y, "", "color"), "inline beats sheets")
	assert.Equal(t, "rgb(0, 0, 255)", text(t, v, e, "", "color"), "inherited through lookup")
	assert.Equal(t, "inline", text(t, v, byID(t, doc, "d"), "", "display"), "non inherited default")

	// the invalid inline font-weight is skipped and reported
	d, err := v.Style(y, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, value.ErrInvalidAccess))
	assert.Equal(t, "bold", d.PropertyValue("font-weight").CSSText())
}

func TestView_RelativeValues(t *testing.T) {
	doc := parseHTML(t, page)
	v := newView(t, doc, view.Options{})

	x, e := byID(t, doc, "x"), byID(t, doc, "e")

	assert.Equal(t, "10px", text(t, v, byTag(t, doc, "body"), "", "font-size"))
	assert.Equal(t, "10px", text(t, v, byID(t, doc, "d"), "", "font-size"))
	assert.Equal(t, "20px", text(t, v, x, "", "font-size"))
	assert.Equal(t, "20px", text(t, v, e, "", "font-size"))

	assert.Equal(t, "800", text(t, v, e, "", "font-weight"), "bolder steps from bold")
	assert.Equal(t, "hidden", text(t, v, x, "", "visibility"))
	assert.Equal(t, "medium", text(t, v, byTag(t, doc, "html"), "", "font-size"))
}

func TestView_PseudoElements(t *testing.T) {
	doc := parseHTML(t, page)
	v := newView(t, doc, view.Options{})
	x := byID(t, doc, "x")

	assert.Equal(t, "rgb(0, 128, 0)", text(t, v, x, "::before", "color"))
	assert.Equal(t, "rgb(0, 128, 0)", text(t, v, x, "before", "color"))
	assert.Equal(t, "rgb(0, 0, 255)", text(t, v, x, "", "color"))

	_, err := v.Style(x, "::marker")
	assert.ErrorIs(t, err, view.ErrUnknownPseudo)
	assert.Nil(t, v.ComputedStyle(x, "::marker"))
	assert.Nil(t, v.ComputedStyle(nil, ""))
}

func TestView_OriginsAndPriority(t *testing.T) {
	doc := parseHTML(t, `<html><body>
<p id="a" style="color: red">a</p>
<p id="b" style="color: red !important">b</p>
<p id="c">c</p>
<style>p { font-style: italic !important } #c { font-style: normal; color: green }</style>
</body></html>`)

	v := newView(t, doc, view.Options{
		UserAgent: []*css.Stylesheet{sheet(`p { color: silver !important; display: block; font-style: oblique }`)},
		User:      []*css.Stylesheet{sheet(`#a { color: yellow !important } #b { color: black }`)},
	})

	a, b, c := byID(t, doc, "a"), byID(t, doc, "b"), byID(t, doc, "c")

	assert.Equal(t, "rgb(255, 255, 0)", text(t, v, a, "", "color"), "user important beats inline")
	assert.Equal(t, "rgb(255, 0, 0)", text(t, v, b, "", "color"), "author important beats user normal")
	assert.Equal(t, "rgb(0, 128, 0)", text(t, v, c, "", "color"), "author normal beats user agent important")
	assert.Equal(t, "block", text(t, v, c, "", "display"))
	assert.Equal(t, "italic", text(t, v, c, "", "font-style"), "author important beats higher specificity")

	d, _ := v.Style(a, "")
	assert.Equal(t, resolve.User, d.PropertyOrigin("color"))
	assert.True(t, d.PropertyPriority("color"))
	cd, _ := v.Style(c, "")
	assert.Equal(t, resolve.UserAgent, cd.PropertyOrigin("display"))
	assert.Equal(t, resolve.Author, cd.PropertyOrigin("color"))
}

func TestView_Media(t *testing.T) {
	const doc = `<html><head><style>p { color: red } @media print { p { color: green } }</style></head><body><p id="p">x</p></body></html>`

	screen := parseHTML(t, doc)
	v := newView(t, screen, view.Options{})
	assert.Equal(t, "rgb(255, 0, 0)", text(t, v, byID(t, screen, "p"), "", "color"))

	printed := parseHTML(t, doc)
	v = newView(t, printed, view.Options{Medium: "print"})
	assert.Equal(t, "rgb(0, 128, 0)", text(t, v, byID(t, printed, "p"), "", "color"))
}

const drawing = `<svg xmlns="http://www.w3.org/2000/svg">
<style>rect { stroke: blue }</style>
<g id="g" fill="red" stroke-width="3"><rect id="r" fill="green" stroke="black"/><circle id="c"/></g>
</svg>`

func TestView_PresentationAttributes(t *testing.T) {
	doc := parseXML(t, drawing)
	v := newView(t, doc, view.Options{PresentationAttributes: true})

	r, c := byID(t, doc, "r"), byID(t, doc, "c")
	assert.Equal(t, "rgb(0, 128, 0)", text(t, v, r, "", "fill"))
	assert.Equal(t, "rgb(0, 0, 255)", text(t, v, r, "", "stroke"), "author sheet beats presentation attribute")
	assert.Equal(t, "rgb(255, 0, 0)", text(t, v, c, "", "fill"))
	assert.Equal(t, "3", text(t, v, c, "", "stroke-width"))

	off := parseXML(t, drawing)
	v = newView(t, off, view.Options{})
	assert.Equal(t, "rgb(0, 0, 0)", text(t, v, byID(t, off, "c"), "", "fill"))
	assert.Equal(t, "1", text(t, v, byID(t, off, "c"), "", "stroke-width"))
}

func TestView_RootInherit(t *testing.T) {
	const doc = `<doc style="color: inherit; visibility: inherit"><item/></doc>`

	keep := parseXML(t, doc)
	v := newView(t, keep, view.Options{})
	assert.Equal(t, "inherit", text(t, v, keep.Root(), "", "color"))
	assert.Equal(t, "inherit", text(t, v, keep.Root(), "", "visibility"))

	def := parseXML(t, doc)
	v = newView(t, def, view.Options{InheritFallback: resolve.FallbackDefault})
	assert.Equal(t, "rgb(0, 0, 0)", text(t, v, def.Root(), "", "color"))
	assert.Equal(t, "visible", text(t, v, def.Root(), "", "visibility"))
	assert.Equal(t, "visible", text(t, v, byTag(t, def, "item"), "", "visibility"))
}

func TestView_CacheAndDispose(t *testing.T) {
	doc := parseHTML(t, page)
	v := newView(t, doc, view.Options{})
	x := byID(t, doc, "x")

	first, _ := v.Style(x, "")
	again, _ := v.Style(x, "")
	assert.Same(t, first, again)

	v.Dispose()
	fresh, _ := v.Style(x, "")
	assert.NotSame(t, first, fresh)
	assert.Equal(t, first.CSSText(), fresh.CSSText())

	fixed := view.NewDeclaration()
	fixed.SetProperty("color", value.NewIdent("red"), false, resolve.Author)
	require.NoError(t, v.SetComputedStyle(x, "", fixed))
	v.Dispose()
	got, err := v.Style(x, "")
	require.NoError(t, err)
	assert.Same(t, fixed, got)

	assert.Error(t, v.SetComputedStyle(x, ":hover", fixed))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", v.ID().String())
}

func TestView_ApplyDeclarations(t *testing.T) {
	doc := parseHTML(t, page)
	v := newView(t, doc, view.Options{})

	d := view.NewDeclaration()
	err := v.ApplyDeclarations(d, []css.Declaration{
		{Property: "color", Raw: "Silver"},
		{Property: "font-weight", Raw: "550"},
		{Property: "margin", Raw: "0"},
		{Property: "cursor", Raw: "url(a.png)"},
		{Property: "visibility", Raw: "hidden", Important: true},
	}, resolve.User)

	require.Error(t, err)
	assert.True(t, errors.Is(err, value.ErrInvalidAccess))
	assert.Equal(t, []string{"color", "visibility"}, d.Names())
	assert.Equal(t, "rgb(192, 192, 192)", d.PropertyValue("color").CSSText())
	assert.True(t, d.PropertyPriority("visibility"))
	assert.Equal(t, resolve.User, d.PropertyOrigin("visibility"))
	assert.Equal(t, "color: rgb(192, 192, 192); visibility: hidden !important;", d.CSSText())
}

func TestDeclaration_Basics(t *testing.T) {
	d := view.NewDeclaration()
	d.SetProperty("Color", value.NewIdent("red"), false, resolve.Author)
	d.SetProperty("display", value.NewIdent("block"), false, resolve.UserAgent)
	d.SetProperty("color", value.NewIdent("blue"), true, resolve.User)

	assert.Equal(t, []string{"color", "display"}, d.Names())
	assert.Equal(t, "blue", d.PropertyValue("COLOR").CSSText())

	d.RemoveProperty("color")
	assert.Equal(t, 1, d.Len())
	assert.Nil(t, d.PropertyValue("color"))
	assert.False(t, d.PropertyPriority("color"))

	d.SetProperty("cursor", value.Inherit, false, resolve.Author)
	stored, ok := d.Stored("cursor")
	assert.True(t, ok)
	assert.True(t, value.IsInherit(stored))
	assert.True(t, value.IsInherit(d.PropertyValue("cursor")), "no parent keeps inherit")
}
