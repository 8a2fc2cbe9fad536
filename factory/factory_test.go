package factory_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssvm/factory"
	"cssvm/lexical"
	"cssvm/value"
)

func newMap(t *testing.T) *factory.Map {
	t.Helper()
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	return factory.NewDefaultMap(nil, log, factory.Options{})
}

func mustCreate(t *testing.T, m *factory.Map, property, text string) value.Value {
	t.Helper()
	v, err := m.CreateValue(property, text)
	if err != nil {
		t.Fatalf("%s: %q: unexpected error: %v", property, text, err)
	}
	return v
}

func expectInvalid(t *testing.T, m *factory.Map, property, text string) *value.Error {
	t.Helper()
	_, err := m.CreateValue(property, text)
	if !errors.Is(err, value.ErrInvalidAccess) {
		t.Fatalf("%s: %q: expected InvalidAccess, got %v", property, text, err)
	}
	var verr *value.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *value.Error, got %T", err)
	}
	if verr.Property != property {
		t.Errorf("expected property %q in error, got %q", property, verr.Property)
	}
	return verr
}

func TestRect_FourArguments(t *testing.T) {
	m := newMap(t)
	f := factory.NewRect("clip-box", nil, zap.NewNop())

	v, err := factory.FromText(f, "rect(10px, 20px, 30px, 40px)")
	if err != nil {
		t.Fatal(err)
	}
	r, err := v.RectValue()
	if err != nil {
		t.Fatal(err)
	}
	px := func(f float64) value.Value { return value.NewFloat(value.Px, f) }
	if !r.Top().Equal(px(10)) || !r.Right().Equal(px(20)) || !r.Bottom().Equal(px(30)) || !r.Left().Equal(px(40)) {
		t.Errorf("unexpected rect %s", r)
	}

	for _, text := range []string{
		"rect(10px, 20px, 30px)",
		"rect(10px, 20px, 30px, 40px, 50px)",
		"rect(10px 20px 30px 40px)",
		"rect(10px, 20px, 30px, red)",
		"rect(10px, 20px, 30px, auto)",
		"foo(10px, 20px, 30px, 40px)",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := factory.FromText(f, text)
			if !errors.Is(err, value.ErrInvalidAccess) {
				t.Errorf("expected InvalidAccess, got %v", err)
			}
		})
	}

	// clip accepts auto at both levels
	if v := mustCreate(t, m, "clip", "auto"); v.CSSText() != "auto" {
		t.Errorf("unexpected clip %s", v)
	}
	if v := mustCreate(t, m, "clip", "rect(auto, 1em, auto, 2pt)"); v.CSSText() != "rect(auto, 1em, auto, 2pt)" {
		t.Errorf("unexpected clip %s", v)
	}
}

func TestColor_Names(t *testing.T) {
	m := newMap(t)

	tests := []struct {
		text string
		want string
	}{
		{"Silver", "rgb(192, 192, 192)"},
		{"silver", "rgb(192, 192, 192)"},
		{"AQUA", "rgb(0, 255, 255)"},
		{"#c0c0c0", "rgb(192, 192, 192)"},
		{"rgb(10%, 20%, 30%)", "rgb(10%, 20%, 30%)"},
		{"rgb(1.5, 2, 3)", "rgb(1.5, 2, 3)"},
		{"ButtonFace", "buttonface"},
		{"inherit", "inherit"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := mustCreate(t, m, "color", tt.text).CSSText(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	for _, text := range []string{"notacolor", "rgb(1, 2)", "rgb(1 2 3)", "rgb(1, 2, 3, 4)", "rgb(1, 2, red)", "10px", "red blue"} {
		t.Run("invalid "+text, func(t *testing.T) {
			expectInvalid(t, m, "color", text)
		})
	}
}

func TestColor_SystemColorTable(t *testing.T) {
	m := factory.NewDefaultMap(nil, zap.NewNop(), factory.Options{
		SystemColors: factory.SystemColors{"menu": {1, 2, 3}},
	})
	if got := mustCreate(t, m, "color", "Menu").CSSText(); got != "rgb(1, 2, 3)" {
		t.Errorf("configured system color: got %q", got)
	}
	if got := mustCreate(t, m, "color", "window").CSSText(); got != "window" {
		t.Errorf("unconfigured system color: got %q", got)
	}
}

func TestFontWeight(t *testing.T) {
	m := newMap(t)

	for _, text := range []string{"100", "400", "900", "bold", "BOLDER", "lighter", "normal", "700.0"} {
		mustCreate(t, m, "font-weight", text)
	}

	verr := expectInvalid(t, m, "font-weight", "550")
	if verr.Token != "550" {
		t.Errorf("expected offending token 550, got %q", verr.Token)
	}
	for _, text := range []string{"0", "1000", "50", "heavy", "10px", "bold bold"} {
		expectInvalid(t, m, "font-weight", text)
	}

	f, _ := m.Get("font-weight")
	if v, err := f.CreateFloatValue(value.Number, 300); err != nil || v.CSSText() != "300" {
		t.Errorf("CreateFloatValue(300): %v, %v", v, err)
	}
	if _, err := f.CreateFloatValue(value.Number, 350); !errors.Is(err, value.ErrInvalidAccess) {
		t.Errorf("CreateFloatValue(350): expected InvalidAccess, got %v", err)
	}
}

func TestCursor(t *testing.T) {
	m := newMap(t)

	v := mustCreate(t, m, "cursor", "url(a.png), url(b.png), pointer")
	want := value.NewList(',', value.NewURI("a.png"), value.NewURI("b.png"), value.NewIdent("pointer"))
	if !v.Equal(want) {
		t.Errorf("got %s, want %s", v, want)
	}

	if v := mustCreate(t, m, "cursor", "Wait"); v.Len() != 1 {
		t.Errorf("single keyword should yield a one item list, got %s", v)
	}

	for _, text := range []string{
		"url(a.png), url(b.png)",
		"url(a.png) pointer",
		"url(a.png), 10px",
		"pointer, wait",
		"hand",
	} {
		t.Run(text, func(t *testing.T) {
			expectInvalid(t, m, "cursor", text)
		})
	}
}

func TestFontFamily(t *testing.T) {
	m := newMap(t)

	v := mustCreate(t, m, "font-family", `Times New Roman, "Arial Black", Arial, serif`)
	want := value.NewList(',',
		value.NewString("Times New Roman"),
		value.NewString("Arial Black"),
		value.NewString("Arial"),
		value.NewIdent("serif"),
	)
	if !v.Equal(want) {
		t.Errorf("got %s, want %s", v, want)
	}

	if v := mustCreate(t, m, "font-family", "Monospaced"); !v.Equal(value.NewList(',', value.NewIdent("monospaced"))) {
		t.Errorf("generic family: got %s", v)
	}

	for _, text := range []string{"Arial,", "Arial, 10px", `"a" "b"`} {
		expectInvalid(t, m, "font-family", text)
	}
}

func TestTextDecoration(t *testing.T) {
	m := newMap(t)

	if v := mustCreate(t, m, "text-decoration", "underline Blink"); v.CSSText() != "underline blink" {
		t.Errorf("got %s", v)
	}
	if v := mustCreate(t, m, "text-decoration", "none"); v.CSSText() != "none" {
		t.Errorf("got %s", v)
	}
	for _, text := range []string{"none underline", "underline, blink", "wavy", "1px"} {
		expectInvalid(t, m, "text-decoration", text)
	}
}

func TestIdentifierFactories(t *testing.T) {
	m := newMap(t)

	tests := []struct {
		property, good, bad string
	}{
		{"overflow", "Hidden", "clip"},
		{"visibility", "collapse", "none"},
		{"display", "table-cell", "flex"},
		{"direction", "RTL", "up"},
		{"unicode-bidi", "bidi-override", "isolate"},
		{"font-style", "italic", "bold"},
		{"font-variant", "small-caps", "all-caps"},
		{"font-stretch", "semi-expanded", "wide"},
	}
	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			mustCreate(t, m, tt.property, tt.good)
			expectInvalid(t, m, tt.property, tt.bad)
			expectInvalid(t, m, tt.property, "10px")
			if v := mustCreate(t, m, tt.property, "inherit"); !value.IsInherit(v) {
				t.Errorf("inherit: got %s", v)
			}
		})
	}
}

func TestLengthFactories(t *testing.T) {
	m := newMap(t)

	if v := mustCreate(t, m, "width", "auto"); v.CSSText() != "auto" {
		t.Errorf("got %s", v)
	}
	if v := mustCreate(t, m, "width", "50%"); v.PrimitiveType() != value.Percentage {
		t.Errorf("got %s", v)
	}
	expectInvalid(t, m, "stroke-width", "50%")
	expectInvalid(t, m, "stroke-width", "auto")
	expectInvalid(t, m, "stroke-width", "10deg")
	if v := mustCreate(t, m, "stroke-width", "3"); v.PrimitiveType() != value.Number {
		t.Errorf("got %s", v)
	}

	f, _ := m.Get("stroke-width")
	if _, err := f.CreateFloatValue(value.Deg, 1); !errors.Is(err, value.ErrInvalidAccess) {
		t.Errorf("expected InvalidAccess, got %v", err)
	}
	if _, err := f.CreateStringValue(value.String, "x"); !errors.Is(err, value.ErrNotSupported) {
		t.Errorf("expected NotSupported, got %v", err)
	}
}

func TestFontSize(t *testing.T) {
	m := newMap(t)
	for _, text := range []string{"12pt", "150%", "1.2em", "larger", "XX-Small"} {
		mustCreate(t, m, "font-size", text)
	}
	for _, text := range []string{"huge", "auto", "12pt 10pt"} {
		expectInvalid(t, m, "font-size", text)
	}
}

func TestPaint(t *testing.T) {
	m := newMap(t)

	tests := []struct {
		text, want string
	}{
		{"none", "none"},
		{"currentColor", "currentcolor"},
		{"red", "rgb(255, 0, 0)"},
		{"url(#grad)", "url(#grad)"},
		{"url(#grad) none", "url(#grad) none"},
		{"url(#grad) blue", "url(#grad) rgb(0, 0, 255)"},
	}
	for _, tt := range tests {
		if got := mustCreate(t, m, "fill", tt.text).CSSText(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.text, got, tt.want)
		}
	}
	for _, text := range []string{"url(#a) url(#b)", "url(#a) inherit", "none red", "bogus"} {
		expectInvalid(t, m, "stroke", text)
	}
}

func TestRoundTrip(t *testing.T) {
	m := newMap(t)

	inputs := map[string][]string{
		"color":           {"rgb(1, 2, 3)", "olive", "rgb(10%, 0%, 100%)", "menutext"},
		"cursor":          {"url(a.png), url(b.png), pointer", "crosshair", `url("a\A b"), pointer`, `url("tab\9 x.cur"), auto`},
		"font-family":     {`"Times New Roman", serif`, "Arial", `"say \"hi\""`, `"a\A b"`, `"line\D\A end", serif`},
		"font-weight":     {"bolder", "600"},
		"font-size":       {"12.5pt", "75%", "x-large"},
		"text-decoration": {"underline overline", "none"},
		"clip":            {"rect(1px, auto, 3mm, 4in)"},
		"width":           {"-0.5em", "3furlong"},
		"fill":            {"url(my%20file.svg#x) currentcolor"},
		"visibility":      {"inherit"},
	}

	for property, texts := range inputs {
		for _, text := range texts {
			t.Run(property+"/"+text, func(t *testing.T) {
				v := mustCreate(t, m, property, text)
				again := mustCreate(t, m, property, v.CSSText())
				if !v.Equal(again) {
					t.Errorf("round trip changed value: %s -> %s", v, again)
				}
			})
		}
	}
}

func TestRoundTrip_ControlCharacters(t *testing.T) {
	m := newMap(t)

	v := mustCreate(t, m, "font-family", `"a\A b"`)
	if got, want := v.CSSText(), `"a\a b"`; got != want {
		t.Errorf("CSSText() = %q, want %q", got, want)
	}

	f, ok := m.Get("font-family")
	if !ok {
		t.Fatal("font-family factory missing")
	}
	for _, s := range []string{"a\nb", "a\r\nb", "\x01\x1f", "trailing\n"} {
		v, err := f.CreateStringValue(value.String, s)
		if err != nil {
			t.Fatalf("CreateStringValue(%q) error: %v", s, err)
		}
		again := mustCreate(t, m, "font-family", v.CSSText())
		if !v.Equal(again) {
			t.Errorf("%q reparsed as %s", s, again)
		}
	}
}

type target map[string]value.Value

func (tg target) SetPropertyValue(name string, v value.Value, _ bool) { tg[name] = v }

func TestInstall(t *testing.T) {
	p := lexical.NewTokenParser(zap.NewNop())
	f := factory.NewFontWeight(p, zap.NewNop())

	lu, err := p.ParsePropertyValue("bold")
	if err != nil {
		t.Fatal(err)
	}
	tg := target{}
	if err := factory.Install(f, lu, tg, true); err != nil {
		t.Fatal(err)
	}
	if v := tg["font-weight"]; v == nil || v.CSSText() != "bold" {
		t.Errorf("installed %v", v)
	}

	lu, _ = p.ParsePropertyValue("550")
	if err := factory.Install(f, lu, tg, false); err == nil {
		t.Error("expected error")
	}
	if tg["font-weight"].CSSText() != "bold" {
		t.Error("failed install must leave target untouched")
	}
}

func TestMap(t *testing.T) {
	m := newMap(t)

	if _, err := m.CreateValue("no-such-property", "1px"); !errors.Is(err, value.ErrNotSupported) {
		t.Errorf("expected NotSupported, got %v", err)
	}
	if err := m.Register(factory.NewCursor(nil, nil)); err == nil {
		t.Error("expected duplicate registration error")
	}
	verr := expectInvalid(t, m, "color", "rgb(1, 2, 3")
	if !errors.Is(verr, lexical.ErrSyntax) {
		t.Errorf("expected wrapped syntax error, got %v", verr)
	}
	if names := m.Names(); len(names) == 0 || names[0] != "color" {
		t.Errorf("unexpected names %v", names)
	}
}
