package lexical

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	tstrconv "github.com/tdewolff/parse/v2/strconv"
	"go.uber.org/zap"
)

// ErrSyntax is wrapped by every error the token parser returns.
var ErrSyntax = errors.New("css syntax error")

// Parser produces lexical unit chains from property value text.
type Parser interface {
	ParsePropertyValue(text string) (*Unit, error)
}

// TokenParser is the Parser backed by the tdewolff CSS lexer.
type TokenParser struct {
	log *zap.Logger
}

// NewTokenParser creates a new token parser.
func NewTokenParser(log *zap.Logger) *TokenParser {
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenParser{log: log.Named("lexical")}
}

type token struct {
	tt   css.TokenType
	data string
}

// ParsePropertyValue tokenizes text and returns the head of the unit chain.
func (p *TokenParser) ParsePropertyValue(text string) (*Unit, error) {
	tokens, err := tokenize(text)
	if err != nil {
		p.log.Debug("Tokenizer failed", zap.String("text", text), zap.Error(err))
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty property value: %w", ErrSyntax)
	}

	b := &builder{tokens: tokens}
	units, err := b.expr(false)
	if err != nil {
		p.log.Debug("Unable to parse property value", zap.String("text", text), zap.Error(err))
		return nil, err
	}
	if b.pos < len(b.tokens) {
		return nil, fmt.Errorf("unexpected %q: %w", b.tokens[b.pos].data, ErrSyntax)
	}
	return link(units), nil
}

func tokenize(text string) ([]token, error) {
	l := css.NewLexer(parse.NewInputString(text))
	var tokens []token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("%v: %w", err, ErrSyntax)
			}
			return tokens, nil
		case css.WhitespaceToken, css.CommentToken, css.EmptyToken:
			continue
		}
		tokens = append(tokens, token{tt: tt, data: string(data)})
	}
}

type builder struct {
	tokens []token
	pos    int
}

// expr reads units until the end of input or, inside a function, until the
// closing parenthesis which it consumes.
func (b *builder) expr(inFunction bool) ([]*Unit, error) {
	var units []*Unit
	for b.pos < len(b.tokens) {
		t := b.tokens[b.pos]
		b.pos++

		var (
			u   *Unit
			err error
		)
		switch t.tt {
		case css.RightParenthesisToken:
			if !inFunction {
				return nil, fmt.Errorf("unbalanced ')': %w", ErrSyntax)
			}
			return units, nil
		case css.CommaToken:
			u = &Unit{typ: OperatorComma}
		case css.DelimToken:
			u, err = operator(t.data)
		case css.NumberToken:
			u, err = number(t.data)
		case css.PercentageToken:
			var f float64
			f, err = parseFloat(strings.TrimSuffix(t.data, "%"))
			u = &Unit{typ: Percentage, f: f}
		case css.DimensionToken:
			u, err = dimension(t.data)
		case css.IdentToken:
			if strings.EqualFold(t.data, "inherit") {
				u = &Unit{typ: Inherit}
			} else {
				u = &Unit{typ: Ident, s: unescape(t.data)}
			}
		case css.StringToken:
			u = &Unit{typ: StringLiteral, s: unquote(t.data)}
		case css.URLToken:
			u = &Unit{typ: URI, s: urlText(t.data)}
		case css.HashToken:
			u, err = hashColor(t.data)
		case css.FunctionToken:
			u, err = b.function(strings.ToLower(strings.TrimSuffix(t.data, "(")))
		case css.BadStringToken:
			err = fmt.Errorf("unterminated string %s: %w", t.data, ErrSyntax)
		case css.BadURLToken:
			err = fmt.Errorf("malformed url %s: %w", t.data, ErrSyntax)
		default:
			err = fmt.Errorf("unexpected %q: %w", t.data, ErrSyntax)
		}
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if inFunction {
		return nil, fmt.Errorf("missing ')': %w", ErrSyntax)
	}
	return units, nil
}

func (b *builder) function(name string) (*Unit, error) {
	args, err := b.expr(true)
	if err != nil {
		return nil, err
	}
	params := link(args)

	switch name {
	case "rgb":
		return &Unit{typ: RGBColor, params: params}, nil
	case "rect":
		return &Unit{typ: RectFunction, params: params}, nil
	case "url":
		if len(args) != 1 || args[0].typ != StringLiteral {
			return nil, fmt.Errorf("malformed url(): %w", ErrSyntax)
		}
		return &Unit{typ: URI, s: args[0].s}, nil
	case "attr":
		if len(args) != 1 || args[0].typ != Ident {
			return nil, fmt.Errorf("malformed attr(): %w", ErrSyntax)
		}
		return &Unit{typ: Attr, s: args[0].s, params: params}, nil
	case "counter", "counters":
		return &Unit{typ: Counter, s: name, params: params}, nil
	}
	return &Unit{typ: Function, s: name, params: params}, nil
}

func operator(d string) (*Unit, error) {
	switch d {
	case "/":
		return &Unit{typ: OperatorSlash}, nil
	case "+":
		return &Unit{typ: OperatorPlus}, nil
	case "-":
		return &Unit{typ: OperatorMinus}, nil
	case "*":
		return &Unit{typ: OperatorMultiply}, nil
	}
	return nil, fmt.Errorf("unexpected %q: %w", d, ErrSyntax)
}

func number(d string) (*Unit, error) {
	if !strings.ContainsAny(d, ".eE") {
		i, n := tstrconv.ParseInt([]byte(d))
		if n == len(d) && n > 0 {
			return &Unit{typ: Integer, i: int(i), f: float64(i)}, nil
		}
	}
	f, err := parseFloat(d)
	if err != nil {
		return nil, err
	}
	return &Unit{typ: Real, f: f}, nil
}

func dimension(d string) (*Unit, error) {
	n := numberPrefix(d)
	f, err := parseFloat(d[:n])
	if err != nil {
		return nil, err
	}
	text := d[n:]
	if t, ok := dimensionUnits[strings.ToLower(text)]; ok {
		return &Unit{typ: t, f: f}, nil
	}
	return &Unit{typ: Dimension, f: f, s: text}, nil
}

func parseFloat(s string) (float64, error) {
	f, n := tstrconv.ParseFloat([]byte(s))
	if n == 0 || n != len(s) {
		return 0, fmt.Errorf("bad number %q: %w", s, ErrSyntax)
	}
	return f, nil
}

// numberPrefix returns the length of the CSS number at the start of s. The
// exponent is only taken when digits follow, so "2em" stays a dimension.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// hashColor turns #rgb and #rrggbb into an rgb unit with three integer
// arguments separated by commas.
func hashColor(d string) (*Unit, error) {
	hex := strings.TrimPrefix(d, "#")
	var channels [3]int
	switch len(hex) {
	case 3:
		for i := range 3 {
			v, ok := hexDigit(hex[i])
			if !ok {
				return nil, fmt.Errorf("bad color %q: %w", d, ErrSyntax)
			}
			channels[i] = v*16 + v
		}
	case 6:
		for i := range 3 {
			hi, ok1 := hexDigit(hex[2*i])
			lo, ok2 := hexDigit(hex[2*i+1])
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("bad color %q: %w", d, ErrSyntax)
			}
			channels[i] = hi*16 + lo
		}
	default:
		return nil, fmt.Errorf("bad color %q: %w", d, ErrSyntax)
	}

	params := link([]*Unit{
		NewInteger(channels[0]), {typ: OperatorComma},
		NewInteger(channels[1]), {typ: OperatorComma},
		NewInteger(channels[2]),
	})
	return &Unit{typ: RGBColor, params: params}, nil
}

func hexDigit(c byte) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// urlText extracts the address from a url(...) token.
func urlText(d string) string {
	s := d
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
		return unquote(s)
	}
	return unescape(s)
}

// unquote strips matching quotes and resolves escapes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return unescape(s)
}

// unescape resolves CSS backslash escapes. An escaped newline is removed.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		if s[i] == '\n' {
			continue
		}
		if _, ok := hexDigit(s[i]); !ok {
			sb.WriteByte(s[i])
			continue
		}
		r := 0
		j := i
		for ; j < len(s) && j < i+6; j++ {
			v, ok := hexDigit(s[j])
			if !ok {
				break
			}
			r = r*16 + v
		}
		if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
			j++
		}
		if r == 0 || r > 0x10FFFF {
			r = 0xFFFD
		}
		sb.WriteRune(rune(r))
		i = j - 1
	}
	return sb.String()
}
