package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// NoFilter is the literal for "no filter".
const NoFilter = "NO_FILTER"

// ErrSyntax is returned for malformed filter text.
var ErrSyntax = errors.New("filter syntax error")

// Parse reads the function-call filter language:
//
//	and(eq("color", "red"), gt("rating", 95))
//	in("country", ["Italy", 'France'])
//	NO_FILTER
//
// Strings may use double or single quotes. An empty input or NO_FILTER yields the empty expression.
func Parse(src string) (Expression, error) {
	src = strings.TrimSpace(src)
	if src == "" || src == NoFilter {
		return Expression{}, nil
	}

	p := &parser{}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanRawStrings
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail("%s at %s", msg, s.Pos())
	}
	p.next()

	e := p.expr()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail("unexpected %s after expression", p.describe())
	}
	if p.err != nil {
		return Expression{}, p.err
	}
	return e, nil
}

type parser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
	}
}

func (p *parser) describe() string {
	if p.tok == scanner.EOF {
		return "end of input"
	}
	return strconv.Quote(p.s.TokenText())
}

func (p *parser) expect(r rune) {
	if p.err != nil {
		return
	}
	if p.tok != r {
		p.fail("expected %q, got %s", r, p.describe())
		return
	}
	p.next()
}

func (p *parser) expr() Expression {
	if p.err != nil {
		return Expression{}
	}
	if p.tok != scanner.Ident {
		p.fail("expected operator or comparator, got %s", p.describe())
		return Expression{}
	}
	name := strings.ToLower(p.s.TokenText())
	p.next()

	switch {
	case Operator(name).IsValid():
		return p.operation(Operator(name))
	case Comparator(name).IsValid():
		return p.comparison(Comparator(name))
	case name == strings.ToLower(NoFilter):
		p.fail("%s cannot be nested", NoFilter)
	default:
		p.fail("unknown function %q", name)
	}
	return Expression{}
}

func (p *parser) operation(op Operator) Expression {
	p.expect('(')
	var children []Expression
	for p.err == nil && p.tok != ')' {
		children = append(children, p.expr())
		if p.tok == ',' {
			p.next()
		} else {
			break
		}
	}
	p.expect(')')
	if p.err != nil {
		return Expression{}
	}
	e, err := NewOperation(op, children...)
	if err != nil {
		p.fail("%v", err)
	}
	return e
}

func (p *parser) comparison(c Comparator) Expression {
	p.expect('(')
	attr := p.str()
	p.expect(',')

	var values []Value
	if p.err == nil && p.tok == '[' {
		p.next()
		for p.err == nil && p.tok != ']' {
			values = append(values, p.value())
			if p.tok == ',' {
				p.next()
			} else {
				break
			}
		}
		p.expect(']')
	} else {
		values = append(values, p.value())
	}
	p.expect(')')
	if p.err != nil {
		return Expression{}
	}

	e, err := NewComparison(c, attr, values...)
	if err != nil {
		p.fail("%v", err)
	}
	return e
}

func (p *parser) value() Value {
	if p.err != nil {
		return Value{}
	}
	switch p.tok {
	case scanner.String, scanner.RawString, '\'':
		return StringValue(p.str())
	case '-', scanner.Int, scanner.Float:
		return NumberValue(p.number())
	case scanner.Ident:
		// Unquoted booleans are accepted as strings.
		text := strings.ToLower(p.s.TokenText())
		if text == "true" || text == "false" {
			p.next()
			return StringValue(text)
		}
	}
	p.fail("expected value, got %s", p.describe())
	return Value{}
}

func (p *parser) number() float64 {
	sign := 1.0
	if p.tok == '-' {
		sign = -1
		p.next()
	}
	if p.tok != scanner.Int && p.tok != scanner.Float {
		p.fail("expected number, got %s", p.describe())
		return 0
	}
	n, err := strconv.ParseFloat(p.s.TokenText(), 64)
	if err != nil {
		p.fail("bad number %q", p.s.TokenText())
		return 0
	}
	p.next()
	return sign * n
}

func (p *parser) str() string {
	if p.err != nil {
		return ""
	}
	switch p.tok {
	case scanner.String, scanner.RawString:
		s, err := strconv.Unquote(p.s.TokenText())
		if err != nil {
			p.fail("bad string %s", p.s.TokenText())
			return ""
		}
		p.next()
		return s
	case '\'':
		return p.singleQuoted()
	}
	p.fail("expected string, got %s", p.describe())
	return ""
}

// singleQuoted reads raw runes up to the closing quote; the scanner treats ' as a plain token.
func (p *parser) singleQuoted() string {
	var b strings.Builder
	for {
		r := p.s.Next()
		switch r {
		case scanner.EOF:
			p.fail("unterminated string")
			return ""
		case '\\':
			esc := p.s.Next()
			if esc == scanner.EOF {
				p.fail("unterminated string")
				return ""
			}
			b.WriteRune(esc)
		case '\'':
			p.next()
			return b.String()
		default:
			b.WriteRune(r)
		}
	}
}
