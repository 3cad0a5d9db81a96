// Package filter models structured record filters as a tree of boolean operators over
// attribute comparisons.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxConditions is the maximum number of comparisons in one expression tree.
const MaxConditions = 32

// Operator combines child expressions.
type Operator string

// Operators.
const (
	And Operator = "and"
	Or  Operator = "or"
	Not Operator = "not"
)

// IsValid checks if the operator is supported.
func (o Operator) IsValid() bool {
	return o == And || o == Or || o == Not
}

// Comparator compares an attribute with one or more values.
type Comparator string

// Comparators.
const (
	Eq  Comparator = "eq"
	Ne  Comparator = "ne"
	Gt  Comparator = "gt"
	Gte Comparator = "gte"
	Lt  Comparator = "lt"
	Lte Comparator = "lte"
	In  Comparator = "in"
	Nin Comparator = "nin"
)

// Comparators lists every supported comparator.
var Comparators = []Comparator{Eq, Ne, Gt, Gte, Lt, Lte, In, Nin}

// Operators lists every supported operator.
var Operators = []Operator{And, Or, Not}

// IsValid checks if the comparator is supported.
func (c Comparator) IsValid() bool {
	switch c {
	case Eq, Ne, Gt, Gte, Lt, Lte, In, Nin:
		return true
	}
	return false
}

// IsOrdering reports whether the comparator needs ordered (numeric) values.
func (c Comparator) IsOrdering() bool {
	return c == Gt || c == Gte || c == Lt || c == Lte
}

// IsSet reports whether the comparator takes a list of values.
func (c Comparator) IsSet() bool { return c == In || c == Nin }

// IsNegative reports whether the comparator matches records lacking the value.
func (c Comparator) IsNegative() bool { return c == Ne || c == Nin }

// Kind is the type of a comparison value.
type Kind int

// Value kinds.
const (
	KindString Kind = iota + 1
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	}
	return "unknown"
}

// Value is a string or number literal.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// StringValue creates a string literal.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue creates a numeric literal.
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// Kind returns the literal type.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload (empty for numbers).
func (v Value) Str() string { return v.str }

// Num returns the numeric payload (zero for strings).
func (v Value) Num() float64 { return v.num }

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// String renders the literal in filter syntax.
func (v Value) String() string {
	if v.kind == KindNumber {
		return FormatNumber(v.num)
	}
	return strconv.Quote(v.str)
}

// FormatNumber renders a number without a trailing fraction for integers.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Expression is a node of the filter tree: either an operator over children or a
// comparison leaf. The zero value is the empty filter and matches everything.
type Expression struct {
	op         Operator
	children   []Expression
	comparator Comparator
	attribute  string
	values     []Value
}

// NewComparison validates and creates a comparison leaf.
// Set comparators take one or more values of a single kind, the rest take exactly one.
func NewComparison(c Comparator, attribute string, values ...Value) (Expression, error) {
	if !c.IsValid() {
		return Expression{}, fmt.Errorf("unknown comparator %q", c)
	}
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		return Expression{}, fmt.Errorf("attribute is required for %s", c)
	}
	if c.IsSet() {
		if len(values) == 0 {
			return Expression{}, fmt.Errorf("%s(%q) needs at least one value", c, attribute)
		}
	} else if len(values) != 1 {
		return Expression{}, fmt.Errorf("%s(%q) takes exactly one value, got %d", c, attribute, len(values))
	}
	for _, v := range values {
		if v.kind != KindString && v.kind != KindNumber {
			return Expression{}, fmt.Errorf("%s(%q) has an invalid value", c, attribute)
		}
		if v.kind != values[0].kind {
			return Expression{}, fmt.Errorf("%s(%q) mixes value types", c, attribute)
		}
	}
	return Expression{comparator: c, attribute: attribute, values: values}, nil
}

// NewOperation validates and creates an operator node.
// not takes exactly one child; and/or take at least one. Empty children are rejected.
func NewOperation(op Operator, children ...Expression) (Expression, error) {
	if !op.IsValid() {
		return Expression{}, fmt.Errorf("unknown operator %q", op)
	}
	if op == Not && len(children) != 1 {
		return Expression{}, fmt.Errorf("not takes exactly one argument, got %d", len(children))
	}
	if len(children) == 0 {
		return Expression{}, fmt.Errorf("%s needs at least one argument", op)
	}
	total := 0
	for _, c := range children {
		if c.IsEmpty() {
			return Expression{}, fmt.Errorf("%s has an empty argument", op)
		}
		total += c.Conditions()
	}
	if total > MaxConditions {
		return Expression{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	return Expression{op: op, children: children}, nil
}

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return e.op == "" && e.comparator == "" }

// IsComparison reports whether e is a leaf.
func (e Expression) IsComparison() bool { return e.comparator != "" }

// IsOperation reports whether e is an operator node.
func (e Expression) IsOperation() bool { return e.op != "" }

// Operator returns the operator of an operation node.
func (e Expression) Operator() Operator { return e.op }

// Children returns the operands of an operation node.
func (e Expression) Children() []Expression { return e.children }

// Comparator returns the comparator of a leaf.
func (e Expression) Comparator() Comparator { return e.comparator }

// Attribute returns the compared attribute of a leaf.
func (e Expression) Attribute() string { return e.attribute }

// Values returns the literals of a leaf.
func (e Expression) Values() []Value { return e.values }

// Conditions counts comparison leaves.
func (e Expression) Conditions() int {
	if e.IsComparison() {
		return 1
	}
	n := 0
	for _, c := range e.children {
		n += c.Conditions()
	}
	return n
}

// Walk calls fn for every comparison leaf, depth first, stopping at the first error.
func (e Expression) Walk(fn func(Expression) error) error {
	if e.IsComparison() {
		return fn(e)
	}
	for _, c := range e.children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// String renders the expression in filter syntax, NO_FILTER when empty.
func (e Expression) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e Expression) write(b *strings.Builder) {
	switch {
	case e.IsEmpty():
		b.WriteString(NoFilter)
	case e.IsComparison():
		b.WriteString(string(e.comparator))
		b.WriteByte('(')
		b.WriteString(strconv.Quote(e.attribute))
		b.WriteString(", ")
		if e.comparator.IsSet() {
			b.WriteByte('[')
			for i, v := range e.values {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(v.String())
			}
			b.WriteByte(']')
		} else {
			b.WriteString(e.values[0].String())
		}
		b.WriteByte(')')
	default:
		b.WriteString(string(e.op))
		b.WriteByte('(')
		for i, c := range e.children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b)
		}
		b.WriteByte(')')
	}
}
