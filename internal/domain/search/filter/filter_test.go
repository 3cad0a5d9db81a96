package filter

import (
	"strings"
	"testing"
)

func mustCmp(t *testing.T, c Comparator, attr string, values ...Value) Expression {
	t.Helper()
	e, err := NewComparison(c, attr, values...)
	if err != nil {
		t.Fatalf("NewComparison(%s, %q): %v", c, attr, err)
	}
	return e
}

func TestNewComparison_Valid(t *testing.T) {
	e, err := NewComparison(Gt, "rating", NumberValue(95))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsComparison() || e.IsOperation() || e.IsEmpty() {
		t.Error("expected a comparison leaf")
	}
	if e.Attribute() != "rating" || e.Comparator() != Gt {
		t.Errorf("got %s(%s)", e.Comparator(), e.Attribute())
	}
	if e.Conditions() != 1 {
		t.Errorf("Conditions() = %d, want 1", e.Conditions())
	}
}

func TestNewComparison_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cmp    Comparator
		attr   string
		values []Value
		want   string
	}{
		{"unknown comparator", "like", "name", []Value{StringValue("x")}, "unknown comparator"},
		{"empty attribute", Eq, " ", []Value{StringValue("x")}, "attribute is required"},
		{"eq without value", Eq, "name", nil, "exactly one"},
		{"eq with two values", Eq, "name", []Value{StringValue("a"), StringValue("b")}, "exactly one"},
		{"in without values", In, "country", nil, "at least one"},
		{"mixed kinds", In, "year", []Value{NumberValue(1), StringValue("2")}, "mixes"},
		{"zero value", Eq, "name", []Value{{}}, "invalid value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComparison(tt.cmp, tt.attr, tt.values...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want %q", err, tt.want)
			}
		})
	}
}

func TestNewOperation(t *testing.T) {
	a := mustCmp(t, Eq, "color", StringValue("red"))
	b := mustCmp(t, Gt, "rating", NumberValue(95))

	e, err := NewOperation(And, a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Conditions() != 2 {
		t.Errorf("Conditions() = %d, want 2", e.Conditions())
	}

	if _, err := NewOperation(Not, a, b); err == nil {
		t.Error("expected error for not with two arguments")
	}
	if _, err := NewOperation(Or); err == nil {
		t.Error("expected error for empty or")
	}
	if _, err := NewOperation(And, a, Expression{}); err == nil {
		t.Error("expected error for empty child")
	}
	if _, err := NewOperation("xor", a); err == nil {
		t.Error("expected error for unknown operator")
	}
}

func TestNewOperation_TooManyConditions(t *testing.T) {
	children := make([]Expression, MaxConditions+1)
	for i := range children {
		children[i] = mustCmp(t, Eq, "name", StringValue("x"))
	}
	_, err := NewOperation(Or, children...)
	if err == nil || !strings.Contains(err.Error(), "too many") {
		t.Fatalf("expected too many conditions error, got %v", err)
	}
}

func TestExpression_String(t *testing.T) {
	e, _ := NewOperation(And,
		mustCmp(t, Eq, "color", StringValue("red")),
		mustCmp(t, In, "country", StringValue("Italy"), StringValue("France")),
		mustCmp(t, Gte, "rating", NumberValue(95)),
	)
	want := `and(eq("color", "red"), in("country", ["Italy", "France"]), gte("rating", 95))`
	if got := e.String(); got != want {
		t.Errorf("String() = %s\nwant %s", got, want)
	}
	if got := (Expression{}).String(); got != NoFilter {
		t.Errorf("empty String() = %q", got)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	e, _ := NewOperation(Or,
		mustCmp(t, Eq, "a", StringValue("1")),
		mustCmp(t, Eq, "b", StringValue("2")),
	)
	var seen []string
	stop := errString("stop")
	err := e.Walk(func(c Expression) error {
		seen = append(seen, c.Attribute())
		return stop
	})
	if err != stop {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(seen) != 1 || seen[0] != "a" {
		t.Errorf("visited %v, want [a]", seen)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
