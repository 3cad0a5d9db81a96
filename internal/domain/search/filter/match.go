package filter

import (
	"strconv"
	"strings"
)

// Match evaluates the expression against a flat attribute map, the way a tag/numeric index would.
// String comparisons are case-insensitive and a comma-separated field value matches any of its
// parts. Positive comparisons fail on a missing attribute; ne and nin succeed.
func (e Expression) Match(fields map[string]string) bool {
	switch {
	case e.IsEmpty():
		return true
	case e.IsComparison():
		return e.matchLeaf(fields)
	}

	switch e.op {
	case And:
		for _, c := range e.children {
			if !c.Match(fields) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range e.children {
			if c.Match(fields) {
				return true
			}
		}
		return false
	case Not:
		return !e.children[0].Match(fields)
	}
	return false
}

func (e Expression) matchLeaf(fields map[string]string) bool {
	raw, ok := fields[e.attribute]
	if !ok {
		return e.comparator.IsNegative()
	}

	hit := false
	for _, v := range e.values {
		if valueEquals(raw, v) {
			hit = true
			break
		}
	}

	switch e.comparator {
	case Eq, In:
		return hit
	case Ne, Nin:
		return !hit
	}

	if !e.values[0].IsNumber() {
		return false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	want := e.values[0].num
	switch e.comparator {
	case Gt:
		return n > want
	case Gte:
		return n >= want
	case Lt:
		return n < want
	case Lte:
		return n <= want
	}
	return false
}

func valueEquals(raw string, v Value) bool {
	if v.IsNumber() {
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		return err == nil && n == v.num
	}
	for _, part := range strings.Split(raw, ",") {
		if strings.EqualFold(strings.TrimSpace(part), v.str) {
			return true
		}
	}
	return false
}
