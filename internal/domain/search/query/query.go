// Package query holds the structured form of a natural-language search.
package query

import (
	"fmt"
	"strings"

	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
)

// Structured is a translated query: semantic text, hard filter and an optional limit.
// Limit 0 means unset.
type Structured struct {
	text   string
	filter filter.Expression
	limit  int
}

// New validates and creates a Structured query. A negative limit is rejected.
func New(text string, f filter.Expression, limit int) (Structured, error) {
	if limit < 0 {
		return Structured{}, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return Structured{text: strings.TrimSpace(text), filter: f, limit: limit}, nil
}

// Text returns the semantic text to embed; empty means filter-only.
func (q Structured) Text() string { return q.text }

// Filter returns the hard filter.
func (q Structured) Filter() filter.Expression { return q.filter }

// Limit returns the requested number of results, 0 when unset.
func (q Structured) Limit() int { return q.limit }

// HasText reports whether the query needs an embedding.
func (q Structured) HasText() bool { return q.text != "" }

// EffectiveLimit resolves the limit against defaults: unset falls back to def, anything
// above max is clamped.
func (q Structured) EffectiveLimit(def, max int) int {
	n := q.limit
	if n == 0 {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}

func (q Structured) String() string {
	return fmt.Sprintf("query=%q filter=%s limit=%d", q.text, q.filter, q.limit)
}
