// Package result holds ranked search hits.
package result

import (
	"sort"

	"github.com/raviX007/natural-language-wine-search/internal/domain/wine"
)

// Result is a single search hit.
type Result struct {
	record wine.Record
	score  float64
}

// New creates a search result. Score is cosine similarity, 0 for filter-only listings.
func New(record wine.Record, score float64) Result {
	return Result{record: record, score: score}
}

// Record returns the matched catalog record.
func (r *Result) Record() wine.Record { return r.record }

// ID returns the record identifier.
func (r *Result) ID() string { return r.record.ID() }

// Score returns the similarity score.
func (r *Result) Score() float64 { return r.score }

// SortByScore orders results by descending score; ties keep their original order.
func SortByScore(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].score > rs[j].score })
}
