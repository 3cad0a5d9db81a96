package search

import (
	"context"
	"fmt"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/result"
	"github.com/raviX007/natural-language-wine-search/internal/repository/record"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchFilter(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN performs a KNN (vector similarity) search with the filter applied as a hard pre-filter.
// Results come back ordered by descending similarity.
func (r *Repo) SearchKNN(
	ctx context.Context, collectionName string,
	vector []float32, filters filter.Expression, topK int,
) ([]result.Result, error) {
	q := &db.KNNQuery{
		IndexName:    record.IndexName(collectionName),
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: record.ReturnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", collectionName, err)
	}

	results, err := parseResults(sr, collectionName)
	if err != nil {
		return nil, err
	}
	result.SortByScore(results)
	return results, nil
}

// SearchFilter lists records matching the filter without vector ranking. Scores are zero.
func (r *Repo) SearchFilter(
	ctx context.Context, collectionName string,
	filters filter.Expression, limit int,
) ([]result.Result, error) {
	q := &db.FilterQuery{
		IndexName:    record.IndexName(collectionName),
		Filters:      filters,
		Limit:        limit,
		ReturnFields: record.ReturnFields,
	}

	sr, err := r.store.SearchFilter(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search filter %s: %w", collectionName, err)
	}

	results, err := parseResults(sr, collectionName)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i] = result.New(results[i].Record(), 0)
	}
	return results, nil
}

// parseResults converts db.SearchResult into []result.Result.
func parseResults(sr *db.SearchResult, collection string) ([]result.Result, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rec, err := record.FromHash(record.IDFromKey(entry.Key, collection), entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
		}
		results = append(results, result.New(rec, entry.Score))
	}

	return results, nil
}
