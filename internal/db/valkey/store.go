// Package valkey adapts the RediSearch-compatible store to valkey-search, which only
// answers KNN queries: listings, counts and document cleanup fall back to SCAN.
package valkey

import (
	"context"
	"fmt"
	"sort"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Valkey store.
type Config = redis.Config

// scanBatch bounds the keys fetched or deleted per round-trip.
const scanBatch = 256

// Store implements db.Store for Valkey with the valkey-search module.
type Store struct {
	*redis.Store
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	base, err := redis.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Store: base}, nil
}

// SearchFilter lists documents matching the filter via SCAN + HGETALL, evaluating the
// filter in process. Keys are visited in sorted order.
func (s *Store) SearchFilter(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	keys, err := s.Scan(ctx, db.IndexKeyPrefix(q.IndexName)+"*")
	if err != nil {
		return nil, fmt.Errorf("scan for filter: %w", err)
	}
	sort.Strings(keys)

	res := &db.SearchResult{}
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		hashes, err := s.HGetAllMulti(ctx, keys[start:end])
		if err != nil {
			return nil, err
		}
		for i, h := range hashes {
			// key may have been deleted between SCAN and HGETALL
			if len(h) == 0 || !q.Filters.Match(h) {
				continue
			}
			res.Total++
			if len(res.Entries) < q.Limit {
				res.Entries = append(res.Entries, db.SearchEntry{
					Key:    keys[start+i],
					Fields: project(h, q.ReturnFields),
				})
			}
		}
	}
	return res, nil
}

// SearchCount counts documents. The "*" query falls back to SCAN.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	if query != "*" {
		return s.Store.SearchCount(ctx, index, query)
	}
	keys, err := s.Scan(ctx, db.IndexKeyPrefix(index)+"*")
	if err != nil {
		return 0, fmt.Errorf("scan for count: %w", err)
	}
	return len(keys), nil
}

// DropIndex removes the index. valkey-search has no DD flag, so documents are
// deleted by prefix afterwards.
func (s *Store) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if err := s.Store.DropIndex(ctx, name, false); err != nil {
		return err
	}
	if !deleteDocs {
		return nil
	}

	keys, err := s.Scan(ctx, db.IndexKeyPrefix(name)+"*")
	if err != nil {
		return fmt.Errorf("scan for drop: %w", err)
	}
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := s.Del(ctx, keys[start:end]...); err != nil {
			return err
		}
	}
	return nil
}

func project(h map[string]string, fields []string) map[string]string {
	if len(fields) == 0 {
		return h
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := h[f]; ok {
			out[f] = v
		}
	}
	return out
}
