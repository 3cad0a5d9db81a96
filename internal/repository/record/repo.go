package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/wine"
)

// store is the consumer interface for records (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/collection.RecordRepository.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// InsertBatch writes records with their embeddings in one pipelined round trip.
// Records are keyed by ID, so reinserting the same record overwrites it.
func (r *Repo) InsertBatch(ctx context.Context, collectionName string, records []wine.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("insert %s: %d records but %d vectors", collectionName, len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(records))
	for i, rec := range records {
		items[i] = db.HashSetItem{
			Key:    recordKey(collectionName, rec.ID()),
			Fields: ToHash(rec, vectors[i]),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi %s: %w", collectionName, err)
	}
	return nil
}

// Count returns the number of records in a collection.
func (r *Repo) Count(ctx context.Context, collectionName string) (int, error) {
	n, err := r.store.SearchCount(ctx, IndexName(collectionName), "*")
	if err != nil {
		return 0, fmt.Errorf("search count %s: %w", collectionName, err)
	}
	return n, nil
}

// IndexName returns the FT index name of a collection.
func IndexName(collection string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, collection)
}

// IDFromKey strips the collection prefix from a record key.
func IDFromKey(key, collection string) string {
	return strings.TrimPrefix(key, keyPrefix(collection))
}

func recordKey(collection, id string) string {
	return keyPrefix(collection) + id
}

func keyPrefix(collection string) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, collection)
}
