package collection

import (
	"context"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	domcol "github.com/raviX007/natural-language-wine-search/internal/domain/collection"
	"github.com/raviX007/natural-language-wine-search/internal/domain/wine"
)

// Repository defines the storage contract for collections.
type Repository interface {
	Create(ctx context.Context, col domcol.Collection) error
	Get(ctx context.Context, name string) (domcol.Collection, error)
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string, deleteDocs bool) error
}

// RecordRepository stores embedded catalog records.
type RecordRepository interface {
	InsertBatch(ctx context.Context, collection string, records []wine.Record, vectors [][]float32) error
	Count(ctx context.Context, collection string) (int, error)
}

// EmbedderFactory hands out credential-bound embedders.
type EmbedderFactory interface {
	ForCredential(cred domain.Credential) (domain.Embedder, error)
}

// Catalog is the initial dataset written into an empty collection.
type Catalog interface {
	Records() []wine.Record
}

// ProgressFunc reports how many of total records have been stored.
type ProgressFunc func(done, total int)
