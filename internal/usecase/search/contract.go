package search

import (
	"context"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/query"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	SearchKNN(
		ctx context.Context, collectionName string,
		vector []float32, filters filter.Expression, topK int,
	) ([]result.Result, error)

	SearchFilter(
		ctx context.Context, collectionName string,
		filters filter.Expression, limit int,
	) ([]result.Result, error)
}

// Seeder makes sure the collection exists and holds the catalog before a query runs.
type Seeder interface {
	Name() string
	SeedIfEmpty(ctx context.Context, cred domain.Credential) (int, error)
}

// Translator turns free text into a structured query.
type Translator interface {
	Translate(ctx context.Context, cred domain.Credential, text string) (query.Structured, error)
}

// EmbedderFactory hands out credential-bound embedders.
type EmbedderFactory interface {
	ForCredential(cred domain.Credential) (domain.Embedder, error)
}
