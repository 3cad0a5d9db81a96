// Package search runs the natural-language search pipeline: seed, translate, embed, filtered KNN.
package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/query"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/result"
)

// Defaults for result counts and query size.
const (
	DefaultLimit       = 4
	DefaultMaxLimit    = 20
	DefaultMaxQueryLen = 1000
)

// Config holds result-count and query-size limits.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	MaxQueryLen  int
}

func (c *Config) applyDefaults() {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = DefaultMaxLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	if c.MaxQueryLen <= 0 {
		c.MaxQueryLen = DefaultMaxQueryLen
	}
}

// Response is a ranked result list plus the structured query that produced it.
type Response struct {
	Query   query.Structured
	Results []result.Result
}

// Service handles natural-language wine search.
type Service struct {
	repo       Repository
	seeder     Seeder
	translator Translator
	embedders  EmbedderFactory
	cfg        Config
	logger     *zap.Logger
}

// New creates a search service.
func New(
	repo Repository, seeder Seeder, translator Translator, embedders EmbedderFactory,
	cfg Config, logger *zap.Logger,
) *Service {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		seeder:     seeder,
		translator: translator,
		embedders:  embedders,
		cfg:        cfg,
		logger:     logger,
	}
}

// Search answers a free-text query. Nothing downstream is called without a credential.
func (s *Service) Search(ctx context.Context, cred domain.Credential, text string) (Response, error) {
	if cred.IsEmpty() {
		return Response{}, domain.ErrMissingCredential
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Response{}, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}
	if n := utf8.RuneCountInString(text); n > s.cfg.MaxQueryLen {
		return Response{}, fmt.Errorf("%w: query is %d characters, max %d",
			domain.ErrInvalidQuery, n, s.cfg.MaxQueryLen)
	}

	if err := s.seed(ctx, cred); err != nil {
		return Response{}, err
	}

	q, err := s.translator.Translate(ctx, cred, text)
	if err != nil {
		return Response{}, fmt.Errorf("translate query: %w", err)
	}

	results, err := s.run(ctx, cred, q)
	if err != nil {
		return Response{}, err
	}
	return Response{Query: q, Results: results}, nil
}

// SearchStructured runs an already translated query. Empty semantic text lists filter matches
// without embedding anything. Like Search it requires a credential and seeds an empty collection.
func (s *Service) SearchStructured(
	ctx context.Context, cred domain.Credential, q query.Structured,
) ([]result.Result, error) {
	if cred.IsEmpty() {
		return nil, domain.ErrMissingCredential
	}
	if err := s.seed(ctx, cred); err != nil {
		return nil, err
	}
	return s.run(ctx, cred, q)
}

func (s *Service) seed(ctx context.Context, cred domain.Credential) error {
	if _, err := s.seeder.SeedIfEmpty(ctx, cred); err != nil {
		return fmt.Errorf("seed collection: %w", err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, cred domain.Credential, q query.Structured) ([]result.Result, error) {
	limit := q.EffectiveLimit(s.cfg.DefaultLimit, s.cfg.MaxLimit)
	collection := s.seeder.Name()

	if !q.HasText() {
		results, err := s.repo.SearchFilter(ctx, collection, q.Filter(), limit)
		if err != nil {
			return nil, fmt.Errorf("%w: list filtered: %w", domain.ErrSearch, err)
		}
		s.logQuery(q, limit, len(results))
		return results, nil
	}

	embedder, err := s.embedders.ForCredential(cred)
	if err != nil {
		return nil, err
	}
	emb, err := embedder.Embed(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: vectorize query: %w", domain.ErrSearch, err)
	}

	results, err := s.repo.SearchKNN(ctx, collection, emb.Embedding, q.Filter(), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search knn: %w", domain.ErrSearch, err)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	s.logQuery(q, limit, len(results))
	return results, nil
}

func (s *Service) logQuery(q query.Structured, limit, found int) {
	s.logger.Debug("search executed",
		zap.String("text", q.Text()),
		zap.Stringer("filter", q.Filter()),
		zap.Int("limit", limit),
		zap.Int("found", found),
	)
}
