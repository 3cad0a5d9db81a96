package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/attribute"
	domcol "github.com/raviX007/natural-language-wine-search/internal/domain/collection"
	"github.com/raviX007/natural-language-wine-search/internal/domain/collection/field"
	"github.com/raviX007/natural-language-wine-search/internal/domain/wine"
)

// DefaultSeedBatchSize is how many records are embedded and written per round trip.
const DefaultSeedBatchSize = 32

// Config describes the single collection the service manages.
type Config struct {
	Name      string
	VectorDim int
	Metric    domcol.Metric
	Schema    attribute.Schema
}

// Service manages the wine collection lifecycle: bootstrap, seeding and reset.
// Reset and seeding share one lock so concurrent users never interleave them.
type Service struct {
	repo      Repository
	records   RecordRepository
	embedders EmbedderFactory
	catalog   Catalog
	cfg       Config
	batchSize int
	progress  ProgressFunc
	mu        *sync.Mutex
	logger    *zap.Logger
}

// New creates a collection service.
func New(
	repo Repository, records RecordRepository, embedders EmbedderFactory,
	catalog Catalog, cfg Config, logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		records:   records,
		embedders: embedders,
		catalog:   catalog,
		cfg:       cfg,
		batchSize: DefaultSeedBatchSize,
		mu:        &sync.Mutex{},
		logger:    logger,
	}
}

// WithBatchSize overrides the seeding batch size.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// WithProgress returns a copy of the service that reports insert progress to fn.
// The copy shares the reset/seed lock with the original.
func (s *Service) WithProgress(fn ProgressFunc) *Service {
	c := *s
	c.progress = fn
	return &c
}

// Name returns the managed collection name.
func (s *Service) Name() string { return s.cfg.Name }

// CatalogSize returns the number of records in the initial dataset.
func (s *Service) CatalogSize() int { return len(s.catalog.Records()) }

// Ensure creates the collection if it is absent and leaves an existing one untouched.
// An existing collection whose dimension differs from the configured one is reported
// with ErrVectorDimMismatch; only a reset rebuilds it.
func (s *Service) Ensure(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(ctx)
}

func (s *Service) ensure(ctx context.Context) (bool, error) {
	exists, err := s.repo.Exists(ctx, s.cfg.Name)
	if err != nil {
		return false, storeErr("check collection", err)
	}
	if exists {
		return false, s.checkExisting(ctx)
	}

	if err := s.create(ctx); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) checkExisting(ctx context.Context) error {
	col, err := s.repo.Get(ctx, s.cfg.Name)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("Collection index has no metadata, dimension not verified", zap.String("collection", s.cfg.Name))
		return nil
	}
	if err != nil {
		return storeErr("get collection", err)
	}
	if col.VectorDim() != s.cfg.VectorDim {
		s.logger.Error("Collection dimension differs from embedding dimension, reset required",
			zap.String("collection", s.cfg.Name),
			zap.Int("collection_dim", col.VectorDim()),
			zap.Int("embedding_dim", s.cfg.VectorDim),
		)
		return fmt.Errorf("%w: collection %s: %w: has %d, embeddings have %d",
			domain.ErrStoreUnavailable, s.cfg.Name, domain.ErrVectorDimMismatch, col.VectorDim(), s.cfg.VectorDim)
	}
	return nil
}

func (s *Service) create(ctx context.Context) error {
	fields, err := field.FromSchema(s.cfg.Schema)
	if err != nil {
		return fmt.Errorf("schema fields: %w: %w", domain.ErrInvalidSchema, err)
	}
	col, err := domcol.New(s.cfg.Name, fields, s.cfg.VectorDim, s.cfg.Metric)
	if err != nil {
		return fmt.Errorf("validate collection: %w: %w", domain.ErrInvalidSchema, err)
	}
	if err := s.repo.Create(ctx, col); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return err
		}
		return storeErr("create collection", err)
	}

	s.logger.Info("Collection created",
		zap.String("collection", col.Name()),
		zap.Int("vector_dim", col.VectorDim()),
		zap.String("metric", string(col.Metric())),
		zap.Int("fields", len(fields)),
	)
	return nil
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.records.Count(ctx, s.cfg.Name)
	if err != nil {
		return 0, storeErr("count records", err)
	}
	return n, nil
}

// SeedIfEmpty ensures the collection and inserts the catalog only when it holds no records.
// A partially filled collection is left as is. Returns the number of records inserted.
func (s *Service) SeedIfEmpty(ctx context.Context, cred domain.Credential) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ensure(ctx); err != nil {
		return 0, err
	}

	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if want := len(s.catalog.Records()); n < want {
			s.logger.Warn("Collection is partially seeded, leaving it as is",
				zap.String("collection", s.cfg.Name),
				zap.Int("count", n),
				zap.Int("catalog_size", want),
			)
		}
		return 0, nil
	}

	return s.insert(ctx, cred, s.catalog.Records())
}

// Reset drops the collection with all its records, recreates it and reseeds the catalog.
// It refuses to run without explicit confirmation.
func (s *Service) Reset(ctx context.Context, cred domain.Credential, confirmed bool) (int, error) {
	if !confirmed {
		return 0, domain.ErrConfirmationRequired
	}
	if cred.IsEmpty() {
		return 0, domain.ErrMissingCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.cfg.Name, true); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, storeErr("delete collection", err)
	}
	s.logger.Warn("Collection dropped for reset", zap.String("collection", s.cfg.Name))

	if err := s.create(ctx); err != nil {
		return 0, err
	}

	return s.insert(ctx, cred, s.catalog.Records())
}

// Insert embeds and stores records. Existing records with the same ID are overwritten.
func (s *Service) Insert(ctx context.Context, cred domain.Credential, records []wine.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(ctx, cred, records)
}

func (s *Service) insert(ctx context.Context, cred domain.Credential, records []wine.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	embedder, err := s.embedders.ForCredential(cred)
	if err != nil {
		return 0, err
	}

	done := 0
	for offset := 0; offset < len(records); offset += s.batchSize {
		end := min(offset+s.batchSize, len(records))
		batch := records[offset:end]

		texts := make([]string, len(batch))
		for i, r := range batch {
			texts[i] = r.Description()
		}

		res, err := domain.EmbedAll(ctx, embedder, texts)
		if err != nil {
			return done, fmt.Errorf("embed records: %w: %w", domain.ErrSearch, err)
		}
		if len(res.Embeddings) != len(batch) {
			return done, fmt.Errorf("embed records: %w: got %d vectors for %d records",
				domain.ErrSearch, len(res.Embeddings), len(batch))
		}
		for _, vec := range res.Embeddings {
			if err := domain.CheckDimension(vec, s.cfg.VectorDim); err != nil {
				return done, fmt.Errorf("embed records: %w: %w", domain.ErrSearch, err)
			}
		}

		if err := s.records.InsertBatch(ctx, s.cfg.Name, batch, res.Embeddings); err != nil {
			return done, storeErr("insert records", err)
		}

		done += len(batch)
		if s.progress != nil {
			s.progress(done, len(records))
		}
	}

	s.logger.Info("Records inserted",
		zap.String("collection", s.cfg.Name),
		zap.Int("count", done),
	)
	return done, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
