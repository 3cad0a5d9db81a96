package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/catalog"
	"github.com/raviX007/natural-language-wine-search/internal/config"
	"github.com/raviX007/natural-language-wine-search/internal/db"
	dbRedis "github.com/raviX007/natural-language-wine-search/internal/db/redis"
	dbValkey "github.com/raviX007/natural-language-wine-search/internal/db/valkey"
	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/attribute"
	domcol "github.com/raviX007/natural-language-wine-search/internal/domain/collection"
	"github.com/raviX007/natural-language-wine-search/internal/metrics"
	collectionrepo "github.com/raviX007/natural-language-wine-search/internal/repository/collection"
	"github.com/raviX007/natural-language-wine-search/internal/repository/embcache"
	recordrepo "github.com/raviX007/natural-language-wine-search/internal/repository/record"
	searchrepo "github.com/raviX007/natural-language-wine-search/internal/repository/search"
	openaiEmb "github.com/raviX007/natural-language-wine-search/internal/transport/openai"
	collectionuc "github.com/raviX007/natural-language-wine-search/internal/usecase/collection"
	embeddinguc "github.com/raviX007/natural-language-wine-search/internal/usecase/embedding"
	healthuc "github.com/raviX007/natural-language-wine-search/internal/usecase/health"
	searchuc "github.com/raviX007/natural-language-wine-search/internal/usecase/search"
	"github.com/raviX007/natural-language-wine-search/internal/usecase/translate"
)

// app is the composition root shared by every subcommand.
type app struct {
	store      db.Store
	provider   *openaiEmb.Provider
	catalog    catalog.Catalog
	schema     attribute.Schema
	collection *collectionuc.Service
	search     *searchuc.Service
	health     *healthuc.Service
	logger     *zap.Logger
}

// newApp connects to the store and wires repositories, providers and use cases.
// Nothing here talks to the LLM provider; credentials arrive per call.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	store, err := newStore(cfg.Database)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	logger.Debug("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.Strings("addrs", cfg.Database.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterCompletionMetrics()

	provider := openaiEmb.NewProvider(
		openaiEmb.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		},
		openaiEmb.CompleterConfig{
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Provider:    cfg.Embedding.Provider,
			Logger:      logger,
		},
	)

	embedders := embeddinguc.NewFactory(func(cred domain.Credential) domain.Embedder {
		return buildEmbedder(provider.Embedder(cred), cfg.Embedding, store, logger)
	})
	completers := translate.CompleterFunc(func(cred domain.Credential) domain.Completer {
		return provider.Completer(cred)
	})

	schema := attribute.WineSchema()
	translator, err := translate.New(completers, schema, translate.DefaultExamples(), logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build translator: %w", err)
	}

	collRepo := collectionrepo.New(store).WithHNSW(collectionrepo.HNSWConfig{
		M:           cfg.Collection.HNSWM,
		EFConstruct: cfg.Collection.HNSWEFConstruct,
	})
	recRepo := recordrepo.New(store)

	collSvc := collectionuc.New(collRepo, recRepo, embedders, cat, collectionuc.Config{
		Name:      cfg.Collection.Name,
		VectorDim: cfg.Collection.VectorDim,
		Metric:    domcol.Metric(cfg.Collection.Metric),
		Schema:    schema,
	}, logger).WithBatchSize(cfg.Collection.SeedBatchSize)

	searchSvc := searchuc.New(searchrepo.New(store), collSvc, translator, embedders, searchuc.Config{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
		MaxQueryLen:  cfg.Search.MaxQueryLength,
	}, logger)

	return &app{
		store:      store,
		provider:   provider,
		catalog:    cat,
		schema:     schema,
		collection: collSvc,
		search:     searchSvc,
		health:     healthuc.New(store, collSvc, provider),
		logger:     logger,
	}, nil
}

// Close releases the store connection.
func (a *app) Close() {
	a.store.Close()
}

// newStore creates the database store for the configured driver.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case "valkey":
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return store, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented
func buildEmbedder(
	base domain.Embedder, cfg config.EmbeddingConfig, store db.KVStore, logger *zap.Logger,
) domain.Embedder {
	embedder := base
	if cfg.Cache.Enabled && store != nil {
		embedder = embcache.New(base, store, cfg.Model, cfg.Dimensions, metrics.EmbeddingCacheTotal, logger).
			WithTTL(time.Duration(cfg.Cache.TTLSec) * time.Second)
	}
	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, cfg.Dimensions, logger)
}

// loadCatalog picks the seed dataset: the embedded default, a single file, or a doublestar glob.
func loadCatalog(path string) (catalog.Catalog, error) {
	switch {
	case path == "":
		return catalog.Default(), nil
	case strings.ContainsAny(path, "*?[{"):
		return catalog.LoadGlob(path)
	default:
		return catalog.LoadFile(path)
	}
}
