package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/domain"
	domcol "github.com/raviX007/natural-language-wine-search/internal/domain/collection"
)

// store is the consumer interface for collections (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase/collection.Repository.
type Repo struct {
	store store
	hnsw  HNSWConfig
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s, hnsw: HNSWConfig{M: 32, EFConstruct: 400}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Create stores a collection: HSET metadata then FT.CREATE index.
// On FT.CREATE failure, rolls back the HSET via DEL.
func (r *Repo) Create(ctx context.Context, col domcol.Collection) error {
	name := col.Name()

	metaKey := metaKey(name)
	exists, err := r.store.Exists(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	indexDef, err := buildIndex(col, r.hnsw)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	hashData, err := collectionToHash(col)
	if err != nil {
		return err
	}

	if err := r.store.HSet(ctx, metaKey, hashData); err != nil {
		return fmt.Errorf("hset collection %s: %w", name, err)
	}

	// FT.CREATE, rollback HSET on error
	if err := r.store.CreateIndex(ctx, indexDef); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			err = fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
		}
		cleanupErr := r.store.Del(ctx, metaKey)
		return errors.Join(err, cleanupErr)
	}

	return nil
}

// Get retrieves a collection by name.
func (r *Repo) Get(ctx context.Context, name string) (domcol.Collection, error) {
	m, err := r.store.HGetAll(ctx, metaKey(name))
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(m) == 0 {
		return domcol.Collection{}, domain.ErrNotFound
	}

	return collectionFromHash(m)
}

// Exists reports whether the collection's index is present. The index, not the metadata hash, is
// what searches need.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, indexName(name))
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, err)
	}
	return ok, nil
}

// Delete removes a collection: backup metadata, DEL hash, FT.DROPINDEX (rollback HSET on error).
// With deleteDocs the stored records are removed along with the index.
// An index without metadata is still dropped.
func (r *Repo) Delete(ctx context.Context, name string, deleteDocs bool) error {
	metaKey := metaKey(name)

	metaBackup, err := r.store.HGetAll(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("hgetall collection %s: %w", name, err)
	}

	idxName := indexName(name)
	idxExists, err := r.store.IndexExists(ctx, idxName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if !idxExists && len(metaBackup) == 0 {
		return domain.ErrNotFound
	}

	if len(metaBackup) > 0 {
		if err := r.store.Del(ctx, metaKey); err != nil {
			return fmt.Errorf("del collection %s: %w", name, err)
		}
	}
	if !idxExists {
		return nil
	}

	// FT.DROPINDEX, rollback HSET on error
	if err := r.store.DropIndex(ctx, idxName, deleteDocs); err != nil {
		var cleanupErr error
		if len(metaBackup) > 0 {
			cleanupErr = r.store.HSet(ctx, metaKey, metaBackup)
		}
		return errors.Join(fmt.Errorf("drop index %s: %w", idxName, err), cleanupErr)
	}

	return nil
}

// Key patterns: winesearch:_meta:{name}, winesearch:{name}:idx, winesearch:{name}:

func metaKey(name string) string {
	return fmt.Sprintf("%s_meta:%s", domain.KeyPrefix, name)
}

func indexName(name string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name)
}

func collectionPrefix(name string) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, name)
}
