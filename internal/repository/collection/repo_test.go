package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/domain"
	domcol "github.com/raviX007/natural-language-wine-search/internal/domain/collection"
)

const (
	testMetaKey   = "winesearch:_meta:wine_collection"
	testIndexName = "winesearch:wine_collection:idx"
)

// --- Create ---

func TestCreate_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()
	col := testCollection(t)

	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != testMetaKey {
			t.Errorf("unexpected key: %s", key)
		}
		if fields["metric"] != "cosine" || fields["vector_dim"] != "1536" {
			t.Errorf("unexpected meta: %v", fields)
		}
		return nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		if def.Name != testIndexName {
			t.Errorf("unexpected index name: %s", def.Name)
		}
		if len(def.Prefixes) != 1 || def.Prefixes[0] != "winesearch:wine_collection:" {
			t.Errorf("unexpected prefixes: %v", def.Prefixes)
		}
		return nil
	}

	if err := repo.Create(ctx, col); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	err := repo.Create(context.Background(), testCollection(t))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection lost")
	}

	if err := repo.Create(context.Background(), testCollection(t)); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

func TestCreate_FTCreateError_RollbackOK(t *testing.T) {
	repo, ms := newTestRepo(t)

	var delCalled bool
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return errors.New("index limit reached")
	}
	ms.delFn = func(_ context.Context, keys ...string) error {
		delCalled = true
		if len(keys) != 1 || keys[0] != testMetaKey {
			t.Errorf("unexpected DEL keys: %v", keys)
		}
		return nil
	}

	if err := repo.Create(context.Background(), testCollection(t)); err == nil {
		t.Fatal("expected error on FT.CREATE failure")
	}
	if !delCalled {
		t.Error("expected DEL to be called for rollback")
	}
}

func TestCreate_IndexExistsMapsToAlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return &db.Error{Op: db.OpCreateIndex, Err: db.ErrIndexExists}
	}

	err := repo.Create(context.Background(), testCollection(t))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_RollbackFails(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return errors.New("index error")
	}
	ms.delFn = func(_ context.Context, _ ...string) error {
		return errors.New("del error")
	}

	err := repo.Create(context.Background(), testCollection(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "index error\ndel error" {
		t.Errorf("expected joined errors, got %q", got)
	}
}

// --- Get ---

func TestGet_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != testMetaKey {
			t.Errorf("unexpected key: %s", key)
		}
		return map[string]string{
			"name":        "wine_collection",
			"fields_json": `[{"name":"grape","type":"tag"},{"name":"year","type":"numeric"}]`,
			"vector_dim":  "1536",
			"metric":      "ip",
			"created_at":  "1700000000000",
		}, nil
	}

	col, err := repo.Get(context.Background(), "wine_collection")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.Name() != "wine_collection" {
		t.Errorf("expected name wine_collection, got %s", col.Name())
	}
	if col.VectorDim() != 1536 {
		t.Errorf("expected dim 1536, got %d", col.VectorDim())
	}
	if col.Metric() != domcol.IP {
		t.Errorf("expected metric ip, got %s", col.Metric())
	}
	if len(col.Fields()) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(col.Fields()))
	}
	if col.CreatedAt() != 1700000000000 {
		t.Errorf("unexpected created_at: %d", col.CreatedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_CorruptMeta(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"name": "x", "created_at": "yesterday", "vector_dim": "8"}, nil
	}

	if _, err := repo.Get(context.Background(), "x"); err == nil {
		t.Fatal("expected error for invalid created_at")
	}
}

// --- Exists ---

func TestExists_ChecksIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(_ context.Context, name string) (bool, error) {
		return name == testIndexName, nil
	}

	ok, err := repo.Exists(context.Background(), "wine_collection")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected collection to exist")
	}
}

// --- Delete ---

func TestDelete_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"name": "wine_collection"}, nil
	}
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	var dropped, withDocs bool
	ms.dropIndexFn = func(_ context.Context, name string, deleteDocs bool) error {
		dropped = name == testIndexName
		withDocs = deleteDocs
		return nil
	}

	if err := repo.Delete(context.Background(), "wine_collection", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dropped || !withDocs {
		t.Errorf("expected drop with docs, got dropped=%v withDocs=%v", dropped, withDocs)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Delete(context.Background(), "missing", true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_IndexWithoutMeta(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.delFn = func(_ context.Context, _ ...string) error {
		t.Error("meta DEL should be skipped when there is no metadata")
		return nil
	}

	var dropped bool
	ms.dropIndexFn = func(_ context.Context, _ string, _ bool) error {
		dropped = true
		return nil
	}

	if err := repo.Delete(context.Background(), "wine_collection", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dropped {
		t.Error("expected index to be dropped")
	}
}

func TestDelete_DropError_RollbackMeta(t *testing.T) {
	repo, ms := newTestRepo(t)
	meta := map[string]string{"name": "wine_collection", "vector_dim": "1536"}

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) { return meta, nil }
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.dropIndexFn = func(_ context.Context, _ string, _ bool) error {
		return errors.New("drop failed")
	}

	var restored map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != testMetaKey {
			t.Errorf("unexpected restore key: %s", key)
		}
		restored = fields
		return nil
	}

	if err := repo.Delete(context.Background(), "wine_collection", true); err == nil {
		t.Fatal("expected error on drop failure")
	}
	if restored["vector_dim"] != "1536" {
		t.Errorf("expected metadata restored, got %v", restored)
	}
}
