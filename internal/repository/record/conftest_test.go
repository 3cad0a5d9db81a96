package record

import (
	"context"
	"testing"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/domain/wine"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	searchCountFn func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testRecord(t *testing.T) wine.Record {
	t.Helper()
	r, err := wine.New(wine.Params{
		Description: "Full-bodied with dark fruit and firm tannins.",
		Name:        "Opus One",
		Year:        2015,
		Rating:      96,
		Grape:       "Cabernet Sauvignon",
		Color:       wine.Red,
		Country:     "USA",
	})
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	return r
}
