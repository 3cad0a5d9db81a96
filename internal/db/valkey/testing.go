package valkey

import (
	"github.com/redis/rueidis"

	"github.com/raviX007/natural-language-wine-search/internal/db/redis"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{Store: redis.NewStoreForTest(c)}
}
