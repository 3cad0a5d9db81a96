package db

import (
	"encoding/binary"
	"math"

	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
)

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// FilterQuery is the input for a filter-only listing (no vector ranking).
// Entries come back ordered by key.
type FilterQuery struct {
	IndexName    string
	Filters      filter.Expression
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// IndexKeyPrefix converts an index name to the key prefix of its documents.
// "winesearch:wines:idx" -> "winesearch:wines:"
func IndexKeyPrefix(index string) string {
	if len(index) > 4 && index[len(index)-4:] == ":idx" {
		return index[:len(index)-3]
	}
	return index + ":"
}

// VectorToBytes encodes a vector as little-endian FLOAT32, the layout both HSET and
// FT.SEARCH PARAMS expect.
func VectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
