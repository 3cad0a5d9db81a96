package collection

import (
	"fmt"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	domcol "github.com/raviX007/natural-language-wine-search/internal/domain/collection"
	"github.com/raviX007/natural-language-wine-search/internal/domain/collection/field"
)

// tagSeparator splits list attributes (color may hold "red,sparkling").
const tagSeparator = ","

// buildIndex creates an IndexDefinition from the collection's fields.
// Content is stored on the hash but not indexed: ranking is by vector only.
func buildIndex(col domcol.Collection, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	b := db.NewIndex(indexName(col.Name())).Prefix(collectionPrefix(col.Name()))

	for _, f := range col.Fields() {
		switch f.FieldType() {
		case field.Tag:
			b.TagWithOpts(f.Name(), tagSeparator, false)
		case field.Numeric:
			b.Numeric(f.Name())
		default:
			return nil, fmt.Errorf("unknown field type: %s", f.FieldType())
		}
	}

	distance, err := distanceFor(col.Metric())
	if err != nil {
		return nil, err
	}

	b.Vector("__vector", "vector", db.VectorSpec{
		Algo:        db.VectorHNSW,
		Dim:         col.VectorDim(),
		Distance:    distance,
		M:           hnsw.M,
		EFConstruct: hnsw.EFConstruct,
	})

	return b.Build()
}

func distanceFor(m domcol.Metric) (db.DistanceMetric, error) {
	switch m {
	case domcol.Cosine, "":
		return db.DistanceCosine, nil
	case domcol.IP:
		return db.DistanceIP, nil
	default:
		return "", fmt.Errorf("unsupported metric %q", m)
	}
}
