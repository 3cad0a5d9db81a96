package collection

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/raviX007/natural-language-wine-search/internal/domain/collection"
	"github.com/raviX007/natural-language-wine-search/internal/domain/collection/field"
)

// fieldRow is the JSON-serializable representation of a field for HSET.
type fieldRow struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// collectionToHash converts a domain Collection to a map for HSET.
func collectionToHash(col collection.Collection) (map[string]string, error) {
	rows := make([]fieldRow, len(col.Fields()))
	for i, f := range col.Fields() {
		rows[i] = fieldRow{Name: f.Name(), Type: string(f.FieldType())}
	}
	fieldsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return map[string]string{
		"name":        col.Name(),
		"fields_json": string(fieldsJSON),
		"vector_dim":  strconv.Itoa(col.VectorDim()),
		"metric":      string(col.Metric()),
		"created_at":  strconv.FormatInt(col.CreatedAt(), 10),
	}, nil
}

// collectionFromHash hydrates a domain Collection from an HGETALL result map.
func collectionFromHash(m map[string]string) (collection.Collection, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return collection.Collection{}, fmt.Errorf("invalid created_at: %w", err)
	}

	vectorDim, err := strconv.Atoi(m["vector_dim"])
	if err != nil {
		return collection.Collection{}, fmt.Errorf("invalid vector_dim: %w", err)
	}

	var rows []fieldRow
	if fieldsJSON := m["fields_json"]; fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rows); err != nil {
			return collection.Collection{}, fmt.Errorf("unmarshal fields: %w", err)
		}
	}

	fields := make([]field.Field, len(rows))
	for i, r := range rows {
		fields[i] = field.Reconstruct(r.Name, field.Type(r.Type))
	}

	return collection.Reconstruct(m["name"], fields, vectorDim, collection.Metric(m["metric"]), createdAt), nil
}
