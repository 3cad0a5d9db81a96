// Package collection holds the vector collection aggregate.
package collection

import (
	"fmt"
	"regexp"
	"time"

	"github.com/raviX007/natural-language-wine-search/internal/domain/collection/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Metric is the vector distance function of the index.
type Metric string

// Supported metrics. Both report distance as 1 - similarity, so scores stay comparable.
const (
	Cosine Metric = "cosine"
	IP     Metric = "ip"
)

// IsValid checks if the metric is supported.
func (m Metric) IsValid() bool {
	return m == Cosine || m == IP
}

// Collection is the vector collection aggregate (immutable value object).
type Collection struct {
	name      string
	fields    []field.Field
	vectorDim int
	metric    Metric
	createdAt int64
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) > 64 {
		return fmt.Errorf("too many fields (max 64)")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// New validates and creates a Collection. An empty metric defaults to cosine.
func New(name string, fields []field.Field, vectorDim int, metric Metric) (Collection, error) {
	if metric == "" {
		metric = Cosine
	}
	if !metric.IsValid() {
		return Collection{}, fmt.Errorf("invalid metric: %q", metric)
	}
	if err := validateName(name); err != nil {
		return Collection{}, err
	}
	if vectorDim <= 0 {
		return Collection{}, fmt.Errorf("vector dimension must be positive")
	}
	if err := validateFields(fields); err != nil {
		return Collection{}, err
	}

	return Collection{
		name:      name,
		fields:    fields,
		vectorDim: vectorDim,
		metric:    metric,
		createdAt: time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a Collection without validation (storage hydration).
func Reconstruct(name string, fields []field.Field, vectorDim int, metric Metric, createdAt int64) Collection {
	if metric == "" {
		metric = Cosine
	}
	return Collection{
		name:      name,
		fields:    fields,
		vectorDim: vectorDim,
		metric:    metric,
		createdAt: createdAt,
	}
}

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// Fields returns the indexed field definitions.
func (c Collection) Fields() []field.Field { return c.fields }

// VectorDim returns the vector dimension.
func (c Collection) VectorDim() int { return c.vectorDim }

// Metric returns the distance metric.
func (c Collection) Metric() Metric { return c.metric }

// CreatedAt returns the creation timestamp (unix millis).
func (c Collection) CreatedAt() int64 { return c.createdAt }

// FieldByName looks up a field by name.
func (c Collection) FieldByName(name string) (field.Field, bool) {
	for _, f := range c.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// HasField checks if a field with the given name and type exists.
func (c Collection) HasField(name string, ft field.Type) bool {
	f, ok := c.FieldByName(name)
	return ok && f.FieldType() == ft
}
