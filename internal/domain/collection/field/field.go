// Package field describes the indexed attributes of a collection.
package field

import (
	"fmt"
	"strings"

	"github.com/raviX007/natural-language-wine-search/internal/domain/attribute"
)

// Type is the indexing type of a field.
type Type string

// Field type constants.
const (
	// Tag is an exact-match field for string attributes.
	Tag     Type = "tag"
	Numeric Type = "numeric"
)

// Reserved names collide with the internal hash fields.
var reservedFieldNames = map[string]bool{
	"id": true, "content": true, "score": true, "vector": true,
}

// Field is an immutable value object describing an indexed collection field.
type Field struct {
	name      string
	fieldType Type
}

// New validates and creates a Field.
func New(name string, ft Type) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("field name %q too long (max 64)", name)
	}
	if reservedFieldNames[name] || strings.HasPrefix(name, "__") {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if ft != Tag && ft != Numeric {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft}, nil
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(name string, ft Type) Field {
	return Field{name: name, fieldType: ft}
}

// FromAttribute maps an attribute to its index field: integers are numeric, strings are tags.
func FromAttribute(a attribute.Attribute) (Field, error) {
	if a.Type().IsNumeric() {
		return New(a.Name(), Numeric)
	}
	return New(a.Name(), Tag)
}

// FromSchema maps every schema attribute to a field, preserving order.
func FromSchema(s attribute.Schema) ([]Field, error) {
	fields := make([]Field, 0, len(s.Attributes()))
	for _, a := range s.Attributes() {
		f, err := FromAttribute(a)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's indexing type.
func (f Field) FieldType() Type { return f.fieldType }
