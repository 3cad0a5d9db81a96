// Package attribute describes the filterable metadata of catalog records.
// The schema is what the query translator shows the LLM and what its output is validated against.
package attribute

import (
	"fmt"
	"strings"
)

// Type is the value type of an attribute as presented to the translator.
type Type string

// Attribute types.
const (
	String     Type = "string"
	StringList Type = "list[string]"
	Integer    Type = "integer"
)

// IsValid checks if the type is supported.
func (t Type) IsValid() bool {
	return t == String || t == StringList || t == Integer
}

// IsNumeric reports whether values of this type are numbers.
func (t Type) IsNumeric() bool { return t == Integer }

// Attribute is a named, typed, described record attribute.
type Attribute struct {
	name        string
	description string
	attrType    Type
}

// New validates and creates an Attribute.
func New(name, description string, t Type) (Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Attribute{}, fmt.Errorf("attribute name is required")
	}
	if !t.IsValid() {
		return Attribute{}, fmt.Errorf("invalid attribute type %q for %q", t, name)
	}
	return Attribute{name: name, description: strings.TrimSpace(description), attrType: t}, nil
}

// Name returns the attribute name.
func (a Attribute) Name() string { return a.name }

// Description returns the human-readable description shown to the translator.
func (a Attribute) Description() string { return a.description }

// Type returns the attribute value type.
func (a Attribute) Type() Type { return a.attrType }

// Schema is the ordered attribute list plus the description of the free-text content.
type Schema struct {
	content    string
	attributes []Attribute
}

// NewSchema validates and creates a Schema. Attribute names must be unique.
func NewSchema(content string, attrs []Attribute) (Schema, error) {
	if strings.TrimSpace(content) == "" {
		return Schema{}, fmt.Errorf("content description is required")
	}
	if len(attrs) == 0 {
		return Schema{}, fmt.Errorf("at least one attribute is required")
	}
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if seen[a.name] {
			return Schema{}, fmt.Errorf("duplicate attribute: %s", a.name)
		}
		seen[a.name] = true
	}
	return Schema{content: strings.TrimSpace(content), attributes: attrs}, nil
}

// Content returns the content description.
func (s Schema) Content() string { return s.content }

// Attributes returns the attributes in declaration order.
func (s Schema) Attributes() []Attribute { return s.attributes }

// Lookup finds an attribute by name.
func (s Schema) Lookup(name string) (Attribute, bool) {
	for _, a := range s.attributes {
		if a.name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

func mustAttr(name, description string, t Type) Attribute {
	a, err := New(name, description, t)
	if err != nil {
		panic(err)
	}
	return a
}

// WineSchema is the schema of the wine catalog.
func WineSchema() Schema {
	return Schema{
		content: "Brief description of the wine",
		attributes: []Attribute{
			mustAttr("grape", "The grape used to make the wine", String),
			mustAttr("name", "The name of the wine", String),
			mustAttr("color", "The color of the wine", StringList),
			mustAttr("year", "The year the wine was released", Integer),
			mustAttr("country", "The name of the country the wine comes from", String),
			mustAttr("rating", "The Robert Parker rating for the wine 0-100", Integer),
		},
	}
}
