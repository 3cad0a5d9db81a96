// Package catalog provides the seed dataset: the wine records inserted into an empty
// collection and the example queries shown to users.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/raviX007/natural-language-wine-search/internal/domain/wine"
)

//go:embed wines.yaml
var defaultCatalog []byte

// Catalog is an immutable seed dataset.
type Catalog struct {
	records  []wine.Record
	examples []string
}

type fileEntry struct {
	Name        string `yaml:"name"`
	Year        int    `yaml:"year"`
	Rating      int    `yaml:"rating"`
	Grape       string `yaml:"grape"`
	Color       string `yaml:"color"`
	Country     string `yaml:"country"`
	Description string `yaml:"description"`
}

type file struct {
	Wines    []fileEntry `yaml:"wines"`
	Examples []string    `yaml:"examples"`
}

// Default returns the built-in nine-wine catalog.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded dataset is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return build([]file{f})
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadGlob merges every YAML file matching a doublestar pattern (e.g. "data/**/*.yaml").
// Files are read in lexical order; a name+year seen twice is an error.
// Without any examples in the files, the default example queries are used.
func LoadGlob(pattern string) (Catalog, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return Catalog{}, fmt.Errorf("bad catalog pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return Catalog{}, fmt.Errorf("no catalog files match %q", pattern)
	}
	sort.Strings(paths)

	files := make([]file, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return Catalog{}, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Catalog{}, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		files = append(files, f)
	}

	c, err := build(files)
	if err != nil {
		return Catalog{}, err
	}
	if len(c.examples) == 0 {
		c.examples = Default().examples
	}
	return c, nil
}

func build(files []file) (Catalog, error) {
	var c Catalog
	seen := make(map[string]string)
	for _, f := range files {
		for i, e := range f.Wines {
			r, err := wine.New(wine.Params{
				Description: e.Description,
				Name:        e.Name,
				Year:        e.Year,
				Rating:      e.Rating,
				Grape:       e.Grape,
				Color:       wine.Color(e.Color),
				Country:     e.Country,
			})
			if err != nil {
				return Catalog{}, fmt.Errorf("wine #%d: %w", i+1, err)
			}
			if prev, dup := seen[r.ID()]; dup {
				return Catalog{}, fmt.Errorf("duplicate wine %s (also %s)", r.Title(), prev)
			}
			seen[r.ID()] = r.Title()
			c.records = append(c.records, r)
		}
		c.examples = append(c.examples, f.Examples...)
	}
	if len(c.records) == 0 {
		return Catalog{}, fmt.Errorf("catalog has no wines")
	}
	return c, nil
}

// Records returns the records in catalog order.
func (c Catalog) Records() []wine.Record { return c.records }

// Examples returns the example queries.
func (c Catalog) Examples() []string { return c.examples }

// Len returns the number of records.
func (c Catalog) Len() int { return len(c.records) }

// Descriptions returns the texts to embed, index-aligned with Records.
func (c Catalog) Descriptions() []string {
	out := make([]string, len(c.records))
	for i, r := range c.records {
		out[i] = r.Description()
	}
	return out
}
