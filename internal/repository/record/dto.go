package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/domain/wine"
)

// Reserved hash fields. Attributes are stored under their schema names.
const (
	FieldContent = "__content"
	FieldVector  = "__vector"
)

// Attribute hash fields, in schema order.
const (
	FieldGrape   = "grape"
	FieldName    = "name"
	FieldColor   = "color"
	FieldYear    = "year"
	FieldCountry = "country"
	FieldRating  = "rating"
)

// ReturnFields lists every hash field a search needs to rebuild a record (vector excluded).
var ReturnFields = []string{FieldContent, FieldGrape, FieldName, FieldColor, FieldYear, FieldCountry, FieldRating}

// ToHash converts a record and its embedding into a flat map for HSET.
func ToHash(r wine.Record, vector []float32) map[string]string {
	return map[string]string{
		FieldContent: r.Description(),
		FieldVector:  db.VectorToBytes(vector),
		FieldGrape:   r.Grape(),
		FieldName:    r.Name(),
		FieldColor:   string(r.Color()),
		FieldYear:    strconv.Itoa(r.Year()),
		FieldCountry: r.Country(),
		FieldRating:  strconv.Itoa(r.Rating()),
	}
}

// FromHash converts a flat hash back into a record. Integer fields tolerate a float rendering ("2010.0").
func FromHash(id string, m map[string]string) (wine.Record, error) {
	year, err := parseInt(m[FieldYear])
	if err != nil {
		return wine.Record{}, fmt.Errorf("%s %s: %w", id, FieldYear, err)
	}
	rating, err := parseInt(m[FieldRating])
	if err != nil {
		return wine.Record{}, fmt.Errorf("%s %s: %w", id, FieldRating, err)
	}

	return wine.Reconstruct(id, wine.Params{
		Description: m[FieldContent],
		Name:        m[FieldName],
		Year:        year,
		Rating:      rating,
		Grape:       m[FieldGrape],
		Color:       wine.Color(m[FieldColor]),
		Country:     m[FieldCountry],
	}), nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}
