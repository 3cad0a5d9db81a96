// Package wine holds the catalog record aggregate.
package wine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Color is the wine style. The set is open; known values get no special treatment beyond normalization.
type Color string

// Known colors.
const (
	Red       Color = "red"
	White     Color = "white"
	Sparkling Color = "sparkling"
	Rose      Color = "rose"
	Dessert   Color = "dessert"
)

// MaxRating is the top of the 0-100 critic scale.
const MaxRating = 100

// MaxDescriptionSize is the maximum description length in bytes.
const MaxDescriptionSize = 4096

// recordNamespace scopes deterministic record IDs.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("winesearch/record"))

// Params are the raw attributes of a record before validation.
type Params struct {
	Description string
	Name        string
	Year        int
	Rating      int
	Grape       string
	Color       Color
	Country     string
}

// Record is an immutable catalog entry: free-text description plus structured attributes.
type Record struct {
	id          string
	description string
	name        string
	year        int
	rating      int
	grape       string
	color       Color
	country     string
}

// New validates and creates a Record.
// Description and name are required, rating is 0-100, year must be positive.
// The ID is a UUIDv5 of name and year so reseeding the same catalog rewrites the same points.
func New(p Params) (Record, error) {
	description := strings.TrimSpace(p.Description)
	name := strings.TrimSpace(p.Name)

	if description == "" {
		return Record{}, fmt.Errorf("description is required")
	}
	if len(description) > MaxDescriptionSize {
		return Record{}, fmt.Errorf("description too large (max %d bytes)", MaxDescriptionSize)
	}
	if name == "" {
		return Record{}, fmt.Errorf("name is required")
	}
	if p.Year <= 0 {
		return Record{}, fmt.Errorf("year must be positive, got %d for %q", p.Year, name)
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return Record{}, fmt.Errorf("rating must be between 0 and %d, got %d for %q", MaxRating, p.Rating, name)
	}
	color := Color(strings.ToLower(strings.TrimSpace(string(p.Color))))
	if color == "" {
		return Record{}, fmt.Errorf("color is required for %q", name)
	}

	return Record{
		id:          recordID(name, p.Year),
		description: description,
		name:        name,
		year:        p.Year,
		rating:      p.Rating,
		grape:       strings.TrimSpace(p.Grape),
		color:       color,
		country:     strings.TrimSpace(p.Country),
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id string, p Params) Record {
	if id == "" {
		id = recordID(p.Name, p.Year)
	}
	return Record{
		id:          id,
		description: p.Description,
		name:        p.Name,
		year:        p.Year,
		rating:      p.Rating,
		grape:       p.Grape,
		color:       p.Color,
		country:     p.Country,
	}
}

func recordID(name string, year int) string {
	return uuid.NewSHA1(recordNamespace, []byte(name+"|"+strconv.Itoa(year))).String()
}

// ID returns the deterministic record identifier.
func (r Record) ID() string { return r.id }

// Description returns the free-text description that gets embedded.
func (r Record) Description() string { return r.description }

// Name returns the wine name.
func (r Record) Name() string { return r.name }

// Year returns the vintage.
func (r Record) Year() int { return r.year }

// Rating returns the critic rating (0-100).
func (r Record) Rating() int { return r.rating }

// Grape returns the grape variety.
func (r Record) Grape() string { return r.grape }

// Color returns the wine color.
func (r Record) Color() Color { return r.color }

// Country returns the country of origin.
func (r Record) Country() string { return r.country }

// Params returns the record attributes.
func (r Record) Params() Params {
	return Params{
		Description: r.description,
		Name:        r.name,
		Year:        r.year,
		Rating:      r.rating,
		Grape:       r.grape,
		Color:       r.color,
		Country:     r.country,
	}
}

// Title is the display heading, e.g. "Opus One (2018)".
func (r Record) Title() string {
	return fmt.Sprintf("%s (%d)", r.name, r.year)
}
