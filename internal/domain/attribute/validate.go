package attribute

import (
	"fmt"

	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
)

// ValidateFilter checks every comparison against the schema: the attribute must exist,
// integer attributes take numbers, string attributes take strings and only equality or
// set comparators.
func (s Schema) ValidateFilter(e filter.Expression) error {
	return e.Walk(func(c filter.Expression) error {
		a, ok := s.Lookup(c.Attribute())
		if !ok {
			return fmt.Errorf("unknown attribute %q", c.Attribute())
		}
		wantNumber := a.Type().IsNumeric()
		for _, v := range c.Values() {
			if v.IsNumber() != wantNumber {
				return fmt.Errorf("%s(%q): %s attribute compared with a %s",
					c.Comparator(), a.Name(), a.Type(), v.Kind())
			}
		}
		if !wantNumber && c.Comparator().IsOrdering() {
			return fmt.Errorf("%s(%q): comparator not allowed on %s attribute",
				c.Comparator(), a.Name(), a.Type())
		}
		return nil
	})
}
