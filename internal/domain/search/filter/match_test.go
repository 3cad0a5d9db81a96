package filter

import "testing"

func TestMatch(t *testing.T) {
	opus := map[string]string{
		"name": "Opus One", "color": "red", "country": "USA",
		"grape": "Cabernet Sauvignon", "year": "2018", "rating": "96",
	}

	tests := []struct {
		filter string
		want   bool
	}{
		{NoFilter, true},
		{`eq("color", "Red")`, true},
		{`eq("color", "white")`, false},
		{`ne("color", "white")`, true},
		{`gt("rating", 95)`, true},
		{`gt("rating", 96)`, false},
		{`gte("rating", 96)`, true},
		{`lt("year", 2018)`, false},
		{`lte("year", 2018)`, true},
		{`eq("year", 2018)`, true},
		{`in("country", ["France", "usa"])`, true},
		{`nin("country", ["France", "Italy"])`, true},
		{`and(eq("color", "red"), gt("rating", 97))`, false},
		{`or(eq("color", "white"), gt("rating", 95))`, true},
		{`not(eq("country", "USA"))`, false},
		{`eq("region", "Napa")`, false},
		{`ne("region", "Napa")`, true},
		{`gt("name", 3)`, false},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			e, err := Parse(tt.filter)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got := e.Match(opus); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatch_CommaSeparatedTags(t *testing.T) {
	e := mustCmp(t, Eq, "color", StringValue("rose"))
	if !e.Match(map[string]string{"color": "red, rose"}) {
		t.Error("expected match on second tag")
	}
}
