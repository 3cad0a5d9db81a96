package translate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raviX007/natural-language-wine-search/internal/domain/attribute"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
)

// Example is a few-shot pair shown to the model.
type Example struct {
	Query  string
	Output Output
}

// Output is the JSON document the model must answer with.
type Output struct {
	Query  string `json:"query"`
	Filter string `json:"filter"`
	Limit  *int   `json:"limit,omitempty"`
}

func intPtr(n int) *int { return &n }

// DefaultExamples are the few-shot pairs for the wine schema.
func DefaultExamples() []Example {
	return []Example{
		{
			Query:  "What are some red wines from France rated above 95?",
			Output: Output{Query: "", Filter: `and(eq("color", "red"), eq("country", "France"), gt("rating", 95))`},
		},
		{
			Query:  "Show me two fruity Italian wines",
			Output: Output{Query: "fruity", Filter: `eq("country", "Italy")`, Limit: intPtr(2)},
		},
		{
			Query:  "earthy wines with notes of leather released before 2010",
			Output: Output{Query: "earthy notes of leather", Filter: `lt("year", 2010)`},
		},
		{
			Query:  "Anything crisp and refreshing",
			Output: Output{Query: "crisp refreshing", Filter: filter.NoFilter},
		},
	}
}

type promptAttribute struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

// BuildPrompt renders the system prompt for a schema.
func BuildPrompt(schema attribute.Schema, examples []Example) (string, error) {
	var b strings.Builder

	b.WriteString("Your goal is to structure the user's query to match the request schema provided below.\n\n")
	b.WriteString("Answer with a single JSON object with the following keys:\n")
	b.WriteString(`  "query": text string to compare to the record contents` + "\n")
	b.WriteString(`  "filter": logical condition statement for filtering records` + "\n")
	b.WriteString(`  "limit": the number of records to retrieve, omit it if the user did not ask for a number` + "\n\n")

	b.WriteString("The query string should contain only text that is expected to match the contents of records. ")
	b.WriteString("Any conditions in the filter should not be mentioned in the query as well.\n\n")

	b.WriteString("A logical condition statement is composed of one or more comparison and logical operation statements.\n")
	b.WriteString("A comparison statement takes the form: comp(attr, val)\n")
	fmt.Fprintf(&b, "- comp (%s): comparator\n", joinComparators(filter.Comparators))
	b.WriteString("- attr (string): name of attribute to apply the comparison to\n")
	b.WriteString("- val (string or number): the comparison value; in and nin take a list [val, ...]\n")
	b.WriteString("A logical operation statement takes the form op(statement1, statement2, ...)\n")
	fmt.Fprintf(&b, "- op (%s): logical operator\n", joinOperators(filter.Operators))
	b.WriteString("- statement1, statement2, ... (comparison statements or logical operation statements): one or more statements to apply the operation to\n\n")

	b.WriteString("Make sure that you only use the comparators and logical operators listed above and no others.\n")
	b.WriteString("Make sure that filters only refer to attributes that exist in the data source.\n")
	b.WriteString("Make sure that filters only use the attribute names with their function names if there are functions applied on them.\n")
	b.WriteString("Make sure that filters take into account the descriptions of attributes and only make comparisons that are feasible given the type of data being stored.\n")
	b.WriteString("String values are compared exactly and always in double quotes; integers are written without quotes.\n")
	b.WriteString("Make sure that filters are only used as needed. If there are no filters that should be applied return \"" +
		filter.NoFilter + "\" for the filter value.\n")
	b.WriteString("Make sure the limit is always a positive integer. It is an optional parameter so leave it out if it does not make sense.\n\n")

	attrJSON, err := attributesJSON(schema.Attributes())
	if err != nil {
		return "", err
	}

	b.WriteString("<< Data Source >>\n")
	fmt.Fprintf(&b, "Content: %s\n", schema.Content())
	b.WriteString("Attributes:\n")
	b.WriteString(attrJSON)
	b.WriteString("\n")

	for i, ex := range examples {
		out, err := json.MarshalIndent(ex.Output, "", "    ")
		if err != nil {
			return "", fmt.Errorf("marshal example %d: %w", i+1, err)
		}
		fmt.Fprintf(&b, "\n<< Example %d. >>\nUser Query:\n%s\n\nStructured Request:\n%s\n", i+1, ex.Query, out)
	}

	return b.String(), nil
}

// attributesJSON renders the attributes as a JSON object in schema order.
func attributesJSON(attrs []attribute.Attribute) (string, error) {
	var b strings.Builder
	b.WriteString("{")
	for i, a := range attrs {
		v, err := json.Marshal(promptAttribute{Description: a.Description(), Type: string(a.Type())})
		if err != nil {
			return "", fmt.Errorf("marshal attribute %s: %w", a.Name(), err)
		}
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "\n    %q: %s", a.Name(), v)
	}
	b.WriteString("\n}")
	return b.String(), nil
}

func joinComparators(cs []filter.Comparator) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, " | ")
}

func joinOperators(ops []filter.Operator) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = string(o)
	}
	return strings.Join(parts, " | ")
}
