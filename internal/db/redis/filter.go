package redis

import (
	"fmt"
	"strings"

	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
)

// BuildFilter translates a filter tree into an FT.SEARCH query string; empty for no filter.
// Tag syntax serves string values, range syntax serves numbers.
func BuildFilter(expr filter.Expression) (string, error) {
	if expr.IsEmpty() {
		return "", nil
	}
	return renderExpr(expr)
}

func renderExpr(e filter.Expression) (string, error) {
	if e.IsComparison() {
		return renderComparison(e)
	}

	parts := make([]string, 0, len(e.Children()))
	for _, c := range e.Children() {
		p, err := renderExpr(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}

	switch e.Operator() {
	case filter.And:
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " ") + ")", nil
	case filter.Or:
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " | ") + ")", nil
	case filter.Not:
		return "-(" + parts[0] + ")", nil
	}
	return "", fmt.Errorf("unsupported operator %q", e.Operator())
}

func renderComparison(e filter.Expression) (string, error) {
	attr := e.Attribute()
	values := e.Values()
	cmp := e.Comparator()

	if !values[0].IsNumber() {
		if cmp.IsOrdering() {
			return "", fmt.Errorf("%s is not supported on string values (%s)", cmp, attr)
		}
		tags := make([]string, len(values))
		for i, v := range values {
			tags[i] = tagEscaper.Replace(v.Str())
		}
		q := fmt.Sprintf("@%s:{%s}", attr, strings.Join(tags, " | "))
		if cmp.IsNegative() {
			q = "-" + q
		}
		return q, nil
	}

	n := filter.FormatNumber(values[0].Num())
	switch cmp {
	case filter.Eq:
		return numericRange(attr, n, n), nil
	case filter.Ne:
		return "-" + numericRange(attr, n, n), nil
	case filter.Gt:
		return numericRange(attr, "("+n, "+inf"), nil
	case filter.Gte:
		return numericRange(attr, n, "+inf"), nil
	case filter.Lt:
		return numericRange(attr, "-inf", "("+n), nil
	case filter.Lte:
		return numericRange(attr, "-inf", n), nil
	}

	ranges := make([]string, len(values))
	for i, v := range values {
		s := filter.FormatNumber(v.Num())
		ranges[i] = numericRange(attr, s, s)
	}
	q := ranges[0]
	if len(ranges) > 1 {
		q = "(" + strings.Join(ranges, " | ") + ")"
	}
	if cmp == filter.Nin {
		q = "-" + q
	}
	return q, nil
}

func numericRange(attr, lo, hi string) string {
	return fmt.Sprintf("@%s:[%s %s]", attr, lo, hi)
}

var tagEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"/", "\\/",
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)
