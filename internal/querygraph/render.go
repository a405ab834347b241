package querygraph

import (
	"fmt"
	"sort"
	"strings"
)

// Render produces the query text:
//
//	PREFIX p: <uri>      one line per prefix, sorted by key
//
//	SELECT ?a, ?b
//	WHERE
//	{
//	  <where-clause>
//	}
//
// A JoinQuery's where-clause is each side wrapped in braces, separated by
// UNION for compose.JoinUnion.
func Render(q GraphQuery) (string, error) {
	if q == nil {
		return "", fmt.Errorf("cannot render nil graph query")
	}

	where, err := whereClause(q)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(prefixClause(q.Prefixes()))
	b.WriteString("\n\n")
	b.WriteString(selectClause(q.Selectors()))
	b.WriteString("\nWHERE\n")
	b.WriteString(wrap(where))
	return b.String(), nil
}

func prefixClause(prefixes map[string]string) string {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("PREFIX %s: <%s>", k, prefixes[k])
	}
	return strings.Join(lines, "\n")
}

func selectClause(selectors []string) string {
	vars := make([]string, len(selectors))
	for i, s := range selectors {
		vars[i] = "?" + s
	}
	return "SELECT " + strings.Join(vars, ", ")
}

func whereClause(q GraphQuery) (string, error) {
	switch query := q.(type) {
	case *BasicQuery:
		lines := make([]string, len(query.conditions))
		for i, c := range query.conditions {
			lines[i] = c.String()
		}
		return strings.Join(lines, "\n"), nil
	case *JoinQuery:
		left, err := whereClause(query.Left)
		if err != nil {
			return "", err
		}
		right, err := whereClause(query.Right)
		if err != nil {
			return "", err
		}
		parts := []string{wrap(left)}
		if keyword := query.Joiner.Keyword(); keyword != "" {
			parts = append(parts, keyword)
		}
		parts = append(parts, wrap(right))
		return strings.Join(parts, "\n"), nil
	default:
		return "", fmt.Errorf("unsupported graph query type: %T", q)
	}
}

// wrap encloses s in braces, indenting every line by two spaces.
func wrap(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return "{\n" + strings.Join(lines, "\n") + "\n}"
}
