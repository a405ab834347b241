package querygraph

import (
	"strings"

	"github.com/roach88/bookql/internal/compose"
)

// freshNames maps every right-hand variable that collides with a left-hand
// one to a new name drawn from scope. Names already used by either side are
// skipped, so the result never collides with anything.
func freshNames(scope *Scope, left, right []string) map[string]string {
	collisions := compose.Collisions(left, right)
	if len(collisions) == 0 {
		return nil
	}

	taken := make(map[string]bool, len(left)+len(right))
	for _, v := range left {
		taken[v] = true
	}
	for _, v := range right {
		taken[v] = true
	}

	names := make(map[string]string, len(collisions))
	for _, v := range collisions {
		next := scope.Placeholder
		if !isPlaceholder(v) {
			kind := resourceKind(v)
			next = func() string { return scope.Resource(kind) }
		}
		fresh := next()
		for taken[fresh] {
			fresh = next()
		}
		taken[fresh] = true
		names[v] = fresh
	}
	return names
}

func isPlaceholder(v string) bool {
	return strings.HasPrefix(v, "?cond_value")
}

// resourceKind strips "?" and the counter from a resource variable:
// "?author12" -> "author".
func resourceKind(v string) string {
	return strings.TrimRight(strings.TrimPrefix(v, "?"), "0123456789")
}

// renamed returns a copy of q with variables replaced per names. q itself
// is left untouched.
func renamed(q GraphQuery, names map[string]string) GraphQuery {
	switch query := q.(type) {
	case *BasicQuery:
		out := query.clone()
		for i, c := range out.conditions {
			out.conditions[i] = TripleCondition{
				Subject:   renameTerm(c.Subject, names),
				Predicate: c.Predicate,
				Object:    renameTerm(c.Object, names),
				Filter:    renameFilter(c.Filter, names),
			}
		}
		for i, v := range out.variables {
			out.variables[i] = renameTerm(v, names)
		}
		out.selectors = renameSelectors(out.selectors, names)
		return out
	case *JoinQuery:
		return &JoinQuery{
			Left:      renamed(query.Left, names),
			Right:     renamed(query.Right, names),
			Joiner:    query.Joiner,
			selectors: renameSelectors(query.Selectors(), names),
			prefixes:  query.prefixes,
		}
	}
	return q
}

func renameTerm(term string, names map[string]string) string {
	if fresh, ok := names[term]; ok {
		return fresh
	}
	return term
}

// Selectors are stored without the leading "?".
func renameSelectors(selectors []string, names map[string]string) []string {
	if len(selectors) == 0 {
		return nil
	}
	out := make([]string, len(selectors))
	for i, s := range selectors {
		out[i] = strings.TrimPrefix(renameTerm("?"+s, names), "?")
	}
	return out
}

// renameFilter replaces ?variable tokens in a FILTER expression. String
// literals are copied verbatim so user values that look like variables are
// never rewritten.
func renameFilter(expr string, names map[string]string) string {
	if expr == "" || len(names) == 0 {
		return expr
	}

	var b strings.Builder
	for i := 0; i < len(expr); {
		switch c := expr[i]; {
		case c == '"':
			end := literalEnd(expr, i)
			b.WriteString(expr[i:end])
			i = end
		case c == '?':
			end := i + 1
			for end < len(expr) && isVariableChar(expr[end]) {
				end++
			}
			b.WriteString(renameTerm(expr[i:end], names))
			i = end
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// literalEnd returns the index just past the string literal opening at
// start, honouring backslash escapes.
func literalEnd(expr string, start int) int {
	for i := start + 1; i < len(expr); i++ {
		switch expr[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(expr)
}

func isVariableChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
