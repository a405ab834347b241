package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/filter"
)

// Render produces the inline statement
//
//	SELECT * FROM Books <LEFT JOIN T ...> WHERE <predicate> <AND join-condition ...>
//
// Joins are emitted in table-name order so output is deterministic. An OR
// predicate is parenthesised when join conditions follow it, so every
// disjunct is bound by them.
// Literals are embedded with single quotes doubled; use RenderParams for a
// statement that is executed.
func Render(q *BookQuery) (string, error) {
	if q == nil {
		return "", fmt.Errorf("cannot render nil query")
	}

	where, err := renderExpr(q.Predicate)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM Books")
	joins := q.Joins.Sorted()
	for _, j := range joins {
		b.WriteString(" " + j.Clause())
	}
	if len(joins) > 0 && isDisjunction(q.Predicate) {
		where = "(" + where + ")"
	}
	b.WriteString(" WHERE " + where)
	for _, j := range joins {
		b.WriteString(" AND " + j.Condition())
	}
	return b.String(), nil
}

func isDisjunction(e Expr) bool {
	switch expr := e.(type) {
	case Group:
		return expr.Mode == compose.JoinUnion
	case *Group:
		return expr.Mode == compose.JoinUnion
	}
	return false
}

// renderExpr renders a predicate with inline literals.
func renderExpr(e Expr) (string, error) {
	switch expr := e.(type) {
	case Condition:
		return renderCondition(expr)
	case *Condition:
		return renderCondition(*expr)
	case Group:
		return renderGroup(expr, renderExpr)
	case *Group:
		return renderGroup(*expr, renderExpr)
	case nil:
		return "", fmt.Errorf("cannot render nil predicate")
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", e)
	}
}

// renderGroup parenthesises every child and joins them with the group's
// keyword. An empty group renders as its identity element.
func renderGroup(g Group, render func(Expr) (string, error)) (string, error) {
	keyword, identity, err := groupKeyword(g.Mode)
	if err != nil {
		return "", err
	}
	if len(g.Children) == 0 {
		return identity, nil
	}

	parts := make([]string, len(g.Children))
	for i, child := range g.Children {
		sql, err := render(child)
		if err != nil {
			return "", err
		}
		parts[i] = "(" + sql + ")"
	}
	return strings.Join(parts, " "+keyword+" "), nil
}

func groupKeyword(mode compose.JoinMode) (keyword, identity string, err error) {
	switch mode {
	case compose.JoinAnd:
		return "AND", "1 = 1", nil
	case compose.JoinUnion:
		return "OR", "1 = 0", nil
	default:
		return "", "", fmt.Errorf("unsupported relational join mode: %s", mode)
	}
}

func renderCondition(c Condition) (string, error) {
	if len(c.Values) == 0 {
		return "", fmt.Errorf("condition on %s has no values", c.Path)
	}

	switch c.Operator {
	case filter.OpEqual:
		return c.Path + "=" + quote(c.Values[0]), nil
	case filter.OpNotEqual:
		return c.Path + "!=" + quote(c.Values[0]), nil
	case filter.OpIn:
		return c.Path + " IN (" + quoteList(c.Values) + ")", nil
	case filter.OpNotIn:
		return "NOT (" + c.Path + " IN (" + quoteList(c.Values) + "))", nil
	case filter.OpLike:
		return c.Path + "=" + quote("%"+c.Values[0]+"%"), nil
	case filter.OpNotLike:
		return "NOT (" + c.Path + "=" + quote("%"+c.Values[0]+"%") + ")", nil
	default:
		return "", &filter.UnsupportedOperatorError{
			Symbol: c.Operator.Symbol(),
			Node:   c.Path + c.Operator.Symbol() + strings.Join(c.Values, ","),
		}
	}
}

// quote wraps a literal in single quotes, doubling embedded quotes.
func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, ", ")
}
