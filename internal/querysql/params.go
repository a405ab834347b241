package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
)

// ParamOption configures RenderParams.
type ParamOption func(*paramRenderer)

// WithFoldFunc sets the SQL function applied to columns before comparison.
// Defaults to UPPER; the store registers a Unicode-aware replacement.
func WithFoldFunc(name string) ParamOption {
	return func(r *paramRenderer) {
		r.fold = name
	}
}

// RenderParams renders q as an executable parameterised statement:
//
//	SELECT <projection> FROM BOOKS LEFT JOIN T ON <cond> ... WHERE <predicate> ORDER BY BOOKS.ID COLLATE BINARY ASC
//
// Returns (sql, params, error). Values are NEVER interpolated; every literal
// becomes a ? placeholder. Columns are wrapped in the fold function so the
// comparison is case-insensitive against the upper-cased values.
// An empty projection selects BOOKS.*.
func RenderParams(q *BookQuery, projection string, opts ...ParamOption) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot render nil query")
	}

	r := &paramRenderer{fold: "UPPER"}
	for _, opt := range opts {
		opt(r)
	}

	where, err := r.renderExpr(q.Predicate)
	if err != nil {
		return "", nil, err
	}

	if projection == "" {
		projection = field.BooksTable + ".*"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", projection, field.BooksTable)
	for _, j := range q.Joins.Sorted() {
		fmt.Fprintf(&b, " %s ON %s", j.Clause(), j.Condition())
	}
	b.WriteString(" WHERE " + where)
	// Deterministic result order.
	b.WriteString(" ORDER BY " + field.BooksTable + ".ID COLLATE BINARY ASC")

	return b.String(), r.params, nil
}

// paramRenderer accumulates placeholder values in render order.
type paramRenderer struct {
	fold   string
	params []any
}

func (r *paramRenderer) renderExpr(e Expr) (string, error) {
	switch expr := e.(type) {
	case Condition:
		return r.renderCondition(expr)
	case *Condition:
		return r.renderCondition(*expr)
	case Group:
		return renderGroup(expr, r.renderExpr)
	case *Group:
		return renderGroup(*expr, r.renderExpr)
	case nil:
		return "", fmt.Errorf("cannot render nil predicate")
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", e)
	}
}

func (r *paramRenderer) renderCondition(c Condition) (string, error) {
	if len(c.Values) == 0 {
		return "", fmt.Errorf("condition on %s has no values", c.Path)
	}

	column := fmt.Sprintf("%s(%s)", r.fold, c.Path)
	switch c.Operator {
	case filter.OpEqual:
		return column + " = " + r.bind(c.Values[0]), nil
	case filter.OpNotEqual:
		return column + " != " + r.bind(c.Values[0]), nil
	case filter.OpIn:
		return column + " IN (" + r.bindList(c.Values) + ")", nil
	case filter.OpNotIn:
		return "NOT (" + column + " IN (" + r.bindList(c.Values) + "))", nil
	case filter.OpLike:
		return column + " LIKE " + r.bind(likePattern(c.Values[0])) + ` ESCAPE '\'`, nil
	case filter.OpNotLike:
		return "NOT (" + column + " LIKE " + r.bind(likePattern(c.Values[0])) + ` ESCAPE '\')`, nil
	default:
		return "", &filter.UnsupportedOperatorError{
			Symbol: c.Operator.Symbol(),
			Node:   c.Path + c.Operator.Symbol() + strings.Join(c.Values, ","),
		}
	}
}

func (r *paramRenderer) bind(v string) string {
	r.params = append(r.params, v)
	return "?"
}

func (r *paramRenderer) bindList(values []string) string {
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = r.bind(v)
	}
	return strings.Join(marks, ", ")
}

// likePattern turns a value into a substring pattern, escaping LIKE
// wildcards in the value itself.
func likePattern(v string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(v)
	return "%" + escaped + "%"
}
