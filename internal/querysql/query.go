package querysql

import (
	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/filter"
)

// Expr is a relational predicate.
//
// This is a sealed interface - only Condition and Group implement it.
type Expr interface {
	sqlExpr() // Marker method - seals interface to this package
}

// Condition compares one column path against already-folded values.
type Condition struct {
	Path     string          // qualified column, e.g. "TAGS.NAME"
	Operator filter.Operator // comparison operator
	Values   []string        // upper-cased literals
}

func (Condition) sqlExpr() {}

// Group combines child predicates with AND (JoinAnd) or OR (JoinUnion).
// Every child is parenthesised when rendered.
type Group struct {
	Mode     compose.JoinMode
	Children []Expr
}

func (Group) sqlExpr() {}

// BookQuery is a compiled relational query: a predicate plus the joins it
// needs. Joins is a set keyed by table, so a table is joined once no
// matter how many conditions reference it.
type BookQuery struct {
	Predicate Expr
	Joins     compose.JoinSet
}

// And combines queries into a conjunction and unions their joins.
func And(queries ...*BookQuery) *BookQuery {
	return combine(compose.JoinAnd, queries)
}

// Or combines queries into a disjunction and unions their joins.
func Or(queries ...*BookQuery) *BookQuery {
	return combine(compose.JoinUnion, queries)
}

func combine(mode compose.JoinMode, queries []*BookQuery) *BookQuery {
	children := make([]Expr, 0, len(queries))
	joins := compose.JoinSet{}
	for _, q := range queries {
		children = append(children, q.Predicate)
		joins = joins.Union(q.Joins)
	}
	return &BookQuery{
		Predicate: Group{Mode: mode, Children: children},
		Joins:     joins,
	}
}

// And combines q with others into a conjunction.
func (q *BookQuery) And(others ...*BookQuery) *BookQuery {
	return And(append([]*BookQuery{q}, others...)...)
}

// Or combines q with others into a disjunction.
func (q *BookQuery) Or(others ...*BookQuery) *BookQuery {
	return Or(append([]*BookQuery{q}, others...)...)
}

// Where renders the predicate text embeddable after WHERE.
func (q *BookQuery) Where() (string, error) {
	return renderExpr(q.Predicate)
}
