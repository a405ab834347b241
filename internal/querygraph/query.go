package querygraph

import (
	"fmt"
	"maps"

	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/field"
)

// TripleCondition is one triple pattern with an optional FILTER.
type TripleCondition struct {
	Subject   string
	Predicate string
	Object    string
	Filter    string // empty when the pattern has no filter
}

// String renders the pattern as "s p o ." followed by a FILTER line when a
// filter is set. rdf:type is printed as "a".
func (c TripleCondition) String() string {
	predicate := c.Predicate
	if predicate == field.PredicateType {
		predicate = "a"
	}
	sentence := fmt.Sprintf("%s %s %s .", c.Subject, predicate, c.Object)
	if c.Filter == "" {
		return sentence
	}
	return sentence + "\nFILTER (" + c.Filter + ")"
}

// GraphQuery is a compiled graph-pattern query.
//
// This is a sealed interface - only *BasicQuery and *JoinQuery implement it.
type GraphQuery interface {
	graphQuery() // Marker method - seals interface to this package

	// Selectors returns the projected variables without "?", in
	// first-seen order.
	Selectors() []string

	// Prefixes returns the namespace map. Callers must not modify it.
	Prefixes() map[string]string

	// Variables returns every generated variable the query introduces.
	Variables() []string
}

// BasicQuery is a flat list of triple conditions.
type BasicQuery struct {
	selectors  []string
	prefixes   map[string]string
	conditions []TripleCondition
	variables  []string
}

// NewBasicQuery creates an empty query over a copy of prefixes.
func NewBasicQuery(prefixes map[string]string) *BasicQuery {
	return &BasicQuery{prefixes: maps.Clone(prefixes)}
}

// newBookQuery creates a query selecting ?book, anchored on its type.
func newBookQuery(prefixes map[string]string) *BasicQuery {
	q := NewBasicQuery(prefixes)
	q.AddSelector("book")
	q.AddCondition(TripleCondition{Subject: "?book", Predicate: field.PredicateType, Object: field.ClassBook})
	return q
}

func (*BasicQuery) graphQuery() {}

// AddSelector adds a projected variable (without "?"). Duplicates are
// ignored.
func (q *BasicQuery) AddSelector(name string) *BasicQuery {
	q.selectors = compose.MergeSelectors(q.selectors, []string{name})
	return q
}

// AddCondition appends a triple condition.
func (q *BasicQuery) AddCondition(c TripleCondition) *BasicQuery {
	q.conditions = append(q.conditions, c)
	return q
}

func (q *BasicQuery) addVariable(name string) {
	q.variables = append(q.variables, name)
}

func (q *BasicQuery) clone() *BasicQuery {
	return &BasicQuery{
		selectors:  q.Selectors(),
		prefixes:   maps.Clone(q.prefixes),
		conditions: q.Conditions(),
		variables:  q.Variables(),
	}
}

// Conditions returns a copy of the triple conditions in insertion order.
func (q *BasicQuery) Conditions() []TripleCondition {
	return append([]TripleCondition(nil), q.conditions...)
}

func (q *BasicQuery) Selectors() []string         { return append([]string(nil), q.selectors...) }
func (q *BasicQuery) Prefixes() map[string]string { return q.prefixes }
func (q *BasicQuery) Variables() []string         { return append([]string(nil), q.variables...) }

// JoinQuery nests two queries. Use Join to build one.
type JoinQuery struct {
	Left   GraphQuery
	Right  GraphQuery
	Joiner compose.JoinMode // JoinNone or JoinUnion

	selectors []string
	prefixes  map[string]string
}

func (*JoinQuery) graphQuery() {}

func (q *JoinQuery) Selectors() []string         { return append([]string(nil), q.selectors...) }
func (q *JoinQuery) Prefixes() map[string]string { return q.prefixes }

func (q *JoinQuery) Variables() []string {
	return append(q.Left.Variables(), q.Right.Variables()...)
}

// Join combines two finished queries.
//
// Selectors are merged in first-seen order and prefix maps are unioned.
// Generated variables on the right that already occur on the left are
// renamed to unused names before merging. It fails with
// *compose.ConsistencyError when a prefix key is bound to two different
// URIs.
func Join(left, right GraphQuery, mode compose.JoinMode) (*JoinQuery, error) {
	return joinIn(NewScope(), left, right, mode)
}

// joinIn is Join drawing replacement variable names from scope.
func joinIn(scope *Scope, left, right GraphQuery, mode compose.JoinMode) (*JoinQuery, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("cannot join nil graph query")
	}
	if mode != compose.JoinNone && mode != compose.JoinUnion {
		return nil, fmt.Errorf("unsupported graph join mode: %s", mode)
	}

	prefixes, err := compose.MergePrefixes(left.Prefixes(), right.Prefixes())
	if err != nil {
		return nil, err
	}
	if names := freshNames(scope, left.Variables(), right.Variables()); names != nil {
		right = renamed(right, names)
	}

	return &JoinQuery{
		Left:      left,
		Right:     right,
		Joiner:    mode,
		selectors: compose.MergeSelectors(left.Selectors(), right.Selectors()),
		prefixes:  prefixes,
	}, nil
}
