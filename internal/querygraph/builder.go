package querygraph

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
)

// BookQuery builds a book graph query fluently.
//
// With* calls append conditions to the current BasicQuery. And() and Or()
// finish the current query as a pending base and return a builder for the
// next one; Build joins base and current with the recorded mode. This gives
// the same result as building both queries separately and combining them
// with AndWith/OrWith.
//
// Errors are kept and returned by Build; once an error is recorded further
// calls are no-ops.
type BookQuery struct {
	scope    *Scope
	prefixes map[string]string
	current  *BasicQuery
	pending  *pendingJoin
	err      error
}

type pendingJoin struct {
	base GraphQuery
	mode compose.JoinMode
}

// NewBookQuery creates a builder drawing variable names from scope.
// A nil scope gets a fresh one.
func NewBookQuery(scope *Scope) *BookQuery {
	return newBuilder(scope, field.Namespaces())
}

func newBuilder(scope *Scope, prefixes map[string]string) *BookQuery {
	if scope == nil {
		scope = NewScope()
	}
	return &BookQuery{
		scope:    scope,
		prefixes: prefixes,
		current:  newBookQuery(prefixes),
	}
}

// WithPrefix declares an extra namespace on the current query.
func (b *BookQuery) WithPrefix(prefix, uri string) *BookQuery {
	if b.err != nil {
		return b
	}
	b.prefixes[prefix] = uri
	b.current.prefixes[prefix] = uri
	return b
}

// WithTitle adds a condition on schema:title.
func (b *BookQuery) WithTitle(op filter.Operator, titles ...string) *BookQuery {
	return b.WithProperty(field.PredicateTitle, op, titles...)
}

// WithTag adds a condition on bl:tag.
func (b *BookQuery) WithTag(op filter.Operator, tags ...string) *BookQuery {
	return b.WithProperty(field.PredicateTag, op, tags...)
}

// WithLanguage adds a condition on schema:language.
func (b *BookQuery) WithLanguage(op filter.Operator, langs ...string) *BookQuery {
	return b.WithProperty(field.PredicateLanguage, op, langs...)
}

// WithIdentifier adds a condition on bl:identifier.
func (b *BookQuery) WithIdentifier(op filter.Operator, idents ...string) *BookQuery {
	return b.WithProperty(field.PredicateIdentifier, op, idents...)
}

// WithPublisher adds a condition on schema:publishedBy.
func (b *BookQuery) WithPublisher(op filter.Operator, names ...string) *BookQuery {
	return b.WithProperty(field.PredicatePublisher, op, names...)
}

// WithSeries adds a condition on schema:partOfSeries.
func (b *BookQuery) WithSeries(op filter.Operator, names ...string) *BookQuery {
	return b.WithProperty(field.PredicatePartOfSeries, op, names...)
}

// WithAuthorID adds a condition on the schema:author link itself.
func (b *BookQuery) WithAuthorID(op filter.Operator, ids ...string) *BookQuery {
	return b.WithProperty(field.PredicateAuthor, op, ids...)
}

// WithAuthor adds an indirect condition on an author's name:
//
//	?book schema:author ?authorN .
//	?authorN foaf:name "name" .
func (b *BookQuery) WithAuthor(op filter.Operator, names ...string) *BookQuery {
	if !b.check(op, names) {
		return b
	}
	author := b.scope.Resource("author")
	b.current.addVariable(author)
	b.current.AddCondition(TripleCondition{Subject: "?book", Predicate: field.PredicateAuthor, Object: author})
	b.addCondition(author, field.PredicateName, op, names, false)
	return b
}

// WithSeriesVolume adds a condition on schema:volumeNumber. Volumes are
// rendered as integers; LIKE operators are rejected.
func (b *BookQuery) WithSeriesVolume(op filter.Operator, volumes ...int) *BookQuery {
	values := make([]string, len(volumes))
	for i, v := range volumes {
		values[i] = strconv.Itoa(v)
	}
	if !b.check(op, values) {
		return b
	}
	if op == filter.OpLike || op == filter.OpNotLike {
		b.err = filter.NewUnsupportedOperator(filter.NewComparison(field.SeriesVolume, op, values...))
		return b
	}
	b.addCondition("?book", field.PredicateVolumeNumber, op, values, true)
	return b
}

// WithSeriesEntry requires the book to be the given volume of the named
// series.
func (b *BookQuery) WithSeriesEntry(series string, volume int) *BookQuery {
	return b.WithSeries(filter.OpEqual, series).WithSeriesVolume(filter.OpEqual, volume)
}

// WithProperty adds a condition on an arbitrary "prefix:local" property of
// ?book. The prefix must be declared on the query.
func (b *BookQuery) WithProperty(property string, op filter.Operator, values ...string) *BookQuery {
	if !b.check(op, values) {
		return b
	}
	prefix, local, ok := strings.Cut(property, ":")
	if !ok || prefix == "" || local == "" {
		b.err = &UnknownPrefixError{Property: property}
		return b
	}
	if _, declared := b.prefixes[prefix]; !declared {
		b.err = &UnknownPrefixError{Property: property}
		return b
	}
	b.addCondition("?book", property, op, values, false)
	return b
}

// check records an error for invalid operator/argument combinations.
func (b *BookQuery) check(op filter.Operator, values []string) bool {
	if b.err != nil {
		return false
	}
	if !op.Valid() {
		b.err = &filter.UnsupportedOperatorError{Symbol: op.Symbol(), Node: strings.Join(values, ",")}
		return false
	}
	if len(values) == 0 {
		b.err = fmt.Errorf("%w: %s condition without values", filter.ErrInvalidNode, op)
		return false
	}
	if len(values) > 1 && !op.MultiValued() {
		b.err = fmt.Errorf("%w: %s accepts a single value, got %d", filter.ErrInvalidNode, op, len(values))
		return false
	}
	return true
}

// addCondition appends the triple pattern for one operator. Every operator
// except EQ binds the value to a fresh placeholder and filters on it.
func (b *BookQuery) addCondition(subject, predicate string, op filter.Operator, values []string, numeric bool) {
	terms := make([]string, len(values))
	for i, v := range values {
		terms[i] = term(v, numeric)
	}

	if op == filter.OpEqual {
		b.current.AddCondition(TripleCondition{Subject: subject, Predicate: predicate, Object: terms[0]})
		return
	}

	placeholder := b.scope.Placeholder()
	b.current.addVariable(placeholder)

	var expr string
	switch op {
	case filter.OpNotEqual:
		expr = placeholder + " != " + terms[0]
	case filter.OpLike:
		expr = fmt.Sprintf(`regex(%s, %s, "i")`, placeholder, literal(regexp.QuoteMeta(field.Lower(values[0]))))
	case filter.OpNotLike:
		expr = fmt.Sprintf(`!regex(%s, %s, "i")`, placeholder, literal(regexp.QuoteMeta(field.Lower(values[0]))))
	case filter.OpIn:
		expr = placeholder + " IN (" + strings.Join(terms, ", ") + ")"
	case filter.OpNotIn:
		expr = placeholder + " NOT IN (" + strings.Join(terms, ", ") + ")"
	}
	b.current.AddCondition(TripleCondition{Subject: subject, Predicate: predicate, Object: placeholder, Filter: expr})
}

// term renders a value as a bare integer or a lower-cased string literal.
func term(v string, numeric bool) string {
	if numeric {
		return v
	}
	return literal(field.Lower(v))
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func literal(v string) string {
	return `"` + literalEscaper.Replace(v) + `"`
}

// And finishes the current query and returns a builder whose conditions
// are joined to it as one pattern.
func (b *BookQuery) And() *BookQuery {
	return b.deferJoin(compose.JoinNone)
}

// Or finishes the current query and returns a builder whose conditions
// form a UNION alternative to it.
func (b *BookQuery) Or() *BookQuery {
	return b.deferJoin(compose.JoinUnion)
}

func (b *BookQuery) deferJoin(mode compose.JoinMode) *BookQuery {
	next := newBuilder(b.scope, maps.Clone(b.prefixes))
	if b.err != nil {
		next.err = b.err
		return next
	}
	base, err := b.Build()
	if err != nil {
		next.err = err
		return next
	}
	next.pending = &pendingJoin{base: base, mode: mode}
	return next
}

// AndWith builds both queries and joins them as one pattern. Variables of
// other that clash with the receiver's are renamed from the receiver's
// Scope, so builders need not share one.
func (b *BookQuery) AndWith(other *BookQuery) (GraphQuery, error) {
	return b.joinWith(other, compose.JoinNone)
}

// OrWith builds both queries and joins them as a UNION.
func (b *BookQuery) OrWith(other *BookQuery) (GraphQuery, error) {
	return b.joinWith(other, compose.JoinUnion)
}

func (b *BookQuery) joinWith(other *BookQuery, mode compose.JoinMode) (GraphQuery, error) {
	left, err := b.Build()
	if err != nil {
		return nil, err
	}
	right, err := other.Build()
	if err != nil {
		return nil, err
	}
	return joinIn(b.scope, left, right, mode)
}

// Build returns the finished query: the current BasicQuery, or the pending
// base joined with it.
func (b *BookQuery) Build() (GraphQuery, error) {
	if b.err != nil {
		return nil, b.err
	}
	current := b.current.clone()
	if b.pending == nil {
		return current, nil
	}
	return joinIn(b.scope, b.pending.base, current, b.pending.mode)
}
