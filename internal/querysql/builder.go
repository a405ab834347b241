package querysql

import (
	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
)

// Builder assembles a BookQuery fluently.
//
// Conditions added between two And()/Or() calls form one segment and are
// combined with AND. And() and Or() close the current segment as a pending
// base query; Build folds base and segment with the recorded mode. The
// result is identical to combining separately built queries with And/Or.
//
// The first error is kept and returned by Build.
type Builder struct {
	resolver field.Resolver
	segment  []*BookQuery
	pending  *pendingJoin
	err      error
}

type pendingJoin struct {
	base *BookQuery
	mode compose.JoinMode
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	c := NewCompiler(opts...)
	return &Builder{resolver: c.resolver}
}

// Where adds a condition on selector to the current segment.
func (b *Builder) Where(selector string, op filter.Operator, values ...string) *Builder {
	if b.err != nil {
		return b
	}
	cmp := filter.NewComparison(selector, op, values...)
	if err := filter.Validate(cmp); err != nil {
		b.err = err
		return b
	}
	q, err := (&Compiler{resolver: b.resolver}).compileComparison(cmp)
	if err != nil {
		b.err = err
		return b
	}
	b.segment = append(b.segment, q)
	return b
}

// WithTitle adds a condition on the book title.
func (b *Builder) WithTitle(op filter.Operator, values ...string) *Builder {
	return b.Where(field.Title, op, values...)
}

// WithAuthor adds a condition on an author name.
func (b *Builder) WithAuthor(op filter.Operator, values ...string) *Builder {
	return b.Where(field.Authors, op, values...)
}

// WithAuthorID adds a condition on an author ID.
func (b *Builder) WithAuthorID(op filter.Operator, ids ...string) *Builder {
	return b.Where(field.AuthorID, op, ids...)
}

// WithTag adds a condition on a tag.
func (b *Builder) WithTag(op filter.Operator, values ...string) *Builder {
	return b.Where(field.Tags, op, values...)
}

// WithLanguage adds a condition on a language.
func (b *Builder) WithLanguage(op filter.Operator, values ...string) *Builder {
	return b.Where(field.Languages, op, values...)
}

// WithSeries adds a condition on the series title.
func (b *Builder) WithSeries(op filter.Operator, values ...string) *Builder {
	return b.Where(field.Series, op, values...)
}

// And closes the current segment and returns a builder whose next segment
// is combined with it by AND.
func (b *Builder) And() *Builder {
	return b.deferJoin(compose.JoinAnd)
}

// Or closes the current segment and returns a builder whose next segment
// is combined with it by OR.
func (b *Builder) Or() *Builder {
	return b.deferJoin(compose.JoinUnion)
}

func (b *Builder) deferJoin(mode compose.JoinMode) *Builder {
	next := &Builder{resolver: b.resolver, err: b.err}
	if b.err != nil {
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

// Build returns the assembled query.
func (b *Builder) Build() (*BookQuery, error) {
	if b.err != nil {
		return nil, b.err
	}

	var current *BookQuery
	switch len(b.segment) {
	case 0:
		current = And()
	case 1:
		current = b.segment[0]
	default:
		current = And(b.segment...)
	}

	if b.pending == nil {
		return current, nil
	}
	if b.pending.mode == compose.JoinUnion {
		return Or(b.pending.base, current), nil
	}
	return And(b.pending.base, current), nil
}
