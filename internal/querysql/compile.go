package querysql

import (
	"fmt"

	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
)

// Compiler compiles a filter tree into a BookQuery.
//
// Values are always upper-cased; the relational target has no
// case-sensitive mode. A Compiler holds no per-call state and may be reused.
type Compiler struct {
	resolver field.Resolver
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithStrictFields makes unknown selectors fail with
// field.UnsupportedFieldError instead of passing through as BOOKS columns.
func WithStrictFields(strict bool) Option {
	return func(c *Compiler) {
		c.resolver = field.Resolver{Strict: strict}
	}
}

// NewCompiler creates a Compiler. Without options it resolves selectors
// leniently.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{resolver: field.Lenient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates node and converts it to a BookQuery.
func (c *Compiler) Compile(node filter.Node) (*BookQuery, error) {
	if err := filter.Validate(node); err != nil {
		return nil, err
	}
	return c.compileNode(node)
}

// Compile compiles node with a fresh lenient Compiler.
func Compile(node filter.Node, opts ...Option) (*BookQuery, error) {
	return NewCompiler(opts...).Compile(node)
}

// CompileString parses text and compiles the result.
func CompileString(text string, opts ...Option) (*BookQuery, error) {
	node, err := filter.Parse(text)
	if err != nil {
		return nil, err
	}
	return Compile(node, opts...)
}

func (c *Compiler) compileNode(node filter.Node) (*BookQuery, error) {
	switch n := node.(type) {
	case filter.And:
		return c.compileChildren(compose.JoinAnd, n.Children)
	case *filter.And:
		return c.compileChildren(compose.JoinAnd, n.Children)
	case filter.Or:
		return c.compileChildren(compose.JoinUnion, n.Children)
	case *filter.Or:
		return c.compileChildren(compose.JoinUnion, n.Children)
	case filter.Comparison:
		return c.compileComparison(n)
	case *filter.Comparison:
		return c.compileComparison(*n)
	default:
		return nil, fmt.Errorf("unsupported filter node: %T", node)
	}
}

func (c *Compiler) compileChildren(mode compose.JoinMode, children []filter.Node) (*BookQuery, error) {
	queries := make([]*BookQuery, 0, len(children))
	for _, child := range children {
		q, err := c.compileNode(child)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	if mode == compose.JoinUnion {
		return Or(queries...), nil
	}
	return And(queries...), nil
}

func (c *Compiler) compileComparison(cmp filter.Comparison) (*BookQuery, error) {
	resolved, err := c.resolver.Resolve(cmp.Selector)
	if err != nil {
		return nil, err
	}

	switch cmp.Operator {
	case filter.OpEqual, filter.OpNotEqual, filter.OpIn, filter.OpNotIn, filter.OpLike, filter.OpNotLike:
	default:
		return nil, filter.NewUnsupportedOperator(cmp)
	}

	q := &BookQuery{
		Predicate: Condition{
			Path:     resolved.Path,
			Operator: cmp.Operator,
			Values:   field.UpperAll(cmp.Arguments),
		},
		Joins: compose.JoinSet{},
	}
	if resolved.Join != nil {
		q.Joins = compose.NewJoinSet(*resolved.Join)
	}
	return q, nil
}
