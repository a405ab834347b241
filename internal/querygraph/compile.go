package querygraph

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
)

// Compiler compiles filter trees into graph queries.
//
// A Compiler owns the Scope for its compilations, so every sub-query it
// builds draws distinct variable names. Create one per request; Compile
// and CompileString do this.
type Compiler struct {
	scope *Scope
}

// NewCompiler creates a Compiler with a fresh Scope.
func NewCompiler() *Compiler {
	return &Compiler{scope: NewScope()}
}

// Compile validates node and converts it to a GraphQuery.
//
// And children are reduced left to right with compose.JoinNone and Or
// children with compose.JoinUnion. Fields without a graph mapping fail
// with *field.UnsupportedFieldError.
func (c *Compiler) Compile(node filter.Node) (GraphQuery, error) {
	if err := filter.Validate(node); err != nil {
		return nil, err
	}
	return c.compileNode(node)
}

// Compile compiles node with a fresh Compiler.
func Compile(node filter.Node) (GraphQuery, error) {
	return NewCompiler().Compile(node)
}

// CompileString parses text and compiles the result.
func CompileString(text string) (GraphQuery, error) {
	node, err := filter.Parse(text)
	if err != nil {
		return nil, err
	}
	return Compile(node)
}

func (c *Compiler) compileNode(node filter.Node) (GraphQuery, error) {
	switch n := node.(type) {
	case filter.And:
		return c.reduce(compose.JoinNone, n.Children)
	case *filter.And:
		return c.reduce(compose.JoinNone, n.Children)
	case filter.Or:
		return c.reduce(compose.JoinUnion, n.Children)
	case *filter.Or:
		return c.reduce(compose.JoinUnion, n.Children)
	case filter.Comparison:
		return c.compileComparison(n)
	case *filter.Comparison:
		return c.compileComparison(*n)
	default:
		return nil, fmt.Errorf("unsupported filter node: %T", node)
	}
}

func (c *Compiler) reduce(mode compose.JoinMode, children []filter.Node) (GraphQuery, error) {
	var acc GraphQuery
	for _, child := range children {
		next, err := c.compileNode(child)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = next
			continue
		}
		if acc, err = joinIn(c.scope, acc, next, mode); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (c *Compiler) compileComparison(cmp filter.Comparison) (GraphQuery, error) {
	f, err := field.LookupGraph(cmp.Selector)
	if err != nil {
		return nil, err
	}

	q := NewBookQuery(c.scope)
	switch f.Name {
	case field.Title:
		q.WithTitle(cmp.Operator, cmp.Arguments...)
	case field.Authors:
		q.WithAuthor(cmp.Operator, cmp.Arguments...)
	case field.Tags:
		q.WithTag(cmp.Operator, cmp.Arguments...)
	case field.Languages:
		q.WithLanguage(cmp.Operator, cmp.Arguments...)
	case field.Identifiers:
		q.WithIdentifier(cmp.Operator, cmp.Arguments...)
	case field.Publisher:
		q.WithPublisher(cmp.Operator, cmp.Arguments...)
	case field.Series:
		q.WithSeries(cmp.Operator, cmp.Arguments...)
	case field.SeriesVolume:
		volumes, err := parseVolumes(cmp.Arguments)
		if err != nil {
			return nil, err
		}
		q.WithSeriesVolume(cmp.Operator, volumes...)
	default:
		return nil, &field.UnsupportedFieldError{Field: cmp.Selector, Target: "sparql"}
	}

	built, err := q.Build()
	if err != nil {
		var opErr *filter.UnsupportedOperatorError
		if errors.As(err, &opErr) {
			return nil, filter.NewUnsupportedOperator(cmp)
		}
		return nil, err
	}
	return built, nil
}

func parseVolumes(args []string) ([]int, error) {
	volumes := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, &filter.ParseError{
				Pos:     -1,
				Message: fmt.Sprintf("%s expects integer arguments, got %q", field.SeriesVolume, arg),
				Err:     err,
			}
		}
		volumes[i] = v
	}
	return volumes, nil
}
