package querytree

import (
	"fmt"

	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
)

// treeFields lists the canonical fields a book exposes.
var treeFields = map[string]bool{
	field.Title:           true,
	field.Authors:         true,
	field.AuthorID:        true,
	field.Tags:            true,
	field.Languages:       true,
	field.Identifiers:     true,
	field.Publisher:       true,
	field.Series:          true,
	field.SeriesVolume:    true,
	field.Format:          true,
	field.Description:     true,
	field.CreationDate:    true,
	field.PublicationDate: true,
}

// Compile validates node and converts it to a Predicate.
func Compile(node filter.Node) (Predicate, error) {
	if err := filter.Validate(node); err != nil {
		return nil, err
	}
	return compileNode(node)
}

// CompileString parses text and compiles the result.
func CompileString(text string) (Predicate, error) {
	node, err := filter.Parse(text)
	if err != nil {
		return nil, err
	}
	return Compile(node)
}

func compileNode(node filter.Node) (Predicate, error) {
	switch n := node.(type) {
	case filter.And:
		children, err := compileChildren(n.Children)
		return All{Children: children}, err
	case *filter.And:
		children, err := compileChildren(n.Children)
		return All{Children: children}, err
	case filter.Or:
		children, err := compileChildren(n.Children)
		return Any{Children: children}, err
	case *filter.Or:
		children, err := compileChildren(n.Children)
		return Any{Children: children}, err
	case filter.Comparison:
		return compileComparison(n)
	case *filter.Comparison:
		return compileComparison(*n)
	default:
		return nil, fmt.Errorf("unsupported filter node: %T", node)
	}
}

func compileChildren(nodes []filter.Node) ([]Predicate, error) {
	children := make([]Predicate, 0, len(nodes))
	for _, n := range nodes {
		p, err := compileNode(n)
		if err != nil {
			return nil, err
		}
		children = append(children, p)
	}
	return children, nil
}

func compileComparison(cmp filter.Comparison) (Predicate, error) {
	name := canonicalField(cmp.Selector)
	if !treeFields[name] {
		return nil, &field.UnsupportedFieldError{Field: cmp.Selector, Target: "tree"}
	}

	values := field.LowerAll(cmp.Arguments)
	switch cmp.Operator {
	case filter.OpEqual:
		return Equal{Field: name, Value: values[0]}, nil
	case filter.OpNotEqual:
		return NotEqual{Field: name, Value: values[0]}, nil
	case filter.OpIn:
		return In{Field: name, Values: values}, nil
	case filter.OpNotIn:
		return Not{Child: In{Field: name, Values: values}}, nil
	case filter.OpLike:
		return Like{Field: name, Pattern: values[0]}, nil
	case filter.OpNotLike:
		return Not{Child: Like{Field: name, Pattern: values[0]}}, nil
	default:
		return nil, filter.NewUnsupportedOperator(cmp)
	}
}

// canonicalField applies aliases and maps series.title onto series.
func canonicalField(selector string) string {
	name := field.Canonical(selector)
	if name == field.Series+".title" {
		return field.Series
	}
	return name
}
