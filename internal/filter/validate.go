package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidNode marks a hand-built tree that breaks an AST invariant.
var ErrInvalidNode = errors.New("invalid filter node")

// Validate checks the structural invariants the parser guarantees, for trees
// built by hand:
//  1. And and Or have at least one child
//  2. Comparison has a non-empty selector and at least one argument
//  3. single-valued operators carry exactly one argument
//  4. the operator is one of the declared operators
//
// Violations of rule 4 return *UnsupportedOperatorError; the others wrap
// ErrInvalidNode. Both And/Or and Comparison are accepted as values or
// pointers.
func Validate(node Node) error {
	switch n := node.(type) {
	case nil:
		return fmt.Errorf("%w: nil node", ErrInvalidNode)
	case And:
		return validateChildren("and", n.Children)
	case *And:
		return validateChildren("and", n.Children)
	case Or:
		return validateChildren("or", n.Children)
	case *Or:
		return validateChildren("or", n.Children)
	case Comparison:
		return validateComparison(n)
	case *Comparison:
		return validateComparison(*n)
	default:
		return fmt.Errorf("%w: unknown node type %T", ErrInvalidNode, node)
	}
}

func validateChildren(kind string, children []Node) error {
	if len(children) == 0 {
		return fmt.Errorf("%w: %s with no children", ErrInvalidNode, kind)
	}
	for _, child := range children {
		if err := Validate(child); err != nil {
			return err
		}
	}
	return nil
}

func validateComparison(c Comparison) error {
	if c.Selector == "" {
		return fmt.Errorf("%w: comparison with empty selector", ErrInvalidNode)
	}
	if !c.Operator.Valid() {
		return NewUnsupportedOperator(c)
	}
	if len(c.Arguments) == 0 {
		return fmt.Errorf("%w: %s has no arguments", ErrInvalidNode, c.Selector+c.Operator.Symbol())
	}
	if len(c.Arguments) > 1 && !c.Operator.MultiValued() {
		return fmt.Errorf("%w: %s accepts a single argument", ErrInvalidNode, c.String())
	}
	return nil
}
