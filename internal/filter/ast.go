package filter

import (
	"fmt"
	"strings"
)

// Node is a parsed filter expression.
//
// This is a sealed interface - only And, Or and Comparison implement it.
// String returns the expression in filter-language syntax; compilers use it
// to describe the offending node in error messages.
type Node interface {
	filterNode() // Marker method - seals interface to this package
	String() string
}

// And is a conjunction of child expressions. Invariant: at least one child.
type And struct {
	Children []Node
}

func (And) filterNode() {}

func (a And) String() string {
	return joinChildren(a.Children, " and ")
}

// Or is a disjunction of child expressions. Invariant: at least one child.
type Or struct {
	Children []Node
}

func (Or) filterNode() {}

func (o Or) String() string {
	return joinChildren(o.Children, " or ")
}

// Comparison is a leaf condition: selector, operator and one or more
// arguments.
//
// Example:
//
//	Comparison{Selector: "tag", Operator: OpIn, Arguments: []string{"fantasy", "scifi"}}
//
// is the parsed form of tag=in=(fantasy,scifi).
type Comparison struct {
	Selector  string
	Operator  Operator
	Arguments []string
}

func (Comparison) filterNode() {}

func (c Comparison) String() string {
	return formatComparison(c.Selector, c.Operator.Symbol(), c.Arguments)
}

// NewComparison builds a Comparison node.
func NewComparison(selector string, op Operator, args ...string) Comparison {
	return Comparison{Selector: selector, Operator: op, Arguments: args}
}

// NewAnd builds an And node.
func NewAnd(children ...Node) And {
	return And{Children: children}
}

// NewOr builds an Or node.
func NewOr(children ...Node) Or {
	return Or{Children: children}
}

func joinChildren(children []Node, sep string) string {
	parts := make([]string, len(children))
	for i, child := range children {
		switch child.(type) {
		case And, *And, Or, *Or:
			parts[i] = "(" + child.String() + ")"
		default:
			parts[i] = child.String()
		}
	}
	return strings.Join(parts, sep)
}

// formatComparison renders selector, operator symbol and arguments the way
// the parser accepts them back.
func formatComparison(selector, symbol string, args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArgument(arg)
	}
	if len(quoted) == 1 {
		return selector + symbol + quoted[0]
	}
	return fmt.Sprintf("%s%s(%s)", selector, symbol, strings.Join(quoted, ","))
}

// quoteArgument wraps an argument in double quotes when it is not a valid
// bare token.
func quoteArgument(arg string) string {
	if arg != "" && !strings.EqualFold(arg, "and") && !strings.EqualFold(arg, "or") {
		bare := true
		for _, r := range arg {
			if isReserved(r) {
				bare = false
				break
			}
		}
		if bare {
			return arg
		}
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(arg)
	return `"` + escaped + `"`
}
