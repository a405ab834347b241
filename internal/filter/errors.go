package filter

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrParse               = errors.New("filter parse error")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// ParseError reports malformed filter text.
// Pos is the zero-based byte offset where the problem was detected, or -1
// when the problem is in an argument value rather than the text layout.
type ParseError struct {
	Pos     int
	Message string
	Err     error // underlying cause (optional)
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		if e.Err != nil {
			return fmt.Sprintf("parse error: %s: %v", e.Message, e.Err)
		}
		return "parse error: " + e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("parse error at position %d: %s: %v", e.Pos, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// UnsupportedOperatorError reports an operator symbol outside the closed
// Operator set, or an Operator value a compiler has no mapping for.
type UnsupportedOperatorError struct {
	Symbol string // offending operator symbol
	Node   string // textual form of the comparison carrying it
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q in %s", e.Symbol, e.Node)
}

func (e *UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

// NewUnsupportedOperator builds the error for a comparison whose operator a
// compiler cannot translate.
func NewUnsupportedOperator(c Comparison) *UnsupportedOperatorError {
	return &UnsupportedOperatorError{Symbol: c.Operator.Symbol(), Node: c.String()}
}
