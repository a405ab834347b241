package harness

import (
	"errors"

	"github.com/roach88/bookql/internal/compose"
	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
	"github.com/roach88/bookql/internal/querygraph"
)

// Error kinds reported for failed compilations.
const (
	KindOperator    = "operator"
	KindParse       = "parse"
	KindField       = "field"
	KindConsistency = "consistency"
	KindPrefix      = "prefix"
	KindInvalid     = "invalid"
	KindInternal    = "internal"
)

// ErrorKinds lists the kinds a scenario may expect.
var ErrorKinds = []string{
	KindOperator, KindParse, KindField, KindConsistency, KindPrefix, KindInvalid, KindInternal,
}

// ErrorKind classifies a compilation error. A parse error caused by an
// unknown operator is reported as KindOperator.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, filter.ErrUnsupportedOperator):
		return KindOperator
	case errors.Is(err, filter.ErrParse):
		return KindParse
	case errors.Is(err, field.ErrUnsupportedField):
		return KindField
	case errors.Is(err, compose.ErrConsistency):
		return KindConsistency
	case errors.Is(err, querygraph.ErrUnknownPrefix):
		return KindPrefix
	case errors.Is(err, filter.ErrInvalidNode):
		return KindInvalid
	default:
		return KindInternal
	}
}
