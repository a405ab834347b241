package filter

// Operator is a comparison operator of the filter language.
//
// The set is closed. Each operator has one canonical symbol (Symbol) and may
// be spelled with alternative symbols in filter text (see LookupOperator).
type Operator int

const (
	OpEqual    Operator = iota // ==
	OpNotEqual                 // !=
	OpIn                       // =in=
	OpNotIn                    // =out= or =notin=
	OpLike                     // =like= or =~=
	OpNotLike                  // =notlike=
)

var operatorSymbols = map[string]Operator{
	"==":        OpEqual,
	"!=":        OpNotEqual,
	"=in=":      OpIn,
	"=out=":     OpNotIn,
	"=notin=":   OpNotIn,
	"=like=":    OpLike,
	"=~=":       OpLike,
	"=notlike=": OpNotLike,
}

// LookupOperator maps a surface symbol to its Operator.
// Returns false for any symbol outside the closed set.
func LookupOperator(symbol string) (Operator, bool) {
	op, ok := operatorSymbols[symbol]
	return op, ok
}

// Symbol returns the canonical surface symbol.
func (o Operator) Symbol() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpIn:
		return "=in="
	case OpNotIn:
		return "=out="
	case OpLike:
		return "=like="
	case OpNotLike:
		return "=notlike="
	default:
		return "=?="
	}
}

// String returns the operator name used in logs and error messages.
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "EQ"
	case OpNotEqual:
		return "NEQ"
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT_IN"
	case OpLike:
		return "LIKE"
	case OpNotLike:
		return "NOT_LIKE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether o is one of the declared operators.
func (o Operator) Valid() bool {
	return o >= OpEqual && o <= OpNotLike
}

// MultiValued reports whether the operator accepts more than one argument.
func (o Operator) MultiValued() bool {
	return o == OpIn || o == OpNotIn
}
