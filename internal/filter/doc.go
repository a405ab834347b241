// Package filter provides the abstract syntax tree and parser for the
// catalogue filter mini-language.
//
// The filter language is an RSQL dialect. Callers write predicates such as
//
//	author=="Neil Gaiman" and tag=in=(fantasy,classic)
//
// which parse into a tree of And, Or and Comparison nodes. Every backend
// compiler (querysql, querygraph, querytree) consumes this tree; none of them
// see the raw text.
//
// GRAMMAR:
//
//	expr       := orExpr
//	orExpr     := andExpr (("," | "or") andExpr)*
//	andExpr    := term ((";" | "and") term)*
//	term       := "(" orExpr ")" | comparison
//	comparison := SELECTOR OPERATOR args
//	args       := ARG | "(" ARG ("," ARG)* ")"
//	OPERATOR   := "==" | "!=" | "=in=" | "=out=" | "=notin=" | "=like=" | "=~=" | "=notlike="
//	ARG        := quoted-string | bare-token
//
// Keywords "and" and "or" are case-insensitive and only recognised between
// comparisons, so "title==and" compares against the literal "and".
//
// SEALED INTERFACE:
//
// Node is sealed with a marker method. Only And, Or and Comparison implement
// it, which lets backend compilers switch over it exhaustively:
//
//	switch n := node.(type) {
//	case filter.And:
//	case filter.Or:
//	case filter.Comparison:
//	}
//
// OPERATORS:
//
// Operator is a closed enum. An operator symbol the grammar accepts
// lexically (=xyz=) but which is not one of the six known operators fails
// with a ParseError wrapping UnsupportedOperatorError. There is no default
// operator.
package filter
