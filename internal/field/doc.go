// Package field maps filter selectors onto backend paths.
//
// Every selector passes through the alias table first (author -> authors,
// tag -> tags, language/lang -> languages, identifier -> identifiers).
// The canonical name then resolves differently per target:
//
//   - Relational: Resolve returns a qualified column path and, for
//     collection or series fields, the JoinSpec needed to reach it.
//   - Graph: LookupGraph returns the triple-pattern predicate for the field.
//
// The two targets deliberately disagree on unknown names. The relational
// Lenient resolver forwards them as BOOKS columns, deferring the failure to
// query execution; Strict and LookupGraph reject them with
// UnsupportedFieldError.
//
// Values are folded with Upper (relational) or Lower (graph and object tree)
// after NFC normalisation, so "Ärger" typed precomposed or decomposed
// compiles to the same literal.
package field
