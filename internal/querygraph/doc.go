// Package querygraph compiles filter trees into SPARQL-like graph-pattern
// queries.
//
// A query is either a BasicQuery (selectors, prefix map and a list of
// triple conditions anchored on ?book) or a JoinQuery that nests two
// queries, joined as plain pattern concatenation (compose.JoinNone) or as
// alternatives (compose.JoinUnion).
//
// PLACEHOLDERS:
//
// Conditions that need a filter bind the property value to a generated
// placeholder (?cond_value0, ?cond_value1, ...). Indirect fields generate
// resource variables (?author0, ...). Both counters live in a Scope. Builders
// sharing a Scope never clash; when Join meets the same variable on both
// sides it renames the right-hand one to an unused name first.
//
// Values are folded to NFC lower case before they are embedded. Integer
// fields (seriesVolume) are rendered as bare numbers.
package querygraph
