// Package compose holds the merge rules shared by the relational and graph
// query builders when two already-built queries are combined.
package compose

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/bookql/internal/field"
)

// JoinMode says how a pending base query combines with the next one.
type JoinMode int

const (
	JoinNone  JoinMode = iota // plain concatenation of graph patterns (conjunction)
	JoinAnd                   // relational AND
	JoinUnion                 // graph UNION / relational OR
)

func (m JoinMode) String() string {
	switch m {
	case JoinNone:
		return "NONE"
	case JoinAnd:
		return "AND"
	case JoinUnion:
		return "UNION"
	default:
		return fmt.Sprintf("JoinMode(%d)", int(m))
	}
}

// Keyword is the graph keyword placed between two joined where-clauses.
// JoinNone and JoinAnd have none.
func (m JoinMode) Keyword() string {
	if m == JoinUnion {
		return "UNION"
	}
	return ""
}

// ErrConsistency is the sentinel for errors.Is checks.
var ErrConsistency = errors.New("composition consistency error")

// ConsistencyError reports two queries that cannot be merged.
type ConsistencyError struct {
	Key     string // prefix key
	Message string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("cannot merge queries: %s %q", e.Message, e.Key)
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

// MergeSelectors concatenates selector lists keeping first-seen order and
// dropping duplicates.
func MergeSelectors(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			merged = append(merged, s)
		}
	}
	return merged
}

// MergePrefixes unions prefix maps. Repeating a key with the same URI is
// fine; the same key bound to a different URI fails with ConsistencyError.
// The inputs are not modified.
func MergePrefixes(left, right map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(left)+len(right))
	for k, v := range left {
		merged[k] = v
	}
	for k, v := range right {
		if existing, ok := merged[k]; ok && existing != v {
			return nil, &ConsistencyError{
				Key:     k,
				Message: fmt.Sprintf("conflicting URIs <%s> and <%s> for prefix", existing, v),
			}
		}
		merged[k] = v
	}
	return merged, nil
}

// Collisions returns the variables of right that left also generated, in
// right-hand order.
func Collisions(left, right []string) []string {
	seen := make(map[string]bool, len(left))
	for _, v := range left {
		seen[v] = true
	}
	var clashes []string
	for _, v := range right {
		if seen[v] {
			clashes = append(clashes, v)
		}
	}
	return clashes
}

// JoinSet is a set of joins keyed by right-hand table, so a table is
// joined at most once.
type JoinSet map[string]field.JoinSpec

// NewJoinSet builds a set from specs.
func NewJoinSet(specs ...field.JoinSpec) JoinSet {
	s := make(JoinSet, len(specs))
	for _, j := range specs {
		s[j.RightTable] = j
	}
	return s
}

// Union returns a new set holding the joins of every input.
func (s JoinSet) Union(others ...JoinSet) JoinSet {
	out := make(JoinSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Tables returns the right-hand table names in sorted order.
func (s JoinSet) Tables() []string {
	tables := make([]string, 0, len(s))
	for t := range s {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// Sorted returns the joins ordered by right-hand table name.
func (s JoinSet) Sorted() []field.JoinSpec {
	specs := make([]field.JoinSpec, 0, len(s))
	for _, t := range s.Tables() {
		specs = append(specs, s[t])
	}
	return specs
}
