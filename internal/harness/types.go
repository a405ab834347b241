package harness

import (
	"fmt"
	"strings"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every case met its expectations.
	Pass bool `json:"pass"`

	// Cases holds the observed output of each case, in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// CaseResult is what one filter compiled and searched to.
type CaseResult struct {
	Name   string `json:"name"`
	Filter string `json:"filter"`

	SQL    string `json:"sql,omitempty"`
	SPARQL string `json:"sparql,omitempty"`
	Tree   string `json:"tree,omitempty"`

	// Errors maps a target to the kind of error it failed with.
	Errors map[string]string `json:"errors,omitempty"`

	// Books maps a backend to the IDs its search returned.
	Books map[string][]string `json:"books,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// output returns the rendered text for target.
func (c *CaseResult) output(target string) string {
	switch target {
	case TargetSQL:
		return c.SQL
	case TargetSPARQL:
		return c.SPARQL
	case TargetTree:
		return c.Tree
	}
	return ""
}

// MismatchError describes one expectation a case did not meet.
type MismatchError struct {
	Case     string
	Check    string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s mismatch\n", e.Case, e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}
