package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/bookql/internal/catalog"
	"github.com/roach88/bookql/internal/filter"
	"github.com/roach88/bookql/internal/ids"
	"github.com/roach88/bookql/internal/memstore"
	"github.com/roach88/bookql/internal/model"
	"github.com/roach88/bookql/internal/querygraph"
	"github.com/roach88/bookql/internal/querysql"
	"github.com/roach88/bookql/internal/querytree"
	"github.com/roach88/bookql/internal/store"
)

// Harness compiles scenario filters and searches the seeded backends.
type Harness struct {
	strict   bool
	backends map[string]model.BookService
	closers  []io.Closer
	logger   *slog.Logger
}

// RunOption configures Run.
type RunOption func(*Harness)

// WithLogger sets the logger for harness diagnostics. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) RunOption {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Run executes a scenario and returns the result.
//
// Seeded scenarios get a fresh memory store and a fresh in-memory SQLite
// database, both closed before Run returns. A returned error means the
// scenario could not be executed; expectation mismatches are reported in
// Result.Errors.
func Run(ctx context.Context, scenario *Scenario, opts ...RunOption) (*Result, error) {
	h := &Harness{
		strict:   scenario.StrictFields,
		backends: make(map[string]model.BookService),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	defer h.close()

	if scenario.Seed != "" {
		if err := h.seed(ctx, scenario.Seed); err != nil {
			return nil, fmt.Errorf("failed to seed backends: %w", err)
		}
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		cr := h.runCase(ctx, c)
		result.Cases = append(result.Cases, cr)
		for _, m := range check(c, &cr) {
			result.AddError(m.Error())
		}
	}

	h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", result.Pass)
	return result, nil
}

// seed loads the CUE seed directory into both backends.
func (h *Harness) seed(ctx context.Context, dir string) error {
	loaded, errs := catalog.LoadDir(dir, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	sqlite, err := store.Open(":memory:",
		store.WithIDGenerator(ids.NewSequenceGenerator("sql")),
		store.WithStrictFields(h.strict),
	)
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	h.closers = append(h.closers, sqlite)

	h.backends[BackendMemory] = memstore.New(ids.NewSequenceGenerator("mem"))
	h.backends[BackendSQLite] = sqlite

	for _, name := range Backends {
		if _, err := catalog.Seed(ctx, h.backends[name], loaded.Books); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	h.logger.Debug("backends seeded", "dir", dir, "books", len(loaded.Books))
	return nil
}

func (h *Harness) close() {
	for _, c := range h.closers {
		c.Close()
	}
}

// runCase compiles the filter for every target and, when the case expects
// books, searches the backends.
func (h *Harness) runCase(ctx context.Context, c Case) CaseResult {
	cr := CaseResult{Name: c.Name, Filter: c.Filter}

	node, err := filter.Parse(c.Filter)
	if err != nil {
		kind := ErrorKind(err)
		for _, target := range Targets {
			cr.setError(target, kind)
		}
		h.logger.Debug("parse failed", "case", c.Name, "error", err)
		return cr
	}

	if out, err := h.compileSQL(node); err != nil {
		cr.setError(TargetSQL, ErrorKind(err))
	} else {
		cr.SQL = out
	}

	if out, err := compileSPARQL(node); err != nil {
		cr.setError(TargetSPARQL, ErrorKind(err))
	} else {
		cr.SPARQL = out
	}

	if pred, err := querytree.Compile(node); err != nil {
		cr.setError(TargetTree, ErrorKind(err))
	} else {
		cr.Tree = pred.String()
	}

	if c.Expect.Books != nil {
		for _, name := range c.Expect.backends() {
			svc, ok := h.backends[name]
			if !ok {
				cr.setError(name, KindInternal)
				continue
			}
			books, err := svc.FindBooks(ctx, c.Filter)
			if err != nil {
				cr.setError(name, ErrorKind(err))
				continue
			}
			if cr.Books == nil {
				cr.Books = make(map[string][]string)
			}
			cr.Books[name] = bookIDs(books)
		}
	}

	return cr
}

func (h *Harness) compileSQL(node filter.Node) (string, error) {
	q, err := querysql.Compile(node, querysql.WithStrictFields(h.strict))
	if err != nil {
		return "", err
	}
	return querysql.Render(q)
}

func compileSPARQL(node filter.Node) (string, error) {
	q, err := querygraph.Compile(node)
	if err != nil {
		return "", err
	}
	return querygraph.Render(q)
}

func (c *CaseResult) setError(key, kind string) {
	if c.Errors == nil {
		c.Errors = make(map[string]string)
	}
	c.Errors[key] = kind
}

func bookIDs(books []model.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = string(b.ID)
	}
	return out
}

// check compares a case result with its expectations. Targets and backends
// without an expectation are not checked.
func check(c Case, cr *CaseResult) []*MismatchError {
	var mismatches []*MismatchError
	mismatch := func(check, expected, actual string) {
		mismatches = append(mismatches, &MismatchError{Case: c.Name, Check: check, Expected: expected, Actual: actual})
	}

	for _, target := range Targets {
		got := cr.Errors[target]
		if want := c.Expect.expectedError(target); want != "" {
			if got != want {
				mismatch(target+" error", want, orNone(got))
			}
			continue
		}

		want := expectedOutput(c.Expect, target)
		if want == "" {
			continue
		}
		if got != "" {
			mismatch(target, want, got+" error")
			continue
		}
		if actual := strings.TrimSpace(cr.output(target)); actual != want {
			mismatch(target, want, actual)
		}
	}

	if c.Expect.Books != nil {
		for _, backend := range c.Expect.backends() {
			if kind := cr.Errors[backend]; kind != "" {
				mismatch(backend+" books", fmt.Sprint(c.Expect.Books), kind+" error")
				continue
			}
			if got := cr.Books[backend]; !slices.Equal(got, c.Expect.Books) {
				mismatch(backend+" books", fmt.Sprint(c.Expect.Books), fmt.Sprint(got))
			}
		}
	}

	return mismatches
}

func expectedOutput(e Expect, target string) string {
	switch target {
	case TargetSQL:
		return strings.TrimSpace(e.SQL)
	case TargetSPARQL:
		return strings.TrimSpace(e.SPARQL)
	case TargetTree:
		return strings.TrimSpace(e.Tree)
	}
	return ""
}

func orNone(kind string) string {
	if kind == "" {
		return "no error"
	}
	return kind + " error"
}
