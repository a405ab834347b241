package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a filter conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed is a directory of CUE seed files loaded into both backends.
	// Relative paths are resolved against the scenario file.
	Seed string `yaml:"seed,omitempty"`

	// StrictFields makes the relational compiler reject unknown fields.
	StrictFields bool `yaml:"strict_fields,omitempty"`

	// Cases are the filters to compile, in order.
	Cases []Case `yaml:"cases"`
}

// Case is one filter and its expected outcome.
type Case struct {
	Name   string `yaml:"name"`
	Filter string `yaml:"filter"`
	Expect Expect `yaml:"expect"`
}

// Expect lists the outputs a case must produce. Empty fields are not
// checked.
type Expect struct {
	// SQL is the inline relational statement.
	SQL string `yaml:"sql,omitempty"`

	// SPARQL is the rendered graph query.
	SPARQL string `yaml:"sparql,omitempty"`

	// Tree is the predicate tree in its String form.
	Tree string `yaml:"tree,omitempty"`

	// Error is the error kind every target must fail with.
	Error string `yaml:"error,omitempty"`

	// Errors maps a target to the error kind it must fail with.
	Errors map[string]string `yaml:"errors,omitempty"`

	// Books are the book IDs a search must return, in ID order.
	Books []string `yaml:"books,omitempty"`

	// Backends narrows the backends Books is checked against.
	Backends []string `yaml:"backends,omitempty"`
}

// Compilation targets.
const (
	TargetSQL    = "sql"
	TargetSPARQL = "sparql"
	TargetTree   = "tree"
)

// Targets lists every compilation target in run order.
var Targets = []string{TargetSQL, TargetSPARQL, TargetTree}

// Search backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Backends lists every search backend in run order.
var Backends = []string{BackendMemory, BackendSQLite}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Seed != "" && !filepath.IsAbs(scenario.Seed) {
		scenario.Seed = filepath.Join(filepath.Dir(path), scenario.Seed)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if s.Seed != "" {
		if info, err := os.Stat(s.Seed); err != nil || !info.IsDir() {
			return fmt.Errorf("seed directory not found: %s", s.Seed)
		}
	}

	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		names[c.Name] = true

		if err := validateExpect(c.Expect, s.Seed != ""); err != nil {
			return fmt.Errorf("cases[%d] (%s): %w", i, c.Name, err)
		}
	}

	return nil
}

func validateExpect(e Expect, seeded bool) error {
	if e.SQL == "" && e.SPARQL == "" && e.Tree == "" && e.Error == "" && len(e.Errors) == 0 && e.Books == nil {
		return fmt.Errorf("expect must name at least one outcome")
	}

	if e.Error != "" && !slices.Contains(ErrorKinds, e.Error) {
		return fmt.Errorf("unknown error kind %q", e.Error)
	}
	for target, kind := range e.Errors {
		if !slices.Contains(Targets, target) {
			return fmt.Errorf("errors: unknown target %q", target)
		}
		if !slices.Contains(ErrorKinds, kind) {
			return fmt.Errorf("errors.%s: unknown error kind %q", target, kind)
		}
	}

	if e.Books != nil && !seeded {
		return fmt.Errorf("books requires a seed directory")
	}
	if len(e.Backends) > 0 && e.Books == nil {
		return fmt.Errorf("backends requires books")
	}
	for _, b := range e.Backends {
		if !slices.Contains(Backends, b) {
			return fmt.Errorf("unknown backend %q", b)
		}
	}

	return nil
}

// expectedError returns the error kind target must fail with, or "".
func (e Expect) expectedError(target string) string {
	if kind, ok := e.Errors[target]; ok {
		return kind
	}
	return e.Error
}

// backends returns the backends Books is checked against.
func (e Expect) backends() []string {
	if len(e.Backends) > 0 {
		return e.Backends
	}
	return Backends
}

// FindScenarioFiles returns the .yaml and .yml files under dir in lexical
// order. A non-empty pattern filters on the base name without extension.
func FindScenarioFiles(dir, pattern string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if pattern != "" {
			name := filepath.Base(path)
			matched, err := filepath.Match(pattern, name[:len(name)-len(ext)])
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	return files, err
}
