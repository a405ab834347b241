package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/bookql/internal/config"
	"github.com/roach88/bookql/internal/filter"
	"github.com/roach88/bookql/internal/querygraph"
	"github.com/roach88/bookql/internal/querysql"
	"github.com/roach88/bookql/internal/querytree"
	"github.com/roach88/bookql/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Target string // sql | sparql | tree; empty uses query.default_target
	Params bool   // sql only: print the parameterised statement
}

// CompileResult is the compiled form of one filter.
type CompileResult struct {
	Filter    string   `json:"filter"`
	Target    string   `json:"target"`
	Query     string   `json:"query"`
	Params    []any    `json:"params,omitempty"`
	Tables    []string `json:"tables,omitempty"`
	Variables []string `json:"variables,omitempty"`
}

// WriteText prints the query followed by its parameters, if any.
func (r CompileResult) WriteText(w io.Writer) {
	fmt.Fprintln(w, r.Query)
	if len(r.Params) > 0 {
		fmt.Fprintf(w, "-- params: %q\n", r.Params)
	}
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <filter>",
		Short: "Compile a filter to a query",
		Long: `Compile a filter expression to one of the query targets.

Targets:
  sql     relational WHERE clause with deduplicated LEFT JOINs
  sparql  graph pattern query (AND as one group, OR as UNION)
  tree    case-folded predicate tree

Examples:
  bookql compile 'author=="Neil Gaiman"' --target sparql
  bookql compile 'tag=in=(fantasy,scifi)' --params
  bookql compile 'title=like=ring' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", "", "compilation target (sql|sparql|tree)")
	cmd.Flags().BoolVar(&opts.Params, "params", false, "print the parameterised SQL statement (sql target only)")

	return cmd
}

func runCompile(opts *CompileOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.config()

	target := opts.Target
	if target == "" {
		target = cfg.Query.DefaultTarget
	}
	if !slices.Contains(config.ValidTargets, target) {
		return formatter.Fail(ExitCommandError, ErrCodeFlag,
			fmt.Sprintf("invalid target %q: must be one of %v", target, config.ValidTargets), nil)
	}
	if opts.Params && target != "sql" {
		return formatter.Fail(ExitCommandError, ErrCodeFlag, "--params requires the sql target", nil)
	}

	node, err := filter.Parse(text)
	if err != nil {
		return formatter.Fail(ExitCommandError, FilterErrorCode(err), "invalid filter", err)
	}
	formatter.VerboseLog("Parsed filter: %s", node)

	result, err := compileTarget(node, target, cfg.Query.Strict(), opts.Params)
	if err != nil {
		return formatter.Fail(ExitCommandError, FilterErrorCode(err), "compilation failed", err)
	}
	result.Filter = text

	return formatter.Success(result)
}

// compileTarget compiles node for one target.
func compileTarget(node filter.Node, target string, strict, params bool) (CompileResult, error) {
	result := CompileResult{Target: target}

	switch target {
	case "sql":
		q, err := querysql.Compile(node, querysql.WithStrictFields(strict))
		if err != nil {
			return result, err
		}
		result.Tables = q.Joins.Tables()
		if params {
			result.Query, result.Params, err = querysql.RenderParams(q, "DISTINCT BOOKS.ID", querysql.WithFoldFunc(store.FoldFunc))
		} else {
			result.Query, err = querysql.Render(q)
		}
		return result, err

	case "sparql":
		q, err := querygraph.Compile(node)
		if err != nil {
			return result, err
		}
		result.Variables = q.Variables()
		result.Query, err = querygraph.Render(q)
		return result, err

	case "tree":
		p, err := querytree.Compile(node)
		if err != nil {
			return result, err
		}
		result.Query = p.String()
		return result, nil
	}

	return result, fmt.Errorf("unknown target %q", target)
}
