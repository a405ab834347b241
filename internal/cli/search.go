package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bookql/internal/model"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	BackendOptions
}

// SearchResult lists the books a filter matched.
type SearchResult struct {
	Filter string       `json:"filter"`
	Count  int          `json:"count"`
	Books  []model.Book `json:"books"`
}

// WriteText prints one line per book and a count.
func (r SearchResult) WriteText(w io.Writer) {
	for _, b := range r.Books {
		fmt.Fprintf(w, "%s\t%s", b.ID, b.Title)
		if names := b.AuthorNames(); len(names) > 0 {
			fmt.Fprintf(w, "\t%s", strings.Join(names, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d book(s)\n", r.Count)
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <filter>",
		Short: "Find books matching a filter",
		Long: `Run a filter against the catalogue and list the matching books in
ID order.

The sqlite backend executes the compiled SQL; the memory backend
evaluates the predicate tree over books loaded from a CUE seed directory.

Examples:
  bookql search 'tag==fantasy' --db ./bookql.db
  bookql search 'series==discworld' --backend memory --seed ./seed`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	opts.register(cmd)

	return cmd
}

func runSearch(opts *SearchOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	cat, closeCatalog, err := openCatalog(ctx, opts.RootOptions, opts.BackendOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open catalogue", err)
	}
	defer closeCatalog()

	books, err := cat.FindBooks(ctx, text)
	if err != nil {
		return formatter.Fail(ExitCommandError, FilterErrorCode(err), "search failed", err)
	}
	formatter.VerboseLog("Filter %q matched %d book(s)", text, len(books))

	if books == nil {
		books = []model.Book{}
	}
	return formatter.Success(SearchResult{Filter: text, Count: len(books), Books: books})
}
