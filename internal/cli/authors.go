package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/bookql/internal/model"
)

// AuthorsOptions holds flags for the authors command.
type AuthorsOptions struct {
	*RootOptions
	BackendOptions
	Books bool // also list each author's books
}

// AuthorEntry is one author, with their books when requested.
type AuthorEntry struct {
	model.Author
	Books []model.BookID `json:"books,omitempty"`
}

// AuthorsResult lists authors ordered by name.
type AuthorsResult struct {
	Authors []AuthorEntry `json:"authors"`
}

// WriteText prints one author per line.
func (r AuthorsResult) WriteText(w io.Writer) {
	for _, a := range r.Authors {
		fmt.Fprintf(w, "%s\t%s", a.ID, a.Name)
		if len(a.Books) > 0 {
			fmt.Fprintf(w, "\t%v", a.Books)
		}
		fmt.Fprintln(w)
	}
}

// NewAuthorsCommand creates the authors command.
func NewAuthorsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthorsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "authors [author-id]",
		Short: "List authors",
		Long: `List every author in the catalogue ordered by name, or a single
author when an ID is given.

Examples:
  bookql authors --db ./bookql.db
  bookql authors pratchett --books --db ./bookql.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id model.AuthorID
			if len(args) == 1 {
				id = model.AuthorID(args[0])
			}
			return runAuthors(opts, id, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.Books, "books", false, "list the IDs of each author's books")

	return cmd
}

func runAuthors(opts *AuthorsOptions, id model.AuthorID, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	cat, closeCatalog, err := openCatalog(ctx, opts.RootOptions, opts.BackendOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open catalogue", err)
	}
	defer closeCatalog()

	var authors []model.Author
	if id != "" {
		a, err := cat.GetAuthor(ctx, id)
		if err != nil {
			return formatter.Fail(ExitCommandError, FilterErrorCode(err), fmt.Sprintf("author %s", id), err)
		}
		authors = []model.Author{a}
	} else if authors, err = cat.GetAllAuthors(ctx); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "listing authors failed", err)
	}

	result := AuthorsResult{Authors: make([]AuthorEntry, len(authors))}
	for i, a := range authors {
		result.Authors[i] = AuthorEntry{Author: a}
		if !opts.Books {
			continue
		}
		books, err := cat.FindByAuthor(ctx, a.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("books of %s", a.ID), err)
		}
		for _, b := range books {
			result.Authors[i].Books = append(result.Authors[i].Books, b.ID)
		}
	}

	return formatter.Success(result)
}
