package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bookql/internal/model"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	BackendOptions
}

// BookDetail is a single book as printed by show.
type BookDetail struct {
	model.Book
}

// WriteText prints the book's fields, skipping empty ones.
func (d BookDetail) WriteText(w io.Writer) {
	b := d.Book
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-12s %s\n", label+":", value)
		}
	}

	line("ID", string(b.ID))
	line("Title", b.Title)
	line("Authors", strings.Join(b.AuthorNames(), ", "))
	if b.Series != nil {
		line("Series", fmt.Sprintf("%s #%d", b.Series.Title, b.Series.Volume))
	}
	line("Publisher", b.Publisher)
	line("Published", formatDate(b.PublicationDate))
	line("Created", formatDate(b.CreationDate))
	line("Languages", strings.Join(b.Languages, ", "))
	line("Tags", strings.Join(b.Tags, ", "))

	idents := make([]string, len(b.Identifiers))
	for i, id := range b.Identifiers {
		idents[i] = id.String()
	}
	line("Identifiers", strings.Join(idents, ", "))

	formats := make([]string, len(b.Formats))
	for i, f := range b.Formats {
		formats[i] = f.Type
	}
	line("Formats", strings.Join(formats, ", "))
	line("Description", b.Description)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show one book",
		Long: `Show every stored field of one book.

Exits with code 2 and error E302 if the book does not exist.

Example:
  bookql show goodOmens --db ./bookql.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, model.BookID(args[0]), cmd)
		},
	}

	opts.register(cmd)

	return cmd
}

func runShow(opts *ShowOptions, id model.BookID, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	cat, closeCatalog, err := openCatalog(ctx, opts.RootOptions, opts.BackendOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open catalogue", err)
	}
	defer closeCatalog()

	book, err := cat.GetBook(ctx, id)
	if err != nil {
		return formatter.Fail(ExitCommandError, FilterErrorCode(err), fmt.Sprintf("book %s", id), err)
	}

	return formatter.Success(BookDetail{Book: book})
}
