package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/bookql/internal/catalog"
	"github.com/roach88/bookql/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Database string
}

// LoadSummary reports what load wrote.
type LoadSummary struct {
	Database  string `json:"database"`
	FileCount int    `json:"file_count"`
	Books     int    `json:"books"`
}

// WriteText prints a one-line summary.
func (s LoadSummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "✓ Loaded %d book(s) from %d file(s) into %s\n", s.Books, s.FileCount, s.Database)
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <seed-dir>",
		Short: "Load CUE seed files into the SQLite store",
		Long: `Compile the CUE seed files in a directory and add every book to
the SQLite store, creating the database if it does not exist.

All seed errors are reported before anything is written; nothing is
loaded unless every book compiles.

Example:
  bookql load ./seed --db ./bookql.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to store.path)")

	return cmd
}

func runLoad(opts *LoadOptions, seedDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.config()

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}

	loaded, loadErrors := catalog.LoadDir(seedDir, catalog.LoadModeCollectAll)
	if loaded == nil && len(loadErrors) > 0 {
		return outputLoadError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, seedDir)
	if len(loadErrors) > 0 {
		return outputSeedErrors(formatter, "Load failed", ExitCommandError, loadErrors)
	}

	st, err := store.Open(dbPath, store.WithStrictFields(cfg.Query.Strict()))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	n, err := catalog.Seed(cmd.Context(), st, loaded.Books)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("loaded %d of %d book(s)", n, len(loaded.Books)), err)
	}

	return formatter.Success(LoadSummary{Database: dbPath, FileCount: loaded.FileCount, Books: n})
}

// outputLoadError reports a directory-level seed error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code, message := seedErrorCode(err)
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputSeedErrors reports per-book seed errors with their positions.
func outputSeedErrors(formatter *OutputFormatter, title string, exitCode int, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := seedErrorCode(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{Status: "error", Error: &cliErrors[0], Data: cliErrors}); err != nil {
			return err
		}
		return NewExitError(exitCode, fmt.Sprintf("%d seed error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s\n\n", title)
	for _, err := range errs {
		code, message := seedErrorCode(err)
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(exitCode, fmt.Sprintf("%d seed error(s)", len(errs)))
}

// seedErrorCode extracts the error code and message from a seed error.
func seedErrorCode(err error) (string, string) {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
