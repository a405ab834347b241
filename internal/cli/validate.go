package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bookql/internal/catalog"
)

// ValidationResult holds seed validation results.
type ValidationResult struct {
	Valid     bool `json:"valid"`
	FileCount int  `json:"file_count"`
	Books     int  `json:"books"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <seed-dir>",
		Short: "Validate CUE seed files without loading them",
		Long: `Compile every book in a CUE seed directory against the catalogue
schema and report all errors, without touching a database.

Exit codes:
  0 - All books valid
  1 - One or more books invalid
  2 - Command error (missing directory, no CUE files, CUE syntax error)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, seedDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, loadErrors := catalog.LoadDir(seedDir, catalog.LoadModeCollectAll)
	if loaded == nil && len(loadErrors) > 0 {
		return outputLoadError(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, seedDir)
	for _, b := range loaded.Books {
		formatter.VerboseLog("Valid book: %s", b.ID)
	}

	if len(loadErrors) > 0 {
		return outputSeedErrors(formatter, "Validation failed", ExitFailure, loadErrors)
	}

	result := ValidationResult{Valid: true, FileCount: loaded.FileCount, Books: len(loaded.Books)}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d book(s) valid\n", result.Books)
	return nil
}
