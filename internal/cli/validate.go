package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqlattice/recomb/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <table-file>",
		Short: "Validate a rule table without solving",
		Long: `Load a rule table and run the semantic checks construction alone
cannot catch: mixed pattern lengths, conflicting health markers,
negative weights, and tagless rules. Collects all errors instead of
stopping at the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, tablePath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	table, err := compiler.Load(tablePath)
	if err != nil {
		_ = formatter.Error(ErrCodeTableLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load table", err)
	}
	formatter.VerboseLog("Loaded %d rule(s) from %s", table.Len(), tablePath)

	errs := compiler.Validate(table)
	if len(errs) > 0 {
		if opts.Format == "json" {
			if err := formatter.Success(ValidationResult{Valid: false, Errors: errs}); err != nil {
				return err
			}
		} else {
			var b strings.Builder
			fmt.Fprintf(&b, "INVALID: %d error(s)", len(errs))
			for _, e := range errs {
				fmt.Fprintf(&b, "\n  %s", e.Error())
			}
			if err := formatter.Success(b.String()); err != nil {
				return err
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("table has %d validation error(s)", len(errs)))
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	return formatter.Success(fmt.Sprintf("VALID: %d rule(s), hash %s", table.Len(), table.MustHash()))
}
