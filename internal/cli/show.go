package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqlattice/recomb/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [certificate-id]",
		Short: "Show persisted certificates",
		Long: `Show a persisted certificate by content-addressed ID, or every
certificate of a run in logical clock order with --run.

Example:
  recomb show --db ./recomb.db 4ac81b…
  recomb show --db ./recomb.db --run 6b39c0de-…`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runShow(opts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show all certificates for this run token")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if (id == "") == (opts.RunID == "") {
		err := fmt.Errorf("exactly one of a certificate ID or --run is required")
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if id != "" {
		c, err := st.ReadCertificate(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("certificate %s not found", id), nil)
			return NewExitError(ExitFailure, "certificate not found")
		}
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read certificate", err)
		}

		if opts.Format == "json" {
			return formatter.Success(c)
		}
		return formatter.Success(strings.TrimRight(c.RenderCAV(), "\n"))
	}

	records, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	if len(records) == 0 {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no certificates for run %s", opts.RunID), nil)
		return NewExitError(ExitFailure, "run not found")
	}

	if opts.Format == "json" {
		return formatter.Success(records)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RUN: %s", opts.RunID)
	for _, rec := range records {
		fmt.Fprintf(&b, "\n  [%d] %s table=%s", rec.Seq, rec.ID, rec.TableHash)
	}
	return formatter.Success(b.String())
}
