package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seqlattice/recomb/internal/compiler"
	"github.com/seqlattice/recomb/internal/feedback"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	TablePath string
	CertPath  string
	OutPath   string
}

// ApplyResult is the JSON payload for the apply command.
type ApplyResult struct {
	Applied     int    `json:"applied"`
	NextVersion int64  `json:"next_version"`
	NextHash    string `json:"next_hash"`
	OutPath     string `json:"out_path,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a certificate's recommendations to a rule table",
		Long: `Fold a certificate's recommendation set into the table it was
produced against, yielding the successor snapshot (version + 1). The
input table file is never modified; the new table is written in YAML
form to --out, or to stdout when --out is omitted.

Example:
  recomb apply --table rules.cue --cert cert.json --out rules-v2.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TablePath, "table", "", "path to rule table (.cue, .yaml or .yml, required)")
	cmd.Flags().StringVar(&opts.CertPath, "cert", "", "path to certificate JSON (required)")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "path for the successor table YAML (default stdout)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("cert")

	return cmd
}

func runApply(opts *ApplyOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	table, err := compiler.Load(opts.TablePath)
	if err != nil {
		_ = formatter.Error(ErrCodeTableLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load table", err)
	}

	c, err := readCertificateFile(opts.CertPath)
	if err != nil {
		_ = formatter.Error(ErrCodeMalformedCert, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read certificate", err)
	}

	// Analyze validates the record version and the table hash before
	// any delta is computed.
	recs, err := feedback.Analyze(c, nil, table, feedback.DefaultOptions())
	if err != nil {
		_ = formatter.Error(mapEngineError(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "analyze failed", err)
	}

	next, err := feedback.Apply(table, recs, feedback.DefaultOptions())
	if err != nil {
		_ = formatter.Error(mapEngineError(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "apply failed", err)
	}
	opts.Logger.Debug("recommendations applied",
		zap.Int("count", len(recs)),
		zap.Int64("next_version", next.Version()))

	rendered, err := compiler.MarshalYAML(next)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to render table", err)
	}

	if opts.OutPath != "" {
		if err := os.WriteFile(opts.OutPath, rendered, 0o644); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write table", err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(ApplyResult{
			Applied:     len(recs),
			NextVersion: next.Version(),
			NextHash:    next.MustHash(),
			OutPath:     opts.OutPath,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "APPLIED: %d\n", len(recs))
	fmt.Fprintf(&b, "NEXT_VERSION: %d\n", next.Version())
	fmt.Fprintf(&b, "NEXT_HASH: %s", next.MustHash())
	if opts.OutPath == "" {
		fmt.Fprintf(&b, "\n%s", string(rendered))
	}
	return formatter.Success(b.String())
}
