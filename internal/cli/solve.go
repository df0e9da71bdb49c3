package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seqlattice/recomb/internal/compiler"
	"github.com/seqlattice/recomb/internal/engine"
	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/store"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	TablePath string
	Sequence  string
	K         int
	Require   []string
	Forbid    []string
	Database  string
}

// SolveResult is the JSON payload for a successful solve.
type SolveResult struct {
	Output        string   `json:"output"`
	CertificateID string   `json:"certificate_id"`
	TableHash     string   `json:"table_hash"`
	HealthScore   float64  `json:"health_score"`
	JaccardScore  float64  `json:"jaccard_score"`
	PenaltyTotal  float64  `json:"penalty_total"`
	Regions       []string `json:"regions"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one sequence against a rule table",
		Long: `Run the full pipeline once: scan the sequence's windows against the
rule table, select constrained regions, splice and verify, and emit the
certificate.

Example:
  recomb solve --table rules.cue --seq ATCGGATCGTAA --k 4 --require cat --require dog --forbid fish
  recomb solve --table rules.yaml --seq ATCGGATCGTAA --k 4 --require cat --db ./recomb.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TablePath, "table", "", "path to rule table (.cue, .yaml or .yml, required)")
	cmd.Flags().StringVar(&opts.Sequence, "seq", "", "symbol sequence (required)")
	cmd.Flags().IntVar(&opts.K, "k", 0, "window width (required)")
	cmd.Flags().StringArrayVar(&opts.Require, "require", nil, "required proto tag (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Forbid, "forbid", nil, "forbidden proto tag (repeatable)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "persist table and certificate to this SQLite database")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("seq")
	_ = cmd.MarkFlagRequired("k")

	return cmd
}

func runSolve(opts *SolveOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	log := opts.Logger

	table, err := compiler.Load(opts.TablePath)
	if err != nil {
		_ = formatter.Error(ErrCodeTableLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load table", err)
	}
	log.Debug("table loaded",
		zap.String("path", opts.TablePath),
		zap.Int("rules", table.Len()),
		zap.String("hash", table.MustHash()))

	result, err := engine.SolveSequence(opts.Sequence, opts.K, opts.Require, opts.Forbid, table)
	if err != nil {
		_ = formatter.Error(mapEngineError(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "solve failed", err)
	}

	certID := result.Certificate.MustID()
	if opts.Database != "" {
		if err := persistResult(cmd.Context(), opts.Database, table, result, uuid.NewString(), 1); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to persist result", err)
		}
		log.Debug("result persisted", zap.String("db", opts.Database), zap.String("certificate", certID))
	}

	if opts.Format == "json" {
		return formatter.Success(solvePayload(result, certID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "OUTPUT: %s\n", result.Output.String())
	b.WriteString(result.Certificate.RenderCAV())
	fmt.Fprintf(&b, "CERTIFICATE_ID: %s", certID)
	return formatter.Success(b.String())
}

func solvePayload(result *engine.Result, certID string) SolveResult {
	regions := make([]string, 0, len(result.Certificate.SelectedRegions))
	for _, r := range result.Certificate.SelectedRegions {
		regions = append(regions, fmt.Sprintf("(%d,%d)", r.Start, r.End))
	}
	return SolveResult{
		Output:        result.Output.String(),
		CertificateID: certID,
		TableHash:     result.Certificate.TableHash,
		HealthScore:   result.Certificate.HealthScore,
		JaccardScore:  result.Certificate.JaccardScore,
		PenaltyTotal:  result.Certificate.PenaltyTotal,
		Regions:       regions,
	}
}

// persistResult writes the solve's table snapshot and certificate in
// one store session.
func persistResult(ctx context.Context, dbPath string, table *rules.Table, result *engine.Result, runID string, seq int64) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.WriteTable(ctx, table); err != nil {
		return err
	}
	_, err = st.WriteCertificate(ctx, result.Certificate, runID, seq)
	return err
}
