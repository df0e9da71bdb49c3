package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seqlattice/recomb/internal/compiler"
	"github.com/seqlattice/recomb/internal/engine"
	"github.com/seqlattice/recomb/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	TablePath     string
	Sequence      string
	K             int
	Require       []string
	Forbid        []string
	Database      string
	MaxIterations int
}

// RunIterationResult is one iteration in the JSON run payload.
type RunIterationResult struct {
	Seq           int64  `json:"seq"`
	TableVersion  int64  `json:"table_version"`
	CertificateID string `json:"certificate_id"`
	Output        string `json:"output"`
	Applied       int    `json:"applied"`
}

// RunResult is the JSON payload for the run command.
type RunResult struct {
	RunID      string               `json:"run_id"`
	Converged  bool                 `json:"converged"`
	Iterations []RunIterationResult `json:"iterations"`
	FinalHash  string               `json:"final_table_hash"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bounded feedback loop",
		Long: `Run solve/analyze/apply cycles until the table stops generating
recommendations or the iteration quota is reached. Each cycle reads one
table snapshot and applies its certificate's recommendations to produce
the next.

Example:
  recomb run --table rules.cue --seq TTTTATCG --k 4 --require cat --max-iterations 10
  recomb run --table rules.yaml --seq TTTTATCG --k 4 --require cat --db ./recomb.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TablePath, "table", "", "path to rule table (.cue, .yaml or .yml, required)")
	cmd.Flags().StringVar(&opts.Sequence, "seq", "", "symbol sequence (required)")
	cmd.Flags().IntVar(&opts.K, "k", 0, "window width (required)")
	cmd.Flags().StringArrayVar(&opts.Require, "require", nil, "required proto tag (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Forbid, "forbid", nil, "forbidden proto tag (repeatable)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "persist snapshots and certificates to this SQLite database")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", 10, "iteration quota")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("seq")
	_ = cmd.MarkFlagRequired("k")

	return cmd
}

func runLoop(opts *RunOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	log := opts.Logger

	table, err := compiler.Load(opts.TablePath)
	if err != nil {
		_ = formatter.Error(ErrCodeTableLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load table", err)
	}

	seq, err := parseSequence(opts.Sequence)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidIndex, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid sequence", err)
	}

	runner := engine.NewRunner(opts.MaxIterations)
	log.Debug("run starting",
		zap.String("run_id", runner.RunID()),
		zap.Int("max_iterations", opts.MaxIterations))

	report, runErr := runner.Run(engine.Request{
		Sequence:  seq,
		K:         opts.K,
		Required:  opts.Require,
		Forbidden: opts.Forbid,
		Table:     table,
	})

	// Persist whatever the run produced, even when it stopped on an
	// error: certificates already emitted are valid records.
	if opts.Database != "" && report != nil {
		if err := persistRun(cmd, opts.Database, report); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to persist run", err)
		}
		log.Debug("run persisted", zap.String("db", opts.Database), zap.Int("iterations", len(report.Iterations)))
	}

	if runErr != nil {
		code := mapEngineError(runErr)
		if engine.IsIterationsExceeded(runErr) {
			code = ErrCodeQuota
		}
		_ = formatter.Error(code, runErr.Error(), nil)
		return WrapExitError(ExitFailure, "run failed", runErr)
	}

	if opts.Format == "json" {
		return formatter.Success(runPayload(report))
	}
	return formatter.Success(renderRunReport(report))
}

func runPayload(report *engine.RunReport) RunResult {
	out := RunResult{
		RunID:     report.RunID,
		Converged: report.Converged,
		FinalHash: report.Final.MustHash(),
	}
	for _, it := range report.Iterations {
		out.Iterations = append(out.Iterations, RunIterationResult{
			Seq:           it.Seq,
			TableVersion:  it.TableVersion,
			CertificateID: it.CertificateID,
			Output:        it.Output,
			Applied:       it.Applied,
		})
	}
	return out
}

func renderRunReport(report *engine.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RUN: %s\n", report.RunID)
	for _, it := range report.Iterations {
		fmt.Fprintf(&b, "  [%d] table=v%d output=%s applied=%d cert=%s\n",
			it.Seq, it.TableVersion, it.Output, it.Applied, it.CertificateID)
	}
	fmt.Fprintf(&b, "CONVERGED: %t\n", report.Converged)
	fmt.Fprintf(&b, "FINAL_TABLE_HASH: %s", report.Final.MustHash())
	return b.String()
}

// persistRun writes every iteration's table snapshot and certificate.
func persistRun(cmd *cobra.Command, dbPath string, report *engine.RunReport) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	for _, it := range report.Iterations {
		if _, err := st.WriteTable(ctx, it.Table); err != nil {
			return err
		}
		if _, err := st.WriteCertificate(ctx, it.Result.Certificate, report.RunID, it.Seq); err != nil {
			return err
		}
	}
	return nil
}
