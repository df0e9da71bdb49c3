package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/compiler"
	"github.com/seqlattice/recomb/internal/feedback"
)

// FeedbackOptions holds flags for the feedback command.
type FeedbackOptions struct {
	*RootOptions
	TablePath    string
	CertPath     string
	ErrorRegions []string
}

// FeedbackResult is the JSON payload for the feedback command.
type FeedbackResult struct {
	TableHash       string                `json:"table_hash"`
	Recommendations []cert.Recommendation `json:"recommendations"`
}

// NewFeedbackCommand creates the feedback command.
func NewFeedbackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedbackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Derive rule-table recommendations from a certificate",
		Long: `Analyze a certificate plus externally detected error regions and
emit the bounded recommendation set for a later apply. The table must
be the snapshot (by content) the certificate was produced against.

Error regions use the form PATTERN:START:END with a half-open index
range, e.g. --error-region TTTT:0:4.

Example:
  recomb feedback --table rules.cue --cert cert.json --error-region TTTT:0:4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeedback(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TablePath, "table", "", "path to rule table (.cue, .yaml or .yml, required)")
	cmd.Flags().StringVar(&opts.CertPath, "cert", "", "path to certificate JSON (required)")
	cmd.Flags().StringArrayVar(&opts.ErrorRegions, "error-region", nil, "detected error region PATTERN:START:END (repeatable)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("cert")

	return cmd
}

func runFeedback(opts *FeedbackOptions, cmd *cobra.Command) error {
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

	regions, err := parseErrorRegions(opts.ErrorRegions)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid error region", err)
	}

	recs, err := feedback.Analyze(c, regions, table, feedback.DefaultOptions())
	if err != nil {
		_ = formatter.Error(mapEngineError(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "analyze failed", err)
	}
	opts.Logger.Debug("certificate analyzed",
		zap.String("certificate", c.MustID()),
		zap.Int("recommendations", len(recs)))

	if opts.Format == "json" {
		return formatter.Success(FeedbackResult{
			TableHash:       c.TableHash,
			Recommendations: recs,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TABLE_HASH: %s\n", c.TableHash)
	fmt.Fprintf(&b, "RECOMMENDATIONS: %d", len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&b, "\n  %s %s %+g", rec.Pattern, rec.Field, rec.Delta)
	}
	return formatter.Success(b.String())
}

// parseErrorRegions parses PATTERN:START:END flags.
func parseErrorRegions(raw []string) ([]feedback.ErrorRegion, error) {
	var regions []feedback.ErrorRegion
	for _, r := range raw {
		parts := strings.Split(r, ":")
		if len(parts) != 3 || parts[0] == "" {
			return nil, fmt.Errorf("malformed error region %q (want PATTERN:START:END)", r)
		}
		start, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed error region %q: %w", r, err)
		}
		end, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("malformed error region %q: %w", r, err)
		}
		if end <= start || start < 0 {
			return nil, fmt.Errorf("malformed error region %q: empty or negative range", r)
		}
		regions = append(regions, feedback.ErrorRegion{Pattern: parts[0], Start: start, End: end})
	}
	return regions, nil
}
