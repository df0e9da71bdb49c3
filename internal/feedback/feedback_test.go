package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/solver"
)

func errorTable(t *testing.T) *rules.Table {
	t.Helper()
	tbl, err := rules.NewTable([]rules.Rule{
		{Pattern: "ATCG", Weight: 1.0, ProtoTags: []string{"cat", "healthy"}},
		{Pattern: "TTTT", Weight: 1.0, ProtoTags: []string{"cat", "error"}},
	})
	require.NoError(t, err)
	return tbl
}

func TestForPattern(t *testing.T) {
	opts := DefaultOptions()

	healthy := rules.Rule{Pattern: "ATCG", ProtoTags: []string{"healthy"}}
	assert.Nil(t, ForPattern(healthy, opts))

	errored := rules.Rule{Pattern: "TTTT", ProtoTags: []string{"error"}}
	recs := ForPattern(errored, opts)
	require.Len(t, recs, 2)
	assert.Equal(t, cert.Recommendation{Pattern: "TTTT", Field: cert.FieldPenalty, Delta: 2.0}, recs[0])
	assert.Equal(t, cert.Recommendation{Pattern: "TTTT", Field: cert.FieldPriority, Delta: 1}, recs[1])
}

func TestDetectFromSelection(t *testing.T) {
	tbl := errorTable(t)
	seq := lattice.MustSequence("TTTTATCG")
	out, err := solver.Solve(seq, 4, []string{"cat"}, nil, tbl, solver.DefaultOptions())
	require.NoError(t, err)

	recs := Detect(out.Selection, tbl, DefaultOptions())
	require.Len(t, recs, 2)
	assert.Equal(t, "TTTT", recs[0].Pattern)
	assert.Equal(t, cert.FieldPenalty, recs[0].Field)
	assert.Equal(t, "TTTT", recs[1].Pattern)
	assert.Equal(t, cert.FieldPriority, recs[1].Field)
}

func TestDetectCleanSelection(t *testing.T) {
	tbl := errorTable(t)
	seq := lattice.MustSequence("ATCG")
	out, err := solver.Solve(seq, 4, []string{"cat"}, nil, tbl, solver.DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, Detect(out.Selection, tbl, DefaultOptions()))
}

func TestAnalyze(t *testing.T) {
	tbl := errorTable(t)
	c := &cert.Certificate{
		TableHash:     tbl.MustHash(),
		K:             4,
		RecordVersion: cert.RecordVersion,
	}

	recs, err := Analyze(c, []ErrorRegion{{Pattern: "TTTT", Start: 0, End: 4}}, tbl, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, cert.FieldPenalty, recs[0].Field)
	assert.Equal(t, cert.FieldPriority, recs[1].Field)
}

func TestAnalyzeMalformedCertificate(t *testing.T) {
	tbl := errorTable(t)
	opts := DefaultOptions()

	_, err := Analyze(nil, nil, tbl, opts)
	assert.ErrorIs(t, err, ErrMalformedCertificate)

	_, err = Analyze(&cert.Certificate{TableHash: tbl.MustHash(), RecordVersion: "99"}, nil, tbl, opts)
	assert.ErrorIs(t, err, ErrMalformedCertificate)

	_, err = Analyze(&cert.Certificate{RecordVersion: cert.RecordVersion}, nil, tbl, opts)
	assert.ErrorIs(t, err, ErrMalformedCertificate)
}

func TestAnalyzeTableMismatch(t *testing.T) {
	tbl := errorTable(t)
	c := &cert.Certificate{
		TableHash:     "0000000000000000000000000000000000000000000000000000000000000000",
		RecordVersion: cert.RecordVersion,
	}

	_, err := Analyze(c, nil, tbl, DefaultOptions())
	assert.ErrorIs(t, err, ErrTableMismatch)
}

func TestAnalyzeUnknownPattern(t *testing.T) {
	tbl := errorTable(t)
	c := &cert.Certificate{TableHash: tbl.MustHash(), RecordVersion: cert.RecordVersion}

	_, err := Analyze(c, []ErrorRegion{{Pattern: "GGGG"}}, tbl, DefaultOptions())
	assert.ErrorIs(t, err, rules.ErrUnknownPattern)
}

func TestApply(t *testing.T) {
	tbl := errorTable(t)
	recs := []cert.Recommendation{
		{Pattern: "TTTT", Field: cert.FieldPenalty, Delta: 2.0},
		{Pattern: "TTTT", Field: cert.FieldPriority, Delta: 1},
	}

	next, err := Apply(tbl, recs, DefaultOptions())
	require.NoError(t, err)

	// Copy-on-write: the input snapshot is untouched.
	orig, _ := tbl.Lookup("TTTT")
	assert.Equal(t, 0.0, orig.Penalty)
	assert.Equal(t, 0, orig.Priority)
	assert.Equal(t, tbl.Version()+1, next.Version())

	updated, ok := next.Lookup("TTTT")
	require.True(t, ok)
	assert.Equal(t, 2.0, updated.Penalty)
	assert.Equal(t, 1, updated.Priority)

	// Pattern count never changes.
	assert.Equal(t, len(tbl.Patterns()), len(next.Patterns()))
}

func TestApplyClampsDelta(t *testing.T) {
	tbl := errorTable(t)
	recs := []cert.Recommendation{
		{Pattern: "TTTT", Field: cert.FieldPenalty, Delta: 50.0},
		{Pattern: "ATCG", Field: cert.FieldPenalty, Delta: -50.0},
	}

	next, err := Apply(tbl, recs, DefaultOptions())
	require.NoError(t, err)

	up, _ := next.Lookup("TTTT")
	assert.Equal(t, 2.0, up.Penalty)
	down, _ := next.Lookup("ATCG")
	assert.Equal(t, -2.0, down.Penalty)
}

func TestApplyUnknownPattern(t *testing.T) {
	tbl := errorTable(t)

	_, err := Apply(tbl, []cert.Recommendation{{Pattern: "GGGG", Field: cert.FieldPenalty, Delta: 1}}, DefaultOptions())
	assert.ErrorIs(t, err, rules.ErrUnknownPattern)
}

func TestDedupeIdempotentPerCertificate(t *testing.T) {
	recs := dedupe([]cert.Recommendation{
		{Pattern: "TTTT", Field: cert.FieldPenalty, Delta: 2.0},
		{Pattern: "TTTT", Field: cert.FieldPenalty, Delta: 2.0},
		{Pattern: "ATCG", Field: cert.FieldPriority, Delta: 1},
		{Pattern: "TTTT", Field: cert.FieldPriority, Delta: 1},
	})

	require.Len(t, recs, 3)
	assert.Equal(t, "ATCG", recs[0].Pattern)
	assert.Equal(t, "TTTT", recs[1].Pattern)
	assert.Equal(t, cert.FieldPenalty, recs[1].Field)
	assert.Equal(t, cert.FieldPriority, recs[2].Field)
}
