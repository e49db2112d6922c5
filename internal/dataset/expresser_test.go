package dataset

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/dexpress"
	"gosilver/internal/random"
	"gosilver/internal/repository"
	"gosilver/internal/testkit"
)

type fixture struct {
	ctrls     *expression.Profile
	cases     *expression.Profile
	realCases *expression.Profile
	criterion dexpress.Criterion
}

func newFixture(t *testing.T, seed int64) fixture {
	t.Helper()
	d := newDataset(t)
	ctrls, cases, err := d.MakeCustomReplicates([]int{0, 1, 2}, []int{3, 4, 5}, false)
	require.NoError(t, err)

	rng := random.New(seed)
	repo, err := repository.New(d.Cases(), 3, 2, rng)
	require.NoError(t, err)
	return fixture{
		ctrls:     ctrls,
		cases:     cases,
		realCases: d.Cases(),
		criterion: dexpress.NewTTest(repo, 0.05, rng),
	}
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestDiffExpress_MatchesRepositoryRow(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		f := newFixture(t, seed)
		ctrlBefore := f.ctrls.Data()
		caseBefore := f.cases.Data()

		report, err := DiffExpress(f.ctrls, f.cases,
			expression.GeneFoldChanges{"a": {Lower: 0.5, Upper: 1.5}}, f.criterion, dexpress.WithForce(false))
		require.NoError(t, err)

		assert.Equal(t, ctrlBefore, f.ctrls.Data(), "controls must not change")

		after := f.cases.Data()
		for i, gene := range f.cases.Genes() {
			if gene == "a" {
				continue
			}
			assert.Equal(t, caseBefore[i], after[i], "gene %s changed", gene)
		}

		a, err := f.cases.Get("a")
		require.NoError(t, err)
		source, err := f.realCases.Get("c")
		require.NoError(t, err)
		assert.True(t, testkit.Contains(source, a), "gene a should carry a gene c row, got %v", a)

		require.Len(t, report.Genes, 1)
		g := report.Genes[0]
		assert.Equal(t, OutcomeMatched, g.Outcome)
		assert.GreaterOrEqual(t, g.RowIndex, 0)
		assert.True(t, g.WithinBounds)
		assert.Equal(t, "up", g.Direction)
		assert.InDelta(t, 1.0, g.Shift, 0.1)
	}
}

func TestDiffExpress_UnexpressedGeneKeepsCaseValues(t *testing.T) {
	f := newFixture(t, 1)
	before, err := f.cases.Get("e")
	require.NoError(t, err)

	logger, buf := captureLogger()
	ex := NewExpresser(logger, dexpress.WithForce(false))
	report, err := ex.DiffExpress(f.ctrls, f.cases,
		expression.GeneFoldChanges{"e": {Lower: 1.0, Upper: 1.5}}, f.criterion)
	require.NoError(t, err)

	after, err := f.cases.Get("e")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	assert.Equal(t, 1, report.Count(OutcomeUnexpressed))
	assert.Empty(t, report.Expressed())
	assert.Equal(t, -1, report.Genes[0].RowIndex)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "gene=e")
}

func TestDiffExpress_Fallback(t *testing.T) {
	f := newFixture(t, 2)
	ctrlE, err := f.ctrls.Get("e")
	require.NoError(t, err)

	report, err := DiffExpress(f.ctrls, f.cases,
		expression.GeneFoldChanges{"e": {Lower: 1.0, Upper: 1.5}}, f.criterion, dexpress.WithStd(0))
	require.NoError(t, err)

	after, err := f.cases.Get("e")
	require.NoError(t, err)
	for i := range ctrlE {
		assert.InDelta(t, ctrlE[i]+1.25, after[i], 1e-9)
	}
	assert.Equal(t, OutcomeFallback, report.Genes[0].Outcome)
	assert.InDelta(t, 1.25, report.Genes[0].Shift, 1e-9)
}

func TestDiffExpress_SortedReport(t *testing.T) {
	f := newFixture(t, 3)
	report, err := DiffExpress(f.ctrls, f.cases, expression.GeneFoldChanges{
		"e": {Lower: 1.0, Upper: 1.5},
		"a": {Lower: 0.5, Upper: 1.5},
		"b": {Lower: -2, Upper: -1},
	}, f.criterion)
	require.NoError(t, err)

	var genes []core.GeneID
	for _, g := range report.Genes {
		genes = append(genes, g.Gene)
	}
	assert.Equal(t, core.GeneIDs("a", "b", "e"), genes)
	assert.Len(t, report.Expressed(), 3)
	assert.Contains(t, report.String(), "ttest")
}

func TestDiffExpress_UnknownGene(t *testing.T) {
	f := newFixture(t, 4)
	before := f.cases.Data()

	_, err := DiffExpress(f.ctrls, f.cases, expression.GeneFoldChanges{
		"a": {Lower: 0.5, Upper: 1.5},
		"x": {Lower: 0.5, Upper: 1.5},
	}, f.criterion)
	assert.ErrorIs(t, err, core.ErrGeneNotFound)
	assert.Equal(t, before, f.cases.Data())
}

func TestDiffExpress_InvalidFoldChange(t *testing.T) {
	f := newFixture(t, 4)
	before := f.cases.Data()

	_, err := DiffExpress(f.ctrls, f.cases, expression.GeneFoldChanges{
		"a": {Lower: 0.5, Upper: 1.5},
		"b": {Lower: -1, Upper: 1},
	}, f.criterion)
	assert.ErrorIs(t, err, core.ErrInvalidFoldChange)
	assert.Equal(t, before, f.cases.Data())
}

func TestDiffExpress_Mismatched(t *testing.T) {
	f := newFixture(t, 5)
	other, err := expression.NewProfile(core.GeneIDs("a"), core.SampleIDs("x"), [][]float64{{1}})
	require.NoError(t, err)

	_, err = DiffExpress(f.ctrls, other, expression.GeneFoldChanges{"a": {Lower: 1, Upper: 2}}, f.criterion)
	assert.ErrorIs(t, err, core.ErrMismatchedProfile)
}

type countingCriterion struct {
	dexpress.Criterion
	calls int
}

func (c *countingCriterion) Express(ctrl []float64, fc expression.FoldChange, opts ...dexpress.Option) (dexpress.Outcome, error) {
	c.calls++
	return c.Criterion.Express(ctrl, fc, opts...)
}

func TestDiffExpress_UnequalCohortsRejectedBeforeAnyGene(t *testing.T) {
	d := newDataset(t)
	ctrls, cases, err := d.MakeCustomReplicates([]int{0, 1, 2, 3}, []int{4, 5}, false)
	require.NoError(t, err)
	before := cases.Data()

	criterion := &countingCriterion{Criterion: dexpress.NewFoldChangeCriterion(0.05, random.New(1))}
	_, err = DiffExpress(ctrls, cases, expression.GeneFoldChanges{
		"a": {Lower: 1, Upper: 2},
		"e": {Lower: 1, Upper: 1.5},
	}, criterion, dexpress.WithForce(true))
	require.ErrorIs(t, err, core.ErrLengthMismatch)
	assert.Equal(t, 0, criterion.calls)
	assert.NotContains(t, err.Error(), "gene")
	assert.Equal(t, before, cases.Data())
}

func TestDiffExpress_LengthMismatch(t *testing.T) {
	d := newDataset(t)
	ctrls, cases, err := d.MakeCustomReplicates([]int{0, 1, 2}, []int{3, 4, 5, 0}, true)
	require.NoError(t, err)
	before := cases.Data()

	criterion := dexpress.NewFoldChangeCriterion(0.05, random.New(1))
	_, err = DiffExpress(ctrls, cases, expression.GeneFoldChanges{"a": {Lower: 1, Upper: 2}}, criterion)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
	assert.Equal(t, before, cases.Data())
}
