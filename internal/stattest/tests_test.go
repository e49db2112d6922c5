package stattest

import (
	"math"
	"testing"

	"gosilver/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTestInd_KnownValues(t *testing.T) {
	tests := []struct {
		name  string
		a, b  []float64
		wantT float64
		wantP float64
	}{
		{
			name:  "separated groups",
			a:     []float64{1, 2, 3},
			b:     []float64{4, 5, 6},
			wantT: -3.6742346141747673,
			wantP: 0.02131164112875673,
		},
		{
			name:  "unequal sizes",
			a:     []float64{2.1, 2.5, 1.9, 2.2},
			b:     []float64{1.0, 1.4, 0.8},
			wantT: 5.304744273196296,
			wantP: 0.003179656806561036,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := TTestInd(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantT, res.Statistic, 1e-9)
			assert.InDelta(t, tt.wantP, res.PValue, 1e-6)
			assert.InDelta(t, tt.wantP/2, res.OneSided(), 1e-6)
		})
	}
}

func TestTTestInd_Symmetry(t *testing.T) {
	a := []float64{3.1, 2.9, 3.4, 3.0}
	b := []float64{2.2, 2.6, 2.4}

	ab, err := TTestInd(a, b)
	require.NoError(t, err)
	ba, err := TTestInd(b, a)
	require.NoError(t, err)

	assert.InDelta(t, ab.Statistic, -ba.Statistic, 1e-12)
	assert.InDelta(t, ab.PValue, ba.PValue, 1e-12)
}

func TestTTestInd_ZeroVariance(t *testing.T) {
	res, err := TTestInd([]float64{1, 1}, []float64{2, 2})
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.Statistic, -1))
	assert.Equal(t, 0.0, res.PValue)

	res, err = TTestInd([]float64{1, 1}, []float64{1, 1})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.Statistic))
	assert.True(t, math.IsNaN(res.PValue))
}

func TestTTestInd_InsufficientData(t *testing.T) {
	_, err := TTestInd([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestRankSums(t *testing.T) {
	res, err := RankSums([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, -1.9639610121239315, res.Statistic, 1e-9)
	assert.InDelta(t, 0.04953461343562674, res.PValue, 1e-6)

	// Interleaved groups are indistinguishable.
	res, err = RankSums([]float64{1, 4}, []float64{2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Statistic, 1e-12)
	assert.InDelta(t, 1.0, res.PValue, 1e-12)

	_, err = RankSums(nil, []float64{1})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestRank_Ties(t *testing.T) {
	ranks := Rank([]float64{10, 20, 10, 30, 20})
	assert.Equal(t, []float64{1.5, 3.5, 1.5, 5, 3.5}, ranks)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)

	single, err := Summarize([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, 0.0, single.StdDev)

	_, err = Summarize(nil)
	assert.Error(t, err)
}
