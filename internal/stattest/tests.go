// Package stattest implements the two-sample hypothesis tests used to decide
// whether a candidate expression vector is distinguishable from a target.
package stattest

import (
	"fmt"
	"math"
	"sort"

	"gosilver/domain/core"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Result holds a test statistic and its two-sided p-value.
type Result struct {
	Statistic float64
	PValue    float64
}

// OneSided halves the two-sided p-value.
func (r Result) OneSided() float64 {
	return r.PValue / 2
}

// TTestInd runs an independent two-sample Student's t-test assuming equal
// variances. A positive statistic means mean(a) > mean(b).
//
// When both samples have zero variance the statistic is ±Inf (p = 0) if the
// means differ and NaN (p = NaN) if they are equal.
func TTestInd(a, b []float64) (Result, error) {
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return Result{}, fmt.Errorf("%w: t-test needs at least 2 values per group, got %d and %d",
			core.ErrInsufficientData, n1, n2)
	}

	mean1, var1 := stat.MeanVariance(a, nil)
	mean2, var2 := stat.MeanVariance(b, nil)

	df := float64(n1 + n2 - 2)
	pooled := (float64(n1-1)*var1 + float64(n2-1)*var2) / df
	se := math.Sqrt(pooled * (1/float64(n1) + 1/float64(n2)))
	diff := mean1 - mean2

	if se == 0 {
		switch {
		case diff > 0:
			return Result{Statistic: math.Inf(1), PValue: 0}, nil
		case diff < 0:
			return Result{Statistic: math.Inf(-1), PValue: 0}, nil
		default:
			return Result{Statistic: math.NaN(), PValue: math.NaN()}, nil
		}
	}

	t := diff / se
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * tDist.Survival(math.Abs(t))
	return Result{Statistic: t, PValue: math.Min(p, 1)}, nil
}

// RankSums runs the Wilcoxon rank-sum test with the large-sample normal
// approximation. Ties receive average ranks; no tie or continuity correction
// is applied. A positive statistic means a tends to rank above b.
func RankSums(a, b []float64) (Result, error) {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return Result{}, fmt.Errorf("%w: rank-sum test needs non-empty groups", core.ErrInsufficientData)
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, a...)
	combined = append(combined, b...)
	ranks := Rank(combined)

	var s float64
	for i := 0; i < n1; i++ {
		s += ranks[i]
	}

	fn1, fn2 := float64(n1), float64(n2)
	expected := fn1 * (fn1 + fn2 + 1) / 2
	sd := math.Sqrt(fn1 * fn2 * (fn1 + fn2 + 1) / 12)
	z := (s - expected) / sd
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	return Result{Statistic: z, PValue: math.Min(p, 1)}, nil
}

// Rank assigns 1-based ranks, averaging over ties.
func Rank(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
