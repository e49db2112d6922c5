// Package testkit provides in-memory expression fixtures shared by tests.
package testkit

import (
	"fmt"

	"gosilver/domain/core"
	"gosilver/domain/expression"
)

// NumControls and NumCases describe the layout of DummyProfile: the first
// NumControls columns are controls and the next NumCases columns are cases.
const (
	NumControls = 6
	NumCases    = 6
)

// dummyRows holds log-scale values for genes a..e. Case rows are tight enough
// that every 3-sample subset of a case row behaves the same under a t-test
// against the control targets used across the test suite.
var dummyRows = map[core.GeneID][]float64{
	"a": {3.02, 2.95, 3.10, 2.98, 3.05, 2.91, 0.95, 1.05, 1.02, 0.98, 1.08, 0.93},
	"b": {1.12, 0.98, 1.05, 1.01, 0.94, 1.09, 2.18, 2.25, 2.21, 2.30, 2.15, 2.24},
	"c": {5.10, 4.95, 5.02, 4.88, 5.05, 4.97, 4.02, 3.95, 4.08, 3.98, 4.05, 3.92},
	"d": {7.90, 8.10, 8.02, 7.95, 8.05, 7.98, 8.05, 7.92, 8.11, 7.99, 8.03, 7.96},
	"e": {10.2, 10.4, 10.1, 10.3, 10.25, 10.15, 10.55, 10.45, 10.6, 10.5, 10.48, 10.52},
}

// DummyGenes is the gene order of DummyProfile.
var DummyGenes = core.GeneIDs("a", "b", "c", "d", "e")

// DummyProfile returns the full 5 x 12 fixture profile.
func DummyProfile() *expression.Profile {
	samples := make([]core.SampleID, 0, NumControls+NumCases)
	for i := 1; i <= NumControls; i++ {
		samples = append(samples, core.SampleID(fmt.Sprintf("c%d", i)))
	}
	for i := 1; i <= NumCases; i++ {
		samples = append(samples, core.SampleID(fmt.Sprintf("d%d", i)))
	}
	rows := make([][]float64, len(DummyGenes))
	for i, g := range DummyGenes {
		rows[i] = dummyRows[g]
	}
	p, err := expression.NewProfile(DummyGenes, samples, rows)
	if err != nil {
		panic(err)
	}
	return p
}

// ControlIndices returns the column indices of controls in DummyProfile.
func ControlIndices() []int {
	return indexRange(0, NumControls)
}

// CaseIndices returns the column indices of cases in DummyProfile.
func CaseIndices() []int {
	return indexRange(NumControls, NumControls+NumCases)
}

// DummyCohorts splits DummyProfile into its control and case cohorts.
func DummyCohorts() (ctrl, cases *expression.Profile) {
	p := DummyProfile()
	ctrl, err := p.SelectSamples(ControlIndices())
	if err != nil {
		panic(err)
	}
	cases, err = p.SelectSamples(CaseIndices())
	if err != nil {
		panic(err)
	}
	return ctrl, cases
}

// Contains reports whether every value of sub appears in set.
func Contains(set, sub []float64) bool {
	seen := make(map[float64]int, len(set))
	for _, v := range set {
		seen[v]++
	}
	for _, v := range sub {
		if seen[v] == 0 {
			return false
		}
		seen[v]--
	}
	return true
}

func indexRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
