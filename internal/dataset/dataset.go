// Package dataset draws replicate control/case cohorts from real controls and
// imposes requested differential expression on the simulated cases.
package dataset

import (
	"fmt"
	"math/rand/v2"

	"gosilver/domain/core"
	"gosilver/domain/expression"
)

// Dataset pairs the real control and case cohorts of one experiment.
type Dataset struct {
	controls *expression.Profile
	cases    *expression.Profile
}

// New pairs two cohorts, which must list the same genes in the same order.
func New(controls, cases *expression.Profile) (*Dataset, error) {
	if err := expression.CheckAligned(controls, cases); err != nil {
		return nil, err
	}
	return &Dataset{controls: controls, cases: cases}, nil
}

// Controls returns the real control cohort.
func (d *Dataset) Controls() *expression.Profile { return d.controls }

// Cases returns the real case cohort.
func (d *Dataset) Cases() *expression.Profile { return d.cases }

// MakeCustomReplicates selects two cohorts from the real controls. Both come
// from the control pool so the simulated cases start with no true
// differential expression. Without replacement the index sets must be free
// of repeats and disjoint.
func (d *Dataset) MakeCustomReplicates(ctrlIdx, caseIdx []int, replace bool) (ctrls, cases *expression.Profile, err error) {
	if !replace {
		if err := checkUnique("simulated control indices", ctrlIdx); err != nil {
			return nil, nil, err
		}
		if err := checkUnique("simulated case indices", caseIdx); err != nil {
			return nil, nil, err
		}
		if err := checkDisjoint(ctrlIdx, caseIdx); err != nil {
			return nil, nil, err
		}
	}

	ctrls, err = d.controls.SelectSamples(ctrlIdx)
	if err != nil {
		return nil, nil, fmt.Errorf("select simulated controls: %w", err)
	}
	cases, err = d.controls.SelectSamples(caseIdx)
	if err != nil {
		return nil, nil, fmt.Errorf("select simulated cases: %w", err)
	}
	return ctrls, cases, nil
}

// MakeReplicates chooses numCtrls and numCases control columns at random and
// delegates to MakeCustomReplicates. With replace set, columns are drawn with
// replacement from the control pool.
func (d *Dataset) MakeReplicates(numCtrls, numCases int, replace bool, rng *rand.Rand) (ctrls, cases *expression.Profile, err error) {
	if numCtrls <= 0 || numCases <= 0 {
		return nil, nil, fmt.Errorf("%w: simulated controls and cases must be positive, got %d and %d",
			core.ErrInvalidSampleCount, numCtrls, numCases)
	}
	_, total := d.controls.Shape()
	need := numCtrls + numCases
	if !replace && need > total {
		return nil, nil, fmt.Errorf("%w: simulated controls + simulated cases (%d) must be less than or equal to the total number of controls (%d); alternatively enable replace to sample with replacement",
			core.ErrInvalidSampleCount, need, total)
	}

	var indices []int
	if replace {
		picks := make([]int, need)
		for i := range picks {
			picks[i] = rng.IntN(total)
		}
		indices = make([]int, need)
		for i, j := range rng.Perm(need) {
			indices[i] = picks[j]
		}
	} else {
		indices = rng.Perm(total)
	}
	return d.MakeCustomReplicates(indices[:numCtrls], indices[numCtrls:need], replace)
}

func checkUnique(name string, indices []int) error {
	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if _, dup := seen[i]; dup {
			return fmt.Errorf("%w: %s contain %d more than once", core.ErrDuplicateIndex, name, i)
		}
		seen[i] = struct{}{}
	}
	return nil
}

func checkDisjoint(a, b []int) error {
	set := make(map[int]struct{}, len(a))
	for _, i := range a {
		set[i] = struct{}{}
	}
	for _, i := range b {
		if _, ok := set[i]; ok {
			return fmt.Errorf("%w: index %d is in both groups", core.ErrOverlappingIndex, i)
		}
	}
	return nil
}
