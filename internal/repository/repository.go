// Package repository holds the background pool of naturally varying
// expression rows that differential-expression criteria search through.
package repository

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"gosilver/domain/core"
	"gosilver/domain/expression"
)

// Origin identifies where a repository row was sampled from.
type Origin struct {
	Gene       core.GeneID
	Repetition int
	Samples    []core.SampleID
}

// Repository is an immutable (rows x width) table assembled by repeatedly
// drawing width distinct sample columns from a reference case profile.
type Repository struct {
	rows    [][]float64
	genes   []core.GeneID
	draws   [][]core.SampleID
	width   int
	perDraw int
}

// New samples numRepetitions column subsets of size numSimCases from cases,
// without replacement inside each repetition, and stacks the resulting rows.
func New(cases *expression.Profile, numSimCases, numRepetitions int, rng *rand.Rand) (*Repository, error) {
	genes, total := cases.Shape()
	if numSimCases <= 0 {
		return nil, fmt.Errorf("%w: number of simulated cases must be positive, got %d",
			core.ErrInvalidSampleCount, numSimCases)
	}
	if numSimCases > total {
		return nil, fmt.Errorf("%w: number of simulated cases (%d) must be less than or equal to the total number of case samples (%d)",
			core.ErrInvalidSampleCount, numSimCases, total)
	}
	if numRepetitions <= 0 {
		return nil, fmt.Errorf("%w: number of repetitions must be positive, got %d",
			core.ErrInvalidSampleCount, numRepetitions)
	}

	r := &Repository{
		rows:    make([][]float64, 0, genes*numRepetitions),
		genes:   cases.Genes(),
		draws:   make([][]core.SampleID, 0, numRepetitions),
		width:   numSimCases,
		perDraw: genes,
	}
	for rep := 0; rep < numRepetitions; rep++ {
		indices := rng.Perm(total)[:numSimCases]
		batch, err := cases.SelectSamples(indices)
		if err != nil {
			return nil, err
		}
		r.rows = append(r.rows, batch.Data()...)
		r.draws = append(r.draws, batch.Samples())
	}
	return r, nil
}

// Len returns the number of rows.
func (r *Repository) Len() int { return len(r.rows) }

// Width returns the number of values in each row.
func (r *Repository) Width() int { return r.width }

// Shape returns (rows, width).
func (r *Repository) Shape() (int, int) { return len(r.rows), r.width }

// Repetitions returns how many column draws were stacked.
func (r *Repository) Repetitions() int { return len(r.draws) }

// Row returns a copy of row i.
func (r *Repository) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(r.rows) {
		return nil, core.NewIndexError(i, len(r.rows))
	}
	return append([]float64(nil), r.rows[i]...), nil
}

// Origin reports the gene and column draw that produced row i.
func (r *Repository) Origin(i int) (Origin, error) {
	if i < 0 || i >= len(r.rows) {
		return Origin{}, core.NewIndexError(i, len(r.rows))
	}
	rep := i / r.perDraw
	return Origin{
		Gene:       r.genes[i%r.perDraw],
		Repetition: rep,
		Samples:    append([]core.SampleID(nil), r.draws[rep]...),
	}, nil
}

// All iterates rows in storage order. Yielded slices are copies.
func (r *Repository) All() iter.Seq2[int, []float64] {
	return func(yield func(int, []float64) bool) {
		for i, row := range r.rows {
			if !yield(i, append([]float64(nil), row...)) {
				return
			}
		}
	}
}

// Order returns the row visiting order for one search: a fresh random
// permutation when shuffle is set, storage order otherwise.
func (r *Repository) Order(shuffle bool, rng *rand.Rand) []int {
	if shuffle {
		return rng.Perm(len(r.rows))
	}
	order := make([]int, len(r.rows))
	for i := range order {
		order[i] = i
	}
	return order
}

// view returns row i without copying; callers must not modify it.
func (r *Repository) view(i int) []float64 {
	return r.rows[i]
}

// Search visits rows in the given order and returns the index of the first
// row accepted by match, or -1. Rows passed to match must not be modified.
func (r *Repository) Search(order []int, match func(row []float64) bool) int {
	for _, i := range order {
		if match(r.view(i)) {
			return i
		}
	}
	return -1
}

func (r *Repository) String() string {
	return fmt.Sprintf("Repository(%d rows x %d samples, %d repetitions)", len(r.rows), r.width, len(r.draws))
}
