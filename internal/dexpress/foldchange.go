package dexpress

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"gosilver/domain/expression"
)

// FoldChangeCriterion skips the repository and shifts the control vector by
// a single uniform draw from the interval.
type FoldChangeCriterion struct {
	alpha float64
	rng   *rand.Rand
}

// NewFoldChangeCriterion keeps alpha only for parity with the other kinds.
func NewFoldChangeCriterion(alpha float64, rng *rand.Rand) *FoldChangeCriterion {
	return &FoldChangeCriterion{alpha: alpha, rng: rng}
}

func (c *FoldChangeCriterion) Kind() Kind { return KindFoldChange }

// Express ignores Force, Shuffle and Std.
func (c *FoldChangeCriterion) Express(ctrl []float64, fc expression.FoldChange, opts ...Option) (Outcome, error) {
	if err := fc.Validate(); err != nil {
		return Outcome{}, err
	}
	o, err := resolve(opts)
	if err != nil {
		return Outcome{}, err
	}
	draw := distuv.Uniform{Min: fc.Lower, Max: fc.Upper, Src: c.rng}.Rand()
	return Outcome{Values: o.Scale.Combine(ctrl, draw), RowIndex: -1}, nil
}
