package dexpress

import (
	"math/rand/v2"

	"gosilver/domain/expression"
	"gosilver/internal/repository"
	"gosilver/internal/stattest"
)

// TTest accepts a repository row that a one-sided t-test places above the
// control shifted by the lower bound and below the control shifted by the
// upper bound.
type TTest struct {
	search
}

// NewTTest searches repo at significance level alpha.
func NewTTest(repo *repository.Repository, alpha float64, rng *rand.Rand) *TTest {
	return &TTest{search{repo: repo, alpha: alpha, rng: rng}}
}

func (c *TTest) Kind() Kind { return KindTTest }

// Express returns the first row within both fold change bounds of ctrl, or
// the fallback when none qualifies.
func (c *TTest) Express(ctrl []float64, fc expression.FoldChange, opts ...Option) (Outcome, error) {
	if err := fc.Validate(); err != nil {
		return Outcome{}, err
	}
	o, err := resolve(opts)
	if err != nil {
		return Outcome{}, err
	}
	lowerTarget := o.Scale.Combine(ctrl, fc.Lower)
	upperTarget := o.Scale.Combine(ctrl, fc.Upper)

	return c.run(ctrl, fc, o, func(row []float64) bool {
		return c.within(lowerTarget, upperTarget, row)
	})
}

func (c *TTest) within(lowerTarget, upperTarget, row []float64) bool {
	lo, err := stattest.TTestInd(lowerTarget, row)
	if err != nil || !(lo.Statistic <= 0 && lo.OneSided() <= c.alpha) {
		return false
	}
	hi, err := stattest.TTestInd(upperTarget, row)
	if err != nil {
		return false
	}
	return hi.Statistic >= 0 && hi.OneSided() <= c.alpha
}
