package dexpress

import (
	"math/rand/v2"

	"gosilver/domain/expression"
	"gosilver/internal/repository"
	"gosilver/internal/stattest"
)

// Wilcoxon accepts the first repository row that a rank-sum test cannot
// tell apart from the control shifted by the interval midpoint (p >= alpha).
type Wilcoxon struct {
	search
}

// NewWilcoxon searches repo at significance level alpha.
func NewWilcoxon(repo *repository.Repository, alpha float64, rng *rand.Rand) *Wilcoxon {
	return &Wilcoxon{search{repo: repo, alpha: alpha, rng: rng}}
}

func (c *Wilcoxon) Kind() Kind { return KindWilcoxon }

// Express returns the first row indistinguishable from ctrl shifted by the
// interval midpoint, or the fallback when none qualifies.
func (c *Wilcoxon) Express(ctrl []float64, fc expression.FoldChange, opts ...Option) (Outcome, error) {
	if err := fc.Validate(); err != nil {
		return Outcome{}, err
	}
	o, err := resolve(opts)
	if err != nil {
		return Outcome{}, err
	}
	base := o.Scale.Combine(ctrl, fc.Midpoint())

	return c.run(ctrl, fc, o, func(row []float64) bool {
		res, err := stattest.RankSums(base, row)
		return err == nil && res.PValue >= c.alpha
	})
}
