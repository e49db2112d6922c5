// Package dexpress decides which expression vector a simulated case should
// carry for a gene, given its control vector and a requested fold change.
package dexpress

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/repository"
)

// DefaultStd is the standard deviation of fallback noise.
const DefaultStd = 0.1

// Kind names a criterion implementation.
type Kind string

const (
	KindTTest      Kind = "ttest"
	KindWilcoxon   Kind = "wilcoxon"
	KindFoldChange Kind = "foldchange"
)

// Kinds lists every supported criterion.
var Kinds = []Kind{KindTTest, KindWilcoxon, KindFoldChange}

// ParseKind accepts a criterion name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownCriterion, s)
}

// Outcome is the vector chosen for one gene.
type Outcome struct {
	Values []float64
	// RowIndex is the matched repository row, or -1 when none was used.
	RowIndex int
	// Fallback is set when Values were synthesized from noise.
	Fallback bool
}

// Criterion produces a case vector for a control vector and fold change.
// Implementations return core.ErrNonExistingExpression when no vector
// qualifies and forcing is disabled.
type Criterion interface {
	Express(ctrl []float64, fc expression.FoldChange, opts ...Option) (Outcome, error)
	Kind() Kind
}

// Options are the per-call tuning knobs.
type Options struct {
	Force   bool
	Shuffle bool
	Std     float64
	Scale   expression.Scale
}

// DefaultOptions returns force and shuffle enabled on the log scale.
func DefaultOptions() Options {
	return Options{Force: true, Shuffle: true, Std: DefaultStd, Scale: expression.Log}
}

// Option adjusts Options.
type Option func(*Options)

// WithForce toggles synthesizing a fallback when the search fails.
func WithForce(force bool) Option { return func(o *Options) { o.Force = force } }

// WithShuffle toggles random search order.
func WithShuffle(shuffle bool) Option { return func(o *Options) { o.Shuffle = shuffle } }

// WithStd sets the fallback noise standard deviation.
func WithStd(std float64) Option { return func(o *Options) { o.Std = std } }

// WithScale sets how fold changes combine with values.
func WithScale(scale expression.Scale) Option { return func(o *Options) { o.Scale = scale } }

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

func resolve(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Std < 0 {
		return o, fmt.Errorf("%w: %g", core.ErrInvalidNoise, o.Std)
	}
	return o, nil
}

// New builds the criterion of the given kind. The repository is ignored by
// KindFoldChange and may be nil for it.
func New(kind Kind, repo *repository.Repository, alpha float64, rng *rand.Rand) (Criterion, error) {
	switch kind {
	case KindTTest:
		return NewTTest(repo, alpha, rng), nil
	case KindWilcoxon:
		return NewWilcoxon(repo, alpha, rng), nil
	case KindFoldChange:
		return NewFoldChangeCriterion(alpha, rng), nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownCriterion, kind)
}

// search is the shared repository scan of the statistical criteria.
type search struct {
	repo  *repository.Repository
	alpha float64
	rng   *rand.Rand
}

func (s search) run(ctrl []float64, fc expression.FoldChange, o Options, accept func(row []float64) bool) (Outcome, error) {
	idx := s.repo.Search(s.repo.Order(o.Shuffle, s.rng), accept)
	if idx >= 0 {
		row, err := s.repo.Row(idx)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Values: row, RowIndex: idx}, nil
	}
	if !o.Force {
		return Outcome{}, fmt.Errorf("%w: interval %s at alpha %g", core.ErrNonExistingExpression, fc, s.alpha)
	}
	return fallback(ctrl, fc, o, s.rng), nil
}

// fallback shifts every control value by its own draw from
// Normal(midpoint, std).
func fallback(ctrl []float64, fc expression.FoldChange, o Options, rng *rand.Rand) Outcome {
	noise := distuv.Normal{Mu: fc.Midpoint(), Sigma: o.Std, Src: rng}
	shifts := make([]float64, len(ctrl))
	for i := range shifts {
		shifts[i] = noise.Rand()
	}
	return Outcome{Values: o.Scale.CombineEach(ctrl, shifts), RowIndex: -1, Fallback: true}
}
