package dataset

import (
	"errors"
	"fmt"
	"log/slog"

	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/dexpress"
)

// Expresser imposes fold changes on a simulated case cohort.
type Expresser struct {
	logger *slog.Logger
	opts   []dexpress.Option
}

// NewExpresser returns an Expresser that logs through logger and passes opts
// to every criterion call. A nil logger uses slog.Default.
func NewExpresser(logger *slog.Logger, opts ...dexpress.Option) *Expresser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expresser{logger: logger, opts: opts}
}

// DiffExpress uses a default Expresser.
func DiffExpress(ctrls, cases *expression.Profile, foldChanges expression.GeneFoldChanges,
	criterion dexpress.Criterion, opts ...dexpress.Option) (*Report, error) {
	return NewExpresser(nil, opts...).DiffExpress(ctrls, cases, foldChanges, criterion)
}

// DiffExpress overwrites the case vector of every requested gene with the
// vector chosen by criterion from the gene's control vector. Both cohorts
// must hold the same number of samples. Genes the
// criterion cannot express keep their case values and are logged. ctrls is
// never modified, and on error cases is left untouched.
func (e *Expresser) DiffExpress(ctrls, cases *expression.Profile, foldChanges expression.GeneFoldChanges,
	criterion dexpress.Criterion) (*Report, error) {
	if err := expression.CheckAligned(ctrls, cases); err != nil {
		return nil, err
	}
	if err := foldChanges.Validate(); err != nil {
		return nil, err
	}
	_, numCtrls := ctrls.Shape()
	_, width := cases.Shape()
	if numCtrls != width {
		return nil, fmt.Errorf("%w: %d control samples but %d case samples",
			core.ErrLengthMismatch, numCtrls, width)
	}
	genes := foldChanges.SortedGenes()
	for _, gene := range genes {
		if !ctrls.Has(gene) {
			return nil, core.NewGeneNotFoundError(gene)
		}
	}

	report := &Report{Criterion: criterion.Kind(), Genes: make([]GeneReport, 0, len(genes))}
	pending := make(map[core.GeneID][]float64, len(genes))

	for _, gene := range genes {
		fc := foldChanges[gene]
		values, err := ctrls.Get(gene)
		if err != nil {
			return nil, err
		}

		out, err := criterion.Express(values, fc, e.opts...)
		if errors.Is(err, core.ErrNonExistingExpression) {
			e.logger.Warn("gene cannot be expressed by fold change",
				"gene", gene, "lower", fc.Lower, "upper", fc.Upper)
			report.Genes = append(report.Genes, GeneReport{
				Gene: gene, FoldChange: fc, Outcome: OutcomeUnexpressed, RowIndex: -1,
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("express gene %s: %w", gene, err)
		}
		if len(out.Values) != width {
			return nil, fmt.Errorf("%w: criterion returned %d values for %d case samples of gene %s",
				core.ErrLengthMismatch, len(out.Values), width, gene)
		}

		pending[gene] = out.Values
		outcome := OutcomeMatched
		if out.Fallback {
			outcome = OutcomeFallback
		}
		e.logger.Debug("gene expressed", "gene", gene, "fold_change", fc.String(),
			"outcome", outcome, "row", out.RowIndex)
		report.Genes = append(report.Genes, GeneReport{
			Gene: gene, FoldChange: fc, Outcome: outcome, RowIndex: out.RowIndex,
		})
	}

	for gene, values := range pending {
		if err := cases.Set(gene, values); err != nil {
			return nil, err
		}
	}
	if err := report.measure(ctrls, cases, e.scale()); err != nil {
		return nil, err
	}
	return report, nil
}

func (e *Expresser) scale() expression.Scale {
	o := dexpress.DefaultOptions()
	for _, opt := range e.opts {
		opt(&o)
	}
	return o.Scale
}
