package dataset

import (
	"fmt"

	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/dexpress"
	"gosilver/internal/stattest"
)

// Outcome describes how a requested gene ended up in the simulated cases.
type Outcome string

const (
	OutcomeMatched     Outcome = "matched"
	OutcomeFallback    Outcome = "fallback"
	OutcomeUnexpressed Outcome = "unexpressed"
)

// GeneReport records what happened to one requested gene.
type GeneReport struct {
	Gene       core.GeneID           `json:"gene"`
	FoldChange expression.FoldChange `json:"fold_change"`
	Outcome    Outcome               `json:"outcome"`
	RowIndex   int                   `json:"row_index"`
	Direction  string                `json:"direction"`
	// Shift compares the case and control means on the working scale.
	Shift        float64 `json:"shift"`
	ControlMean  float64 `json:"control_mean"`
	CaseMean     float64 `json:"case_mean"`
	WithinBounds bool    `json:"within_bounds"`
}

// Report summarizes a DiffExpress call, one entry per requested gene in
// sorted gene order.
type Report struct {
	Criterion dexpress.Kind `json:"criterion"`
	Genes     []GeneReport  `json:"genes"`
}

// Count returns how many genes ended with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, g := range r.Genes {
		if g.Outcome == outcome {
			n++
		}
	}
	return n
}

// Expressed returns the genes whose case vectors were replaced.
func (r *Report) Expressed() []core.GeneID {
	var genes []core.GeneID
	for _, g := range r.Genes {
		if g.Outcome != OutcomeUnexpressed {
			genes = append(genes, g.Gene)
		}
	}
	return genes
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %d matched, %d fallback, %d unexpressed",
		r.Criterion, r.Count(OutcomeMatched), r.Count(OutcomeFallback), r.Count(OutcomeUnexpressed))
}

func (r *Report) measure(ctrls, cases *expression.Profile, scale expression.Scale) error {
	for i := range r.Genes {
		g := &r.Genes[i]
		ctrl, err := ctrls.Get(g.Gene)
		if err != nil {
			return err
		}
		cs, err := cases.Get(g.Gene)
		if err != nil {
			return err
		}
		ctrlSummary, err := stattest.Summarize(ctrl)
		if err != nil {
			return fmt.Errorf("summarize controls of %s: %w", g.Gene, err)
		}
		caseSummary, err := stattest.Summarize(cs)
		if err != nil {
			return fmt.Errorf("summarize cases of %s: %w", g.Gene, err)
		}
		g.Direction = "down"
		if g.FoldChange.Upregulated() {
			g.Direction = "up"
		}
		g.ControlMean = ctrlSummary.Mean
		g.CaseMean = caseSummary.Mean
		g.Shift = scale.Difference(caseSummary.Mean, ctrlSummary.Mean)
		g.WithinBounds = g.FoldChange.Contains(g.Shift)
	}
	return nil
}
