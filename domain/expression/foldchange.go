package expression

import (
	"fmt"
	"math"
	"sort"

	"gosilver/domain/core"
)

// FoldChange is the allowed range of change for one gene between control and case.
// Both bounds share a sign: negative requests down-regulation, positive up-regulation.
type FoldChange struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// NewFoldChange validates bounds and builds an interval. Exactly two bounds are required.
func NewFoldChange(bounds ...float64) (FoldChange, error) {
	if len(bounds) != 2 {
		return FoldChange{}, core.NewFoldChangeError(fmt.Sprintf("expected 2 bounds, got %d", len(bounds)))
	}
	fc := FoldChange{Lower: bounds[0], Upper: bounds[1]}
	if err := fc.Validate(); err != nil {
		return FoldChange{}, err
	}
	return fc, nil
}

// Validate checks ordering and sign of the bounds.
func (fc FoldChange) Validate() error {
	if math.IsNaN(fc.Lower) || math.IsNaN(fc.Upper) {
		return core.NewFoldChangeError("bounds must be numbers")
	}
	if fc.Lower > fc.Upper {
		return core.NewFoldChangeError(fmt.Sprintf("lower bound %g is greater than upper bound %g", fc.Lower, fc.Upper))
	}
	if fc.Lower*fc.Upper <= 0 {
		return core.NewFoldChangeError(fmt.Sprintf("bounds %g and %g must be nonzero and share a sign", fc.Lower, fc.Upper))
	}
	return nil
}

// Midpoint returns the center of the interval.
func (fc FoldChange) Midpoint() float64 {
	return (fc.Lower + fc.Upper) / 2
}

// Width returns Upper - Lower.
func (fc FoldChange) Width() float64 {
	return fc.Upper - fc.Lower
}

// Contains reports whether v lies in [Lower, Upper].
func (fc FoldChange) Contains(v float64) bool {
	return v >= fc.Lower && v <= fc.Upper
}

// Upregulated reports whether the interval requests an increase.
func (fc FoldChange) Upregulated() bool {
	return fc.Lower > 0
}

func (fc FoldChange) String() string {
	return fmt.Sprintf("(%g, %g)", fc.Lower, fc.Upper)
}

// GeneFoldChanges maps genes to the interval requested for each.
type GeneFoldChanges map[core.GeneID]FoldChange

// SortedGenes returns the genes in lexicographic order so that seeded runs
// consume random numbers in a stable sequence.
func (g GeneFoldChanges) SortedGenes() []core.GeneID {
	genes := make([]core.GeneID, 0, len(g))
	for gene := range g {
		genes = append(genes, gene)
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i] < genes[j] })
	return genes
}

// Validate checks every interval.
func (g GeneFoldChanges) Validate() error {
	for _, gene := range g.SortedGenes() {
		if err := g[gene].Validate(); err != nil {
			return fmt.Errorf("gene %s: %w", gene, err)
		}
	}
	return nil
}
