package expression

import (
	"fmt"
	"strconv"

	"gosilver/domain/core"
)

// Profile is a gene-by-sample expression table for one cohort.
// Rows follow gene order, columns follow sample order. Gene IDs are unique.
type Profile struct {
	genes   []core.GeneID
	samples []core.SampleID
	rows    [][]float64
	index   map[core.GeneID]int
}

// NewProfile builds a profile from gene-major rows. The rows are copied.
func NewProfile(genes []core.GeneID, samples []core.SampleID, rows [][]float64) (*Profile, error) {
	if len(rows) != len(genes) {
		return nil, fmt.Errorf("%w: %d genes but %d rows", core.ErrMismatchedProfile, len(genes), len(rows))
	}
	index := make(map[core.GeneID]int, len(genes))
	for i, g := range genes {
		if _, dup := index[g]; dup {
			return nil, fmt.Errorf("%w: duplicate gene %s", core.ErrMismatchedProfile, g)
		}
		index[g] = i
	}
	copied := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(samples) {
			return nil, fmt.Errorf("%w: gene %s has %d values for %d samples",
				core.ErrLengthMismatch, genes[i], len(row), len(samples))
		}
		copied[i] = append([]float64(nil), row...)
	}
	return &Profile{
		genes:   append([]core.GeneID(nil), genes...),
		samples: append([]core.SampleID(nil), samples...),
		rows:    copied,
		index:   index,
	}, nil
}

// Len returns the number of genes.
func (p *Profile) Len() int { return len(p.genes) }

// Shape returns (genes, samples).
func (p *Profile) Shape() (int, int) { return len(p.genes), len(p.samples) }

// Genes returns a copy of the gene order.
func (p *Profile) Genes() []core.GeneID { return append([]core.GeneID(nil), p.genes...) }

// Samples returns a copy of the sample order.
func (p *Profile) Samples() []core.SampleID { return append([]core.SampleID(nil), p.samples...) }

// Has reports whether gene is part of the profile.
func (p *Profile) Has(gene core.GeneID) bool {
	_, ok := p.index[gene]
	return ok
}

// Row returns a copy of the i-th gene's values.
func (p *Profile) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(p.rows) {
		return nil, core.NewIndexError(i, len(p.rows))
	}
	return append([]float64(nil), p.rows[i]...), nil
}

// Get returns a copy of the values for gene.
func (p *Profile) Get(gene core.GeneID) ([]float64, error) {
	i, ok := p.index[gene]
	if !ok {
		return nil, core.NewGeneNotFoundError(gene)
	}
	return append([]float64(nil), p.rows[i]...), nil
}

// Set replaces the values for gene with a copy of values.
func (p *Profile) Set(gene core.GeneID, values []float64) error {
	i, ok := p.index[gene]
	if !ok {
		return core.NewGeneNotFoundError(gene)
	}
	if len(values) != len(p.samples) {
		return fmt.Errorf("%w: got %d values for %d samples of gene %s",
			core.ErrLengthMismatch, len(values), len(p.samples), gene)
	}
	copy(p.rows[i], values)
	return nil
}

// SelectSamples returns a new profile holding the given columns, in order.
// Repeated indices are allowed and yield repeated columns.
func (p *Profile) SelectSamples(indices []int) (*Profile, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: empty sample selection", core.ErrInvalidSampleCount)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(p.samples) {
			return nil, core.NewIndexError(idx, len(p.samples))
		}
	}
	samples := make([]core.SampleID, len(indices))
	for j, idx := range indices {
		samples[j] = p.samples[idx]
	}
	rows := make([][]float64, len(p.rows))
	for i, row := range p.rows {
		sub := make([]float64, len(indices))
		for j, idx := range indices {
			sub[j] = row[idx]
		}
		rows[i] = sub
	}
	return &Profile{
		genes:   append([]core.GeneID(nil), p.genes...),
		samples: samples,
		rows:    rows,
		index:   p.index,
	}, nil
}

// SelectSamplesByName resolves sample names to columns and selects them.
func (p *Profile) SelectSamplesByName(names []core.SampleID) (*Profile, error) {
	pos := make(map[core.SampleID]int, len(p.samples))
	for j, s := range p.samples {
		if _, seen := pos[s]; !seen {
			pos[s] = j
		}
	}
	indices := make([]int, len(names))
	for k, name := range names {
		j, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("%w: sample %s", core.ErrNotFound, name)
		}
		indices[k] = j
	}
	return p.SelectSamples(indices)
}

// Data returns a deep copy of the rows.
func (p *Profile) Data() [][]float64 {
	out := make([][]float64, len(p.rows))
	for i, row := range p.rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Clone returns an independent copy of the profile.
func (p *Profile) Clone() *Profile {
	return &Profile{
		genes:   append([]core.GeneID(nil), p.genes...),
		samples: append([]core.SampleID(nil), p.samples...),
		rows:    p.Data(),
		index:   p.index,
	}
}

// SameGenes reports whether both profiles share the exact gene order.
func (p *Profile) SameGenes(other *Profile) bool {
	if len(p.genes) != len(other.genes) {
		return false
	}
	for i := range p.genes {
		if p.genes[i] != other.genes[i] {
			return false
		}
	}
	return true
}

// CheckAligned returns ErrMismatchedProfile unless both profiles share the exact gene order.
func CheckAligned(a, b *Profile) error {
	if !a.SameGenes(b) {
		return fmt.Errorf("%w: gene ids must appear in the same order in both profiles", core.ErrMismatchedProfile)
	}
	return nil
}

// Concat joins the samples of p and other side by side.
func (p *Profile) Concat(other *Profile) (*Profile, error) {
	if err := CheckAligned(p, other); err != nil {
		return nil, err
	}
	seen := make(map[core.SampleID]struct{}, len(p.samples))
	for _, s := range p.samples {
		seen[s] = struct{}{}
	}
	for _, s := range other.samples {
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("%w: %s appears in both profiles", core.ErrDuplicateSample, s)
		}
	}
	rows := make([][]float64, len(p.rows))
	for i := range p.rows {
		row := make([]float64, 0, len(p.samples)+len(other.samples))
		row = append(row, p.rows[i]...)
		rows[i] = append(row, other.rows[i]...)
	}
	samples := make([]core.SampleID, 0, len(p.samples)+len(other.samples))
	samples = append(samples, p.samples...)
	samples = append(samples, other.samples...)
	return &Profile{
		genes:   append([]core.GeneID(nil), p.genes...),
		samples: samples,
		rows:    rows,
		index:   p.index,
	}, nil
}

// DedupeSampleNames renames repeated sample names in place, appending
// ".1", ".2", ... to the second and later occurrences. Names in taken are
// treated as already used.
func (p *Profile) DedupeSampleNames(taken ...core.SampleID) {
	used := make(map[core.SampleID]int, len(p.samples)+len(taken))
	for _, s := range taken {
		used[s] = 0
	}
	for j, s := range p.samples {
		n, dup := used[s]
		if !dup {
			used[s] = 0
			continue
		}
		for {
			n++
			candidate := core.SampleID(s.String() + "." + strconv.Itoa(n))
			if _, clash := used[candidate]; !clash {
				used[s] = n
				used[candidate] = 0
				p.samples[j] = candidate
				break
			}
		}
	}
}

// Fingerprint hashes the full content of the profile.
func (p *Profile) Fingerprint() core.CohortHash {
	return core.ComputeCohortHash(p.genes, p.samples, p.rows)
}
