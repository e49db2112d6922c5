package testkit

import (
	"fmt"

	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/random"
)

// SyntheticConfig configures the synthetic profile generator
type SyntheticConfig struct {
	Genes    int     `json:"genes"`
	Controls int     `json:"controls"`
	Cases    int     `json:"cases"`
	BaseMean float64 `json:"base_mean"` // mean of per-gene baselines
	BaseSD   float64 `json:"base_sd"`   // spread of per-gene baselines
	NoiseSD  float64 `json:"noise_sd"`  // within-gene sample noise
	Seed     int64   `json:"seed"`
}

// DefaultSyntheticConfig returns a small log-scale microarray-like layout
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Genes:    200,
		Controls: 10,
		Cases:    10,
		BaseMean: 7,
		BaseSD:   2,
		NoiseSD:  0.3,
		Seed:     42,
	}
}

// SyntheticProfile generates a profile whose first cfg.Controls columns are
// controls labelled c1.. and remaining cfg.Cases columns are cases labelled d1..
// Genes are named g0001... Cases and controls share each gene's baseline.
func SyntheticProfile(cfg SyntheticConfig) (*expression.Profile, error) {
	if cfg.Genes <= 0 || cfg.Controls <= 0 || cfg.Cases <= 0 {
		return nil, fmt.Errorf("%w: genes, controls and cases must be > 0", core.ErrInvalidSampleCount)
	}
	rng := random.New(cfg.Seed)

	genes := make([]core.GeneID, cfg.Genes)
	rows := make([][]float64, cfg.Genes)
	width := cfg.Controls + cfg.Cases
	for i := range genes {
		genes[i] = core.GeneID(fmt.Sprintf("g%04d", i+1))
		base := cfg.BaseMean + rng.NormFloat64()*cfg.BaseSD
		row := make([]float64, width)
		for j := range row {
			row[j] = base + rng.NormFloat64()*cfg.NoiseSD
		}
		rows[i] = row
	}

	samples := make([]core.SampleID, 0, width)
	for i := 1; i <= cfg.Controls; i++ {
		samples = append(samples, core.SampleID(fmt.Sprintf("c%d", i)))
	}
	for i := 1; i <= cfg.Cases; i++ {
		samples = append(samples, core.SampleID(fmt.Sprintf("d%d", i)))
	}
	return expression.NewProfile(genes, samples, rows)
}
