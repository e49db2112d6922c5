package app

import (
	"gosilver/adapters/geneset"
	"gosilver/adapters/tabular"
	"gosilver/domain/core"
	"gosilver/internal/config"
	"gosilver/internal/errors"
	"gosilver/internal/random"
	"gosilver/internal/repository"
)

// RepositoryRow describes one repository row and where it came from.
type RepositoryRow struct {
	Index      int             `json:"index"`
	Gene       core.GeneID     `json:"gene"`
	Repetition int             `json:"repetition"`
	Samples    []core.SampleID `json:"samples"`
	Values     []float64       `json:"values"`
}

// RepositorySummary is the shape of a repository plus its first rows.
type RepositorySummary struct {
	Rows        int             `json:"rows"`
	Width       int             `json:"width"`
	Repetitions int             `json:"repetitions"`
	Head        []RepositoryRow `json:"head"`
}

// InspectRepository builds the repository a simulate run with cfg would use
// and describes its first limit rows.
func InspectRepository(cfg *config.SimulationConfig, limit int) (*RepositorySummary, error) {
	in, err := LoadProfile(cfg)
	if err != nil {
		return nil, err
	}
	cases, err := in.Cases()
	if err != nil {
		return nil, errors.Wrap(err, "failed to select case samples")
	}
	repo, err := repository.New(cases, cfg.Simulation.NumCases, cfg.Simulation.Repetitions, random.New(cfg.Simulation.Seed))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build expression repository")
	}

	rows, width := repo.Shape()
	summary := &RepositorySummary{Rows: rows, Width: width, Repetitions: repo.Repetitions()}
	for i, values := range repo.All() {
		if i >= limit {
			break
		}
		origin, err := repo.Origin(i)
		if err != nil {
			return nil, err
		}
		summary.Head = append(summary.Head, RepositoryRow{
			Index:      i,
			Gene:       origin.Gene,
			Repetition: origin.Repetition,
			Samples:    origin.Samples,
			Values:     values,
		})
	}
	return summary, nil
}

// GenesetSummary describes one gene set after cleaning.
type GenesetSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Size        int    `json:"size"`
}

// ListGenesets reads a GMT file and, when profilePath is set, keeps only the
// genes present in that profile and sets of size within [minSize, maxSize].
func ListGenesets(gmtPath, profilePath string, opts tabular.ProfileOptions, minSize, maxSize int) ([]GenesetSummary, error) {
	db, err := geneset.ReadGMT(gmtPath)
	if err != nil {
		return nil, inputError(gmtPath, err)
	}
	if profilePath != "" {
		profile, err := tabular.ReadProfile(profilePath, opts)
		if err != nil {
			return nil, inputError(profilePath, err)
		}
		db.Clean(profile.Genes(), minSize, maxSize)
	}

	out := make([]GenesetSummary, 0, db.Len())
	for gs := range db.All() {
		out = append(out, GenesetSummary{Name: gs.Name, Description: gs.Description, Size: len(gs.Genes)})
	}
	return out, nil
}
