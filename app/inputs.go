package app

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"maps"

	"gosilver/adapters/geneset"
	"gosilver/adapters/tabular"
	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/config"
	"gosilver/internal/errors"
)

// Inputs holds everything read from disk for one run.
type Inputs struct {
	Profile     *expression.Profile
	Contrast    tabular.Contrast
	FoldChanges expression.GeneFoldChanges
}

// Controls returns the real control columns of the profile.
func (in *Inputs) Controls() (*expression.Profile, error) {
	return in.Profile.SelectSamples(in.Contrast.Ctrl)
}

// Cases returns the real case columns of the profile.
func (in *Inputs) Cases() (*expression.Profile, error) {
	if len(in.Contrast.Case) == 0 {
		return nil, fmt.Errorf("%w: contrast has no case samples", core.ErrInvalidContrast)
	}
	return in.Profile.SelectSamples(in.Contrast.Case)
}

// LoadProfile reads the contrast and the expression profile and checks that
// they describe the same number of samples.
func LoadProfile(cfg *config.SimulationConfig) (*Inputs, error) {
	contrast, err := tabular.ReadContrast(cfg.Input.Contrast, cfg.Input.CtrlSymbol, cfg.Input.CaseSymbol, cfg.Input.ContrastSep)
	if err != nil {
		return nil, inputError(cfg.Input.Contrast, err)
	}
	profile, err := tabular.ReadProfile(cfg.Input.Profile, tabular.ProfileOptions{
		Sep:      cfg.Input.ProfileSep,
		IDColumn: cfg.Columns.ProfileID,
	})
	if err != nil {
		return nil, inputError(cfg.Input.Profile, err)
	}
	if _, n := profile.Shape(); n != contrast.Len() {
		return nil, errors.Wrap(fmt.Errorf("%w: %d labels for %d samples", core.ErrInvalidContrast, contrast.Len(), n),
			"contrast does not match the expression profile")
	}
	return &Inputs{Profile: profile, Contrast: contrast}, nil
}

// LoadInputs reads the profile, the contrast and the requested fold changes.
// Genes of a configured gene set are requested first; entries of the fold
// change table override them.
func LoadInputs(cfg *config.SimulationConfig) (*Inputs, error) {
	in, err := LoadProfile(cfg)
	if err != nil {
		return nil, err
	}

	in.FoldChanges = make(expression.GeneFoldChanges)
	if cfg.Input.Geneset != "" {
		db, err := geneset.ReadGMT(cfg.Input.Geneset)
		if err != nil {
			return nil, inputError(cfg.Input.Geneset, err)
		}
		db.Clean(in.Profile.Genes(), 1, 0)
		gfc, err := db.FoldChanges(cfg.Input.GenesetName, cfg.Input.GenesetFoldChange)
		if err != nil {
			return nil, errors.Wrapf(err, "gene set %s", cfg.Input.GenesetName)
		}
		maps.Copy(in.FoldChanges, gfc)
	}
	if cfg.Input.FoldChanges != "" {
		gfc, err := tabular.ReadFoldChanges(cfg.Input.FoldChanges, tabular.FoldChangeOptions{
			Sep:         cfg.Input.FoldChangeSep,
			IDColumn:    cfg.Columns.FoldChangeID,
			LowerColumn: cfg.Columns.Lower,
			UpperColumn: cfg.Columns.Upper,
		})
		if err != nil {
			return nil, inputError(cfg.Input.FoldChanges, err)
		}
		maps.Copy(in.FoldChanges, gfc)
	}
	return in, nil
}

func inputError(path string, err error) error {
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) {
		return errors.IOError(path, err)
	}
	return errors.Wrapf(err, "failed to read %s", path)
}
