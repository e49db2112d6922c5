package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"gosilver/adapters/report"
	"gosilver/adapters/tabular"
	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/config"
	"gosilver/internal/dataset"
	"gosilver/internal/dexpress"
	"gosilver/internal/errors"
	"gosilver/internal/random"
	"gosilver/internal/repository"
)

// SimulationService runs the full simulate pipeline: read inputs, draw
// replicate cohorts from real controls, build the repository from real
// cases, impose the requested fold changes and write the results.
type SimulationService struct {
	logger *slog.Logger
}

// SimulationResult is the outcome of one simulate run.
type SimulationResult struct {
	RunID       core.RunID          `json:"run_id"`
	Seed        int64               `json:"seed"`
	Controls    *expression.Profile `json:"-"`
	Cases       *expression.Profile `json:"-"`
	Combined    *expression.Profile `json:"-"`
	Contrast    tabular.Contrast    `json:"contrast"`
	Report      *dataset.Report     `json:"report"`
	Fingerprint core.CohortHash     `json:"fingerprint"`
	Outputs     []string            `json:"outputs"`
	RuntimeMs   int64               `json:"runtime_ms"`
}

// NewSimulationService creates a simulation service. A nil logger uses slog.Default.
func NewSimulationService(logger *slog.Logger) *SimulationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationService{logger: logger}
}

// Simulate validates cfg and executes the pipeline. All randomness comes from
// a single generator seeded with cfg.Simulation.Seed.
func (s *SimulationService) Simulate(ctx context.Context, cfg *config.SimulationConfig) (*SimulationResult, error) {
	startTime := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runID := core.NewRunID()
	log := s.logger.With("run_id", runID.String())
	sim := cfg.Simulation
	rng := random.New(sim.Seed)

	in, err := LoadInputs(cfg)
	if err != nil {
		return nil, err
	}
	genes, samples := in.Profile.Shape()
	log.Info("inputs loaded", "genes", genes, "samples", samples,
		"controls", len(in.Contrast.Ctrl), "cases", len(in.Contrast.Case), "requested", len(in.FoldChanges))

	realCtrls, err := in.Controls()
	if err != nil {
		return nil, errors.Wrap(err, "failed to select control samples")
	}
	realCases, err := in.Cases()
	if err != nil {
		return nil, errors.Wrap(err, "failed to select case samples")
	}
	ds, err := dataset.New(realCtrls, realCases)
	if err != nil {
		return nil, errors.SimulationFailed("pairing cohorts", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	simCtrls, simCases, err := ds.MakeReplicates(sim.NumCtrls, sim.NumCases, sim.Replace, rng)
	if err != nil {
		return nil, errors.Wrap(err, "failed to draw replicates")
	}
	log.Info("replicates drawn", "controls", sim.NumCtrls, "cases", sim.NumCases, "replace", sim.Replace)

	criterion, err := s.buildCriterion(cfg, realCases, rng)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts, err := cfg.CriterionOptions()
	if err != nil {
		return nil, err
	}
	rep, err := dataset.NewExpresser(log, opts...).DiffExpress(simCtrls, simCases, in.FoldChanges, criterion)
	if err != nil {
		return nil, errors.SimulationFailed("expressing genes", err)
	}
	log.Info("genes expressed", "summary", rep.String())

	simCtrls.DedupeSampleNames()
	simCases.DedupeSampleNames(simCtrls.Samples()...)
	combined, err := simCtrls.Concat(simCases)
	if err != nil {
		return nil, errors.SimulationFailed("combining cohorts", err)
	}

	result := &SimulationResult{
		RunID:       runID,
		Seed:        sim.Seed,
		Controls:    simCtrls,
		Cases:       simCases,
		Combined:    combined,
		Contrast:    tabular.SimulatedContrast(sim.NumCtrls, sim.NumCases, cfg.Input.CtrlSymbol, cfg.Input.CaseSymbol),
		Report:      rep,
		Fingerprint: combined.Fingerprint(),
	}
	if err := s.writeOutputs(cfg, result); err != nil {
		return nil, err
	}
	result.RuntimeMs = time.Since(startTime).Milliseconds()
	log.Info("simulation complete", "fingerprint", result.Fingerprint.String(), "outputs", len(result.Outputs),
		"runtime_ms", result.RuntimeMs)
	return result, nil
}

func (s *SimulationService) buildCriterion(cfg *config.SimulationConfig, realCases *expression.Profile, rng *rand.Rand) (dexpress.Criterion, error) {
	kind, err := dexpress.ParseKind(cfg.Simulation.Criterion)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	var repo *repository.Repository
	if kind != dexpress.KindFoldChange {
		repo, err = repository.New(realCases, cfg.Simulation.NumCases, cfg.Simulation.Repetitions, rng)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build expression repository")
		}
		s.logger.Info("repository built", "repository", repo.String())
	}
	return dexpress.New(kind, repo, cfg.Simulation.Alpha, rng)
}

func (s *SimulationService) writeOutputs(cfg *config.SimulationConfig, result *SimulationResult) error {
	if path := cfg.Output.Profile; path != "" {
		format, err := cfg.OutputFormat()
		if err != nil {
			return err
		}
		if format == config.FormatXLSX {
			err = tabular.WriteProfileXLSX(path, result.Combined, cfg.Columns.ProfileID)
		} else {
			err = tabular.WriteProfile(path, result.Combined, tabular.ProfileOptions{
				Sep:      cfg.Input.ProfileSep,
				IDColumn: cfg.Columns.ProfileID,
			})
		}
		if err != nil {
			return errors.IOError(path, err)
		}
		result.Outputs = append(result.Outputs, path)
	}
	if path := cfg.Output.Contrast; path != "" {
		if err := tabular.WriteContrast(path, result.Contrast, cfg.Input.ContrastSep); err != nil {
			return errors.IOError(path, err)
		}
		result.Outputs = append(result.Outputs, path)
	}
	if path := cfg.Output.Report; path != "" {
		subtitle := fmt.Sprintf("seed %d, run %s", result.Seed, result.RunID)
		if err := report.WriteFile(path, result.Report, subtitle); err != nil {
			return errors.IOError(path, err)
		}
		result.Outputs = append(result.Outputs, path)
	}
	return nil
}
