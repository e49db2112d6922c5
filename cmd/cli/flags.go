package main

import (
	"github.com/spf13/cobra"

	"gosilver/internal/config"
)

// simulationFlags mirror the simulation config. Only flags set on the command
// line override values from the config file and environment.
type simulationFlags struct {
	profile, contrast, foldChanges  string
	geneset, genesetName            string
	genesetLower, genesetUpper      float64
	profileID, fcID, lower, upper   string
	profileSep, contrastSep, fcSep  string
	ctrlSymbol, caseSymbol          string
	numCtrls, numCases, repetitions int
	alpha, std                      float64
	seed                            int64
	criterion, scale                string
	noForce, noShuffle, replace     bool
	output, format, outContrast     string
	report                          string
}

func (f *simulationFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.profile, "profile", "", "Expression profile (genes x samples)")
	fs.StringVar(&f.contrast, "contrast", "", "Contrast file labelling each sample")
	fs.StringVar(&f.foldChanges, "fold-changes", "", "Fold change table (ID, lower, upper)")
	fs.StringVar(&f.geneset, "geneset", "", "GMT file with gene sets")
	fs.StringVar(&f.genesetName, "geneset-name", "", "Gene set to differentially express")
	fs.Float64Var(&f.genesetLower, "geneset-lower", 0, "Lower fold change for the gene set")
	fs.Float64Var(&f.genesetUpper, "geneset-upper", 0, "Upper fold change for the gene set")
	fs.StringVar(&f.profileID, "profile-id-col", "ID", "Gene ID column of the profile")
	fs.StringVar(&f.fcID, "fc-id-col", "ID", "Gene ID column of the fold change table")
	fs.StringVar(&f.lower, "lower-col", "FCLower", "Lower bound column of the fold change table")
	fs.StringVar(&f.upper, "upper-col", "FCUpper", "Upper bound column of the fold change table")
	fs.StringVar(&f.profileSep, "profile-sep", "\t", "Field separator of the profile")
	fs.StringVar(&f.contrastSep, "contrast-sep", "\t", "Field separator of the contrast")
	fs.StringVar(&f.fcSep, "fc-sep", "\t", "Field separator of the fold change table")
	fs.StringVar(&f.ctrlSymbol, "ctrl-symbol", "c", "Contrast label of controls")
	fs.StringVar(&f.caseSymbol, "case-symbol", "d", "Contrast label of cases")
	fs.IntVar(&f.numCtrls, "num-ctrls", 20, "Number of simulated controls")
	fs.IntVar(&f.numCases, "num-cases", 20, "Number of simulated cases")
	fs.IntVar(&f.repetitions, "repetitions", 10, "Repository repetitions")
	fs.Float64Var(&f.alpha, "alpha", 0.05, "Significance level")
	fs.Float64Var(&f.std, "std", 0.1, "Standard deviation of fallback noise")
	fs.Int64Var(&f.seed, "seed", 123456, "Random seed for deterministic operations")
	fs.StringVar(&f.criterion, "criterion", "ttest", "Criterion: ttest|wilcoxon|foldchange")
	fs.StringVar(&f.scale, "scale", "log", "Value scale: log|linear")
	fs.BoolVar(&f.noForce, "no-force", false, "Leave genes unexpressed instead of synthesizing a fallback")
	fs.BoolVar(&f.noShuffle, "no-shuffle", false, "Search the repository in order")
	fs.BoolVar(&f.replace, "replace", false, "Sample replicates with replacement")
	fs.StringVar(&f.output, "output", "", "Simulated profile output path")
	fs.StringVar(&f.format, "format", "", "Output format: tsv|xlsx (default from extension)")
	fs.StringVar(&f.outContrast, "output-contrast", "", "Simulated contrast output path")
	fs.StringVar(&f.report, "report", "", "HTML report output path")
}

func (f *simulationFlags) apply(cmd *cobra.Command, cfg *config.SimulationConfig) {
	changed := cmd.Flags().Changed
	set := func(name string, fn func()) {
		if changed(name) {
			fn()
		}
	}
	set("profile", func() { cfg.Input.Profile = f.profile })
	set("contrast", func() { cfg.Input.Contrast = f.contrast })
	set("fold-changes", func() { cfg.Input.FoldChanges = f.foldChanges })
	set("geneset", func() { cfg.Input.Geneset = f.geneset })
	set("geneset-name", func() { cfg.Input.GenesetName = f.genesetName })
	set("geneset-lower", func() { cfg.Input.GenesetFoldChange.Lower = f.genesetLower })
	set("geneset-upper", func() { cfg.Input.GenesetFoldChange.Upper = f.genesetUpper })
	set("profile-id-col", func() { cfg.Columns.ProfileID = f.profileID })
	set("fc-id-col", func() { cfg.Columns.FoldChangeID = f.fcID })
	set("lower-col", func() { cfg.Columns.Lower = f.lower })
	set("upper-col", func() { cfg.Columns.Upper = f.upper })
	set("profile-sep", func() { cfg.Input.ProfileSep = f.profileSep })
	set("contrast-sep", func() { cfg.Input.ContrastSep = f.contrastSep })
	set("fc-sep", func() { cfg.Input.FoldChangeSep = f.fcSep })
	set("ctrl-symbol", func() { cfg.Input.CtrlSymbol = f.ctrlSymbol })
	set("case-symbol", func() { cfg.Input.CaseSymbol = f.caseSymbol })
	set("num-ctrls", func() { cfg.Simulation.NumCtrls = f.numCtrls })
	set("num-cases", func() { cfg.Simulation.NumCases = f.numCases })
	set("repetitions", func() { cfg.Simulation.Repetitions = f.repetitions })
	set("alpha", func() { cfg.Simulation.Alpha = f.alpha })
	set("std", func() { cfg.Simulation.Std = f.std })
	set("seed", func() { cfg.Simulation.Seed = f.seed })
	set("criterion", func() { cfg.Simulation.Criterion = f.criterion })
	set("scale", func() { cfg.Simulation.Scale = f.scale })
	set("no-force", func() { cfg.Simulation.Force = !f.noForce })
	set("no-shuffle", func() { cfg.Simulation.Shuffle = !f.noShuffle })
	set("replace", func() { cfg.Simulation.Replace = f.replace })
	set("output", func() { cfg.Output.Profile = f.output })
	set("format", func() { cfg.Output.Format = f.format })
	set("output-contrast", func() { cfg.Output.Contrast = f.outContrast })
	set("report", func() { cfg.Output.Report = f.report })
}
