package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gosilver/adapters/tabular"
	"gosilver/app"
	"gosilver/internal/config"
	"gosilver/internal/errors"
	"gosilver/internal/logging"
)

type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "silver",
		Short:         "Simulate case/control expression datasets with known differential expression",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(opts.envFile); err != nil {
				if !cmd.Flags().Changed("env-file") && stderrors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return errors.IOError(opts.envFile, err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with SILVER_* variables")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	rootCmd.AddCommand(
		newSimulateCmd(opts),
		newRepositoryCmd(opts),
		newGenesetsCmd(),
	)
	return rootCmd
}

// loadConfig resolves defaults, the config file and the environment, then
// applies flag overrides and installs the logger.
func loadConfig(cmd *cobra.Command, opts *rootOptions, flags *simulationFlags) (*config.SimulationConfig, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	flags.apply(cmd, cfg)
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	flags := &simulationFlags{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a dataset with differentially expressed genes",
		Long: `Draw simulated controls and cases from the real controls of an expression
profile, then impose the requested fold changes on the simulated cases using
rows sampled from the real cases as evidence.

Example:
  silver simulate --profile GSE53757_profile.txt --contrast GSE53757_contrast.txt \
    --fold-changes DE_gene_fold_change.txt --num-ctrls 20 --num-cases 20 \
    --repetitions 10 --seed 123456 --output simulated.profile.txt \
    --output-contrast simulated.contrast.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts, flags)
			if err != nil {
				return err
			}
			result, err := app.NewSimulationService(logger).Simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:         %s\n", result.RunID)
			fmt.Fprintf(out, "Seed:        %d\n", result.Seed)
			fmt.Fprintf(out, "Expression:  %s\n", result.Report)
			fmt.Fprintf(out, "Fingerprint: %s\n", result.Fingerprint)
			for _, path := range result.Outputs {
				fmt.Fprintf(out, "Wrote:       %s\n", path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newRepositoryCmd(opts *rootOptions) *cobra.Command {
	flags := &simulationFlags{}
	var limit int

	cmd := &cobra.Command{
		Use:   "repository",
		Short: "Build the expression repository and show where its rows come from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, opts, flags)
			if err != nil {
				return err
			}
			summary, err := app.InspectRepository(cfg, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d rows x %d samples from %d repetitions\n", summary.Rows, summary.Width, summary.Repetitions)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tGENE\tREP\tSAMPLES\tVALUES")
			for _, r := range summary.Head {
				fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%v\n", r.Index, r.Gene, r.Repetition, r.Samples, r.Values)
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of rows to show")
	return cmd
}

func newGenesetsCmd() *cobra.Command {
	var profilePath, idColumn, sep string
	var minSize, maxSize int

	cmd := &cobra.Command{
		Use:   "genesets [gmt-file]",
		Short: "List gene sets, optionally cleaned against the genes of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := app.ListGenesets(args[0], profilePath, tabular.ProfileOptions{Sep: sep, IDColumn: idColumn}, minSize, maxSize)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDESCRIPTION")
			for _, gs := range sets {
				fmt.Fprintf(w, "%s\t%d\t%s\n", gs.Name, gs.Size, gs.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Expression profile whose genes form the background")
	cmd.Flags().StringVar(&idColumn, "profile-id-col", "ID", "Gene ID column of the profile")
	cmd.Flags().StringVar(&sep, "profile-sep", "\t", "Field separator of the profile")
	cmd.Flags().IntVar(&minSize, "min-size", 1, "Minimum gene set size after cleaning")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "Maximum gene set size after cleaning (0 for no limit)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
