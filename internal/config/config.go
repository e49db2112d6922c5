// Package config loads simulation settings from defaults, a YAML file and
// SILVER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/dexpress"
	"gosilver/internal/errors"
	"gosilver/internal/logging"
)

// Output formats for the simulated profile.
const (
	FormatTSV  = "tsv"
	FormatXLSX = "xlsx"
)

// SimulationConfig is the complete configuration of one simulate run.
type SimulationConfig struct {
	Input      InputConfig      `yaml:"input"`
	Columns    ColumnConfig     `yaml:"columns"`
	Simulation SimulationParams `yaml:"simulation"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InputConfig locates the input files.
type InputConfig struct {
	Profile     string `yaml:"profile"`
	Contrast    string `yaml:"contrast"`
	FoldChanges string `yaml:"fold_changes"`

	// Geneset optionally requests a whole GMT gene set at GenesetFoldChange.
	Geneset           string                `yaml:"geneset,omitempty"`
	GenesetName       string                `yaml:"geneset_name,omitempty"`
	GenesetFoldChange expression.FoldChange `yaml:"geneset_fold_change,omitempty"`

	ProfileSep    string `yaml:"profile_sep"`
	ContrastSep   string `yaml:"contrast_sep"`
	FoldChangeSep string `yaml:"fold_change_sep"`
	CtrlSymbol    string `yaml:"ctrl_symbol"`
	CaseSymbol    string `yaml:"case_symbol"`
}

// ColumnConfig names the columns of the tabular inputs.
type ColumnConfig struct {
	ProfileID    string `yaml:"profile_id"`
	FoldChangeID string `yaml:"fold_change_id"`
	Lower        string `yaml:"lower"`
	Upper        string `yaml:"upper"`
}

// SimulationParams control sampling and differential expression.
type SimulationParams struct {
	NumCtrls    int     `yaml:"num_ctrls"`
	NumCases    int     `yaml:"num_cases"`
	Repetitions int     `yaml:"repetitions"`
	Alpha       float64 `yaml:"alpha"`
	Seed        int64   `yaml:"seed"`
	Criterion   string  `yaml:"criterion"`
	Scale       string  `yaml:"scale"`
	Force       bool    `yaml:"force"`
	Shuffle     bool    `yaml:"shuffle"`
	Std         float64 `yaml:"std"`
	Replace     bool    `yaml:"replace"`
}

// OutputConfig says where results go. Empty paths are skipped.
type OutputConfig struct {
	Profile  string `yaml:"profile"`
	Format   string `yaml:"format"`
	Contrast string `yaml:"contrast"`
	Report   string `yaml:"report"`
}

// LoggingConfig configures the operational logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration of the reference use case.
func Default() *SimulationConfig {
	return &SimulationConfig{
		Input: InputConfig{
			ProfileSep:    "\t",
			ContrastSep:   "\t",
			FoldChangeSep: "\t",
			CtrlSymbol:    "c",
			CaseSymbol:    "d",
		},
		Columns: ColumnConfig{
			ProfileID:    "ID",
			FoldChangeID: "ID",
			Lower:        "FCLower",
			Upper:        "FCUpper",
		},
		Simulation: SimulationParams{
			NumCtrls:    20,
			NumCases:    20,
			Repetitions: 10,
			Alpha:       0.05,
			Seed:        123456,
			Criterion:   string(dexpress.KindTTest),
			Scale:       expression.Log.String(),
			Force:       true,
			Shuffle:     true,
			Std:         dexpress.DefaultStd,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load applies, in order, defaults, the YAML file at path (when non-empty)
// and environment overrides. It does not validate.
func Load(path string) (*SimulationConfig, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to apply environment overrides")
	}
	return cfg, nil
}

// LoadFromFile reads a YAML file on top of the defaults.
func LoadFromFile(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("parsing config file %s: %w", path, err))
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *SimulationConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}

// Validate checks that the configuration can drive a simulation.
func (c *SimulationConfig) Validate() error {
	if c.Input.Profile == "" {
		return errors.ConfigInvalid("expression profile path is required")
	}
	if c.Input.Contrast == "" {
		return errors.ConfigInvalid("contrast path is required")
	}
	if c.Input.FoldChanges == "" && c.Input.Geneset == "" {
		return errors.ConfigInvalid("a fold change table or a gene set is required")
	}
	if c.Input.Geneset != "" {
		if c.Input.GenesetName == "" {
			return errors.ConfigInvalid("geneset_name is required with a gene set file")
		}
		if err := c.Input.GenesetFoldChange.Validate(); err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("geneset_fold_change: %w", err))
		}
	}
	if c.Input.CtrlSymbol == "" || c.Input.CaseSymbol == "" || c.Input.CtrlSymbol == c.Input.CaseSymbol {
		return errors.ConfigInvalid(fmt.Sprintf("control and case symbols must be distinct and non-empty, got %q and %q",
			c.Input.CtrlSymbol, c.Input.CaseSymbol))
	}

	s := c.Simulation
	if s.NumCtrls <= 0 || s.NumCases <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("num_ctrls and num_cases must be positive, got %d and %d", s.NumCtrls, s.NumCases))
	}
	if s.NumCtrls != s.NumCases {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("%w: num_ctrls (%d) and num_cases (%d) must be equal",
			core.ErrLengthMismatch, s.NumCtrls, s.NumCases))
	}
	if s.Repetitions <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("repetitions must be positive, got %d", s.Repetitions))
	}
	if s.Alpha <= 0 || s.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("alpha must be between 0 and 1, got %g", s.Alpha))
	}
	if s.Std < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("std must be non-negative, got %g", s.Std))
	}
	if _, err := dexpress.ParseKind(s.Criterion); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if _, err := expression.ParseScale(s.Scale); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}

	if _, err := c.OutputFormat(); err != nil {
		return err
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return errors.ConfigInvalid(fmt.Sprintf("invalid log level: %s (valid: %s)",
			c.Logging.Level, strings.Join(logging.Levels, ", ")))
	}
	return nil
}

// OutputFormat returns the configured format, falling back to the profile
// output extension and then to tsv.
func (c *SimulationConfig) OutputFormat() (string, error) {
	format := strings.ToLower(c.Output.Format)
	if format == "" {
		if strings.EqualFold(filepath.Ext(c.Output.Profile), ".xlsx") {
			return FormatXLSX, nil
		}
		return FormatTSV, nil
	}
	if format != FormatTSV && format != FormatXLSX {
		return "", errors.ConfigInvalid(fmt.Sprintf("invalid output format: %s (valid: tsv, xlsx)", c.Output.Format))
	}
	return format, nil
}

// CriterionOptions turns the simulation parameters into criterion options.
func (c *SimulationConfig) CriterionOptions() ([]dexpress.Option, error) {
	scale, err := expression.ParseScale(c.Simulation.Scale)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return []dexpress.Option{
		dexpress.WithForce(c.Simulation.Force),
		dexpress.WithShuffle(c.Simulation.Shuffle),
		dexpress.WithStd(c.Simulation.Std),
		dexpress.WithScale(scale),
	}, nil
}

func applyEnvOverrides(c *SimulationConfig) error {
	c.Input.Profile = getEnvOrDefault("SILVER_PROFILE", c.Input.Profile)
	c.Input.Contrast = getEnvOrDefault("SILVER_CONTRAST", c.Input.Contrast)
	c.Input.FoldChanges = getEnvOrDefault("SILVER_FOLD_CHANGES", c.Input.FoldChanges)
	c.Input.Geneset = getEnvOrDefault("SILVER_GENESET", c.Input.Geneset)
	c.Input.GenesetName = getEnvOrDefault("SILVER_GENESET_NAME", c.Input.GenesetName)
	c.Input.CtrlSymbol = getEnvOrDefault("SILVER_CTRL_SYMBOL", c.Input.CtrlSymbol)
	c.Input.CaseSymbol = getEnvOrDefault("SILVER_CASE_SYMBOL", c.Input.CaseSymbol)

	var err error
	s := &c.Simulation
	if s.NumCtrls, err = getEnvInt("SILVER_NUM_CTRLS", s.NumCtrls); err != nil {
		return err
	}
	if s.NumCases, err = getEnvInt("SILVER_NUM_CASES", s.NumCases); err != nil {
		return err
	}
	if s.Repetitions, err = getEnvInt("SILVER_REPETITIONS", s.Repetitions); err != nil {
		return err
	}
	if s.Alpha, err = getEnvFloat("SILVER_ALPHA", s.Alpha); err != nil {
		return err
	}
	if s.Std, err = getEnvFloat("SILVER_STD", s.Std); err != nil {
		return err
	}
	if v := os.Getenv("SILVER_SEED"); v != "" {
		seed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return errors.ConfigInvalid(fmt.Sprintf("SILVER_SEED: %q is not an integer", v))
		}
		s.Seed = seed
	}
	if s.Force, err = getEnvBool("SILVER_FORCE", s.Force); err != nil {
		return err
	}
	if s.Shuffle, err = getEnvBool("SILVER_SHUFFLE", s.Shuffle); err != nil {
		return err
	}
	if s.Replace, err = getEnvBool("SILVER_REPLACE", s.Replace); err != nil {
		return err
	}
	s.Criterion = getEnvOrDefault("SILVER_CRITERION", s.Criterion)
	s.Scale = getEnvOrDefault("SILVER_SCALE", s.Scale)

	c.Output.Profile = getEnvOrDefault("SILVER_OUTPUT", c.Output.Profile)
	c.Output.Format = getEnvOrDefault("SILVER_OUTPUT_FORMAT", c.Output.Format)
	c.Output.Contrast = getEnvOrDefault("SILVER_OUTPUT_CONTRAST", c.Output.Contrast)
	c.Output.Report = getEnvOrDefault("SILVER_REPORT", c.Output.Report)
	c.Logging.Level = getEnvOrDefault("SILVER_LOG_LEVEL", c.Logging.Level)
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not an integer", key, value))
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not a number", key, value))
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not a boolean", key, value))
	}
	return v, nil
}
