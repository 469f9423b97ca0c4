package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/heartlens/internal/config"
	"github.com/KaramelBytes/heartlens/internal/logging"
	"github.com/KaramelBytes/heartlens/internal/pipeline"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	noColor bool
	// Pipeline flags (override config if set)
	flagScaler       string
	flagScaleColumns []string
	flagDropZeroChol bool
	flagOutcome      string
	flagBPCeiling    float64

	// Loaded configuration
	cfg *cfgpkg.Global
	log *zap.Logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "heartlens",
	Short: "heartlens: clean, correlate and persist a heart-disease dataset",
	Long: `heartlens loads a heart-disease CSV, removes duplicates, imputes missing values,
encodes categorical fields, caps RestingBP, scales selected columns, and reports how
each feature correlates with the HeartDisease outcome. The cleaned table can be written
to PostgreSQL (or SQLite) as a full replacement of the destination table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		l, err := logging.New(debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.heartlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().StringVar(&flagScaler, "scaler", "", "scaling method: standard | minmax | none (overrides config)")
	rootCmd.PersistentFlags().StringSliceVar(&flagScaleColumns, "scale-columns", nil, "columns to scale (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagDropZeroChol, "drop-zero-cholesterol", false, "drop rows with Cholesterol = 0 before imputation")
	rootCmd.PersistentFlags().StringVar(&flagOutcome, "outcome", "", "outcome column (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flagBPCeiling, "resting-bp-ceiling", 0, "RestingBP cap (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults, flags still apply
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("scaler") {
		cfg.Scaler = flagScaler
	}
	if f.Changed("scale-columns") {
		cfg.ScaleColumns = flagScaleColumns
	}
	if f.Changed("drop-zero-cholesterol") {
		cfg.DropZeroCholesterol = flagDropZeroChol
	}
	if f.Changed("outcome") && flagOutcome != "" {
		cfg.Outcome = flagOutcome
	}
	if f.Changed("resting-bp-ceiling") && flagBPCeiling > 0 {
		cfg.RestingBPCeiling = flagBPCeiling
	}
}

// newRunner builds a pipeline from the loaded configuration.
func newRunner() (*pipeline.Runner, error) {
	opt, err := pipeline.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.New(opt, log), nil
}

// dataPath picks the CSV path from args, else from config.
func dataPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if cfg != nil && cfg.DataPath != "" {
		return cfg.DataPath
	}
	return "heart.csv"
}
