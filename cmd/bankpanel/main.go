package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bankpanel/internal/config"
	"bankpanel/internal/logging"
)

const version = "1.0.0"

var (
	// Global flags
	configPath string
	verbose    bool
	dataDir    string
	outDir     string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bankpanel",
	Short: "bankpanel - Bank Innovation Dataset pipeline",
	Long: `bankpanel builds the Bank Innovation Dataset: a bank-year panel that
integrates FFIEC Call Report financials, FDIC Summary of Deposits branch
data, and SEC Edgar filing metadata for U.S. banking institutions.

The pipeline loads each source from flat files, fuzzy-matches Edgar
registrants to FFIEC charters by institution name, left-joins everything
onto the FFIEC spine, derives growth and efficiency metrics, and writes
the final panel CSV plus a PDF data dictionary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDir != "" {
			cfg.Data.Dir = dataDir
		}
		if outDir != "" {
			cfg.Data.OutDir = outDir
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Initialize(cfg.Logging.Dir, cfg.Logging.Enabled, level); err != nil {
			return fmt.Errorf("failed to initialize file logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bankpanel %s\n", version)
	},
}

// initCmd writes a default configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "bankpanel.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Override the input data directory")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "", "Override the output directory")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sodCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(edgarCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
