// Command lg-cli optimizes source files for inclusion in an LLM context
// window: a single file's optimized text on stdout, or a whole project
// tree rendered as a markdown/json/yaml bundle.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Max-Moro/lg-cli/internal/logging"
)

const version = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "lg-cli",
	Short:   "lg-cli — budget-driven source optimizer for LLM context windows",
	Long:    `lg-cli rewrites source files into a smaller, still-readable form by eliding comments, imports, literals, and function bodies under a token budget.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		}
		cfg.Encoding = "console"
		cfg.EncoderConfig.TimeKey = ""
		logger, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		logging.SetBase(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(optimizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
