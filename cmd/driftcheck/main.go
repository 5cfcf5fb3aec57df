package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "driftcheck",
	Short: "Detect identity-conditioned drift in LLM translations",
	Long: `driftcheck runs the same text through three round-trip translations
(two identity-conditioned, one neutral baseline) and scores how much the
identity-conditioned results diverge from the baseline.

Use "driftcheck evaluate --help" for evaluation options.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ./driftcheck.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the driftcheck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("driftcheck " + version)
		},
	})
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
