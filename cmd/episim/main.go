package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "Agent-based epidemic simulator on a city grid",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := newLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(diseasesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid --log-format %q, expected text or json", format)
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Run the simulation described by a project's simulation.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", -1, "worker goroutines (0 uses every CPU, -1 keeps the config value)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the configured seed")
	cmd.Flags().IntVar(&opts.hours, "hours", 0, "override the configured number of hours")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for output files (default: the project directory)")
	cmd.Flags().BoolVar(&opts.citizenStates, "citizen-states", false, "write every citizen's state every hour")
	cmd.Flags().IntVar(&opts.logEvery, "log-every", 24, "log counts at info level every n hours")
	cmd.Flags().BoolVar(&opts.jsonSummary, "json", false, "print the run summary as JSON")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a project's configuration, disease and grid capacity without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func diseasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diseases [catalog-path]",
		Short: "List the diseases of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDiseases(args[0])
		},
	}
}
