package commands

// Root command for Cobra CLI
// Running the binary without a subcommand renders results.csv into results_plot.png
// Registers the bench and publish subcommands

import (
	"fmt"

	"nbody-bench/internal/features/results_chart"
	"nbody-bench/internal/infra/config"
	logging "nbody-bench/internal/infra/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nbody-bench",
	Short: "Plot n-body benchmark results: simulation time vs threads per body count",
	Long: `nbody-bench reads results.csv (bodies, threads, time_sec) and writes results_plot.png,
a log-scale line chart with one series per body count.

The bench subcommand produces results.csv by timing the n-body simulation;
publish renders the chart and sends it to a Telegram chat.`,
	Version:       "1.0.0",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlot,
}

func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./config.yaml if present)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write a detailed log to this file (env: NBODY_LOG_FILE)")
	rootCmd.PersistentFlags().String("log-level", "info", "Console log level: debug, info, warn, error")

	addPlotFlags(rootCmd)

	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(publishCmd)
}

func addPlotFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "results.csv", "Benchmark results CSV (env: NBODY_PLOT_INPUT)")
	cmd.Flags().String("output", "results_plot.png", "Chart PNG (env: NBODY_PLOT_OUTPUT)")
}

// loadConfig reads configuration for cmd and initializes logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Init(cfg.App); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, err = results_chart.Generate(cfg.Plot)
	return err
}
