package commands

// Command to produce results.csv
// Times the n-body simulation for every body count at every thread count
// Stops between runs on SIGINT/SIGTERM

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nbody-bench/internal/bench"
	"nbody-bench/internal/features/results_chart"
	logging "nbody-bench/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the n-body simulation benchmark and write results.csv",
	Long: `Run the direct-sum n-body simulation for each configured body count and thread count,
timing a fixed number of steps, and write the timings as bodies,threads,time_sec.`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntSlice("bodies", nil, "Body counts (env: NBODY_BENCH_BODIES, default 10,100,500,1000)")
	benchCmd.Flags().IntSlice("threads", nil, "Thread counts (env: NBODY_BENCH_THREADS, default 1,2,4,8)")
	benchCmd.Flags().Int("steps", 10, "Simulation steps timed per run")
	benchCmd.Flags().Int64("seed", 1, "Seed for the initial galaxy")
	benchCmd.Flags().String("strategy", "per-thread", "Force computation: pair-buffer (v0) or per-thread (v1)")
	benchCmd.Flags().String("preset", "random", "Initial bodies: random or solar (Sun and planets, padded with random bodies)")
	benchCmd.Flags().String("results", "results.csv", "Results CSV to write (env: NBODY_BENCH_OUTPUT)")
	benchCmd.Flags().String("metrics-file", "", "Write step-time metrics in Prometheus text format")
	benchCmd.Flags().Bool("plot", false, "Render the chart from the new results when done")
	benchCmd.Flags().String("output", "results_plot.png", "Chart PNG used with --plot")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var metrics *bench.Metrics
	if cfg.Bench.MetricsFile != "" {
		metrics = bench.NewMetrics()
	}

	opts, err := bench.OptionsFromConfig(cfg.Bench)
	if err != nil {
		return err
	}

	runner, err := bench.NewRunner(opts, metrics)
	if err != nil {
		return err
	}

	logging.LogInfo("Starting benchmark",
		zap.Ints("bodies", cfg.Bench.Bodies),
		zap.Ints("threads", cfg.Bench.Threads),
		zap.Int("steps", cfg.Bench.Steps),
		zap.Stringer("strategy", opts.Strategy),
		zap.String("preset", cfg.Bench.Preset))

	results, err := runner.Run(ctx)
	if err != nil {
		logging.LogError("Benchmark stopped", zap.Error(err), zap.Int("completed", len(results)))
		return err
	}

	if err := bench.SaveCSV(cfg.Bench.Output, results); err != nil {
		return err
	}
	logging.LogSuccess("Benchmark results saved", zap.String("path", cfg.Bench.Output), zap.Int("runs", len(results)))

	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.Bench.MetricsFile); err != nil {
			logging.LogWarn("Failed to write metrics file", zap.Error(err))
		}
	}

	if plot, _ := cmd.Flags().GetBool("plot"); plot {
		plotCfg := cfg.Plot
		plotCfg.Input = cfg.Bench.Output
		if _, err := results_chart.Generate(plotCfg); err != nil {
			return err
		}
	}

	return nil
}
