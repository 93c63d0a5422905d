package bench

import (
	"context"
	"fmt"
	"time"

	"nbody-bench/internal/infra/log"
	"nbody-bench/internal/nbody"

	"go.uber.org/zap"
)

type Runner struct {
	opts    Options
	metrics *Metrics
}

// NewRunner validates opts. metrics may be nil.
func NewRunner(opts Options, metrics *Metrics) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bench options: %w", err)
	}
	return &Runner{opts: opts, metrics: metrics}, nil
}

// Run times every (bodies, threads) combination, body counts outer, thread counts inner.
// All runs for one body count start from the same galaxy.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(r.opts.BodyCounts)*len(r.opts.ThreadCounts))

	for _, bodies := range r.opts.BodyCounts {
		initial, err := nbody.NewPresetGalaxy(r.opts.Preset, bodies, r.opts.Seed)
		if err != nil {
			return results, err
		}
		initial.Strategy = r.opts.Strategy

		for _, threads := range r.opts.ThreadCounts {
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("bench interrupted: %w", err)
			}

			elapsed := r.runOnce(initial.Clone(), bodies, threads)
			res := Result{Bodies: bodies, Threads: threads, TimeSec: elapsed.Seconds()}
			results = append(results, res)

			log.LogInfo("Bench run finished",
				zap.Int("bodies", bodies),
				zap.Int("threads", threads),
				zap.Int("steps", r.opts.Steps),
				zap.Stringer("strategy", r.opts.Strategy),
				zap.Float64("time_sec", res.TimeSec))
		}
	}

	return results, nil
}

func (r *Runner) runOnce(g *nbody.Galaxy, bodies, threads int) time.Duration {
	var total time.Duration
	for step := 0; step < r.opts.Steps; step++ {
		start := time.Now()
		g.Simulate(r.opts.Timestep, threads)
		d := time.Since(start)
		total += d

		if r.metrics != nil {
			r.metrics.ObserveStep(bodies, threads, d)
		}
	}
	if r.metrics != nil {
		r.metrics.RunsTotal.Inc()
	}
	return total
}
