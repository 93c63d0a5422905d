package bench

import (
	"fmt"

	"nbody-bench/internal/infra/config"
	"nbody-bench/internal/nbody"
)

// Result is one timed simulation run, one row of results.csv
type Result struct {
	Bodies  int
	Threads int
	TimeSec float64
}

// Options describes the run grid: every body count is timed at every thread count
type Options struct {
	BodyCounts   []int
	ThreadCounts []int
	Steps        int     // Simulate calls per run
	Timestep     float64 // simulated seconds per step
	Seed         int64
	Strategy     nbody.Strategy
	Preset       nbody.Preset // initial bodies, random when empty
}

func OptionsFromConfig(cfg config.BenchConfig) (Options, error) {
	strategy, err := nbody.ParseStrategy(cfg.Strategy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		BodyCounts:   cfg.Bodies,
		ThreadCounts: cfg.Threads,
		Steps:        cfg.Steps,
		Timestep:     cfg.Timestep,
		Seed:         cfg.Seed,
		Strategy:     strategy,
		Preset:       nbody.Preset(cfg.Preset),
	}, nil
}

func (o Options) Validate() error {
	if len(o.BodyCounts) == 0 {
		return fmt.Errorf("no body counts configured")
	}
	if len(o.ThreadCounts) == 0 {
		return fmt.Errorf("no thread counts configured")
	}
	for _, n := range o.BodyCounts {
		if n < 2 {
			return fmt.Errorf("body count must be at least 2, got %d", n)
		}
	}
	for _, n := range o.ThreadCounts {
		if n < 1 {
			return fmt.Errorf("thread count must be positive, got %d", n)
		}
	}
	if o.Steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", o.Steps)
	}
	if o.Timestep <= 0 {
		return fmt.Errorf("timestep must be positive, got %v", o.Timestep)
	}
	if o.Strategy != nbody.StrategyPairBuffer && o.Strategy != nbody.StrategyPerThread {
		return fmt.Errorf("unknown strategy %s", o.Strategy)
	}
	switch o.Preset {
	case "", nbody.PresetRandom, nbody.PresetSolar:
	default:
		return fmt.Errorf("unknown galaxy preset %q", o.Preset)
	}
	return nil
}
