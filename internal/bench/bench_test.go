package bench

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nbody-bench/internal/dataset"
	"nbody-bench/internal/infra/config"
	"nbody-bench/internal/nbody"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	return Options{
		BodyCounts:   []int{5, 12},
		ThreadCounts: []int{1, 2, 4},
		Steps:        2,
		Timestep:     300,
		Seed:         1,
	}
}

func TestRunner_Grid(t *testing.T) {
	metrics := NewMetrics()
	runner, err := NewRunner(smallOptions(), metrics)
	require.NoError(t, err)

	results, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 6)

	want := [][2]int{{5, 1}, {5, 2}, {5, 4}, {12, 1}, {12, 2}, {12, 4}}
	for i, res := range results {
		assert.Equal(t, want[i][0], res.Bodies)
		assert.Equal(t, want[i][1], res.Threads)
		assert.GreaterOrEqual(t, res.TimeSec, 0.0)
	}

	assert.Equal(t, 6.0, testutil.ToFloat64(metrics.RunsTotal))
	assert.Equal(t, 6, testutil.CollectAndCount(metrics.StepDuration))
}

func TestRunner_Cancelled(t *testing.T) {
	runner, err := NewRunner(smallOptions(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"no bodies", func(o *Options) { o.BodyCounts = nil }},
		{"no threads", func(o *Options) { o.ThreadCounts = nil }},
		{"one body", func(o *Options) { o.BodyCounts = []int{1} }},
		{"zero threads", func(o *Options) { o.ThreadCounts = []int{0} }},
		{"zero steps", func(o *Options) { o.Steps = 0 }},
		{"negative timestep", func(o *Options) { o.Timestep = -1 }},
		{"unknown strategy", func(o *Options) { o.Strategy = nbody.Strategy(5) }},
		{"unknown preset", func(o *Options) { o.Preset = "spiral" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions()
			tt.modify(&opts)
			_, err := NewRunner(opts, nil)
			assert.Error(t, err)
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := OptionsFromConfig(config.BenchConfig{
		Bodies: []int{10}, Threads: []int{1, 2}, Steps: 3, Timestep: 60, Seed: 9,
		Strategy: "v0", Preset: "solar",
	})
	require.NoError(t, err)
	assert.Equal(t, Options{
		BodyCounts: []int{10}, ThreadCounts: []int{1, 2}, Steps: 3, Timestep: 60, Seed: 9,
		Strategy: nbody.StrategyPairBuffer, Preset: nbody.PresetSolar,
	}, opts)

	_, err = OptionsFromConfig(config.BenchConfig{Strategy: "v7"})
	assert.Error(t, err)
}

func TestRunner_StrategiesAndPresets(t *testing.T) {
	for _, strategy := range []nbody.Strategy{nbody.StrategyPairBuffer, nbody.StrategyPerThread} {
		for _, preset := range []nbody.Preset{nbody.PresetRandom, nbody.PresetSolar} {
			opts := smallOptions()
			opts.BodyCounts = []int{9, 15}
			opts.Strategy = strategy
			opts.Preset = preset

			runner, err := NewRunner(opts, nil)
			require.NoError(t, err)
			results, err := runner.Run(context.Background())
			require.NoError(t, err, "%s/%s", strategy, preset)
			assert.Len(t, results, 6)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Result{
		{Bodies: 10, Threads: 1, TimeSec: 5},
		{Bodies: 10, Threads: 2, TimeSec: 2.6},
	}))
	assert.Equal(t, "bodies,threads,time_sec\n10,1,5\n10,2,2.6\n", buf.String())
}

func TestSaveCSV_ReadableByDataset(t *testing.T) {
	runner, err := NewRunner(smallOptions(), nil)
	require.NoError(t, err)
	results, err := runner.Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, SaveCSV(path, results))

	ds, err := dataset.Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(results), ds.Len())

	groups := ds.GroupByBodies()
	require.Len(t, groups, 2)
	assert.Equal(t, "5", groups[0].Bodies)
	assert.Equal(t, []int{1, 2, 4}, groups[0].Threads())
}

func TestMetrics_WriteTextfile(t *testing.T) {
	metrics := NewMetrics()
	runner, err := NewRunner(Options{BodyCounts: []int{3}, ThreadCounts: []int{2}, Steps: 1, Timestep: 1}, metrics)
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "metrics", "nbody.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `nbody_step_duration_seconds_count{bodies="3",threads="2"} 1`), text)
	assert.Contains(t, text, "nbody_runs_total 1")
}
