package results_chart

// Results chart: results.csv -> grouped series -> log-scale PNG
// One straight pass, nothing is written when loading fails

import (
	"fmt"
	"time"

	"nbody-bench/internal/chart"
	"nbody-bench/internal/dataset"
	"nbody-bench/internal/infra/config"
	logging "nbody-bench/internal/infra/log"

	"go.uber.org/zap"
)

// Summary what Generate produced
type Summary struct {
	Output string
	Rows   int
	Series []string
}

func optionsFromConfig(cfg config.PlotConfig) chart.Options {
	return chart.Options{
		WidthIn:  cfg.WidthIn,
		HeightIn: cfg.HeightIn,
		DPI:      cfg.DPI,
	}
}

// Generate loads cfg.Input and writes the chart to cfg.Output.
// Errors are *dataset.DataLoadError or *chart.RenderError.
func Generate(cfg config.PlotConfig) (*Summary, error) {
	startTime := time.Now()

	ds, err := dataset.Load(cfg.Input)
	if err != nil {
		logging.LogError("Failed to load results", zap.String("input", cfg.Input), zap.Error(err))
		return nil, err
	}
	logging.LogInfo("Results loaded", zap.String("input", cfg.Input), zap.Int("rows", ds.Len()))

	groups := ds.GroupByBodies()
	fig := chart.BuildFigure(groups, optionsFromConfig(cfg))

	img, err := chart.Render(fig)
	if err != nil {
		logging.LogError("Failed to render chart", zap.Error(err))
		return nil, err
	}

	if err := chart.SavePNG(img, cfg.Output); err != nil {
		logging.LogError("Failed to save chart", zap.String("output", cfg.Output), zap.Error(err))
		return nil, err
	}

	summary := &Summary{
		Output: cfg.Output,
		Rows:   ds.Len(),
		Series: fig.LegendLabels(),
	}

	logging.LogSuccess(fmt.Sprintf("Chart saved to %s", cfg.Output),
		zap.Int("rows", summary.Rows),
		zap.Int("series", len(summary.Series)),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()))

	return summary, nil
}
