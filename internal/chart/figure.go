package chart

// Declarative description of the results chart
// BuildFigure fills it from grouped rows; NewPlot and Render turn it into pixels

import (
	"fmt"

	"nbody-bench/internal/dataset"
)

const (
	Title       = "Simulation Time vs Threads per Body Count"
	XLabel      = "Number of Threads"
	YLabel      = "Time (seconds)"
	LegendTitle = "Bodies"
)

type Scale int

const (
	ScaleLinear Scale = iota
	ScaleLog
)

func (s Scale) String() string {
	switch s {
	case ScaleLinear:
		return "linear"
	case ScaleLog:
		return "log"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

type Point struct {
	X float64
	Y float64
}

// Series is one line with point markers
type Series struct {
	Label   string
	Points  []Point
	Markers bool
}

type Figure struct {
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	YScale      Scale
	Grid        bool

	WidthIn  float64
	HeightIn float64
	DPI      int

	Series []Series
}

type Options struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

// DefaultOptions 10x6 inches at 100 DPI, 1000x600 px
func DefaultOptions() Options {
	return Options{WidthIn: 10, HeightIn: 6, DPI: 100}
}

// SeriesLabel legend text for a bodies value
func SeriesLabel(bodies string) string {
	return bodies + " bodies"
}

// BuildFigure makes one series per group, in group order, with points in row order
func BuildFigure(groups []dataset.Group, opts Options) Figure {
	fig := Figure{
		Title:       Title,
		XLabel:      XLabel,
		YLabel:      YLabel,
		LegendTitle: LegendTitle,
		YScale:      ScaleLog,
		Grid:        true,
		WidthIn:     opts.WidthIn,
		HeightIn:    opts.HeightIn,
		DPI:         opts.DPI,
		Series:      make([]Series, 0, len(groups)),
	}

	for _, g := range groups {
		s := Series{
			Label:   SeriesLabel(g.Bodies),
			Points:  make([]Point, len(g.Records)),
			Markers: true,
		}
		for i, rec := range g.Records {
			s.Points[i] = Point{X: float64(rec.Threads), Y: rec.TimeSec}
		}
		fig.Series = append(fig.Series, s)
	}

	return fig
}

// LegendLabels returns the legend entries below the title, one per series
func (f Figure) LegendLabels() []string {
	labels := make([]string, len(f.Series))
	for i, s := range f.Series {
		labels[i] = s.Label
	}
	return labels
}

// PixelSize is the raster size at the figure's DPI
func (f Figure) PixelSize() (int, int) {
	return int(f.WidthIn*float64(f.DPI) + 0.5), int(f.HeightIn*float64(f.DPI) + 0.5)
}
