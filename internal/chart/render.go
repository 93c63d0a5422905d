package chart

import (
	"errors"
	"fmt"
	"image"
	"math"

	storage "nbody-bench/internal/infra/fs"
	logging "nbody-bench/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	// log axis padding as a factor of the data range
	logPadding = 1.25
	markerSize = 3 // points

	// share of the y axis kept free above the data per legend row, capped
	legendRowShare = 0.06
	maxLegendShare = 0.5
	legendInset    = 6 // points from the plot border
)

var ErrNonPositive = errors.New("log scale requires positive values")

// NewPlot translates fig into a gonum plot
func NewPlot(fig Figure) (*plot.Plot, error) {
	p := plot.New()

	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel

	if fig.Grid {
		p.Add(plotter.NewGrid())
	}

	if fig.LegendTitle != "" && len(fig.Series) > 0 {
		// entry without thumbnails renders as a heading
		p.Legend.Add(fig.LegendTitle)
	}
	p.Legend.Top = true
	p.Legend.XOffs = -vg.Points(legendInset)
	p.Legend.YOffs = -vg.Points(legendInset)

	for i, s := range fig.Series {
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			if fig.YScale == ScaleLog && !(pt.Y > 0) {
				return nil, fmt.Errorf("%w: series %q point %d has y=%v", ErrNonPositive, s.Label, j, pt.Y)
			}
			xys[j].X = pt.X
			xys[j].Y = pt.Y
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(markerSize)

		if s.Markers {
			p.Add(line, points)
			p.Legend.Add(s.Label, line, points)
		} else {
			p.Add(line)
			p.Legend.Add(s.Label, line)
		}
	}

	if fig.YScale == ScaleLog {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		lo, hi := logRange(fig.Series)
		p.Y.Min, p.Y.Max = lo, legendHeadroom(lo, hi, legendRows(fig))
	}

	return p, nil
}

// logRange pads the y data range multiplicatively so no bound reaches zero
func logRange(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, pt := range s.Points {
			lo = math.Min(lo, pt.Y)
			hi = math.Max(hi, pt.Y)
		}
	}
	if math.IsInf(lo, 1) {
		return 1, 10
	}
	if lo == hi {
		return lo / 2, hi * 2
	}
	return lo / logPadding, hi * logPadding
}

// legendRows entries in the legend: one per series plus the heading
func legendRows(fig Figure) int {
	if len(fig.Series) == 0 {
		return 0
	}
	rows := len(fig.Series)
	if fig.LegendTitle != "" {
		rows++
	}
	return rows
}

// legendHeadroom raises hi so the top-right legend of rows entries sits above the data
func legendHeadroom(lo, hi float64, rows int) float64 {
	share := math.Min(float64(rows)*legendRowShare, maxLegendShare)
	if share <= 0 {
		return hi
	}
	span := math.Log(hi) - math.Log(lo)
	return lo * math.Exp(span/(1-share))
}

// Render draws fig on a white raster canvas of fig's size and DPI
func Render(fig Figure) (img image.Image, err error) {
	if fig.WidthIn <= 0 || fig.HeightIn <= 0 || fig.DPI <= 0 {
		return nil, &RenderError{Op: "draw", Err: fmt.Errorf("invalid figure size %vx%v in at %d dpi", fig.WidthIn, fig.HeightIn, fig.DPI)}
	}

	p, err := NewPlot(fig)
	if err != nil {
		return nil, &RenderError{Op: "plot", Err: err}
	}

	// gonum panics on degenerate axes instead of returning errors
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = &RenderError{Op: "draw", Err: fmt.Errorf("plot backend: %v", r)}
		}
	}()

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(fig.WidthIn)*vg.Inch, vg.Length(fig.HeightIn)*vg.Inch),
		vgimg.UseDPI(fig.DPI),
	)
	p.Draw(draw.New(canvas))

	return canvas.Image(), nil
}

// SavePNG writes img to path and checks the file is not empty
func SavePNG(img image.Image, path string) error {
	if err := storage.EnsureParentDir(path); err != nil {
		return &RenderError{Op: "save", Path: path, Err: err}
	}

	dc := gg.NewContextForImage(img)
	if err := dc.SavePNG(path); err != nil {
		return &RenderError{Op: "save", Path: path, Err: err}
	}

	size, err := storage.CheckNonEmpty(path)
	if err != nil {
		return &RenderError{Op: "save", Path: path, Err: err}
	}

	logging.LogDebug("PNG written",
		zap.String("filename", path),
		zap.Int64("fileSize", size),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	return nil
}
