package chart

import (
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/zalepa/crimerank/rank"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default size of a standalone chart.
const (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

var chartBlue = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// Title is the chart title for the given lines.
func Title(lines []rank.Line) string {
	names := make([]string, len(lines))
	for i, l := range lines {
		names[i] = l.Municipality
	}
	return "Évolution du taux de criminalité pour " + strings.Join(names, ", ")
}

// Evolution draws one line with markers per municipality, x = year and
// y = rate per thousand.
func Evolution(lines []rank.Line) (*plot.Plot, error) {
	if len(lines) == 0 {
		return nil, goerr.New("no data to plot")
	}

	p := plot.New()
	p.Title.Text = Title(lines)
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.X.Label.Text = "Année"
	p.Y.Label.Text = "Taux pour mille"
	p.BackgroundColor = color.White
	p.Legend.Top = true

	years := rank.Years(lines)
	p.Add(plotter.NewGrid())
	for i, l := range lines {
		pts := make(plotter.XYs, len(l.Points))
		for j, pt := range l.Points {
			pts[j] = plotter.XY{X: float64(pt.Year), Y: pt.RatePerThousand}
		}
		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build line", goerr.V("municipality", l.Municipality))
		}
		clr := lineColor(i)
		line.Color = clr
		line.Width = vg.Points(2)
		scatter.Color = clr
		scatter.Radius = vg.Points(3)
		scatter.Shape = draw.CircleGlyph{}

		p.Add(line, scatter)
		p.Legend.Add(l.Municipality, line, scatter)
	}

	p.X.Tick.Marker = yearTicks(years)
	if len(years) > 0 {
		p.X.Min = float64(years[0]) - 0.5
		p.X.Max = float64(years[len(years)-1]) + 0.5
	}
	p.Y.Min = math.Min(p.Y.Min, 0)
	return p, nil
}

func lineColor(i int) color.Color {
	if i == 0 {
		return chartBlue
	}
	return plotutil.Color(i)
}

// WritePNG renders p as a PNG image of the given size.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return goerr.Wrap(err, "failed to create png writer")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write png")
	}
	return nil
}

// Save writes p to path; the format follows the extension (png, pdf, svg).
func Save(path string, p *plot.Plot) error {
	if err := p.Save(Width, Height, path); err != nil {
		return goerr.Wrap(err, "failed to save chart", goerr.V("path", path))
	}
	return nil
}

// yearTicks labels every year, or every other one past twelve years.
type yearTicks []int

func (yt yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	n := len(yt)
	if n == 0 {
		return ticks
	}

	step := 1
	if n > 12 {
		step = (n + 11) / 12
	}
	for i, y := range yt {
		t := plot.Tick{Value: float64(y)}
		if i%step == 0 {
			t.Label = strconv.Itoa(y)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
