package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/zalepa/crimerank/rank"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

const (
	pageWidth  = 8.5 * vg.Inch
	pageHeight = 11 * vg.Inch
	pdfMargin  = 0.75 * vg.Inch

	rowHeight = 0.30 * vg.Inch
)

// Report is the content of a PDF report: the ranking summary followed by an
// evolution chart when Lines is not empty.
type Report struct {
	Params  rank.Params
	Ranking rank.Ranking
	Entries []rank.Entry
	Lines   []rank.Line
}

// column layout of the summary table, as offsets from the left margin.
var reportColumns = []struct {
	title  string
	offset vg.Length
}{
	{"Rang", 0},
	{"Commune", 0.6 * vg.Inch},
	{"Faits", 3.6 * vg.Inch},
	{"Population", 4.5 * vg.Inch},
	{"Taux", 5.7 * vg.Inch},
}

// WriteReport renders r as a PDF to w. The filter selection is recorded in
// the document properties so the file describes how it was produced.
func WriteReport(w io.Writer, r Report) error {
	c := vgpdf.New(pageWidth, pageHeight)
	drawRankingPages(c, r)

	if len(r.Lines) > 0 {
		p, err := Evolution(r.Lines)
		if err != nil {
			return err
		}
		c.NextPage()
		dc := draw.New(c)
		p.Draw(draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin))
	}

	var raw bytes.Buffer
	if _, err := c.WriteTo(&raw); err != nil {
		return goerr.Wrap(err, "failed to render report")
	}

	props := map[string]string{
		"Year":          strconv.Itoa(r.Params.Year),
		"Categories":    strings.Join(r.Params.Categories, "; "),
		"MinPopulation": strconv.Itoa(r.Params.MinPopulation),
		"Direction":     r.Params.Direction.String(),
	}
	if err := api.AddProperties(bytes.NewReader(raw.Bytes()), w, props, nil); err != nil {
		return goerr.Wrap(err, "failed to add report properties")
	}
	return nil
}

func drawRankingPages(c *vgpdf.Canvas, r Report) {
	title := rank.Heading(r.Params.Direction)
	subtitle := fmt.Sprintf("%d - %d villes classées", r.Params.Year, r.Ranking.Len())
	if r.Params.MinPopulation > 0 {
		subtitle += fmt.Sprintf(", de plus de %d habitants", r.Params.MinPopulation)
	}

	usableW := pageWidth - 2*pdfMargin
	rowIdx := 0
	pageNum := 0
	for pageNum == 0 || rowIdx < len(r.Entries) {
		if pageNum > 0 {
			c.NextPage()
		}
		pageNum++

		dc := draw.New(c)
		area := draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)

		yTop := area.Max.Y
		if pageNum == 1 {
			fillText(area, title, vg.Points(14), area.Min.X, yTop-vg.Points(14), color.Black)
			fillText(area, subtitle, vg.Points(10), area.Min.X, yTop-0.35*vg.Inch, color.Gray{Y: 100})
			yTop -= 0.6 * vg.Inch
		} else {
			fillText(area, title+" (suite)", vg.Points(10), area.Min.X, yTop-vg.Points(8), color.Gray{Y: 100})
			yTop -= 0.3 * vg.Inch
		}

		for _, col := range reportColumns {
			fillText(area, col.title, vg.Points(10), area.Min.X+col.offset, yTop, color.Gray{Y: 80})
		}
		sepY := yTop - vg.Points(6)
		strokeHLine(area, area.Min.X, area.Min.X+usableW, sepY, color.Gray{Y: 180})
		yTop = sepY - vg.Points(4)

		rowsThisPage := int((yTop - area.Min.Y) / rowHeight)
		for drawn := 0; drawn < rowsThisPage && rowIdx < len(r.Entries); drawn++ {
			e := r.Entries[rowIdx]
			rowIdx++
			y := yTop - vg.Length(drawn)*rowHeight - rowHeight*0.65
			cells := []string{
				strconv.Itoa(e.Rank),
				e.Municipality,
				strconv.Itoa(e.TotalFacts),
				strconv.Itoa(int(e.Population)),
				rank.FormatRate(e.RatePerThousand),
			}
			for i, col := range reportColumns {
				fillText(area, cells[i], vg.Points(9), area.Min.X+col.offset, y, color.Black)
			}
		}
	}
}

func fillText(c draw.Canvas, txt string, size vg.Length, x, y vg.Length, clr color.Color) {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
	}
	sty.Font.Size = size
	c.FillText(sty, vg.Point{X: x, Y: y}, txt)
}

func strokeHLine(c draw.Canvas, x0, x1, y vg.Length, clr color.Color) {
	c.StrokeLine2(draw.LineStyle{
		Color: clr,
		Width: vg.Points(0.5),
	}, x0, y, x1, y)
}

// PageCount returns the number of pages of a PDF.
func PageCount(rs io.ReadSeeker) (int, error) {
	n, err := api.PageCount(rs, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count pages")
	}
	return n, nil
}
