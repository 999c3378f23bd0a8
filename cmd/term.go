package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zalepa/crimerank/rank"
)

// renderRanking prints entries as an aligned table.
func renderRanking(w io.Writer, entries []rank.Entry) {
	maxName := len("Commune")
	for _, e := range entries {
		if n := utf8.RuneCountInString(e.Municipality); n > maxName {
			maxName = n
		}
	}

	fmt.Fprintf(w, "%5s  %s  %8s  %11s  %10s\n", "Rang", padRight("Commune", maxName), "Faits", "Population", "Taux")
	fmt.Fprintln(w, strings.Repeat("─", 5+2+maxName+2+8+2+11+2+10))
	for _, e := range entries {
		fmt.Fprintf(w, "%5d  %s  %8d  %11d  %10s\n",
			e.Rank, padRight(e.Municipality, maxName), e.TotalFacts, int(e.Population), rank.FormatRate(e.RatePerThousand))
	}
}

// padRight pads s with spaces to width runes. fmt's %-*s counts bytes, which
// misaligns accented names.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// renderEvolutionTable prints one sparkline row per line, aligned on years.
func renderEvolutionTable(w io.Writer, title string, lines []rank.Line, years []int) {
	maxName := 10
	for _, l := range lines {
		if n := utf8.RuneCountInString(l.Municipality); n > maxName {
			maxName = n
		}
	}

	fmt.Fprintln(w, title)
	if len(years) > 0 {
		fmt.Fprintf(w, "Tendance : %d à %d (%d années)\n\n", years[0], years[len(years)-1], len(years))
	}

	fmt.Fprintf(w, "%s  %10s   %s\n", padRight("Commune", maxName), "Dernier", "Tendance")
	fmt.Fprintln(w, strings.Repeat("─", maxName+2+10+3+len(years)))
	for _, l := range lines {
		vals := alignValues(l.Points, years)
		fmt.Fprintf(w, "%s  %10s   %s\n", padRight(l.Municipality, maxName), formatRate(lastNonNaN(vals)), sparkline(vals))
	}
}

// alignValues maps points to a slice aligned with years, filling gaps with NaN.
func alignValues(pts []rank.Point, years []int) []float64 {
	lookup := make(map[int]float64, len(pts))
	for _, p := range pts {
		lookup[p.Year] = p.RatePerThousand
	}
	vals := make([]float64, len(years))
	for i, y := range years {
		if v, ok := lookup[y]; ok {
			vals[i] = v
		} else {
			vals[i] = math.NaN()
		}
	}
	return vals
}

func lastNonNaN(vals []float64) float64 {
	for i := len(vals) - 1; i >= 0; i-- {
		if !math.IsNaN(vals[i]) {
			return vals[i]
		}
	}
	return math.NaN()
}

func formatRate(v float64) string {
	if math.IsNaN(v) {
		return "- -"
	}
	return rank.FormatRate(v)
}

func sparkline(values []float64) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	n := len(blocks)

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if math.IsInf(min, 1) {
		return strings.Repeat(" ", len(values))
	}

	spread := max - min
	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := n / 2
		if spread > 0 {
			idx = int((v - min) / spread * float64(n-1))
			if idx >= n {
				idx = n - 1
			}
		}
		sb.WriteRune(blocks[idx])
	}
	return sb.String()
}

// renderChart draws a single line as an ASCII chart, one column group per
// point.
func renderChart(w io.Writer, title string, points []rank.Point) {
	fmt.Fprintln(w, title)
	if len(points) == 0 {
		fmt.Fprintln(w, "(aucune donnée)")
		return
	}
	fmt.Fprintln(w)

	const height = 15
	nPoints := len(points)

	colWidth := 90 / nPoints
	colWidth = max(3, min(colWidth, 8))

	minVal, maxVal := points[0].RatePerThousand, points[0].RatePerThousand
	for _, p := range points {
		minVal = math.Min(minVal, p.RatePerThousand)
		maxVal = math.Max(maxVal, p.RatePerThousand)
	}
	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1
		minVal -= 0.5
	}

	// Row 0 is the bottom of the chart.
	pointRows := make([]int, nPoints)
	for i, p := range points {
		row := int(math.Round((p.RatePerThousand - minVal) / valRange * float64(height-1)))
		pointRows[i] = max(0, min(row, height-1))
	}

	totalWidth := nPoints * colWidth
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", totalWidth))
	}

	for i := 0; i < nPoints; i++ {
		col := i*colWidth + colWidth/2
		grid[pointRows[i]][col] = '●'
		if i == nPoints-1 {
			continue
		}
		// Connect to the next point by linear interpolation.
		endCol := (i+1)*colWidth + colWidth/2
		startRow, endRow := pointRows[i], pointRows[i+1]
		for c := col + 1; c < endCol; c++ {
			t := float64(c-col) / float64(endCol-col)
			r := int(math.Round(float64(startRow) + t*float64(endRow-startRow)))
			r = max(0, min(r, height-1))
			if grid[r][c] == ' ' {
				grid[r][c] = '·'
			}
		}
	}

	yLabels := make(map[int]string)
	for i := 0; i < 5; i++ {
		row := int(math.Round(float64(i) / 4.0 * float64(height-1)))
		val := minVal + float64(row)/float64(height-1)*valRange
		yLabels[row] = strconv.FormatFloat(val, 'f', 1, 64)
	}

	for r := height - 1; r >= 0; r-- {
		fmt.Fprintf(w, "%8s │%s\n", yLabels[r], string(grid[r]))
	}
	fmt.Fprintf(w, "%8s └%s\n", "", strings.Repeat("─", totalWidth))

	labelEvery := 1
	if colWidth < 5 {
		labelEvery = (5 + colWidth - 1) / colWidth
	}
	xLine := []byte(strings.Repeat(" ", totalWidth))
	for i := 0; i < nPoints; i += labelEvery {
		label := strconv.Itoa(points[i].Year)
		pos := max(0, i*colWidth+colWidth/2-len(label)/2)
		for j := 0; j < len(label) && pos+j < totalWidth; j++ {
			xLine[pos+j] = label[j]
		}
	}
	fmt.Fprintf(w, "%8s  %s\n", "", string(xLine))
}
