package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/driftwatch/sleepdrift/pkg/sleep"
)

var (
	anecdotalColor = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	ouraColor      = color.RGBA{R: 0x00, G: 0x52, B: 0xcc, A: 0xff}
	uhColor        = color.RGBA{R: 0xff, G: 0x7f, B: 0x00, A: 0xff}
	zeroLineColor  = color.RGBA{R: 0xcc, G: 0x00, B: 0x00, A: 0xff}
)

// WriteCharts renders the eight chart files into dir: a time-series
// comparison and a paired error bar chart per metric, the 3x2 histogram
// grid, and the signed-error direction summary.
func WriteCharts(dir string, rows []sleep.ComparisonRow) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}
	for _, m := range Metrics {
		if err := comparisonChart(filepath.Join(dir, "comparison_"+m.Key+".png"), m, rows); err != nil {
			return fmt.Errorf("rendering %s comparison: %w", m.Key, err)
		}
		if err := errorBarChart(filepath.Join(dir, "error_"+m.Key+".png"), m, rows); err != nil {
			return fmt.Errorf("rendering %s error bars: %w", m.Key, err)
		}
	}
	if err := distributionGrid(filepath.Join(dir, "error_distributions.png"), rows); err != nil {
		return fmt.Errorf("rendering error distributions: %w", err)
	}
	if err := directionChart(filepath.Join(dir, "error_direction.png"), rows); err != nil {
		return fmt.Errorf("rendering error direction: %w", err)
	}
	return nil
}

func comparisonChart(path string, m Metric, rows []sleep.ComparisonRow) error {
	p := plot.New()
	p.Title.Text = m.Title + ": Anecdotal vs Oura vs Ultrahuman"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Minutes"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}
	p.Add(plotter.NewGrid())

	series := []struct {
		name  string
		clr   color.Color
		shape draw.GlyphDrawer
		value func(sleep.ComparisonRow) int
	}{
		{"Anecdotal", anecdotalColor, draw.CircleGlyph{}, m.Reported},
		{"Oura", ouraColor, draw.BoxGlyph{}, m.Oura},
		{"Ultrahuman", uhColor, draw.PyramidGlyph{}, m.Ultrahuman},
	}
	for _, s := range series {
		xys := make(plotter.XYs, len(rows))
		for i, r := range rows {
			xys[i].X = dayX(r.Day)
			xys[i].Y = float64(s.value(r))
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = s.clr
		points.Color = s.clr
		points.Shape = s.shape
		p.Add(line, points)
		p.Legend.Add(s.name, line, points)
	}
	p.Legend.Top = true
	return p.Save(12*vg.Inch, 4*vg.Inch, path)
}

func errorBarChart(path string, m Metric, rows []sleep.ComparisonRow) error {
	p := plot.New()
	p.Title.Text = m.Title + " Error: Oura vs Ultrahuman"
	p.Y.Label.Text = "Minutes"
	p.Add(plotter.NewGrid())

	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = dayLabel(r.Day)
	}

	barWidth := vg.Points(8)
	ouraBars, err := plotter.NewBarChart(values(rows, m.OuraAbs), barWidth)
	if err != nil {
		return err
	}
	ouraBars.Color = ouraColor
	ouraBars.Offset = -barWidth / 2

	uhBars, err := plotter.NewBarChart(values(rows, m.UltrahumanAbs), barWidth)
	if err != nil {
		return err
	}
	uhBars.Color = uhColor
	uhBars.Offset = barWidth / 2

	p.Add(ouraBars, uhBars)
	p.Legend.Add("Oura", ouraBars)
	p.Legend.Add("Ultrahuman", uhBars)
	p.Legend.Top = true
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return p.Save(12*vg.Inch, 4*vg.Inch, path)
}

func distributionGrid(path string, rows []sleep.ComparisonRow) error {
	plots := make([][]*plot.Plot, len(Metrics))
	for i, m := range Metrics {
		vendors := []struct {
			name string
			vals plotter.Values
			clr  color.Color
		}{
			{"Oura", values(rows, m.OuraAbs), ouraColor},
			{"Ultrahuman", values(rows, m.UltrahumanAbs), uhColor},
		}

		// Both vendors of one metric share axis ranges and bin width so
		// the panels are directly comparable.
		lo, hi := valueRange(append(append(plotter.Values{}, vendors[0].vals...), vendors[1].vals...))
		if lo > 0 {
			lo = 0
		}
		hi += (hi - lo) * 0.1
		bins := int((hi-lo)/float64(m.BinMinutes)) + 1

		plots[i] = make([]*plot.Plot, len(vendors))
		for j, v := range vendors {
			p := plot.New()
			p.Title.Text = v.name + " " + m.Title + " Error"
			p.X.Label.Text = "Error (minutes)"
			p.Y.Label.Text = "Count"
			hist, err := plotter.NewHist(v.vals, bins)
			if err != nil {
				return err
			}
			hist.FillColor = v.clr
			p.Add(hist)
			p.X.Min, p.X.Max = lo, hi
			plots[i][j] = p
		}
	}

	img := vgimg.New(12*vg.Inch, 14*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(Metrics),
		Cols: 2,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func directionChart(path string, rows []sleep.ComparisonRow) error {
	p := plot.New()
	p.Title.Text = "Error Direction and Magnitude: Oura vs Ultrahuman"
	p.Y.Label.Text = "Error (minutes)"
	p.Add(plotter.NewGrid())

	boxWidth := vg.Points(40)
	var labels []string
	pos := 0.0
	for _, m := range Metrics {
		vendors := []struct {
			name string
			vals plotter.Values
			clr  color.Color
		}{
			{"Oura", values(rows, m.OuraSigned), ouraColor},
			{"Ultrahuman", values(rows, m.UltrahumanSigned), uhColor},
		}
		for _, v := range vendors {
			box, err := plotter.NewBoxPlot(boxWidth, pos, v.vals)
			if err != nil {
				return err
			}
			box.BoxStyle.Color = v.clr
			box.MedianStyle.Color = v.clr
			box.WhiskerStyle.Color = v.clr
			p.Add(box)
			labels = append(labels, m.Title+"\n"+v.name)
			pos++
		}
	}
	p.NominalX(labels...)

	// Reference line: above zero is overestimation, below is
	// underestimation.
	zero, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: 0}, {X: pos - 0.5, Y: 0}})
	if err != nil {
		return err
	}
	zero.Color = zeroLineColor
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(zero)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

func values(rows []sleep.ComparisonRow, f func(sleep.ComparisonRow) int) plotter.Values {
	vals := make(plotter.Values, len(rows))
	for i, r := range rows {
		vals[i] = float64(f(r))
	}
	return vals
}

func valueRange(vals plotter.Values) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 1
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

func dayX(day string) float64 {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return 0
	}
	return float64(t.Unix())
}

func dayLabel(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("Jan 02")
}
