// Package main implements sleephistory, a companion tool that charts a
// long-running self-reported sleep log as monthly averages with a yearly
// trend line.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	historyPath = flag.String("history", "sleep_history.csv", "path to the sleep history CSV")
	outPath     = flag.String("out", filepath.Join("output", "graphs", "sleep_history.png"), "path for the rendered chart")
	verbose     = flag.Bool("verbose", false, "enable verbose logging")
)

var (
	monthlyColor = color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}
	yearlyColor  = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
)

// DateISO wraps time.Time for CSV parsing of YYYY-MM-DD dates.
type DateISO struct {
	time.Time
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *DateISO) UnmarshalCSV(s string) error {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d DateISO) MarshalCSV() (string, error) {
	return d.Format("2006-01-02"), nil
}

type historyRow struct {
	Date  DateISO `csv:"date"`
	Hours float64 `csv:"hours_of_sleep_rounded"`
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger); err != nil {
		logger.Error("chart failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	rows, err := loadHistory(*historyPath)
	if err != nil {
		return err
	}
	logger.Info("sleep history loaded", "nights", len(rows))

	monthly := averageBy(rows, monthKey, monthMidpoint)
	yearly := averageBy(rows, yearKey, yearMidpoint)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := renderTrend(*outPath, monthly, yearly); err != nil {
		return fmt.Errorf("rendering trend chart: %w", err)
	}
	logger.Info("chart written", "path", *outPath)
	return nil
}

func loadHistory(path string) ([]historyRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only

	var rows []historyRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

// averageBy buckets nights by key, averages the hours within each bucket,
// and places each bucket's point at the midpoint time for plotting.
func averageBy(rows []historyRow, key func(time.Time) int, midpoint func(time.Time) time.Time) plotter.XYs {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	mids := make(map[int]time.Time)
	for _, r := range rows {
		k := key(r.Date.Time)
		sums[k] += r.Hours
		counts[k]++
		mids[k] = midpoint(r.Date.Time)
	}

	keys := make([]int, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	xys := make(plotter.XYs, len(keys))
	for i, k := range keys {
		xys[i].X = float64(mids[k].Unix())
		xys[i].Y = sums[k] / float64(counts[k])
	}
	return xys
}

func monthKey(t time.Time) int { return t.Year()*12 + int(t.Month()) - 1 }
func yearKey(t time.Time) int  { return t.Year() }

func monthMidpoint(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 15, 0, 0, 0, 0, time.UTC)
}

func yearMidpoint(t time.Time) time.Time {
	return time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, time.UTC)
}

func renderTrend(path string, monthly, yearly plotter.XYs) error {
	p := plot.New()
	p.Title.Text = "Monthly Average Sleep Duration with Yearly Trend"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Average Sleep Duration (hours)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	p.Add(plotter.NewGrid())

	monthlyLine, err := plotter.NewLine(monthly)
	if err != nil {
		return err
	}
	monthlyLine.Color = monthlyColor
	monthlyLine.Width = vg.Points(2)

	yearlyLine, err := plotter.NewLine(yearly)
	if err != nil {
		return err
	}
	yearlyLine.Color = yearlyColor
	yearlyLine.Width = vg.Points(2)
	yearlyLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(monthlyLine, yearlyLine)
	p.Legend.Add("Monthly Average", monthlyLine)
	p.Legend.Add("Yearly Trend", yearlyLine)
	p.Legend.Top = true

	return p.Save(16*vg.Inch, 8*vg.Inch, path)
}
