// Package anecdotal loads the self-reported sleep log that serves as
// ground truth for the vendor comparison.
package anecdotal

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/driftwatch/sleepdrift/pkg/sleep"
)

// DateUS parses the log's month/day/year date column.
type DateUS struct {
	time.Time
}

// UnmarshalCSV implements gocsv unmarshaling for %m/%d/%Y dates.
func (d *DateUS) UnmarshalCSV(s string) error {
	t, err := time.Parse("01/02/2006", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalCSV implements gocsv marshaling.
func (d DateUS) MarshalCSV() (string, error) {
	return d.Format("01/02/2006"), nil
}

type row struct {
	Date       DateUS `csv:"date"`
	SleepStart int    `csv:"sleep_start"`
	TotalSleep int    `csv:"total_sleep"`
	SleepEnd   int    `csv:"sleep_end"`
}

// Load reads the self-reported sleep CSV. Rows whose date is in the
// exclusion set are dropped at load time, before any merging. Input order
// is preserved.
func Load(path string, exclude sleep.ExcludeSet) ([]sleep.SelfReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening anecdotal data: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only

	var rows []row
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parsing anecdotal data: %w", err)
	}

	reports := make([]sleep.SelfReport, 0, len(rows))
	for _, r := range rows {
		day := r.Date.Format("2006-01-02")
		if exclude.Contains(day) {
			continue
		}
		reports = append(reports, sleep.SelfReport{
			Day:               day,
			SleepStartMinutes: r.SleepStart,
			TotalSleepMinutes: r.TotalSleep,
			SleepEndMinutes:   r.SleepEnd,
		})
	}
	return reports, nil
}
