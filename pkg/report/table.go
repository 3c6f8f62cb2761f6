package report

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/driftwatch/sleepdrift/pkg/sleep"
)

// SessionsTable renders one vendor's reconciled sessions as a terminal
// grid, all values in minutes.
func SessionsTable(w io.Writer, sessions []sleep.Session) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{
		"Day", "Bedtime Start", "Bedtime End", "Sleep Start", "Sleep End",
		"Deep", "Light", "REM", "Awake", "Awake (Residual)", "Total",
	})
	for _, s := range sessions {
		table.Append([]string{
			s.Day,
			minutes(s.BedtimeStartMinutes),
			minutes(s.BedtimeEndMinutes),
			minutes(s.SleepStartMinutes),
			minutes(s.SleepEndMinutes),
			minutes(s.DeepMinutes),
			minutes(s.LightMinutes),
			minutes(s.REMMinutes),
			minutes(s.AwakeMinutes),
			minutes(s.AwakeResidualMinutes),
			minutes(s.TotalMinutes),
		})
	}
	table.Render()
}

// MeansTable renders the average signed error per vendor and metric.
// Positive means the vendor overestimates.
func MeansTable(w io.Writer, means []sleep.MeanErrors) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Vendor", "Sleep Start", "Total Sleep", "Sleep End"})
	for _, m := range means {
		table.Append([]string{
			m.Vendor,
			strconv.FormatFloat(m.SleepStart, 'f', 1, 64) + " min",
			strconv.FormatFloat(m.TotalSleep, 'f', 1, 64) + " min",
			strconv.FormatFloat(m.SleepEnd, 'f', 1, 64) + " min",
		})
	}
	table.Render()
}

func minutes(v int) string {
	return strconv.Itoa(v) + " min"
}
