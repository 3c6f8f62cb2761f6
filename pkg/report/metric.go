// Package report renders the comparison outputs: chart files, CSV exports,
// and terminal tables. Nothing here transforms the numbers; every value is
// read straight off the merged rows.
package report

import "github.com/driftwatch/sleepdrift/pkg/sleep"

// Metric describes one of the three compared quantities and how to read it
// from a merged row.
type Metric struct {
	Key        string // file name fragment
	Title      string
	BinMinutes int // histogram bin width

	Reported   func(sleep.ComparisonRow) int
	Oura       func(sleep.ComparisonRow) int
	Ultrahuman func(sleep.ComparisonRow) int

	OuraAbs          func(sleep.ComparisonRow) int
	UltrahumanAbs    func(sleep.ComparisonRow) int
	OuraSigned       func(sleep.ComparisonRow) int
	UltrahumanSigned func(sleep.ComparisonRow) int
}

// Metrics lists the compared quantities in report order.
var Metrics = []Metric{
	{
		Key:              "sleep_start",
		Title:            "Sleep Start",
		BinMinutes:       5,
		Reported:         func(r sleep.ComparisonRow) int { return r.Reported.SleepStartMinutes },
		Oura:             func(r sleep.ComparisonRow) int { return r.Oura.SleepStartMinutes },
		Ultrahuman:       func(r sleep.ComparisonRow) int { return r.Ultrahuman.SleepStartMinutes },
		OuraAbs:          func(r sleep.ComparisonRow) int { return r.OuraErrors.SleepStartAbs },
		UltrahumanAbs:    func(r sleep.ComparisonRow) int { return r.UltrahumanErrs.SleepStartAbs },
		OuraSigned:       func(r sleep.ComparisonRow) int { return r.OuraErrors.SleepStartSigned },
		UltrahumanSigned: func(r sleep.ComparisonRow) int { return r.UltrahumanErrs.SleepStartSigned },
	},
	{
		Key:              "total_sleep",
		Title:            "Total Sleep",
		BinMinutes:       10,
		Reported:         func(r sleep.ComparisonRow) int { return r.Reported.TotalSleepMinutes },
		Oura:             func(r sleep.ComparisonRow) int { return r.Oura.TotalMinutes },
		Ultrahuman:       func(r sleep.ComparisonRow) int { return r.Ultrahuman.TotalMinutes },
		OuraAbs:          func(r sleep.ComparisonRow) int { return r.OuraErrors.TotalSleepAbs },
		UltrahumanAbs:    func(r sleep.ComparisonRow) int { return r.UltrahumanErrs.TotalSleepAbs },
		OuraSigned:       func(r sleep.ComparisonRow) int { return r.OuraErrors.TotalSleepSigned },
		UltrahumanSigned: func(r sleep.ComparisonRow) int { return r.UltrahumanErrs.TotalSleepSigned },
	},
	{
		Key:              "sleep_end",
		Title:            "Sleep End",
		BinMinutes:       5,
		Reported:         func(r sleep.ComparisonRow) int { return r.Reported.SleepEndMinutes },
		Oura:             func(r sleep.ComparisonRow) int { return r.Oura.SleepEndMinutes },
		Ultrahuman:       func(r sleep.ComparisonRow) int { return r.Ultrahuman.SleepEndMinutes },
		OuraAbs:          func(r sleep.ComparisonRow) int { return r.OuraErrors.SleepEndAbs },
		UltrahumanAbs:    func(r sleep.ComparisonRow) int { return r.UltrahumanErrs.SleepEndAbs },
		OuraSigned:       func(r sleep.ComparisonRow) int { return r.OuraErrors.SleepEndSigned },
		UltrahumanSigned: func(r sleep.ComparisonRow) int { return r.UltrahumanErrs.SleepEndSigned },
	},
}
