package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/driftwatch/sleepdrift/pkg/sleep"
)

// comparisonCSVRow flattens one merged day for export.
type comparisonCSVRow struct {
	Day string `csv:"day"`

	ReportedSleepStart int `csv:"reported_sleep_start"`
	ReportedTotalSleep int `csv:"reported_total_sleep"`
	ReportedSleepEnd   int `csv:"reported_sleep_end"`

	OuraBedtimeStart  int `csv:"oura_bedtime_start"`
	OuraBedtimeEnd    int `csv:"oura_bedtime_end"`
	OuraSleepStart    int `csv:"oura_sleep_start"`
	OuraSleepEnd      int `csv:"oura_sleep_end"`
	OuraDeep          int `csv:"oura_deep_sleep"`
	OuraLight         int `csv:"oura_light_sleep"`
	OuraREM           int `csv:"oura_rem_sleep"`
	OuraAwake         int `csv:"oura_awake"`
	OuraAwakeResidual int `csv:"oura_awake_residual"`
	OuraTotalSleep    int `csv:"oura_total_sleep"`

	UltrahumanBedtimeStart int `csv:"ultrahuman_bedtime_start"`
	UltrahumanBedtimeEnd   int `csv:"ultrahuman_bedtime_end"`
	UltrahumanSleepStart   int `csv:"ultrahuman_sleep_start"`
	UltrahumanSleepEnd     int `csv:"ultrahuman_sleep_end"`
	UltrahumanDeep         int `csv:"ultrahuman_deep_sleep"`
	UltrahumanLight        int `csv:"ultrahuman_light_sleep"`
	UltrahumanREM          int `csv:"ultrahuman_rem_sleep"`
	UltrahumanAwake        int `csv:"ultrahuman_awake"`
	UltrahumanTotalSleep   int `csv:"ultrahuman_total_sleep"`

	OuraSleepStartErrAbs       int `csv:"oura_sleep_start_error_abs"`
	OuraSleepStartErr          int `csv:"oura_sleep_start_error"`
	OuraTotalSleepErrAbs       int `csv:"oura_total_sleep_error_abs"`
	OuraTotalSleepErr          int `csv:"oura_total_sleep_error"`
	OuraSleepEndErrAbs         int `csv:"oura_sleep_end_error_abs"`
	OuraSleepEndErr            int `csv:"oura_sleep_end_error"`
	UltrahumanSleepStartErrAbs int `csv:"ultrahuman_sleep_start_error_abs"`
	UltrahumanSleepStartErr    int `csv:"ultrahuman_sleep_start_error"`
	UltrahumanTotalSleepErrAbs int `csv:"ultrahuman_total_sleep_error_abs"`
	UltrahumanTotalSleepErr    int `csv:"ultrahuman_total_sleep_error"`
	UltrahumanSleepEndErrAbs   int `csv:"ultrahuman_sleep_end_error_abs"`
	UltrahumanSleepEndErr      int `csv:"ultrahuman_sleep_end_error"`
}

// WriteComparisonCSV writes one flattened row per merged day.
func WriteComparisonCSV(path string, rows []sleep.ComparisonRow) error {
	out := make([]comparisonCSVRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, comparisonCSVRow{
			Day:                r.Day,
			ReportedSleepStart: r.Reported.SleepStartMinutes,
			ReportedTotalSleep: r.Reported.TotalSleepMinutes,
			ReportedSleepEnd:   r.Reported.SleepEndMinutes,

			OuraBedtimeStart:  r.Oura.BedtimeStartMinutes,
			OuraBedtimeEnd:    r.Oura.BedtimeEndMinutes,
			OuraSleepStart:    r.Oura.SleepStartMinutes,
			OuraSleepEnd:      r.Oura.SleepEndMinutes,
			OuraDeep:          r.Oura.DeepMinutes,
			OuraLight:         r.Oura.LightMinutes,
			OuraREM:           r.Oura.REMMinutes,
			OuraAwake:         r.Oura.AwakeMinutes,
			OuraAwakeResidual: r.Oura.AwakeResidualMinutes,
			OuraTotalSleep:    r.Oura.TotalMinutes,

			UltrahumanBedtimeStart: r.Ultrahuman.BedtimeStartMinutes,
			UltrahumanBedtimeEnd:   r.Ultrahuman.BedtimeEndMinutes,
			UltrahumanSleepStart:   r.Ultrahuman.SleepStartMinutes,
			UltrahumanSleepEnd:     r.Ultrahuman.SleepEndMinutes,
			UltrahumanDeep:         r.Ultrahuman.DeepMinutes,
			UltrahumanLight:        r.Ultrahuman.LightMinutes,
			UltrahumanREM:          r.Ultrahuman.REMMinutes,
			UltrahumanAwake:        r.Ultrahuman.AwakeMinutes,
			UltrahumanTotalSleep:   r.Ultrahuman.TotalMinutes,

			OuraSleepStartErrAbs:       r.OuraErrors.SleepStartAbs,
			OuraSleepStartErr:          r.OuraErrors.SleepStartSigned,
			OuraTotalSleepErrAbs:       r.OuraErrors.TotalSleepAbs,
			OuraTotalSleepErr:          r.OuraErrors.TotalSleepSigned,
			OuraSleepEndErrAbs:         r.OuraErrors.SleepEndAbs,
			OuraSleepEndErr:            r.OuraErrors.SleepEndSigned,
			UltrahumanSleepStartErrAbs: r.UltrahumanErrs.SleepStartAbs,
			UltrahumanSleepStartErr:    r.UltrahumanErrs.SleepStartSigned,
			UltrahumanTotalSleepErrAbs: r.UltrahumanErrs.TotalSleepAbs,
			UltrahumanTotalSleepErr:    r.UltrahumanErrs.TotalSleepSigned,
			UltrahumanSleepEndErrAbs:   r.UltrahumanErrs.SleepEndAbs,
			UltrahumanSleepEndErr:      r.UltrahumanErrs.SleepEndSigned,
		})
	}
	return writeCSVFile(path, &out)
}

// sessionCSVRow mirrors the per-vendor export of a reconciled series.
type sessionCSVRow struct {
	Day           string `csv:"day"`
	BedtimeStart  int    `csv:"bedtime_start"`
	BedtimeEnd    int    `csv:"bedtime_end"`
	SleepStart    int    `csv:"sleep_start"`
	SleepEnd      int    `csv:"sleep_end"`
	Deep          int    `csv:"deep_sleep"`
	Light         int    `csv:"light_sleep"`
	REM           int    `csv:"rem_sleep"`
	Awake         int    `csv:"awake"`
	AwakeResidual int    `csv:"awake_residual"`
	TotalSleep    int    `csv:"total_sleep"`
}

// WriteSessionsCSV writes one vendor's reconciled sessions.
func WriteSessionsCSV(path string, sessions []sleep.Session) error {
	out := make([]sessionCSVRow, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionCSVRow{
			Day:           s.Day,
			BedtimeStart:  s.BedtimeStartMinutes,
			BedtimeEnd:    s.BedtimeEndMinutes,
			SleepStart:    s.SleepStartMinutes,
			SleepEnd:      s.SleepEndMinutes,
			Deep:          s.DeepMinutes,
			Light:         s.LightMinutes,
			REM:           s.REMMinutes,
			Awake:         s.AwakeMinutes,
			AwakeResidual: s.AwakeResidualMinutes,
			TotalSleep:    s.TotalMinutes,
		})
	}
	return writeCSVFile(path, &out)
}

func writeCSVFile(path string, rows any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := gocsv.MarshalFile(rows, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
