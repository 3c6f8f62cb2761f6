package sleep

import "testing"

func TestMergeZeroFillsMissingVendorDays(t *testing.T) {
	reports := []SelfReport{
		{Day: "2024-06-21", SleepStartMinutes: -30, TotalSleepMinutes: 420, SleepEndMinutes: 430},
		{Day: "2024-06-22", SleepStartMinutes: 0, TotalSleepMinutes: 400, SleepEndMinutes: 410},
	}
	oura := []Session{
		{Day: "2024-06-21", SleepStartMinutes: -20, TotalMinutes: 410, SleepEndMinutes: 425},
	}

	rows := Merge(reports, oura, nil)
	if len(rows) != 2 {
		t.Fatalf("expected a row per anecdotal day, got %d", len(rows))
	}

	// Day present only in the anecdotal series: vendor fields are zero, not
	// a missing row.
	r := rows[1]
	if r.Oura.TotalMinutes != 0 || r.Oura.SleepStartMinutes != 0 {
		t.Errorf("missing Oura day should zero-fill, got %+v", r.Oura)
	}
	if r.Ultrahuman.TotalMinutes != 0 {
		t.Errorf("missing Ultrahuman day should zero-fill, got %+v", r.Ultrahuman)
	}
	if r.Oura.Day != "2024-06-22" {
		t.Errorf("zero-filled session should still carry the day key, got %q", r.Oura.Day)
	}
}

func TestMergeDropsVendorOnlyDays(t *testing.T) {
	reports := []SelfReport{{Day: "2024-06-21"}}
	oura := []Session{
		{Day: "2024-06-21", TotalMinutes: 400},
		{Day: "2024-06-25", TotalMinutes: 500},
	}

	rows := Merge(reports, oura, nil)
	if len(rows) != 1 {
		t.Fatalf("anecdotal series drives the join, got %d rows", len(rows))
	}
}

func TestComputeErrorsSignConvention(t *testing.T) {
	rows := []ComparisonRow{{
		Day:        "2024-06-21",
		Reported:   SelfReport{Day: "2024-06-21", SleepStartMinutes: 100, TotalSleepMinutes: 400, SleepEndMinutes: 500},
		Oura:       Session{Day: "2024-06-21", SleepStartMinutes: 115, TotalMinutes: 385, SleepEndMinutes: 500},
		Ultrahuman: Session{Day: "2024-06-21", SleepStartMinutes: 85, TotalMinutes: 415, SleepEndMinutes: 470},
	}}

	ComputeErrors(rows)

	oe := rows[0].OuraErrors
	if oe.SleepStartSigned != 15 || oe.SleepStartAbs != 15 {
		t.Errorf("vendor 15 over: signed=%d abs=%d", oe.SleepStartSigned, oe.SleepStartAbs)
	}
	if oe.TotalSleepSigned != -15 || oe.TotalSleepAbs != 15 {
		t.Errorf("vendor 15 under: signed=%d abs=%d", oe.TotalSleepSigned, oe.TotalSleepAbs)
	}
	if oe.SleepEndSigned != 0 || oe.SleepEndAbs != 0 {
		t.Errorf("exact match should be zero error: signed=%d abs=%d", oe.SleepEndSigned, oe.SleepEndAbs)
	}

	ue := rows[0].UltrahumanErrs
	if ue.SleepStartSigned != -15 || ue.TotalSleepSigned != 15 || ue.SleepEndSigned != -30 {
		t.Errorf("unexpected ultrahuman signed errors: %+v", ue)
	}
}

func TestMeansAveragesSignedErrors(t *testing.T) {
	rows := []ComparisonRow{
		{OuraErrors: VendorErrors{SleepStartSigned: 10, TotalSleepSigned: -20, SleepEndSigned: 0}},
		{OuraErrors: VendorErrors{SleepStartSigned: 20, TotalSleepSigned: -40, SleepEndSigned: 10}},
	}

	means := Means(rows)
	if len(means) != 2 {
		t.Fatalf("expected summaries for both vendors, got %d", len(means))
	}
	if means[0].Vendor != "Oura" {
		t.Fatalf("expected Oura first, got %s", means[0].Vendor)
	}
	if means[0].SleepStart != 15 || means[0].TotalSleep != -30 || means[0].SleepEnd != 5 {
		t.Errorf("unexpected Oura means: %+v", means[0])
	}
	if means[1].SleepStart != 0 {
		t.Errorf("vendor with no data should average to zero, got %+v", means[1])
	}
}

func TestMeansEmptyInput(t *testing.T) {
	if got := Means(nil); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
}
