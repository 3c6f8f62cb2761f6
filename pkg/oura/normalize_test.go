package oura

import (
	"testing"

	"github.com/driftwatch/sleepdrift/pkg/sleep"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		ts   string
		want int
	}{
		{"2024-06-21T00:00:00+00:00", 0},
		{"2024-06-21T07:30:00+00:00", 450},   // morning stays positive
		{"2024-06-20T23:00:00+00:00", -60},   // pre-midnight goes negative
		{"2024-06-20T22:45:00-07:00", -75},   // wall clock, offset ignored
		{"2024-06-21T11:59:00+00:00", 719},   // last pre-noon minute
		{"2024-06-21T12:00:00+00:00", -720},  // noon rolls to the night timeline
	}
	for _, tt := range tests {
		got, err := clockMinutes(tt.ts)
		if err != nil {
			t.Errorf("clockMinutes(%q): %v", tt.ts, err)
			continue
		}
		if got != tt.want {
			t.Errorf("clockMinutes(%q) = %d, want %d", tt.ts, got, tt.want)
		}
	}
}

func TestNormalizeTrimsAwakeEdges(t *testing.T) {
	rec := SleepRecord{
		Day:            "2024-06-21",
		BedtimeStart:   "2024-06-21T00:00:00+00:00",
		BedtimeEnd:     "2024-06-21T00:25:00+00:00",
		SleepPhase5Min: "44004",
	}

	s, err := Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.SleepStartMinutes != 10 {
		t.Errorf("sleep start = %d, want 10", s.SleepStartMinutes)
	}
	if s.SleepEndMinutes != 20 {
		t.Errorf("sleep end = %d, want 20", s.SleepEndMinutes)
	}
	if s.AwakeMinutes != 0 {
		t.Errorf("awake in trimmed window = %d, want 0", s.AwakeMinutes)
	}
}

func TestNormalizeAllAwakeCollapsesWindow(t *testing.T) {
	rec := SleepRecord{
		Day:            "2024-06-21",
		BedtimeStart:   "2024-06-20T23:00:00+00:00",
		BedtimeEnd:     "2024-06-20T23:30:00+00:00",
		SleepPhase5Min: "444444",
	}

	s, err := Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.SleepStartMinutes != s.BedtimeStartMinutes || s.SleepEndMinutes != s.BedtimeStartMinutes {
		t.Errorf("all-awake night should collapse to bedtime start, got start=%d end=%d bed=%d",
			s.SleepStartMinutes, s.SleepEndMinutes, s.BedtimeStartMinutes)
	}
	if s.TotalMinutes != 0 {
		t.Errorf("all-awake night should have zero total sleep, got %d", s.TotalMinutes)
	}
	if s.AwakeMinutes != 0 {
		t.Errorf("empty sleep window holds no awake time, got %d", s.AwakeMinutes)
	}
}

func TestNormalizeEmptyPhaseSequence(t *testing.T) {
	rec := SleepRecord{
		Day:          "2024-06-21",
		BedtimeStart: "2024-06-20T23:00:00+00:00",
		BedtimeEnd:   "2024-06-21T07:00:00+00:00",
	}

	s, err := Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.SleepStartMinutes != -60 || s.SleepEndMinutes != -60 {
		t.Errorf("empty sequence should collapse to bedtime start, got start=%d end=%d",
			s.SleepStartMinutes, s.SleepEndMinutes)
	}
}

func TestNormalizeAwakeInsideWindow(t *testing.T) {
	// Awake buckets between asleep buckets count; trimmed edges do not.
	rec := SleepRecord{
		Day:            "2024-06-21",
		BedtimeStart:   "2024-06-21T00:00:00+00:00",
		BedtimeEnd:     "2024-06-21T00:40:00+00:00",
		SleepPhase5Min: "42144344",
	}

	s, err := Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.SleepStartMinutes != 5 {
		t.Errorf("sleep start = %d, want 5", s.SleepStartMinutes)
	}
	if s.SleepEndMinutes != 30 {
		t.Errorf("sleep end = %d, want 30", s.SleepEndMinutes)
	}
	if s.AwakeMinutes != 10 {
		t.Errorf("awake in window = %d, want 10", s.AwakeMinutes)
	}
}

func TestNormalizeAwakeResidual(t *testing.T) {
	rec := SleepRecord{
		Day:            "2024-06-21",
		BedtimeStart:   "2024-06-21T00:00:00+00:00",
		BedtimeEnd:     "2024-06-21T00:25:00+00:00",
		SleepPhase5Min: "44004",
		AwakeTime:      18 * 60, // vendor says 18 awake minutes total
	}

	s, err := Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	// Trimmed edges are 10 + 5 minutes; the residual is what remains.
	if s.AwakeResidualMinutes != 3 {
		t.Errorf("residual awake = %d, want 3", s.AwakeResidualMinutes)
	}
}

func TestNormalizeAwakeResidualClampedAtZero(t *testing.T) {
	rec := SleepRecord{
		Day:            "2024-06-21",
		BedtimeStart:   "2024-06-21T00:00:00+00:00",
		BedtimeEnd:     "2024-06-21T00:25:00+00:00",
		SleepPhase5Min: "44004",
		AwakeTime:      5 * 60, // less than the trimmed edges
	}

	s, err := Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.AwakeResidualMinutes != 0 {
		t.Errorf("residual awake = %d, want 0", s.AwakeResidualMinutes)
	}
}

func TestNormalizeStageDurations(t *testing.T) {
	rec := SleepRecord{
		Day:                "2024-06-21",
		BedtimeStart:       "2024-06-20T23:00:00+00:00",
		BedtimeEnd:         "2024-06-21T07:00:00+00:00",
		SleepPhase5Min:     "1231",
		DeepSleepDuration:  5400,  // 90 min
		LightSleepDuration: 14459, // 240 min with 59s truncated
		REMSleepDuration:   7200,  // 120 min
	}

	s, err := Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.DeepMinutes != 90 || s.LightMinutes != 240 || s.REMMinutes != 120 {
		t.Errorf("stage minutes = %d/%d/%d, want 90/240/120", s.DeepMinutes, s.LightMinutes, s.REMMinutes)
	}
	// Total divides the summed seconds, so the truncated 59s count once.
	if s.TotalMinutes != (5400+14459+7200)/60 {
		t.Errorf("total minutes = %d, want %d", s.TotalMinutes, (5400+14459+7200)/60)
	}
}

func TestSessionsExcludesDaysBeforeNormalization(t *testing.T) {
	records := []SleepRecord{
		{Day: "2024-06-21", BedtimeStart: "2024-06-20T23:00:00+00:00", BedtimeEnd: "2024-06-21T07:00:00+00:00", SleepPhase5Min: "111"},
		{Day: "2024-06-22", BedtimeStart: "2024-06-21T23:00:00+00:00", BedtimeEnd: "2024-06-22T07:00:00+00:00", SleepPhase5Min: "111"},
	}
	exclude := sleep.NewExcludeSet("2024-06-21")

	sessions, err := Sessions(records, exclude)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Day != "2024-06-22" {
		t.Errorf("excluded day leaked into output: %+v", sessions)
	}
}

func TestSessionsReconcilesMultipleBouts(t *testing.T) {
	records := []SleepRecord{
		{
			Day:               "2024-06-21",
			BedtimeStart:      "2024-06-21T13:00:00+00:00",
			BedtimeEnd:        "2024-06-21T14:00:00+00:00",
			SleepPhase5Min:    "111111111111",
			LightSleepDuration: 3600,
		},
		{
			Day:               "2024-06-21",
			BedtimeStart:      "2024-06-20T23:00:00+00:00",
			BedtimeEnd:        "2024-06-21T07:00:00+00:00",
			SleepPhase5Min:    "1111",
			DeepSleepDuration: 6000,
			LightSleepDuration: 12000,
			REMSleepDuration:  6000,
		},
	}

	sessions, err := Sessions(records, nil)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one session after reconciliation, got %d", len(sessions))
	}
	if sessions[0].TotalMinutes != 400 {
		t.Errorf("expected the overnight session (400 min) to win, got %d", sessions[0].TotalMinutes)
	}
}
