package ultrahuman

import (
	"time"

	"github.com/driftwatch/sleepdrift/pkg/sleep"
)

// minutesSince is t minus ref in whole minutes, rounded toward negative
// infinity so a bedtime a few seconds before midnight still lands in the
// previous minute. Values may be negative or exceed 24h; there is no
// wraparound.
func minutesSince(t, ref time.Time) int {
	d := t.Sub(ref)
	m := d / time.Minute
	if d%time.Minute < 0 {
		m--
	}
	return int(m)
}

// Normalize converts one raw record into a canonical session. The session
// is keyed by the date of bedtime end, and all minute offsets are measured
// from midnight of that date.
func Normalize(rec SleepRecord) sleep.Session {
	bedEnd := time.Unix(rec.BedtimeEnd, 0)
	bedStart := time.Unix(rec.BedtimeStart, 0)
	ref := time.Date(bedEnd.Year(), bedEnd.Month(), bedEnd.Day(), 0, 0, 0, 0, bedEnd.Location())

	s := sleep.Session{
		Day:                 bedEnd.Format("2006-01-02"),
		BedtimeStartMinutes: minutesSince(bedStart, ref),
		BedtimeEndMinutes:   minutesSince(bedEnd, ref),
		DeepMinutes:         int(stageSeconds(rec.SleepStages, stageDeep) / 60),
		LightMinutes:        int(stageSeconds(rec.SleepStages, stageLight) / 60),
		REMMinutes:          int(stageSeconds(rec.SleepStages, stageREM) / 60),
	}

	// Total sleep comes from the stage summary, independent of the segment
	// scan below.
	var totalSecs int64
	for _, stage := range rec.SleepStages {
		if stage.Type != stageAwake {
			totalSecs += stage.StageTime
		}
	}
	s.TotalMinutes = int(totalSecs / 60)

	// The sleep window spans the earliest and latest non-awake graph
	// segments. A night with no asleep segments falls back to the bedtime
	// window with no awake time inside it.
	var firstAsleep, lastAsleep int64
	found := false
	for _, seg := range rec.SleepGraph.Data {
		if seg.Type == stageAwake {
			continue
		}
		if !found || seg.Start < firstAsleep {
			firstAsleep = seg.Start
		}
		if !found || seg.End > lastAsleep {
			lastAsleep = seg.End
		}
		found = true
	}

	if !found {
		s.SleepStartMinutes = s.BedtimeStartMinutes
		s.SleepEndMinutes = s.BedtimeEndMinutes
		return s
	}

	s.SleepStartMinutes = minutesSince(time.Unix(firstAsleep, 0), ref)
	s.SleepEndMinutes = minutesSince(time.Unix(lastAsleep, 0), ref)

	// Awake time inside the window counts only awake segments that begin
	// within it.
	var awakeSecs int64
	for _, seg := range rec.SleepGraph.Data {
		if seg.Type == stageAwake && seg.Start >= firstAsleep && seg.Start < lastAsleep {
			awakeSecs += seg.End - seg.Start
		}
	}
	s.AwakeMinutes = int(awakeSecs / 60)
	return s
}

func stageSeconds(stages []Stage, typ string) int64 {
	for _, stage := range stages {
		if stage.Type == typ {
			return stage.StageTime
		}
	}
	return 0
}

// Sessions normalizes every record and reconciles to one session per day
// by stage-summary total sleep. Excluded days are dropped.
func Sessions(records []SleepRecord, exclude sleep.ExcludeSet) []sleep.Session {
	sessions := make([]sleep.Session, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, Normalize(rec))
	}
	return sleep.ReconcileByDay(sessions, exclude)
}
