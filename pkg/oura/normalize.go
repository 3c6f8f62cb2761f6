package oura

import (
	"fmt"
	"time"

	"github.com/driftwatch/sleepdrift/pkg/sleep"
)

// Phase code meaning in sleep_phase_5_min: 1 deep, 2 light, 3 rem, 4 awake.
const awakePhase = '4'

const phaseBucketMinutes = 5

// clockMinutes converts a bedtime timestamp to minutes on the continuous
// night timeline. Hours past noon count down from midnight (23:00 becomes
// -60), hours before noon count up from it (07:30 becomes 450), so a night
// that crosses midnight stays monotonic.
func clockMinutes(ts string) (int, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return 0, fmt.Errorf("parsing bedtime timestamp %q: %w", ts, err)
	}
	minutes := t.Hour()*60 + t.Minute()
	if t.Hour() >= 12 {
		minutes -= 24 * 60
	}
	return minutes, nil
}

// Normalize converts one raw record into a canonical session. The sleep
// window is the phase sequence trimmed of leading and trailing awake
// buckets; a record that never leaves the awake phase collapses to a
// zero-length window at bedtime start.
func Normalize(rec SleepRecord) (sleep.Session, error) {
	bedStart, err := clockMinutes(rec.BedtimeStart)
	if err != nil {
		return sleep.Session{}, err
	}
	bedEnd, err := clockMinutes(rec.BedtimeEnd)
	if err != nil {
		return sleep.Session{}, err
	}

	phases := rec.SleepPhase5Min

	firstAsleep := -1
	for i := range len(phases) {
		if phases[i] != awakePhase {
			firstAsleep = i
			break
		}
	}
	lastAsleep := -1
	for i := len(phases) - 1; i >= 0; i-- {
		if phases[i] != awakePhase {
			lastAsleep = i
			break
		}
	}

	sleepStart := bedStart
	sleepEnd := bedStart
	awakeInWindow := 0
	if firstAsleep >= 0 {
		sleepStart = bedStart + firstAsleep*phaseBucketMinutes
		sleepEnd = bedStart + (lastAsleep+1)*phaseBucketMinutes
		for i := firstAsleep; i <= lastAsleep; i++ {
			if phases[i] == awakePhase {
				awakeInWindow += phaseBucketMinutes
			}
		}
	}

	// Second awake figure: the vendor's own total awake time minus the
	// trimmed edges. Kept alongside the phase count rather than reconciled
	// against it.
	trimmed := (sleepStart - bedStart) + (bedEnd - sleepEnd)
	residual := rec.AwakeTime/60 - trimmed
	if residual < 0 {
		residual = 0
	}

	return sleep.Session{
		Day:                  rec.Day,
		BedtimeStartMinutes:  bedStart,
		BedtimeEndMinutes:    bedEnd,
		SleepStartMinutes:    sleepStart,
		SleepEndMinutes:      sleepEnd,
		DeepMinutes:          rec.DeepSleepDuration / 60,
		LightMinutes:         rec.LightSleepDuration / 60,
		REMMinutes:           rec.REMSleepDuration / 60,
		AwakeMinutes:         awakeInWindow,
		AwakeResidualMinutes: residual,
		TotalMinutes:         (rec.DeepSleepDuration + rec.LightSleepDuration + rec.REMSleepDuration) / 60,
	}, nil
}

// Sessions normalizes every record and reconciles to one session per day.
// Excluded days never reach normalization.
func Sessions(records []SleepRecord, exclude sleep.ExcludeSet) ([]sleep.Session, error) {
	sessions := make([]sleep.Session, 0, len(records))
	for _, rec := range records {
		if exclude.Contains(rec.Day) {
			continue
		}
		s, err := Normalize(rec)
		if err != nil {
			return nil, fmt.Errorf("normalizing record for %s: %w", rec.Day, err)
		}
		sessions = append(sessions, s)
	}
	return sleep.ReconcileByDay(sessions, exclude), nil
}
