// Package sleep holds the canonical sleep-session model and the pure
// pipeline logic shared by every vendor: per-day reconciliation, merging
// against self-reported data, and error computation.
package sleep

// Session is one night of sleep for one vendor, normalized to minute
// offsets from the reference midnight of its calendar day. Offsets may be
// negative (bedtime before midnight) or exceed 24h; keeping them on a
// continuous timeline lets onset times that cross midnight be compared
// arithmetically.
type Session struct {
	// Day is the calendar day key in YYYY-MM-DD form. Which night maps to
	// which day is a vendor convention: Oura reports the wake-up date,
	// Ultrahuman sessions are keyed by the date of bedtime end.
	Day string

	BedtimeStartMinutes int
	BedtimeEndMinutes   int

	// SleepStartMinutes and SleepEndMinutes bound the trimmed sub-window
	// actually classified as asleep. For a session with no asleep samples
	// both equal BedtimeStartMinutes and TotalMinutes is zero.
	SleepStartMinutes int
	SleepEndMinutes   int

	DeepMinutes  int
	LightMinutes int
	REMMinutes   int

	// AwakeMinutes counts awake time inside the trimmed sleep window.
	AwakeMinutes int

	// AwakeResidualMinutes is the phase-code vendor's second awake figure:
	// its reported total awake time minus the trimmed edges, clamped at
	// zero. The two figures are kept side by side rather than reconciled;
	// it stays zero for vendors that report awake time only one way.
	AwakeResidualMinutes int

	// TotalMinutes is deep+light+rem; awake time is excluded.
	TotalMinutes int
}

// SelfReport is one day of anecdotal ground truth, in the same
// minutes-from-midnight frame the vendor sessions use.
type SelfReport struct {
	Day               string
	SleepStartMinutes int
	TotalSleepMinutes int
	SleepEndMinutes   int
}

// ExcludeSet is the set of calendar days (YYYY-MM-DD) dropped from every
// series before any reconciliation or merging.
type ExcludeSet map[string]struct{}

// NewExcludeSet builds an ExcludeSet from day strings.
func NewExcludeSet(days ...string) ExcludeSet {
	s := make(ExcludeSet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

// Contains reports whether day is excluded. A nil set excludes nothing.
func (s ExcludeSet) Contains(day string) bool {
	_, ok := s[day]
	return ok
}
