package sleep

import "sort"

// ReconcileByDay collapses multiple sessions on the same calendar day down
// to one. A vendor can report several sleep bouts for a day (a nap, a split
// night); the session with the largest TotalMinutes wins. Ties keep the
// first session encountered, so input order matters and the selection is
// stable. Days in exclude are dropped before any comparison.
//
// The result is sorted by day.
func ReconcileByDay(sessions []Session, exclude ExcludeSet) []Session {
	byDay := make(map[string]Session, len(sessions))
	for _, s := range sessions {
		if exclude.Contains(s.Day) {
			continue
		}
		kept, ok := byDay[s.Day]
		if !ok || s.TotalMinutes > kept.TotalMinutes {
			byDay[s.Day] = s
		}
	}

	out := make([]Session, 0, len(byDay))
	for _, s := range byDay {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
