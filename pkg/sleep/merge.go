package sleep

// VendorErrors holds the derived error fields for one vendor on one day.
// Signed errors are vendor minus anecdotal: positive means the vendor
// overestimated.
type VendorErrors struct {
	SleepStartAbs    int
	SleepStartSigned int
	TotalSleepAbs    int
	TotalSleepSigned int
	SleepEndAbs      int
	SleepEndSigned   int
}

// ComparisonRow is one merged day: the anecdotal report, both vendors'
// sessions, and the per-vendor error fields filled in by ComputeErrors.
type ComparisonRow struct {
	Day            string
	Reported       SelfReport
	Oura           Session
	Ultrahuman     Session
	OuraErrors     VendorErrors
	UltrahumanErrs VendorErrors
}

// Merge left-outer-joins the two vendor series onto the anecdotal series by
// calendar day. A day the anecdotal series has but a vendor lacks still
// produces a row; the missing vendor side is a zero-valued Session. This
// deliberately conflates "vendor has no data" with "vendor measured zero
// minutes" in everything downstream, matching how the comparison has always
// been computed. Days only a vendor has are dropped.
func Merge(reports []SelfReport, oura, ultrahuman []Session) []ComparisonRow {
	ouraByDay := indexByDay(oura)
	uhByDay := indexByDay(ultrahuman)

	rows := make([]ComparisonRow, 0, len(reports))
	for _, r := range reports {
		row := ComparisonRow{Day: r.Day, Reported: r}
		if s, ok := ouraByDay[r.Day]; ok {
			row.Oura = s
		} else {
			row.Oura = Session{Day: r.Day}
		}
		if s, ok := uhByDay[r.Day]; ok {
			row.Ultrahuman = s
		} else {
			row.Ultrahuman = Session{Day: r.Day}
		}
		rows = append(rows, row)
	}
	return rows
}

func indexByDay(sessions []Session) map[string]Session {
	m := make(map[string]Session, len(sessions))
	for _, s := range sessions {
		m[s.Day] = s
	}
	return m
}

// ComputeErrors fills in the error fields of every row in place.
func ComputeErrors(rows []ComparisonRow) {
	for i := range rows {
		rows[i].OuraErrors = errorsAgainst(rows[i].Reported, rows[i].Oura)
		rows[i].UltrahumanErrs = errorsAgainst(rows[i].Reported, rows[i].Ultrahuman)
	}
}

func errorsAgainst(truth SelfReport, s Session) VendorErrors {
	start := s.SleepStartMinutes - truth.SleepStartMinutes
	total := s.TotalMinutes - truth.TotalSleepMinutes
	end := s.SleepEndMinutes - truth.SleepEndMinutes
	return VendorErrors{
		SleepStartAbs:    abs(start),
		SleepStartSigned: start,
		TotalSleepAbs:    abs(total),
		TotalSleepSigned: total,
		SleepEndAbs:      abs(end),
		SleepEndSigned:   end,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MeanErrors holds the average signed error per metric for one vendor.
type MeanErrors struct {
	Vendor     string
	SleepStart float64
	TotalSleep float64
	SleepEnd   float64
}

// Means averages the signed errors over all rows, one summary per vendor.
func Means(rows []ComparisonRow) []MeanErrors {
	if len(rows) == 0 {
		return nil
	}
	n := float64(len(rows))
	oura := MeanErrors{Vendor: "Oura"}
	uh := MeanErrors{Vendor: "Ultrahuman"}
	for _, r := range rows {
		oura.SleepStart += float64(r.OuraErrors.SleepStartSigned)
		oura.TotalSleep += float64(r.OuraErrors.TotalSleepSigned)
		oura.SleepEnd += float64(r.OuraErrors.SleepEndSigned)
		uh.SleepStart += float64(r.UltrahumanErrs.SleepStartSigned)
		uh.TotalSleep += float64(r.UltrahumanErrs.TotalSleepSigned)
		uh.SleepEnd += float64(r.UltrahumanErrs.SleepEndSigned)
	}
	oura.SleepStart /= n
	oura.TotalSleep /= n
	oura.SleepEnd /= n
	uh.SleepStart /= n
	uh.TotalSleep /= n
	uh.SleepEnd /= n
	return []MeanErrors{oura, uh}
}
