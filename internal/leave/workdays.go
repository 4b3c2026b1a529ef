package leave

import "time"

// WorkingDays counts the calendar days in the inclusive [start, end] range
// that are not Saturday or Sunday. A weekend-only range yields 0, which the
// apply path rejects as an invalid date range.
func WorkingDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
