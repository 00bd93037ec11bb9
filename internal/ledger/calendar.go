package ledger

import "time"

// LastNTradingDays returns the last n trading days up to and including from
// (most recent first). Weekends are skipped; exchange holidays are not modelled.
func LastNTradingDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from)

	for len(out) < n {
		if isTradingDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isTradingDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// SellWindow builds a SELL eligibility predicate accepting dates that fall
// within the last n trading days as seen from now(). n <= 0 disables gating.
func SellWindow(n int, now func() time.Time) func(time.Time) bool {
	if n <= 0 {
		return func(time.Time) bool { return true }
	}
	if now == nil {
		now = time.Now
	}
	return func(d time.Time) bool {
		days := LastNTradingDays(n, now())
		oldest := days[len(days)-1]
		day := truncateToDate(d)
		return !day.Before(oldest) && !day.After(truncateToDate(now()))
	}
}
