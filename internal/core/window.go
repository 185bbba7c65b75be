package core

import (
	"time"
)

const (
	secondsPerDay = 24 * 60 * 60

	// MaxCustomBucketDays bounds the per-day series of an explicit range.
	MaxCustomBucketDays = 30
)

// Window is a half-open [Start, End) interval of whole UTC days.
type Window struct {
	Start  time.Time
	End    time.Time
	Custom bool
}

// DayBucket holds the per-day totals of a window. TotalCents mirrors
// ExpenseCents for chart consumers that only read one series.
type DayBucket struct {
	Day          string `json:"day"`
	Label        string `json:"label"`
	TotalCents   int64  `json:"total_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	IncomeCents  int64  `json:"income_cents"`
}

// DayTotals is the sparse per-day result of a store query, keyed by YYYY-MM-DD.
type DayTotals struct {
	Day          string
	ExpenseCents int64
	IncomeCents  int64
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// WeekWindow starts at the most recent weekStart weekday (ISO, 1=Mon) at or
// before now and spans seven days.
func WeekWindow(now time.Time, weekStart int) Window {
	if weekStart < 1 || weekStart > 7 {
		weekStart = DefaultWeekStart
	}
	today := startOfDay(now)
	back := (isoWeekday(today) - weekStart + 7) % 7
	start := today.AddDate(0, 0, -back)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthWindow covers the calendar month containing now.
func MonthWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// CustomWindow turns an inclusive pair of calendar days into a window.
func CustomWindow(start, end Date) (Window, error) {
	if err := start.Validate(); err != nil {
		return Window{}, invalid("startDate", err)
	}
	if err := end.Validate(); err != nil {
		return Window{}, invalid("endDate", err)
	}
	s, e := startOfDay(start.Time), startOfDay(end.Time)
	if e.Before(s) {
		return Window{}, invalid("endDate", ErrInvalidRange)
	}
	return Window{Start: s, End: e.AddDate(0, 0, 1), Custom: true}, nil
}

// ParseCustomWindow reads optional startDate/endDate query values. Both
// empty yields ok=false; exactly one given is a validation error.
func ParseCustomWindow(startDate, endDate string) (Window, bool, error) {
	if startDate == "" && endDate == "" {
		return Window{}, false, nil
	}
	if startDate == "" {
		return Window{}, false, invalid("startDate", ErrInvalidRange)
	}
	if endDate == "" {
		return Window{}, false, invalid("endDate", ErrInvalidRange)
	}
	s, err := ParseDate(startDate)
	if err != nil {
		return Window{}, false, invalid("startDate", err)
	}
	e, err := ParseDate(endDate)
	if err != nil {
		return Window{}, false, invalid("endDate", err)
	}
	w, err := CustomWindow(s, e)
	if err != nil {
		return Window{}, false, err
	}
	return w, true, nil
}

// Days is the window length in whole days, rounded up.
func (w Window) Days() int {
	return ceilDays(w.Start, w.End)
}

// BucketDays is the number of day buckets the window produces.
func (w Window) BucketDays() int {
	n := w.Days()
	if w.Custom && n > MaxCustomBucketDays {
		return MaxCustomBucketDays
	}
	return n
}

// DaysElapsed counts started days since the window opened, clamped to
// [1, Days()].
func (w Window) DaysElapsed(now time.Time) int {
	total := w.Days()
	n := ceilDays(w.Start, now)
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DenseDays expands sparse per-day totals into one bucket per window day.
func (w Window) DenseDays(sparse []DayTotals) []DayBucket {
	byDay := make(map[string]DayTotals, len(sparse))
	for _, d := range sparse {
		byDay[d.Day] = d
	}
	n := w.BucketDays()
	out := make([]DayBucket, 0, n)
	for i := 0; i < n; i++ {
		d := w.Start.AddDate(0, 0, i)
		if !d.Before(w.End) {
			break
		}
		key := d.Format(time.DateOnly)
		totals := byDay[key]
		out = append(out, DayBucket{
			Day:          key,
			Label:        d.Weekday().String()[:3],
			TotalCents:   totals.ExpenseCents,
			ExpenseCents: totals.ExpenseCents,
			IncomeCents:  totals.IncomeCents,
		})
	}
	return out
}

// ceilDays counts the days from a to b, rounded up. It works on Unix
// seconds because time.Duration saturates after about 292 years.
func ceilDays(a, b time.Time) int {
	secs := b.Unix() - a.Unix()
	nanos := b.Nanosecond() - a.Nanosecond()
	if secs < 0 || (secs == 0 && nanos <= 0) {
		return 0
	}
	n := secs / secondsPerDay
	if rem := secs % secondsPerDay; rem > 0 || nanos > 0 {
		n++
	}
	return int(n)
}
