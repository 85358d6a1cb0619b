package clients

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout        = "2006-01-02"
	DefaultWindowDays = 7
)

var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

// Window is an inclusive range of calendar days in a fixed location.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window from already parsed dates. A zero start means
// today in loc, a zero end means start plus days.
func NewWindow(start, end, now time.Time, days int, loc *time.Location) Window {
	if start.IsZero() {
		start = now
	}
	start = truncateDay(start, loc)

	if end.IsZero() {
		end = start.AddDate(0, 0, days)
	}
	end = truncateDay(end, loc)

	return Window{Start: start, End: end}
}

// ParseWindow is NewWindow for YYYY-MM-DD strings. Empty strings take the defaults.
func ParseWindow(start, end string, now time.Time, days int, loc *time.Location) (Window, error) {
	startDate, err := parseDate(start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("start date %q: %w", start, err)
	}
	endDate, err := parseDate(end, loc)
	if err != nil {
		return Window{}, fmt.Errorf("end date %q: %w", end, err)
	}
	return NewWindow(startDate, endDate, now, days, loc), nil
}

// Bounds returns the full-timestamp range covered by the window: midnight of
// the first day through the last microsecond of the final day.
func (w Window) Bounds() (from, to time.Time) {
	return w.Start, w.End.AddDate(0, 0, 1).Add(-time.Microsecond)
}

func (w Window) StartString() string { return w.Start.Format(DateLayout) }
func (w Window) EndString() string   { return w.End.Format(DateLayout) }

func (w Window) String() string {
	return w.StartString() + " - " + w.EndString()
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

func truncateDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
