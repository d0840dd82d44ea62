// Package analytics turns task and activity rows into time-windowed
// statistics. Nothing in here touches the database; callers load the rows and
// pass them in.
package analytics

import (
	"errors"
	"math"
	"strings"
	"time"

	"task_analytics/internal/models"
)

const (
	isoLayout  = "2006-01-02T15:04:05.000Z"
	dateLayout = "2006-01-02"
)

var (
	ErrMissingDate    = errors.New("start date and end date are required")
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvertedWindow = errors.New("start date must be before end date")
)

// Window is an inclusive [Start, End] time range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WindowForRange resolves a dashboard range name relative to now. "day" starts
// at midnight in now's location; unknown names behave like "week".
func WindowForRange(r models.TimeRange, now time.Time) Window {
	var start time.Time
	switch r {
	case models.RangeDay:
		start = startOfDay(now)
	case models.RangeMonth:
		start = now.AddDate(0, -1, 0)
	case models.RangeYear:
		start = now.AddDate(-1, 0, 0)
	default:
		start = now.AddDate(0, 0, -7)
	}
	return Window{Start: start, End: now}
}

// ParseReportWindow accepts RFC 3339 timestamps or plain dates. A plain end
// date covers that whole day.
func ParseReportWindow(start, end string, loc *time.Location) (Window, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return Window{}, ErrMissingDate
	}
	from, err := parseBound(start, loc, false)
	if err != nil {
		return Window{}, err
	}
	to, err := parseBound(end, loc, true)
	if err != nil {
		return Window{}, err
	}
	if from.After(to) {
		return Window{}, ErrInvertedWindow
	}
	return Window{Start: from, End: to}, nil
}

// ParseTime parses a single client-supplied timestamp the same way report
// bounds are parsed.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	return parseBound(value, loc, false)
}

// ParseEndTime is ParseTime for an inclusive upper bound: a plain date means
// the end of that day.
func ParseEndTime(value string, loc *time.Location) (time.Time, error) {
	return parseBound(value, loc, true)
}

func parseBound(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Millisecond), nil
	}
	return day, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatISO renders t the way report payloads expose timestamps.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// RoundRate rounds a ratio to two decimals.
func RoundRate(x float64) float64 {
	return math.Round(x*100) / 100
}

// RoundHours rounds a duration in hours to one decimal.
func RoundHours(x float64) float64 {
	return math.Round(x*10) / 10
}

func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return RoundRate(float64(completed) / float64(total))
}

func hoursBetween(from, to time.Time) float64 {
	return float64(to.Sub(from).Milliseconds()) / float64(time.Hour/time.Millisecond)
}
