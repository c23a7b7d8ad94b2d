// Package timescale maps calendar time onto the board's horizontal pixel
// axis. A Scale is a value object: recomputed whenever the view mode or
// anchor date changes, never mutated.
package timescale

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ViewMode is the calendar granularity of the board.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode parses a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return ViewDay, nil
	case "week":
		return ViewWeek, nil
	case "month":
		return ViewMonth, nil
	default:
		return "", fmt.Errorf("unknown view mode: %q", s)
	}
}

// Scale maps the window [Start, End) onto pixels at PixelsPerHour.
type Scale struct {
	Mode          ViewMode
	Start         time.Time
	End           time.Time
	PixelsPerHour float64
	Ticks         []time.Time
}

// Compute builds the Scale for a view mode and anchor date. Window bounds
// and ticks use calendar arithmetic, never fixed 24h/30-day assumptions.
func Compute(mode ViewMode, anchor time.Time, pixelsPerHour float64) Scale {
	var start, end time.Time
	var tickStep func(t time.Time) time.Time

	switch mode {
	case ViewDay:
		start = StartOfDay(anchor)
		end = start.AddDate(0, 0, 1)
		tickStep = func(t time.Time) time.Time { return t.Add(time.Hour) }
	case ViewWeek:
		start = StartOfWeek(anchor)
		end = start.AddDate(0, 0, 7)
		tickStep = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case ViewMonth:
		start = StartOfMonth(anchor)
		end = start.AddDate(0, 1, 0)
		tickStep = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	default:
		// Unknown modes fall back to day view rather than producing a
		// zero window the drag math would divide by.
		return Compute(ViewDay, anchor, pixelsPerHour)
	}

	var ticks []time.Time
	for t := start; t.Before(end); t = tickStep(t) {
		ticks = append(ticks, t)
	}

	return Scale{
		Mode:          mode,
		Start:         start,
		End:           end,
		PixelsPerHour: pixelsPerHour,
		Ticks:         ticks,
	}
}

// TotalHours returns the window length in hours.
func (s Scale) TotalHours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// Width returns the total window width in pixels.
func (s Scale) Width() int {
	return int(math.Round(s.TotalHours() * s.PixelsPerHour))
}

// TimeToX maps an instant to its horizontal pixel offset from the window
// start.
func (s Scale) TimeToX(t time.Time) float64 {
	return t.Sub(s.Start).Hours() * s.PixelsPerHour
}

// XToTime is the inverse of TimeToX.
func (s Scale) XToTime(x float64) time.Time {
	hours := x / s.PixelsPerHour
	return s.Start.Add(time.Duration(hours * float64(time.Hour)))
}

// Contains reports whether t falls inside the half-open window [Start, End).
func (s Scale) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// TickLabel formats a tick instant for the header row.
func (s Scale) TickLabel(t time.Time) string {
	switch s.Mode {
	case ViewDay:
		return t.Format("15:04")
	case ViewWeek:
		return t.Format("Mon 02")
	default:
		return t.Format("02")
	}
}

// Snap rounds t to the nearest interval of the given minutes, zeroing
// seconds and sub-second components. Round-half-up: with 15-minute
// snapping, minute 37 snaps to 30 and minute 38 snaps to 45.
func Snap(t time.Time, intervalMinutes int) time.Time {
	if intervalMinutes <= 0 {
		intervalMinutes = 15
	}
	minutes := t.Hour()*60 + t.Minute()
	snapped := int(math.Round(float64(minutes)/float64(intervalMinutes))) * intervalMinutes
	midnight := StartOfDay(t)
	return midnight.Add(time.Duration(snapped) * time.Minute)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday midnight of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	t = StartOfDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
