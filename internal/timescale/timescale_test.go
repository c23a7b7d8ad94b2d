package timescale

import (
	"testing"
	"time"
)

var anchor = time.Date(2026, time.February, 11, 14, 30, 0, 0, time.UTC) // a Wednesday

func TestComputeDay(t *testing.T) {
	s := Compute(ViewDay, anchor, 80)

	if !s.Start.Equal(time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day window start = %v", s.Start)
	}
	if s.TotalHours() != 24 {
		t.Errorf("day window = %v hours, want 24", s.TotalHours())
	}
	if len(s.Ticks) != 24 {
		t.Errorf("day ticks = %d, want 24", len(s.Ticks))
	}
	if s.Width() != 1920 {
		t.Errorf("day width = %d, want 1920", s.Width())
	}
}

func TestComputeWeekStartsMonday(t *testing.T) {
	s := Compute(ViewWeek, anchor, 2)

	if s.Start.Weekday() != time.Monday {
		t.Errorf("week starts on %v, want Monday", s.Start.Weekday())
	}
	if !s.Start.Equal(time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week start = %v", s.Start)
	}
	if len(s.Ticks) != 7 {
		t.Errorf("week ticks = %d, want 7", len(s.Ticks))
	}

	// Sunday anchors belong to the week that started the previous Monday.
	sunday := time.Date(2026, time.February, 15, 10, 0, 0, 0, time.UTC)
	s = Compute(ViewWeek, sunday, 2)
	if !s.Start.Equal(time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("sunday anchor week start = %v", s.Start)
	}
}

func TestComputeMonthCalendarAware(t *testing.T) {
	s := Compute(ViewMonth, anchor, 1)

	// February 2026 has 28 days. No 30-day assumptions.
	if got := len(s.Ticks); got != 28 {
		t.Errorf("feb ticks = %d, want 28", got)
	}
	if s.TotalHours() != 28*24 {
		t.Errorf("feb hours = %v, want %v", s.TotalHours(), 28*24)
	}

	jul := Compute(ViewMonth, time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC), 1)
	if got := len(jul.Ticks); got != 31 {
		t.Errorf("july ticks = %d, want 31", got)
	}
}

func TestTimeToXScenario(t *testing.T) {
	// Day view, 80 px/hour, window starting at midnight: 09:00 maps to 720.
	s := Compute(ViewDay, anchor, 80)
	nine := time.Date(2026, time.February, 11, 9, 0, 0, 0, time.UTC)

	if got := s.TimeToX(nine); got != 720 {
		t.Errorf("TimeToX(09:00) = %v, want 720", got)
	}
}

func TestInverseMapping(t *testing.T) {
	const tolerance = 30 * time.Second

	for _, mode := range []ViewMode{ViewDay, ViewWeek, ViewMonth} {
		s := Compute(mode, anchor, 3.5)
		for _, offset := range []time.Duration{
			0,
			time.Minute,
			37 * time.Minute,
			5 * time.Hour,
			23*time.Hour + 59*time.Minute,
		} {
			in := s.Start.Add(offset)
			if !s.Contains(in) {
				continue
			}
			out := s.XToTime(s.TimeToX(in))
			diff := out.Sub(in)
			if diff < 0 {
				diff = -diff
			}
			if diff > tolerance {
				t.Errorf("%s: XToTime(TimeToX(%v)) = %v, off by %v", mode, in, out, diff)
			}
		}
	}
}

func TestContainsHalfOpen(t *testing.T) {
	s := Compute(ViewDay, anchor, 4)

	if !s.Contains(s.Start) {
		t.Error("window start must be contained")
	}
	if s.Contains(s.End) {
		t.Error("window end is exclusive")
	}
	if s.Contains(s.Start.Add(-time.Minute)) {
		t.Error("before window must not be contained")
	}
}

func TestSnapRounding(t *testing.T) {
	tests := []struct {
		minute int
		want   int
	}{
		{37, 30},
		{38, 45},
		{7, 0},
		{8, 15},
		{0, 0},
		{52, 45},
		{53, 60},
	}

	for _, tt := range tests {
		in := time.Date(2026, time.March, 2, 10, tt.minute, 42, 999, time.UTC)
		got := Snap(in, 15)
		want := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC).Add(time.Duration(tt.want) * time.Minute)
		if !got.Equal(want) {
			t.Errorf("Snap(10:%02d) = %v, want %v", tt.minute, got.Format("15:04"), want.Format("15:04"))
		}
		if got.Second() != 0 || got.Nanosecond() != 0 {
			t.Errorf("Snap must zero seconds, got %v", got)
		}
	}
}

func TestSnapRollsToNextDay(t *testing.T) {
	in := time.Date(2026, time.March, 2, 23, 55, 0, 0, time.UTC)
	got := Snap(in, 15)
	want := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Snap(23:55) = %v, want next midnight", got)
	}
}

func TestParseViewMode(t *testing.T) {
	if m, err := ParseViewMode(" Week "); err != nil || m != ViewWeek {
		t.Errorf("ParseViewMode(Week) = %v, %v", m, err)
	}
	if _, err := ParseViewMode("quarter"); err == nil {
		t.Error("unknown mode should error")
	}
}
