package timescale

import (
	"testing"
	"time"
)

func testLayout() Layout {
	return Layout{LabelWidth: 14, HeaderHeight: 2, LaneHeight: 2}
}

func TestSlotRect(t *testing.T) {
	s := Compute(ViewDay, anchor, 4) // 4 px/hour
	l := testLayout()

	start := s.Start.Add(9 * time.Hour)
	end := s.Start.Add(11 * time.Hour)
	r := l.SlotRect(s, 3, start, end)

	if r.X != 36 {
		t.Errorf("X = %d, want 36", r.X)
	}
	if r.W != 8 {
		t.Errorf("W = %d, want 8", r.W)
	}
	if r.Y != 2+3*2 {
		t.Errorf("Y = %d, want 8", r.Y)
	}
	if r.H != 2 {
		t.Errorf("H = %d, want 2", r.H)
	}
}

func TestSlotRectMinimumWidth(t *testing.T) {
	s := Compute(ViewMonth, anchor, 0.5)
	l := testLayout()

	start := s.Start
	end := s.Start.Add(30 * time.Minute) // rounds to zero pixels at 0.5 px/h
	if r := l.SlotRect(s, 0, start, end); r.W < 1 {
		t.Errorf("W = %d, slots must stay visible", r.W)
	}
}

func TestLaneAtClamps(t *testing.T) {
	l := testLayout()

	tests := []struct {
		y    int
		want int
	}{
		{0, 0},  // header row clamps to first lane
		{2, 0},  // first lane, first row
		{3, 0},  // first lane, second row
		{4, 1},  // second lane
		{99, 4}, // below the board clamps to the last lane
	}
	for _, tt := range tests {
		if got := l.LaneAt(tt.y, 5); got != tt.want {
			t.Errorf("LaneAt(%d) = %d, want %d", tt.y, got, tt.want)
		}
	}
}

func TestLaneHitExact(t *testing.T) {
	l := testLayout()

	if got := l.LaneHit(1, 5); got != -1 {
		t.Errorf("header hit = %d, want -1", got)
	}
	if got := l.LaneHit(5, 5); got != 1 {
		t.Errorf("LaneHit(5) = %d, want 1", got)
	}
	if got := l.LaneHit(12, 5); got != -1 {
		t.Errorf("below board hit = %d, want -1", got)
	}
}

func TestPointerToBoard(t *testing.T) {
	l := testLayout()
	x, y := l.PointerToBoard(20, 7, 6)
	if x != 12 || y != 7 {
		t.Errorf("PointerToBoard = (%v, %d), want (12, 7)", x, y)
	}
}
