package timescale

import (
	"math"
	"time"
)

// Layout holds the board's fixed chrome geometry: the lane-label column on
// the left and the tick header on top. All values are in pixels (terminal
// cells). Externalized here so the position math stays testable without a
// renderer.
type Layout struct {
	LabelWidth   int // width of the lane-label column
	HeaderHeight int // rows above the first lane
	LaneHeight   int // rows per machine lane
}

// Rect is a slot rectangle in board coordinates.
type Rect struct {
	X, Y, W, H int
}

// SlotRect places a time interval on a lane. X is relative to the window
// start (the caller applies label offset and horizontal scroll).
func (l Layout) SlotRect(s Scale, lane int, start, end time.Time) Rect {
	x := int(math.Round(s.TimeToX(start)))
	w := int(math.Round(s.TimeToX(end))) - x
	if w < 1 {
		w = 1
	}
	return Rect{
		X: x,
		Y: l.HeaderHeight + lane*l.LaneHeight,
		W: w,
		H: l.LaneHeight,
	}
}

// LaneAt converts a board-relative vertical offset to a lane index,
// clamped to [0, laneCount-1].
func (l Layout) LaneAt(y, laneCount int) int {
	if laneCount <= 0 || l.LaneHeight <= 0 {
		return 0
	}
	lane := (y - l.HeaderHeight) / l.LaneHeight
	if lane < 0 {
		return 0
	}
	if lane >= laneCount {
		return laneCount - 1
	}
	return lane
}

// LaneHit is like LaneAt but exact: it returns -1 when y is outside every
// lane band. Used for click hit-testing, where clamping would misattribute
// header clicks to lane 0.
func (l Layout) LaneHit(y, laneCount int) int {
	if y < l.HeaderHeight || l.LaneHeight <= 0 {
		return -1
	}
	lane := (y - l.HeaderHeight) / l.LaneHeight
	if lane >= laneCount {
		return -1
	}
	return lane
}

// PointerToBoard converts absolute screen coordinates to board-relative
// ones by subtracting the label column. The returned x maps straight into
// Scale.XToTime once horizontal scroll is added back.
func (l Layout) PointerToBoard(screenX, screenY, scrollX int) (x float64, y int) {
	return float64(screenX - l.LabelWidth + scrollX), screenY
}
