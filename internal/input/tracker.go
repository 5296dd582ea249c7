// Package input turns raw pointer and touch signals into erase requests.
package input

import (
	"math"

	"ScratchReveal/internal/logging"
	"ScratchReveal/internal/state"
)

// Eraser is the drawing target of a Tracker.
type Eraser interface {
	// Erasable reports whether erasure is currently permitted.
	Erasable() bool
	// EraseAt applies one brush stamp at p in buffer coordinates.
	EraseAt(p state.Point)
}

// Tracker owns the stroke state: whether the pointer is down over the
// surface. It is not safe for concurrent use.
type Tracker struct {
	target   Eraser
	stroking bool
	strokeID string
	last     state.Point
	spacing  float32
}

func NewTracker(target Eraser) *Tracker {
	return &Tracker{target: target}
}

// SetContinuous makes moves stamp intermediate points every radius/2
// along the segment from the previous sample. Zero disables it.
func (t *Tracker) SetContinuous(radius float32) {
	if radius <= 0 {
		t.spacing = 0
		return
	}
	t.spacing = radius / 2
}

// Stroking reports whether a stroke is in progress.
func (t *Tracker) Stroking() bool { return t.stroking }

// StrokeID identifies the current or most recent stroke.
func (t *Tracker) StrokeID() string { return t.strokeID }

// Down starts a stroke at p and erases once. It is ignored while the
// target refuses erasure.
func (t *Tracker) Down(p state.Point) bool {
	if !t.target.Erasable() {
		return false
	}
	t.stroking = true
	t.strokeID = state.NewStrokeID()
	t.last = p
	logging.Logger().Debug("input: stroke begin", "stroke", t.strokeID, "x", p.X, "y", p.Y)
	t.target.EraseAt(p)
	return true
}

// Move erases at p if a stroke is in progress.
func (t *Tracker) Move(p state.Point) bool {
	if !t.stroking || !t.target.Erasable() {
		return false
	}
	if t.spacing > 0 {
		t.fill(t.last, p)
	}
	t.last = p
	if !t.target.Erasable() {
		return true
	}
	t.target.EraseAt(p)
	return true
}

// fill stamps the interior points of the segment a-b.
func (t *Tracker) fill(a, b state.Point) {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := float32(math.Hypot(float64(dx), float64(dy)))
	n := int(dist / t.spacing)
	for i := 1; i < n; i++ {
		if !t.target.Erasable() {
			return
		}
		f := float32(i) / float32(n)
		t.target.EraseAt(state.Point{X: a.X + dx*f, Y: a.Y + dy*f})
	}
}

// Release ends any stroke. Hosts call it for every release they can
// observe, including ones outside the surface.
func (t *Tracker) Release() {
	if t.stroking {
		logging.Logger().Debug("input: stroke end", "stroke", t.strokeID)
	}
	t.stroking = false
}

// Locate converts a device position to surface-local coordinates given
// the surface's on-screen top-left corner.
func Locate(abs, origin state.Point) state.Point {
	return state.Point{X: abs.X - origin.X, Y: abs.Y - origin.Y}
}

// FirstTouch returns the first active contact point.
func FirstTouch(touches []state.Point) (state.Point, bool) {
	if len(touches) == 0 {
		return state.Point{}, false
	}
	return touches[0], true
}
