package input

import (
	"testing"

	"ScratchReveal/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	erasable bool
	points   []state.Point
	// stopAfter flips erasable off after that many erases; zero disables.
	stopAfter int
}

func (r *recorder) Erasable() bool { return r.erasable }

func (r *recorder) EraseAt(p state.Point) {
	r.points = append(r.points, p)
	if r.stopAfter > 0 && len(r.points) >= r.stopAfter {
		r.erasable = false
	}
}

func TestDownErasesAndStartsStroke(t *testing.T) {
	r := &recorder{erasable: true}
	tr := NewTracker(r)

	require.True(t, tr.Down(state.Point{X: 4, Y: 5}))
	assert.True(t, tr.Stroking())
	assert.NotEmpty(t, tr.StrokeID())
	assert.Equal(t, []state.Point{{X: 4, Y: 5}}, r.points)
}

func TestMoveRequiresStroke(t *testing.T) {
	r := &recorder{erasable: true}
	tr := NewTracker(r)

	assert.False(t, tr.Move(state.Point{X: 1, Y: 1}))
	assert.Empty(t, r.points)

	tr.Down(state.Point{})
	assert.True(t, tr.Move(state.Point{X: 2, Y: 2}))
	assert.Len(t, r.points, 2)

	tr.Release()
	assert.False(t, tr.Move(state.Point{X: 3, Y: 3}))
	assert.Len(t, r.points, 2)
}

func TestIgnoredWhenNotErasable(t *testing.T) {
	r := &recorder{}
	tr := NewTracker(r)

	assert.False(t, tr.Down(state.Point{X: 1, Y: 1}))
	assert.False(t, tr.Stroking())
	assert.Empty(t, r.points)

	r.erasable = true
	tr.Down(state.Point{})
	r.erasable = false
	assert.False(t, tr.Move(state.Point{X: 9, Y: 9}))
	assert.Len(t, r.points, 1)
}

func TestReleaseWithoutDown(t *testing.T) {
	r := &recorder{erasable: true}
	tr := NewTracker(r)

	tr.Release()
	assert.False(t, tr.Stroking())
	assert.Empty(t, r.points)
}

func TestContinuousStrokeFillsGaps(t *testing.T) {
	r := &recorder{erasable: true}
	tr := NewTracker(r)
	tr.SetContinuous(10)

	tr.Down(state.Point{X: 0, Y: 0})
	tr.Move(state.Point{X: 20, Y: 0})

	require.Len(t, r.points, 5)
	assert.Equal(t, state.Point{X: 5, Y: 0}, r.points[1])
	assert.Equal(t, state.Point{X: 15, Y: 0}, r.points[3])
	assert.Equal(t, state.Point{X: 20, Y: 0}, r.points[4])
}

func TestContinuousStrokeStopsAtTrigger(t *testing.T) {
	r := &recorder{erasable: true, stopAfter: 2}
	tr := NewTracker(r)
	tr.SetContinuous(10)

	tr.Down(state.Point{})
	tr.Move(state.Point{X: 50, Y: 0})
	assert.Len(t, r.points, 2)
}

func TestLocateAndFirstTouch(t *testing.T) {
	p := Locate(state.Point{X: 130, Y: 75}, state.Point{X: 100, Y: 50})
	assert.Equal(t, state.Point{X: 30, Y: 25}, p)

	_, ok := FirstTouch(nil)
	assert.False(t, ok)

	first, ok := FirstTouch([]state.Point{{X: 1, Y: 2}, {X: 3, Y: 4}})
	require.True(t, ok)
	assert.Equal(t, state.Point{X: 1, Y: 2}, first)
}
