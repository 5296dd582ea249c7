package reveal

import (
	"sync"
	"testing"

	"ScratchReveal/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFadeTerminatesAfterTwentyFrames(t *testing.T) {
	q := NewFrameQueue()
	var m state.Machine
	var published []float64
	f := NewFade(DefaultFadeStep, q, &m, func(o float64) { published = append(published, o) })
	require.Equal(t, 20, f.Steps())

	require.True(t, m.Transition(state.Revealing))
	f.Start()
	assert.Equal(t, 1.0, f.Opacity(), "first step waits for a frame")

	for i := 0; i < 19; i++ {
		require.Equal(t, 1, q.Flush())
	}
	assert.Equal(t, state.Revealing, m.State())
	assert.InDelta(t, 0.05, f.Opacity(), 1e-9)

	require.Equal(t, 1, q.Flush())
	assert.Equal(t, 0.0, f.Opacity())
	assert.Equal(t, state.Revealed, m.State())
	assert.Zero(t, q.Pending(), "terminal: no more frames requested")

	require.Len(t, published, 20)
	for i := 1; i < len(published); i++ {
		assert.Less(t, published[i], published[i-1])
	}
}

func TestFadeStepCountRoundsUp(t *testing.T) {
	q := NewFrameQueue()
	var m state.Machine
	f := NewFade(0.3, q, &m, nil)
	assert.Equal(t, 4, f.Steps())

	m.Transition(state.Revealing)
	f.Start()
	for q.Pending() > 0 {
		q.Flush()
	}
	assert.Equal(t, 0.0, f.Opacity())
	assert.Equal(t, state.Revealed, m.State())
}

func TestFadeInvalidStepFallsBack(t *testing.T) {
	f := NewFade(0, NewFrameQueue(), &state.Machine{}, nil)
	assert.Equal(t, 20, f.Steps())
}

func TestFadeStaleTicksAreDropped(t *testing.T) {
	q := NewFrameQueue()
	var m state.Machine
	f := NewFade(DefaultFadeStep, q, &m, nil)

	m.Transition(state.Revealing)
	f.Start()
	q.Flush()
	q.Flush()
	require.InDelta(t, 0.9, f.Opacity(), 1e-9)

	m.Reset()
	f.Reset()
	require.Equal(t, 1, q.Pending())
	q.Flush()
	assert.Equal(t, 1.0, f.Opacity())
	assert.Equal(t, state.Hidden, m.State())
	assert.Zero(t, q.Pending())
}

func TestFrameQueueDefersNestedRequests(t *testing.T) {
	q := NewFrameQueue()
	ran := 0
	q.RequestFrame(func() {
		ran++
		q.RequestFrame(func() { ran++ })
	})
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, q.Pending())
	q.Flush()
	assert.Equal(t, 2, ran)
}

func TestFrameQueueAcceptsConcurrentRequests(t *testing.T) {
	q := NewFrameQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.RequestFrame(func() {})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, q.Flush())
}
