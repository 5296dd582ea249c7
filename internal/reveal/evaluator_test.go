package reveal

import (
	"testing"

	"ScratchReveal/internal/mask"
	"ScratchReveal/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatorSampleMatchesScan(t *testing.T) {
	c, err := mask.NewCanvas(40, 40, nil)
	require.NoError(t, err)
	e := NewEvaluator(c, DefaultThreshold)

	assert.Zero(t, e.Sample())
	c.EraseCircle(10, 10, 5)
	c.EraseCircle(12, 10, 5)
	c.EraseCircle(39, 39, 8)
	assert.Positive(t, e.Sample())
	assert.Equal(t, e.ScanFraction(), e.Sample())
}

func TestShouldTrigger(t *testing.T) {
	e := NewEvaluator(nil, 0.3)
	assert.False(t, e.ShouldTrigger(0.29, state.Hidden))
	assert.True(t, e.ShouldTrigger(0.30, state.Hidden))
	assert.True(t, e.ShouldTrigger(0.9, state.Hidden))
	assert.False(t, e.ShouldTrigger(0.9, state.Revealing))
	assert.False(t, e.ShouldTrigger(1, state.Revealed))
}

func TestEvaluateFiresOncePerCycle(t *testing.T) {
	c, err := mask.NewCanvas(10, 10, nil)
	require.NoError(t, err)
	e := NewEvaluator(c, 0.3)
	var m state.Machine

	c.EraseCircle(5, 5, 100)
	f, fired := e.Evaluate(&m)
	assert.Equal(t, 1.0, f)
	assert.True(t, fired)

	_, fired = e.Evaluate(&m)
	assert.False(t, fired, "fraction stays high but the state guards the trigger")

	m.Reset()
	_, fired = e.Evaluate(&m)
	assert.True(t, fired)
}

func TestEvaluatorOnNilCanvas(t *testing.T) {
	e := NewEvaluator(nil, 0.3)
	assert.Zero(t, e.Sample())
	assert.Zero(t, e.ScanFraction())
}
