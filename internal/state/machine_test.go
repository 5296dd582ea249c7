package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineForwardOnly(t *testing.T) {
	var m Machine
	assert.Equal(t, Hidden, m.State())

	assert.False(t, m.Transition(Revealed), "cannot skip Revealing")
	assert.False(t, m.Transition(Hidden))
	require.True(t, m.Transition(Revealing))
	assert.False(t, m.Transition(Revealing), "second trigger must not fire")
	require.True(t, m.Transition(Revealed))
	assert.False(t, m.Transition(RevealState(3)))
	assert.Equal(t, Revealed, m.State())
}

func TestMachineResetBumpsGeneration(t *testing.T) {
	var seen [][2]RevealState
	m := Machine{OnTransition: func(from, to RevealState) {
		seen = append(seen, [2]RevealState{from, to})
	}}

	m.Reset()
	assert.Equal(t, uint64(1), m.Generation())
	assert.Empty(t, seen, "reset from Hidden is not a transition")

	m.Transition(Revealing)
	m.Reset()
	assert.Equal(t, Hidden, m.State())
	assert.Equal(t, uint64(2), m.Generation())
	assert.Equal(t, [][2]RevealState{{Hidden, Revealing}, {Revealing, Hidden}}, seen)
}

func TestRevealStateText(t *testing.T) {
	for _, s := range []RevealState{Hidden, Revealing, Revealed} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back RevealState
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	_, err := RevealState(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "RevealState(7)", RevealState(7).String())

	var s RevealState
	assert.Error(t, s.UnmarshalText([]byte("gone")))
}

func TestStampIsMonotonic(t *testing.T) {
	var a, b Event
	Stamp(&a)
	Stamp(&b)
	assert.Greater(t, b.Lamport, a.Lamport)
	assert.Equal(t, SessionID(), a.Session)
	assert.NotEmpty(t, a.Session)
	assert.NotEqual(t, NewStrokeID(), NewStrokeID())
}
