package reveal

import (
	"ScratchReveal/internal/mask"
	"ScratchReveal/internal/state"
)

// DefaultThreshold is the erased fraction at which the mask fades away.
const DefaultThreshold = 0.30

// Evaluator measures how much of a canvas has been scratched off and
// decides when the reveal fires.
type Evaluator struct {
	canvas    *mask.Canvas
	threshold float64
}

func NewEvaluator(c *mask.Canvas, threshold float64) *Evaluator {
	return &Evaluator{canvas: c, threshold: threshold}
}

func (e *Evaluator) Threshold() float64 { return e.threshold }

// Sample returns the fraction of pixels that are fully erased, from the
// canvas's exact running count.
func (e *Evaluator) Sample() float64 {
	total := e.canvas.Total()
	if total == 0 {
		return 0
	}
	return float64(e.canvas.Erased()) / float64(total)
}

// ScanFraction computes the same value as Sample with a full pass over
// the opacity plane.
func (e *Evaluator) ScanFraction() float64 {
	total := e.canvas.Total()
	if total == 0 {
		return 0
	}
	return float64(e.canvas.Scan()) / float64(total)
}

// ShouldTrigger reports whether fraction crosses the threshold while the
// surface is still hidden.
func (e *Evaluator) ShouldTrigger(fraction float64, st state.RevealState) bool {
	return st == state.Hidden && fraction >= e.threshold
}

// Evaluate samples the canvas and moves m to Revealing when the threshold
// is crossed. The state guard makes it fire once per Hidden cycle even
// though the fraction stays above the threshold.
func (e *Evaluator) Evaluate(m *state.Machine) (float64, bool) {
	f := e.Sample()
	if !e.ShouldTrigger(f, m.State()) {
		return f, false
	}
	return f, m.Transition(state.Revealing)
}
