package reveal

import (
	"math"
	"sync"

	"ScratchReveal/internal/state"
)

// DefaultFadeStep is the opacity removed per frame.
const DefaultFadeStep = 0.05

// FrameScheduler runs a callback once, before the host's next repaint, on
// the host's UI goroutine. A scheduler that also serves as the surface's
// default dispatcher must accept RequestFrame from any goroutine.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// FrameQueue is a FrameScheduler pumped by the host: call Flush once per
// rendered frame from the UI goroutine. RequestFrame is safe for
// concurrent use.
type FrameQueue struct {
	mu      sync.Mutex
	pending []func()
}

func NewFrameQueue() *FrameQueue { return &FrameQueue{} }

func (q *FrameQueue) RequestFrame(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Flush runs the callbacks queued before the call and returns how many
// ran. Callbacks queued while flushing wait for the next frame.
func (q *FrameQueue) Flush() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending is the number of callbacks waiting for the next frame.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Fade dissolves the mask once the reveal fires: opacity drops by a fixed
// step each frame until it reaches zero, then the machine moves to
// Revealed. It is the only writer of the opacity while running.
type Fade struct {
	step     float64
	steps    int
	sched    FrameScheduler
	machine  *state.Machine
	onChange func(opacity float64)

	opacity float64
	ticks   int
}

func NewFade(step float64, sched FrameScheduler, m *state.Machine, onChange func(float64)) *Fade {
	if step <= 0 || step > 1 {
		step = DefaultFadeStep
	}
	return &Fade{
		step:     step,
		steps:    int(math.Ceil(1/step - 1e-9)),
		sched:    sched,
		machine:  m,
		onChange: onChange,
		opacity:  1,
	}
}

func (f *Fade) Opacity() float64 { return f.opacity }

// Steps is the number of frames a full fade takes.
func (f *Fade) Steps() int { return f.steps }

// Start begins the fade from fully opaque. The first step lands on the
// next frame.
func (f *Fade) Start() {
	f.opacity = 1
	f.ticks = 0
	f.schedule(f.machine.Generation())
}

// Reset restores full opacity. Ticks already queued become stale through
// the machine's generation.
func (f *Fade) Reset() {
	f.opacity = 1
	f.ticks = 0
}

func (f *Fade) schedule(gen uint64) {
	f.sched.RequestFrame(func() { f.tick(gen) })
}

func (f *Fade) tick(gen uint64) {
	if gen != f.machine.Generation() || f.machine.State() != state.Revealing {
		Logger().Debug("reveal: stale fade tick dropped", "generation", gen)
		return
	}
	f.ticks++
	// Derived from the tick count so the last step lands on exactly zero.
	next := 1 - float64(f.ticks)*f.step
	if f.ticks >= f.steps || next <= 0 {
		f.opacity = 0
		f.machine.Transition(state.Revealed)
		f.publish()
		return
	}
	f.opacity = next
	f.publish()
	f.schedule(gen)
}

func (f *Fade) publish() {
	if f.onChange != nil {
		f.onChange(f.opacity)
	}
}
