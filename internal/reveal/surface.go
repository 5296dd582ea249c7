// Package reveal is the scratch-off engine: it wires the mask canvas, the
// reveal evaluator, the fade and the pointer tracker into one surface that
// hosts drive from their UI thread.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"ScratchReveal/internal/input"
	"ScratchReveal/internal/mask"
	"ScratchReveal/internal/state"
)

// Params are the fixed policy values of a surface.
type Params struct {
	Width, Height int
	BrushRadius   float64
	// Continuous stamps intermediate points between stroke samples.
	Continuous bool
	Threshold  float64
	FadeStep   float64
	Fill       color.Color
}

// DefaultParams matches the reference widget: a 300x300 orange mask, a 15
// unit brush, reveal at 30% and a 20 frame fade.
func DefaultParams() Params {
	return Params{
		Width:       300,
		Height:      300,
		BrushRadius: 15,
		Threshold:   DefaultThreshold,
		FadeStep:    DefaultFadeStep,
		Fill:        mask.Fallback,
	}
}

var ErrInvalidParams = errors.New("reveal: invalid parameters")

func (p Params) validate() error {
	switch {
	case p.BrushRadius <= 0:
		return fmt.Errorf("%w: brush radius %v", ErrInvalidParams, p.BrushRadius)
	case p.Threshold <= 0 || p.Threshold > 1:
		return fmt.Errorf("%w: threshold %v", ErrInvalidParams, p.Threshold)
	case p.FadeStep <= 0 || p.FadeStep > 1:
		return fmt.Errorf("%w: fade step %v", ErrInvalidParams, p.FadeStep)
	}
	return nil
}

// Dispatcher runs fn on the goroutine that owns the surface.
type Dispatcher func(fn func())

// Option configures a Surface.
type Option func(*Surface)

// WithLoader sets the mask asset loader.
func WithLoader(l mask.Loader) Option { return func(s *Surface) { s.loader = l } }

// WithScheduler sets the frame source driving the fade.
func WithScheduler(fs FrameScheduler) Option { return func(s *Surface) { s.sched = fs } }

// WithDispatcher sets how asset load results get back onto the UI thread.
// Without one they are queued on the frame scheduler.
func WithDispatcher(d Dispatcher) Option { return func(s *Surface) { s.dispatch = d } }

// WithLoadTimeout bounds a single mask asset load.
func WithLoadTimeout(d time.Duration) Option { return func(s *Surface) { s.loadTimeout = d } }

// Surface is the composition root of one scratch-off widget. It owns the
// mask canvas, the reveal state and the fade, and notifies subscribers of
// every change.
//
// A Surface is single-threaded: every method must be called from the
// goroutine its Dispatcher targets.
type Surface struct {
	params  Params
	canvas  *mask.Canvas
	machine *state.Machine
	eval    *Evaluator
	fade    *Fade
	tracker *input.Tracker

	loader      mask.Loader
	sched       FrameScheduler
	dispatch    Dispatcher
	loadTimeout time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	maskURL string
	asset   image.Image

	listeners []func(state.Event)
}

// New builds a surface already reset to the fallback fill.
func New(p Params, opts ...Option) (*Surface, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	canvas, err := mask.NewCanvas(p.Width, p.Height, p.Fill)
	if err != nil {
		return nil, err
	}

	s := &Surface{
		params:   p,
		canvas:   canvas,
		machine:  &state.Machine{},
		loader: mask.NewHTTPLoader(30 * time.Second),
		sched:  NewFrameQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatch == nil {
		// Loader results wait for the next frame on the host's goroutine.
		s.dispatch = s.sched.RequestFrame
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.eval = NewEvaluator(canvas, p.Threshold)
	s.fade = NewFade(p.FadeStep, s.sched, s.machine, func(float64) { s.emit(state.EventOpacity) })
	s.tracker = input.NewTracker(eraser{s})
	if p.Continuous {
		s.tracker.SetContinuous(float32(p.BrushRadius))
	}
	s.machine.OnTransition = func(from, to state.RevealState) {
		if to == state.Revealing {
			Logger().Info("reveal: threshold crossed", "fraction", s.eval.Sample())
		}
		s.emit(state.EventState)
	}
	return s, nil
}

func (s *Surface) Params() Params { return s.params }

func (s *Surface) State() state.RevealState { return s.machine.State() }

// Opacity is the composited opacity of the mask layer in [0, 1].
func (s *Surface) Opacity() float64 { return s.fade.Opacity() }

// Fraction is the share of mask pixels fully erased.
func (s *Surface) Fraction() float64 { return s.eval.Sample() }

// ScanFraction recomputes Fraction with a full buffer scan.
func (s *Surface) ScanFraction() float64 { return s.eval.ScanFraction() }

// Stroking reports whether a pointer stroke is in progress.
func (s *Surface) Stroking() bool { return s.tracker.Stroking() }

// Image is the current composited mask layer. See mask.Canvas.Image.
func (s *Surface) Image() *image.NRGBA { return s.canvas.Image() }

// MaskURL is the location of the current mask asset.
func (s *Surface) MaskURL() string { return s.maskURL }

// Snapshot describes the current state without emitting it.
func (s *Surface) Snapshot() state.Event {
	return state.Event{
		Kind:     state.EventState,
		State:    s.machine.State(),
		Opacity:  s.fade.Opacity(),
		Fraction: s.eval.Sample(),
		StrokeID: s.tracker.StrokeID(),
		Session:  state.SessionID(),
	}
}

// Subscribe registers fn for every change notification.
func (s *Surface) Subscribe(fn func(state.Event)) {
	s.listeners = append(s.listeners, fn)
}

// SetMaskURL repaints the fallback fill immediately and starts loading
// the asset at location. A successful load repaints the mask from it and
// resets the reveal; a failed one leaves the fallback in place. Setting
// the current location again does not reload it.
func (s *Surface) SetMaskURL(location string) {
	if location == s.maskURL {
		return
	}
	s.maskURL = location
	s.asset = nil
	s.reset()
	if location == "" {
		return
	}

	ctx := s.ctx
	loader := s.loader
	timeout := s.loadTimeout
	go func() {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		img, err := loader.Load(ctx, location)
		s.dispatch(func() { s.assetLoaded(location, img, err) })
	}()
}

func (s *Surface) assetLoaded(location string, img image.Image, err error) {
	if location != s.maskURL {
		Logger().Debug("reveal: superseded mask asset dropped", "location", location)
		return
	}
	if err != nil {
		Logger().Warn("reveal: mask asset unavailable, keeping fallback", "location", location, "err", err)
		return
	}
	Logger().Info("reveal: mask asset applied", "location", location, "bounds", img.Bounds())
	s.asset = img
	s.reset()
}

// ResetMask repaints the mask from the loaded asset (or the fallback),
// restores full opacity and returns the surface to Hidden. It does not
// reload the asset. Fade ticks scheduled before the reset become no-ops.
func (s *Surface) ResetMask() {
	s.reset()
}

func (s *Surface) reset() {
	s.canvas.Reset(s.asset)
	s.fade.Reset()
	s.machine.Reset()
	s.emit(state.EventRepainted)
}

// PointerDown starts a stroke at p, in surface-local coordinates.
func (s *Surface) PointerDown(p state.Point) { s.tracker.Down(p) }

// PointerMove continues the current stroke.
func (s *Surface) PointerMove(p state.Point) { s.tracker.Move(p) }

// PointerUp ends the current stroke. Hosts call it for any release they
// observe, on or off the surface.
func (s *Surface) PointerUp() { s.tracker.Release() }

func (s *Surface) eraseAt(p state.Point) {
	if s.machine.State() != state.Hidden {
		return
	}
	n := s.canvas.EraseCircle(float64(p.X), float64(p.Y), s.params.BrushRadius)
	if n > 0 {
		s.emit(state.EventErased)
	}
	if _, fired := s.eval.Evaluate(s.machine); fired {
		s.fade.Start()
	}
}

// Close abandons pending asset loads.
func (s *Surface) Close() {
	s.cancel()
}

func (s *Surface) emit(kind state.EventKind) {
	if len(s.listeners) == 0 {
		return
	}
	ev := s.Snapshot()
	ev.Kind = kind
	state.Stamp(&ev)
	for _, fn := range s.listeners {
		fn(ev)
	}
}

// eraser adapts a Surface to input.Eraser.
type eraser struct{ s *Surface }

func (e eraser) Erasable() bool { return e.s.machine.State() == state.Hidden }

func (e eraser) EraseAt(p state.Point) { e.s.eraseAt(p) }
