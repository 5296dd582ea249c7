package ui

import (
	"time"

	"ScratchReveal/internal/reveal"

	"fyne.io/fyne/v2"
)

// FrameDriver pumps a reveal.FrameQueue from fyne's animation clock, which
// ticks once per rendered frame on the main goroutine.
type FrameDriver struct {
	anim *fyne.Animation
}

func NewFrameDriver(q *reveal.FrameQueue) *FrameDriver {
	return &FrameDriver{anim: &fyne.Animation{
		Duration:    time.Second,
		RepeatCount: fyne.AnimationRepeatForever,
		Curve:       fyne.AnimationLinear,
		Tick:        func(float32) { q.Flush() },
	}}
}

func (d *FrameDriver) Start() { d.anim.Start() }

func (d *FrameDriver) Stop() { d.anim.Stop() }
