package ui

import (
	"context"
	"image"
	"log"
	"time"

	"ScratchReveal/internal/export"
	"ScratchReveal/internal/input"
	"ScratchReveal/internal/mask"
	"ScratchReveal/internal/reveal"
	"ScratchReveal/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// RevealWidget stacks the hidden image under the scratchable mask and
// feeds pointer input to a reveal.Surface.
type RevealWidget struct {
	widget.BaseWidget

	surface *reveal.Surface
	loader  mask.Loader

	hidden    *canvas.Image
	maskLayer *canvas.Raster
	hiddenImg image.Image
	imageURL  string
}

var _ fyne.Widget = (*RevealWidget)(nil)
var _ fyne.Draggable = (*RevealWidget)(nil)
var _ desktop.Mouseable = (*RevealWidget)(nil)
var _ desktop.Hoverable = (*RevealWidget)(nil)
var _ mobile.Touchable = (*RevealWidget)(nil)

// NewRevealWidget wraps s. A nil loader fetches the hidden image over
// HTTP or from disk.
func NewRevealWidget(s *reveal.Surface, loader mask.Loader) *RevealWidget {
	if loader == nil {
		loader = mask.NewHTTPLoader(30 * time.Second)
	}
	p := s.Params()
	size := fyne.NewSize(float32(p.Width), float32(p.Height))

	w := &RevealWidget{surface: s, loader: loader}
	w.hidden = &canvas.Image{FillMode: canvas.ImageFillStretch}
	w.hidden.SetMinSize(size)
	w.maskLayer = canvas.NewRaster(func(int, int) image.Image { return w.surface.Image() })
	w.maskLayer.ScaleMode = canvas.ImageScalePixels
	w.maskLayer.SetMinSize(size)

	s.Subscribe(w.onEvent)
	w.ExtendBaseWidget(w)
	return w
}

// Surface returns the engine behind the widget.
func (w *RevealWidget) Surface() *reveal.Surface { return w.surface }

// SetImageURL loads the image revealed under the mask. Failures leave the
// layer empty and are logged.
func (w *RevealWidget) SetImageURL(location string) {
	if location == w.imageURL {
		return
	}
	w.imageURL = location
	go func() {
		img, err := w.loader.Load(context.Background(), location)
		if err != nil {
			log.Printf("[UI] Image %s unavailable: %v", location, err)
			return
		}
		fyne.Do(func() {
			if location != w.imageURL {
				return
			}
			w.setHiddenImage(img)
		})
	}()
}

func (w *RevealWidget) setHiddenImage(img image.Image) {
	w.hiddenImg = img
	w.hidden.Image = img
	w.hidden.Refresh()
}

// Snapshot flattens both layers as they currently look.
func (w *RevealWidget) Snapshot() *image.NRGBA {
	p := w.surface.Params()
	return export.Compose(w.hiddenImg, w.surface.Image(), w.surface.Opacity(), p.Width, p.Height)
}

func (w *RevealWidget) onEvent(ev state.Event) {
	w.maskLayer.Translucency = 1 - ev.Opacity
	w.maskLayer.Refresh()
}

// toSurface maps a pointer position to buffer coordinates: the widget's
// on-screen origin is subtracted, then the result is scaled if the widget
// is laid out at a size other than the buffer's.
func (w *RevealWidget) toSurface(ev fyne.PointEvent) state.Point {
	abs := state.Point{X: ev.AbsolutePosition.X, Y: ev.AbsolutePosition.Y}
	p := input.Locate(abs, w.origin())

	size := w.Size()
	params := w.surface.Params()
	if size.Width > 0 && size.Height > 0 {
		p.X *= float32(params.Width) / size.Width
		p.Y *= float32(params.Height) / size.Height
	}
	return p
}

func (w *RevealWidget) origin() state.Point {
	a := fyne.CurrentApp()
	if a == nil {
		return state.Point{}
	}
	pos := a.Driver().AbsolutePositionForObject(w)
	return state.Point{X: pos.X, Y: pos.Y}
}

func (w *RevealWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.surface.PointerDown(w.toSurface(e.PointEvent))
}

// MouseUp is delivered to the widget that saw the press even when the
// button is released elsewhere in the window.
func (w *RevealWidget) MouseUp(*desktop.MouseEvent) {
	w.surface.PointerUp()
}

func (w *RevealWidget) MouseIn(*desktop.MouseEvent) {}

func (w *RevealWidget) MouseMoved(e *desktop.MouseEvent) {
	w.surface.PointerMove(w.toSurface(e.PointEvent))
}

func (w *RevealWidget) MouseOut() {}

func (w *RevealWidget) Dragged(e *fyne.DragEvent) {
	w.surface.PointerMove(w.toSurface(e.PointEvent))
}

func (w *RevealWidget) DragEnd() {
	w.surface.PointerUp()
}

func (w *RevealWidget) TouchDown(e *mobile.TouchEvent) {
	w.surface.PointerDown(w.toSurface(e.PointEvent))
}

func (w *RevealWidget) TouchUp(*mobile.TouchEvent) {
	w.surface.PointerUp()
}

func (w *RevealWidget) TouchCancel(*mobile.TouchEvent) {
	w.surface.PointerUp()
}

func (w *RevealWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(w.hidden, w.maskLayer))
}
