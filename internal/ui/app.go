package ui

import (
	"ScratchReveal/internal/config"
	"ScratchReveal/internal/mask"
	"ScratchReveal/internal/reveal"
	"ScratchReveal/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// RunApp shows the reveal window and blocks until it is closed. frames
// must be the queue the surface was built with.
func RunApp(cfg config.Config, surface *reveal.Surface, frames *reveal.FrameQueue, loader mask.Loader, shareLink string) {
	myApp := app.NewWithID("io.scratchreveal")
	myWindow := myApp.NewWindow("Scratch Reveal")

	view := NewRevealWidget(surface, loader)
	status := widget.NewLabel(statusText(surface.Snapshot()))
	surface.Subscribe(func(ev state.Event) {
		status.SetText(statusText(ev))
	})

	toolbar := NewToolbar(view, myWindow, status, cfg.Export.Dir)
	var footer fyne.CanvasObject = status
	if shareLink != "" {
		footer = container.NewVBox(status, widget.NewLabel("Remote control: "+shareLink))
	}
	content := container.NewBorder(toolbar, footer, nil, nil, container.NewCenter(view))
	myWindow.SetContent(content)
	myWindow.Resize(fyne.NewSize(float32(cfg.Surface.Width)+160, float32(cfg.Surface.Height)+160))

	driver := NewFrameDriver(frames)
	driver.Start()
	defer driver.Stop()

	view.SetImageURL(cfg.ImageURL)
	surface.SetMaskURL(cfg.MaskURL)
	myWindow.ShowAndRun()
}
