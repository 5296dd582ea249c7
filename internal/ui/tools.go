package ui

import (
	"fmt"
	"image"
	"io"
	"log"

	"ScratchReveal/internal/export"
	"ScratchReveal/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// NewToolbar builds the reset and export controls for view.
func NewToolbar(view *RevealWidget, win fyne.Window, status *widget.Label, exportDir string) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			view.Surface().ResetMask()
		}), // Try again
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FileImageIcon(), func() {
			saveSnapshot(view, win, status, exportDir, "reveal.png", export.WritePNG)
		}), // Export PNG
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() {
			saveSnapshot(view, win, status, exportDir, "reveal.pdf", export.WritePDF)
		}), // Export PDF
	)

	return container.NewHBox(
		widget.NewLabel("Scratch Reveal"),
		tb,
		layout.NewSpacer(),
	)
}

func saveSnapshot(view *RevealWidget, win fyne.Window, status *widget.Label, dir, name string,
	write func(io.Writer, image.Image) error) {
	snapshot := view.Snapshot()
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if wc == nil {
			return
		}
		defer func() {
			if err := wc.Close(); err != nil {
				log.Printf("Error closing writer: %v", err)
			}
		}()
		if err := write(wc, snapshot); err != nil {
			log.Printf("[UI] Export to %s failed: %v", wc.URI(), err)
			status.SetText("Export failed")
			return
		}
		log.Printf("[UI] Exported snapshot to %s", wc.URI())
		status.SetText("Saved " + wc.URI().Name())
	}, win)
	d.SetFileName(name)
	if dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			d.SetLocation(lister)
		}
	}
	d.Show()
}

// statusText summarizes ev for the status bar.
func statusText(ev state.Event) string {
	switch ev.State {
	case state.Revealing:
		return "Revealing..."
	case state.Revealed:
		return "Revealed"
	}
	if ev.Fraction == 0 {
		return "Scratch to reveal"
	}
	return fmt.Sprintf("Scratched %.0f%%", ev.Fraction*100)
}
