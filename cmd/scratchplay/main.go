// Command scratchplay hosts a reveal surface in an ebiten window.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"log/slog"
	"os"
	"sync"

	"ScratchReveal/internal/config"
	"ScratchReveal/internal/input"
	"ScratchReveal/internal/mask"
	"ScratchReveal/internal/reveal"
	"ScratchReveal/internal/state"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type Game struct {
	surface *reveal.Surface
	frames  *reveal.FrameQueue

	m       sync.Mutex
	queued  []func()
	hidden  *ebiten.Image
	pending image.Image

	maskTex   *ebiten.Image
	maskPix   *image.RGBA
	maskDirty bool

	mouse bool
	touch bool
}

func NewGame(surface *reveal.Surface, frames *reveal.FrameQueue) *Game {
	b := surface.Image().Bounds()
	g := &Game{
		surface:   surface,
		frames:    frames,
		maskTex:   ebiten.NewImage(b.Dx(), b.Dy()),
		maskPix:   image.NewRGBA(b),
		maskDirty: true,
	}
	surface.Subscribe(func(ev state.Event) {
		if ev.Kind != state.EventOpacity {
			g.maskDirty = true
		}
	})
	return g
}

// Dispatch queues fn to run on the game loop. Safe for concurrent use.
func (g *Game) Dispatch(fn func()) {
	g.m.Lock()
	g.queued = append(g.queued, fn)
	g.m.Unlock()
}

func (g *Game) loadHidden(loader mask.Loader, location string) {
	if location == "" {
		return
	}
	go func() {
		img, err := loader.Load(context.Background(), location)
		if err != nil {
			log.Printf("Failed to load image %s: %v", location, err)
			return
		}
		g.m.Lock()
		g.pending = img
		g.m.Unlock()
	}()
}

func (g *Game) Update() error {
	g.m.Lock()
	queued := g.queued
	g.queued = nil
	pending := g.pending
	g.pending = nil
	g.m.Unlock()

	for _, fn := range queued {
		fn()
	}
	if pending != nil {
		g.hidden = ebiten.NewImageFromImage(pending)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.surface.ResetMask()
	}

	g.updateMouse()
	g.updateTouch()

	g.frames.Flush()
	return nil
}

func (g *Game) updateMouse() {
	x, y := ebiten.CursorPosition()
	p := state.Point{X: float32(x), Y: float32(y)}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.mouse = true
		g.surface.PointerDown(p)
	case g.mouse && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.surface.PointerMove(p)
	case g.mouse:
		// Released anywhere, inside the window or not.
		g.mouse = false
		g.surface.PointerUp()
	}
}

func (g *Game) updateTouch() {
	var touches []state.Point
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		touches = append(touches, state.Point{X: float32(x), Y: float32(y)})
	}
	p, ok := input.FirstTouch(touches)
	switch {
	case ok && !g.touch:
		g.touch = true
		g.surface.PointerDown(p)
	case ok:
		g.surface.PointerMove(p)
	case g.touch:
		g.touch = false
		g.surface.PointerUp()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.hidden != nil {
		op := &ebiten.DrawImageOptions{}
		b := g.hidden.Bounds()
		sb := screen.Bounds()
		op.GeoM.Scale(float64(sb.Dx())/float64(b.Dx()), float64(sb.Dy())/float64(b.Dy()))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(g.hidden, op)
	}

	if g.maskDirty {
		// WritePixels takes premultiplied alpha.
		draw.Draw(g.maskPix, g.maskPix.Bounds(), g.surface.Image(), image.Point{}, draw.Src)
		g.maskTex.WritePixels(g.maskPix.Pix)
		g.maskDirty = false
	}
	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(g.surface.Opacity()))
	screen.DrawImage(g.maskTex, op)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s %.0f%%  [R] reset", g.surface.State(), g.surface.Fraction()*100))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	p := g.surface.Params()
	return p.Width, p.Height
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	imageURL := flag.String("image", "", "URL or path of the image to reveal")
	maskURL := flag.String("mask", "", "URL or path of the covering mask image")
	continuous := flag.Bool("continuous", false, "fill gaps between stroke samples")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *imageURL != "" {
		cfg.ImageURL = *imageURL
	}
	if *maskURL != "" {
		cfg.MaskURL = *maskURL
	}
	if *continuous {
		cfg.Brush.Continuous = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	fill, err := config.ParseColor(cfg.Surface.Fallback)
	if err != nil {
		log.Fatal(err)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	reveal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	loader := mask.NewHTTPLoader(cfg.LoadTimeout.Duration)
	frames := reveal.NewFrameQueue()
	var game *Game
	surface, err := reveal.New(reveal.Params{
		Width:       cfg.Surface.Width,
		Height:      cfg.Surface.Height,
		BrushRadius: cfg.Brush.Radius,
		Continuous:  cfg.Brush.Continuous,
		Threshold:   cfg.Reveal.Threshold,
		FadeStep:    cfg.Reveal.FadeStep,
		Fill:        fill,
	},
		reveal.WithLoader(loader),
		reveal.WithScheduler(frames),
		reveal.WithDispatcher(func(fn func()) { game.Dispatch(fn) }),
		reveal.WithLoadTimeout(cfg.LoadTimeout.Duration),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer surface.Close()

	game = NewGame(surface, frames)
	game.loadHidden(loader, cfg.ImageURL)
	surface.SetMaskURL(cfg.MaskURL)

	ebiten.SetWindowSize(cfg.Surface.Width*2, cfg.Surface.Height*2)
	ebiten.SetWindowTitle("Scratch Reveal")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
