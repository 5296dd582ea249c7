package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"

	"ScratchReveal/internal/config"
	"ScratchReveal/internal/mask"
	revealnet "ScratchReveal/internal/net"
	"ScratchReveal/internal/reveal"
	"ScratchReveal/internal/state"
	"ScratchReveal/internal/ui"

	"fyne.io/fyne/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	imageURL := flag.String("image", "", "URL or path of the image to reveal")
	maskURL := flag.String("mask", "", "URL or path of the covering mask image")
	control := flag.Bool("control", false, "serve the remote control channel")
	controlAddr := flag.String("control-addr", "", "listen address of the control channel")
	advertise := flag.Bool("advertise", false, "advertise the control channel over mDNS")
	continuous := flag.Bool("continuous", false, "fill gaps between stroke samples")
	debug := flag.Bool("debug", false, "log engine diagnostics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "image":
			cfg.ImageURL = *imageURL
		case "mask":
			cfg.MaskURL = *maskURL
		case "control":
			cfg.Control.Enabled = *control
		case "control-addr":
			cfg.Control.Addr = *controlAddr
		case "advertise":
			cfg.Control.Advertise = *advertise
		case "continuous":
			cfg.Brush.Continuous = *continuous
		case "debug":
			cfg.Debug = *debug
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	reveal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	fill, err := config.ParseColor(cfg.Surface.Fallback)
	if err != nil {
		return err
	}
	params := reveal.Params{
		Width:       cfg.Surface.Width,
		Height:      cfg.Surface.Height,
		BrushRadius: cfg.Brush.Radius,
		Continuous:  cfg.Brush.Continuous,
		Threshold:   cfg.Reveal.Threshold,
		FadeStep:    cfg.Reveal.FadeStep,
		Fill:        fill,
	}

	loader := mask.NewHTTPLoader(cfg.LoadTimeout.Duration)
	frames := reveal.NewFrameQueue()
	surface, err := reveal.New(params,
		reveal.WithLoader(loader),
		reveal.WithScheduler(frames),
		reveal.WithDispatcher(fyne.Do),
		reveal.WithLoadTimeout(cfg.LoadTimeout.Duration),
	)
	if err != nil {
		return err
	}
	defer surface.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	shareLink := ""
	if cfg.Control.Enabled {
		shareLink, err = startControl(ctx, g, cfg, surface)
		if err != nil {
			return err
		}
	}

	log.Println("Starting reveal surface")
	ui.RunApp(cfg, surface, frames, loader, shareLink)

	cancel()
	return g.Wait()
}

// startControl serves the remote control channel and, if configured,
// advertises it until ctx is done.
func startControl(ctx context.Context, g *errgroup.Group, cfg config.Config, surface *reveal.Surface) (string, error) {
	ln, err := net.Listen("tcp", cfg.Control.Addr)
	if err != nil {
		return "", fmt.Errorf("control channel: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	server := revealnet.NewControlServer(surface, fyne.Do)
	server.Publish(surface.Snapshot())
	surface.Subscribe(func(ev state.Event) {
		server.Publish(ev)
	})
	g.Go(func() error {
		return server.Serve(ctx, ln)
	})

	if cfg.Control.Advertise {
		mdnsServer, err := revealnet.Advertise(port)
		if err != nil {
			log.Printf("[HOST] mDNS advertisement unavailable: %v", err)
		} else {
			g.Go(func() error {
				<-ctx.Done()
				return mdnsServer.Shutdown()
			})
		}
	}

	return revealnet.ShareLink(revealnet.GetOutgoingIP(), port), nil
}
