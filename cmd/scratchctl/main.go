// Command scratchctl resets and watches a reveal surface over its control
// channel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	revealnet "ScratchReveal/internal/net"
	"ScratchReveal/internal/state"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "", "host:port or share link of the surface; browse with mDNS when empty")
	browse := flag.Duration("browse", 3*time.Second, "how long to browse for surfaces")
	reset := flag.Bool("reset", false, "reset the mask and exit")
	watch := flag.Bool("watch", false, "print change notifications until interrupted")
	flag.Parse()

	target := *addr
	if target == "" {
		found, err := revealnet.Browse(*browse)
		if err != nil {
			log.Printf("[CTL] %v", err)
		}
		if len(found) == 0 {
			log.Fatal("no reveal surface found on the local network")
		}
		for _, a := range found {
			log.Printf("[CTL] Found surface at %s", a)
		}
		target = found[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, target, *reset, *watch); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, target string, reset, watch bool) error {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := revealnet.Dial(dialCtx, target)
	if err != nil {
		return err
	}
	defer client.Close()

	go func() {
		<-ctx.Done()
		client.Close()
	}()

	// The server greets every peer with its current state.
	msg, err := client.Next()
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	printEvent(msg)

	if reset {
		if err := client.Reset(); err != nil {
			return fmt.Errorf("send reset: %w", err)
		}
		ev, err := client.WaitFor(state.EventRepainted, 5*time.Second)
		if err != nil {
			return err
		}
		printEvent(revealnet.Message{Type: revealnet.MsgEvent, Event: &ev})
	}
	if !watch {
		return nil
	}

	for {
		msg, err := client.Next()
		if err != nil {
			var closeErr *websocket.CloseError
			if ctx.Err() != nil || errors.As(err, &closeErr) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		printEvent(msg)
	}
}

func printEvent(msg revealnet.Message) {
	if msg.Event == nil {
		return
	}
	ev := msg.Event
	switch ev.Kind {
	case state.EventErased:
		fmt.Printf("%6d erased   %5.1f%%\n", ev.Lamport, ev.Fraction*100)
	case state.EventOpacity:
		fmt.Printf("%6d opacity  %.2f\n", ev.Lamport, ev.Opacity)
	default:
		fmt.Printf("%6d %-8s %s (%.1f%%)\n", ev.Lamport, ev.Kind, ev.State, ev.Fraction*100)
	}
}
