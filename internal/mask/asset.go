package mask

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"ScratchReveal/internal/logging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Loader fetches and decodes an image asset.
type Loader interface {
	Load(ctx context.Context, location string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, location string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, location string) (image.Image, error) {
	return f(ctx, location)
}

var ErrEmptyLocation = errors.New("mask: empty asset location")

// HTTPLoader loads assets over http(s) or from the local filesystem.
// Requests carry no cookies or credentials.
type HTTPLoader struct {
	Client *http.Client
	// MaxBytes bounds the size of a fetched asset; zero means 32 MiB.
	MaxBytes int64
}

// NewHTTPLoader returns a loader whose requests time out after timeout.
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{Client: &http.Client{Timeout: timeout}}
}

func (l *HTTPLoader) Load(ctx context.Context, location string) (image.Image, error) {
	if location == "" {
		return nil, ErrEmptyLocation
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("mask: parse %q: %w", location, err)
	}

	var r io.ReadCloser
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		r, err = l.fetch(ctx, u)
	case "file":
		r, err = os.Open(u.Path)
	default:
		r, err = os.Open(location)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	limit := l.MaxBytes
	if limit <= 0 {
		limit = 32 << 20
	}
	img, format, err := image.Decode(io.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("mask: decode %q: %w", location, err)
	}
	logging.Logger().Debug("mask: asset decoded", "location", location, "format", format, "bounds", img.Bounds())
	return img, nil
}

func (l *HTTPLoader) fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	anon := *u
	anon.User = nil
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, anon.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mask: fetch %s: %w", u.Redacted(), err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("mask: fetch %s: unexpected status %s", u.Redacted(), resp.Status)
	}
	return resp.Body, nil
}
