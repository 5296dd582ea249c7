// Package config loads the scratch reveal settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	ImageURL string `toml:"image_url"`
	MaskURL  string `toml:"mask_url"`

	Surface Surface `toml:"surface"`
	Brush   Brush   `toml:"brush"`
	Reveal  Reveal  `toml:"reveal"`
	Control Control `toml:"control"`
	Export  Export  `toml:"export"`

	// LoadTimeout bounds each asset fetch, e.g. "20s".
	LoadTimeout Duration `toml:"load_timeout"`
	Debug       bool     `toml:"debug"`
}

type Surface struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Fallback string `toml:"fallback"`
}

type Brush struct {
	Radius     float64 `toml:"radius"`
	Continuous bool    `toml:"continuous"`
}

type Reveal struct {
	Threshold float64 `toml:"threshold"`
	FadeStep  float64 `toml:"fade_step"`
}

type Control struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Advertise bool   `toml:"advertise"`
}

type Export struct {
	Dir string `toml:"dir"`
}

// Duration is a time.Duration read from a TOML string.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Surface: Surface{Width: 300, Height: 300, Fallback: "#ffa500"},
		Brush:   Brush{Radius: 15},
		Reveal:  Reveal{Threshold: 0.30, FadeStep: 0.05},
		Control: Control{Addr: ":8888"},
		Export:  Export{Dir: "."},

		LoadTimeout: Duration{30 * time.Second},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default value. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, undecoded[0].String(), path)
	}
	return cfg, nil
}

// Validate checks the values a reveal surface cannot work without.
func (c Config) Validate() error {
	var errs []error
	if c.ImageURL == "" {
		errs = append(errs, errors.New("image_url is required"))
	}
	if c.MaskURL == "" {
		errs = append(errs, errors.New("mask_url is required"))
	}
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		errs = append(errs, fmt.Errorf("surface size %dx%d must be positive", c.Surface.Width, c.Surface.Height))
	}
	if _, err := ParseColor(c.Surface.Fallback); err != nil {
		errs = append(errs, err)
	}
	if c.Brush.Radius <= 0 {
		errs = append(errs, fmt.Errorf("brush radius %v must be positive", c.Brush.Radius))
	}
	if c.Reveal.Threshold <= 0 || c.Reveal.Threshold > 1 {
		errs = append(errs, fmt.Errorf("reveal threshold %v outside (0, 1]", c.Reveal.Threshold))
	}
	if c.Reveal.FadeStep <= 0 || c.Reveal.FadeStep > 1 {
		errs = append(errs, fmt.Errorf("fade step %v outside (0, 1]", c.Reveal.FadeStep))
	}
	if c.Control.Enabled && c.Control.Addr == "" {
		errs = append(errs, errors.New("control addr is required when control is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is
// optional).
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
