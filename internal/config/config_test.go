package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchReference(t *testing.T) {
	c := Default()
	assert.Equal(t, 300, c.Surface.Width)
	assert.Equal(t, 300, c.Surface.Height)
	assert.Equal(t, 15.0, c.Brush.Radius)
	assert.Equal(t, 0.30, c.Reveal.Threshold)
	assert.Equal(t, 0.05, c.Reveal.FadeStep)
	assert.False(t, c.Brush.Continuous)

	fill, err := ParseColor(c.Surface.Fallback)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}, fill)

	assert.ErrorIs(t, c.Validate(), ErrInvalid, "urls are required")
	c.ImageURL, c.MaskURL = "image.png", "mask.png"
	assert.NoError(t, c.Validate())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reveal.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
image_url = "https://example.com/cat.jpg"
mask_url = "mask.png"
load_timeout = "5s"

[brush]
radius = 20
continuous = true

[control]
enabled = true
advertise = true
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cat.jpg", c.ImageURL)
	assert.Equal(t, 20.0, c.Brush.Radius)
	assert.True(t, c.Brush.Continuous)
	assert.Equal(t, 5*time.Second, c.LoadTimeout.Duration)
	assert.Equal(t, ":8888", c.Control.Addr, "unset keys keep defaults")
	assert.Equal(t, 300, c.Surface.Width)
	assert.NoError(t, c.Validate())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reveal.toml")
	require.NoError(t, os.WriteFile(path, []byte("[brush]\nsize = 3\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "brush.size")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidateCollectsProblems(t *testing.T) {
	c := Default()
	c.ImageURL, c.MaskURL = "a", "b"
	c.Surface.Width = 0
	c.Brush.Radius = -1
	c.Reveal.Threshold = 1.5
	c.Reveal.FadeStep = 0
	c.Surface.Fallback = "orange"

	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"surface size", "brush radius", "threshold", "fade step", "orange"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		bad  bool
	}{
		{in: "#fff", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "102030", want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{in: "#10203040", want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: "#12345", bad: true},
		{in: "#zzzzzz", bad: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.bad {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
