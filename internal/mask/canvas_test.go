package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, w, h int) *Canvas {
	t.Helper()
	c, err := NewCanvas(w, h, nil)
	require.NoError(t, err)
	return c
}

func TestNewCanvasRejectsEmptySize(t *testing.T) {
	_, err := NewCanvas(0, 10, nil)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = NewCanvas(10, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestResetCoversEveryPixel(t *testing.T) {
	c := newTestCanvas(t, 20, 10)
	c.EraseCircle(10, 5, 4)
	require.NotZero(t, c.Erased())

	c.Reset(nil)
	assert.Zero(t, c.Erased())
	assert.Zero(t, c.Scan())
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			require.Equal(t, Covering, c.Opacity(x, y))
		}
	}
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}, c.Image().NRGBAAt(3, 3))
}

func TestResetFromAssetScalesOverFallback(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	blue := color.NRGBA{B: 0xff, A: 0xff}
	src.SetNRGBA(0, 0, blue)
	src.SetNRGBA(1, 0, blue)
	src.SetNRGBA(0, 1, blue)
	src.SetNRGBA(1, 1, blue)

	c := newTestCanvas(t, 8, 8)
	c.Reset(src)
	got := c.Image().NRGBAAt(4, 4)
	assert.InDelta(t, 0xff, got.B, 1)
	assert.InDelta(t, 0, got.R, 1)
	assert.Equal(t, uint8(0xff), got.A)

	transparent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	c.Reset(transparent)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}, c.Image().NRGBAAt(1, 1),
		"transparent asset pixels show the fallback fill")
	assert.Zero(t, c.Scan())
}

func TestEraseCircleSinglePixel(t *testing.T) {
	c := newTestCanvas(t, 10, 10)
	n := c.EraseCircle(3.5, 4.5, 0.5)
	assert.Equal(t, 1, n)
	assert.Equal(t, Erased, c.Opacity(3, 4))
	assert.Equal(t, Covering, c.Opacity(4, 4))
	assert.Equal(t, Covering, c.Opacity(3, 5))
}

func TestEraseCircleIsIdempotent(t *testing.T) {
	c := newTestCanvas(t, 50, 50)
	first := c.EraseCircle(25, 25, 6)
	require.Positive(t, first)
	before := c.Erased()

	assert.Zero(t, c.EraseCircle(25, 25, 6))
	assert.Equal(t, before, c.Erased())
	assert.Equal(t, c.Scan(), c.Erased())
}

func TestEraseCircleClipsToBounds(t *testing.T) {
	c := newTestCanvas(t, 30, 30)

	n := c.EraseCircle(0, 0, 5)
	assert.Positive(t, n)
	assert.Equal(t, c.Scan(), c.Erased())

	assert.Zero(t, c.EraseCircle(-100, 15, 15))
	assert.Zero(t, c.EraseCircle(15, 400, 15))
	assert.Zero(t, c.EraseCircle(15, 15, -1))

	// A brush far larger than the buffer clears it without overflowing.
	c.EraseCircle(15, 15, 1e12)
	assert.Equal(t, c.Total(), c.Erased())
	assert.Equal(t, c.Total(), c.Scan())
}

func TestErasedCounterMatchesScan(t *testing.T) {
	c := newTestCanvas(t, 64, 48)
	points := [][2]float64{{3, 3}, {10, 12}, {11, 12}, {40, 40}, {63, 47}, {32, 0}, {32, 24}}
	prev := 0
	for _, p := range points {
		c.EraseCircle(p[0], p[1], 7)
		assert.Equal(t, c.Scan(), c.Erased())
		assert.GreaterOrEqual(t, c.Erased(), prev)
		prev = c.Erased()
	}
}

func TestImageTracksErasure(t *testing.T) {
	c := newTestCanvas(t, 10, 10)
	img := c.Image()
	require.Equal(t, uint8(0xff), img.NRGBAAt(5, 5).A)

	c.EraseCircle(5.5, 5.5, 0.5)
	img = c.Image()
	assert.Equal(t, uint8(0), img.NRGBAAt(5, 5).A)
	assert.Equal(t, uint8(0xff), img.NRGBAAt(6, 5).A)
}

func TestNilCanvasIsInert(t *testing.T) {
	var c *Canvas
	c.Reset(nil)
	assert.Zero(t, c.EraseCircle(1, 1, 15))
	assert.Zero(t, c.Erased())
	assert.Zero(t, c.Scan())
	assert.Zero(t, c.Total())
	assert.Nil(t, c.Image())
	assert.True(t, c.Bounds().Empty())
}
