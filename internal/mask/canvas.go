// Package mask implements the scratch-off covering layer: a fixed-size
// pixel buffer that can be repainted to fully covering and eroded with a
// circular brush.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"ScratchReveal/internal/logging"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

const (
	// Covering is the opacity of an untouched mask pixel.
	Covering uint8 = 255
	// Erased is the opacity of a scratched-away pixel.
	Erased uint8 = 0
)

// Fallback is the covering fill used until a mask asset is available.
var Fallback = color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}

var ErrInvalidSize = errors.New("mask: width and height must be positive")

// Canvas owns the mask pixel buffer. The paint plane holds the covering
// colors; the opacity plane holds one coverage byte per pixel.
//
// A nil *Canvas is valid and every method on it is a no-op, which is how
// an unavailable drawing surface degrades.
//
// Canvas is not safe for concurrent use.
type Canvas struct {
	width  int
	height int
	fill   color.NRGBA

	paint   *image.NRGBA
	opacity *gg.Mask
	erased  int

	view  *image.NRGBA
	dirty image.Rectangle
}

// NewCanvas allocates a width x height canvas already reset to the fill.
func NewCanvas(width, height int, fill color.Color) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	if fill == nil {
		fill = Fallback
	}
	c := &Canvas{
		width:   width,
		height:  height,
		fill:    color.NRGBAModel.Convert(fill).(color.NRGBA),
		paint:   image.NewNRGBA(image.Rect(0, 0, width, height)),
		opacity: gg.NewMask(width, height),
		view:    image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
	c.fill.A = 0xff
	c.Reset(nil)
	return c, nil
}

func (c *Canvas) Bounds() image.Rectangle {
	if c == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, c.width, c.height)
}

// Total is the number of pixels in the buffer.
func (c *Canvas) Total() int {
	if c == nil {
		return 0
	}
	return c.width * c.height
}

// Erased is the number of pixels whose opacity is exactly zero. It is
// maintained by EraseCircle and always equals Scan.
func (c *Canvas) Erased() int {
	if c == nil {
		return 0
	}
	return c.erased
}

// Opacity returns the coverage at (x, y); 0 outside the buffer.
func (c *Canvas) Opacity(x, y int) uint8 {
	if c == nil {
		return Erased
	}
	return c.opacity.At(x, y)
}

// Reset repaints the whole buffer and makes every pixel fully covering.
// When src is non-nil it is scaled to fill the buffer and drawn over the
// fallback fill, so translucent asset pixels still cover the image.
func (c *Canvas) Reset(src image.Image) {
	if c == nil {
		return
	}
	b := c.Bounds()
	draw.Draw(c.paint, b, image.NewUniform(c.fill), image.Point{}, draw.Src)
	if src != nil && !src.Bounds().Empty() {
		draw.BiLinear.Scale(c.paint, b, src, src.Bounds(), draw.Over, nil)
	}
	c.opacity.Fill(Covering)
	c.erased = 0
	c.dirty = b

	logging.Logger().Debug("mask: reset", "width", c.width, "height", c.height, "asset", src != nil)
}

// EraseCircle clears every pixel whose centre lies within radius of
// (x, y), clipped to the buffer. It returns how many pixels went from
// covering to erased; erasing already clear pixels is a no-op.
func (c *Canvas) EraseCircle(x, y, radius float64) int {
	if c == nil || radius < 0 || !finite(x) || !finite(y) || !finite(radius) {
		return 0
	}
	if x+radius < 0 || y+radius < 0 || x-radius > float64(c.width) || y-radius > float64(c.height) {
		return 0
	}
	radius = math.Min(radius, float64(c.width+c.height))
	area := image.Rect(
		int(math.Floor(x-radius)), int(math.Floor(y-radius)),
		int(math.Ceil(x+radius))+1, int(math.Ceil(y+radius))+1,
	).Intersect(c.Bounds())
	if area.Empty() {
		return 0
	}

	r2 := radius * radius
	data := c.opacity.Data()
	n := 0
	for py := area.Min.Y; py < area.Max.Y; py++ {
		dy := float64(py) + 0.5 - y
		row := py * c.width
		for px := area.Min.X; px < area.Max.X; px++ {
			dx := float64(px) + 0.5 - x
			if dx*dx+dy*dy > r2 {
				continue
			}
			if data[row+px] == Erased {
				continue
			}
			data[row+px] = Erased
			n++
		}
	}
	if n > 0 {
		c.erased += n
		c.dirty = c.dirty.Union(area)
	}
	return n
}

// Scan counts erased pixels with a full pass over the opacity plane.
func (c *Canvas) Scan() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, a := range c.opacity.Data() {
		if a == Erased {
			n++
		}
	}
	return n
}

// Image returns the composited mask: paint colors with the opacity plane
// as alpha. The returned image is owned by the canvas and is updated in
// place by the next call; callers must not modify it.
func (c *Canvas) Image() *image.NRGBA {
	if c == nil {
		return nil
	}
	if c.dirty.Empty() {
		return c.view
	}
	data := c.opacity.Data()
	for y := c.dirty.Min.Y; y < c.dirty.Max.Y; y++ {
		for x := c.dirty.Min.X; x < c.dirty.Max.X; x++ {
			o := c.view.PixOffset(x, y)
			copy(c.view.Pix[o:o+3], c.paint.Pix[o:o+3])
			c.view.Pix[o+3] = data[y*c.width+x]
		}
	}
	c.dirty = image.Rectangle{}
	return c.view
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
