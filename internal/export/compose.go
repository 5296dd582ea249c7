package export

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Compose flattens the two layers of a reveal surface into one width x
// height image: hidden scaled to fill, then the mask layer drawn over it
// at the given opacity. Either layer may be nil.
func Compose(hidden, maskLayer image.Image, opacity float64, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	b := dst.Bounds()
	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)

	if hidden != nil && !hidden.Bounds().Empty() {
		scaled := resize.Resize(uint(width), uint(height), hidden, resize.Bilinear)
		draw.Draw(dst, b, scaled, scaled.Bounds().Min, draw.Over)
	}

	if maskLayer != nil && opacity > 0 {
		if opacity > 1 {
			opacity = 1
		}
		alpha := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
		draw.DrawMask(dst, b, maskLayer, maskLayer.Bounds().Min, alpha, image.Point{}, draw.Over)
	}
	return dst
}
