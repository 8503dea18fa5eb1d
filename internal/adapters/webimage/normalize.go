package webimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Flatten composites paletted images and images with transparent pixels onto an
// opaque white background. Opaque images are returned as is.
func Flatten(img image.Image) image.Image {
	if p, ok := img.(*image.Paletted); ok {
		return overWhite(imaging.Clone(p))
	}
	if isOpaque(img) {
		return img
	}
	return overWhite(img)
}

// isOpaque uses the image's own Opaque method when it has one and otherwise
// checks every pixel.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

func overWhite(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
