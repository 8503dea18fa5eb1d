package webimage

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FitWithin returns the size of a w×h image scaled by a single factor so that it
// fits inside maxW×maxH. Sizes already within bounds are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := min(max(1, int(math.Round(float64(w)*scale))), maxW)
	nh := min(max(1, int(math.Round(float64(h)*scale))), maxH)
	return nw, nh
}

// Resize downsamples img with a Lanczos filter when it exceeds maxW×maxH.
func Resize(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
