package webimage

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape 4:3 bounded by height", 4000, 3000, 1440, 1080},
		{"wide panorama bounded by width", 6000, 1000, 1920, 320},
		{"portrait", 1000, 4000, 270, 1080},
		{"exact bounds", 1920, 1080, 1920, 1080},
		{"within bounds untouched", 800, 600, 800, 600},
		{"tiny untouched", 1, 1, 1, 1},
		{"extreme strip keeps one pixel", 100000, 10, 1920, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.w, tt.h, 1920, 1080)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.LessOrEqual(t, w, 1920)
			assert.LessOrEqual(t, h, 1080)
		})
	}
}

func TestFitWithin_keepsAspectRatio(t *testing.T) {
	sizes := [][2]int{{4000, 3000}, {3000, 4000}, {2500, 2500}, {7680, 4320}, {2049, 1537}}
	for _, s := range sizes {
		w, h := FitWithin(s[0], s[1], 1920, 1080)
		orig := float64(s[0]) / float64(s[1])
		got := float64(w) / float64(h)
		assert.InDelta(t, orig, got, orig*0.01, "size %dx%d", s[0], s[1])
	}
}

func TestResize(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 4000, 3000))
	out := Resize(big, 1920, 1080)
	assert.Equal(t, image.Pt(1440, 1080), out.Bounds().Size())

	small := image.NewNRGBA(image.Rect(0, 0, 800, 600))
	assert.Same(t, small, Resize(small, 1920, 1080).(*image.NRGBA))
}
