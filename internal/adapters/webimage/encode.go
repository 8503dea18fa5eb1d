package webimage

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// Ext is the extension of every normalized image.
const Ext = ".webp"

// slowest libwebp method, best compression
const webpMethod = 6

type encodeFunc func(w io.Writer, img image.Image, quality int) error

func encodeWebP(w io.Writer, img image.Image, quality int) error {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("webp options: %w", err)
	}
	opts.Method = webpMethod
	return webp.Encode(w, toNRGBA(img), opts)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// encodeTemp encodes img into a temporary file next to target and returns its
// path. Nothing is left behind on failure; target itself is never touched.
func encodeTemp(encode encodeFunc, img image.Image, quality int, target string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", err
	}
	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := encode(tmp, img, quality); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	done = true
	return tmp.Name(), nil
}
