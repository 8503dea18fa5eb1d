package webimage

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"eventhub/internal/domain"
)

// Validate rejects streams larger than maxBytes or that do not decode as a raster
// image (JPEG, PNG, GIF, BMP, TIFF, WebP). On success the decoded image is
// returned and r is rewound to offset 0 so the untouched original can be stored.
func Validate(r io.ReadSeeker, maxBytes int64) (image.Image, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measure upload: %w", err)
	}
	if size > maxBytes {
		return nil, &domain.ImageValidationError{
			Reason: domain.ErrImageTooLarge,
			Err:    fmt.Errorf("%d bytes exceeds limit of %d", size, maxBytes),
		}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	img, decodeErr := imaging.Decode(r, imaging.AutoOrientation(true))

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}
	if decodeErr != nil {
		return nil, &domain.ImageValidationError{Reason: domain.ErrImageUndecodable, Err: decodeErr}
	}
	return img, nil
}
