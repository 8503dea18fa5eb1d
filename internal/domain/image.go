package domain

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
)

// Validation failure reasons for uploaded images.
var (
	ErrImageTooLarge    = errors.New("image exceeds maximum upload size")
	ErrImageUndecodable = errors.New("file is not a decodable image")
)

// ImageValidationError is returned before anything is persisted when an upload
// is rejected. Reason is ErrImageTooLarge or ErrImageUndecodable.
type ImageValidationError struct {
	Reason error
	Err    error
}

func (e *ImageValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Reason, e.Err)
	}
	return e.Reason.Error()
}

// Unwrap exposes both the reason sentinel and the underlying cause to errors.Is.
func (e *ImageValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// ImageUpload is an uploaded image owned by one request.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// ImageCommitFunc persists a new image reference (the partial save).
type ImageCommitFunc func(ctx context.Context, newName string) error

// ImageNormalizer validates uploads and converts stored images to the web format.
type ImageNormalizer interface {
	// Validate decodes the upload and rewinds it. Failures are *ImageValidationError.
	Validate(r io.ReadSeeker) (image.Image, error)
	// Normalize optimizes the stored image called name. decoded may be nil, in which
	// case the file is read from storage. commit is called with the new reference
	// before the stale original is removed. Failures are logged and reported as false.
	Normalize(ctx context.Context, name string, decoded image.Image, commit ImageCommitFunc) bool
}

// MediaStorage stores uploaded files under storage-relative names such as "events_img/x.jpg".
type MediaStorage interface {
	Save(ctx context.Context, dir, filename string, r io.Reader) (name string, err error)
	Path(name string) string
	Remove(name string) error
}
