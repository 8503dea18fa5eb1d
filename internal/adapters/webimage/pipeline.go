// Package webimage normalizes uploaded event images for the web: validate,
// downscale, flatten transparency, re-encode as WebP and swap the stored file.
package webimage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"

	"eventhub/internal/domain"
)

// Config bounds the pipeline. Zero fields fall back to DefaultConfig values.
type Config struct {
	MaxWidth       int
	MaxHeight      int
	Quality        int
	MaxUploadBytes int64
}

// DefaultConfig returns 1920×1080 bounds, quality 85 and a 10 MiB upload cap.
func DefaultConfig() Config {
	return Config{
		MaxWidth:       1920,
		MaxHeight:      1080,
		Quality:        85,
		MaxUploadBytes: 10 << 20,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxWidth <= 0 {
		c.MaxWidth = d.MaxWidth
	}
	if c.MaxHeight <= 0 {
		c.MaxHeight = d.MaxHeight
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = d.Quality
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	return c
}

// Stage names the pipeline step a ProcessingError came from.
type Stage string

const (
	StageDecode Stage = "decode"
	StageEncode Stage = "encode"
	StageCommit Stage = "commit"
	StageSwap   Stage = "swap"
)

// ProcessingError is a recoverable failure after the original was stored.
type ProcessingError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Pipeline implements domain.ImageNormalizer on top of a MediaStorage.
type Pipeline struct {
	cfg     Config
	storage domain.MediaStorage
	logger  *slog.Logger
	encode  encodeFunc
}

// NewPipeline returns a Pipeline resolving stored names through storage.
func NewPipeline(cfg Config, storage domain.MediaStorage, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg.withDefaults(),
		storage: storage,
		logger:  logger,
		encode:  encodeWebP,
	}
}

// Validate implements domain.ImageNormalizer.
func (p *Pipeline) Validate(r io.ReadSeeker) (image.Image, error) {
	return Validate(r, p.cfg.MaxUploadBytes)
}

// Process converts the stored image to WebP and returns its new reference.
// commit runs before the original is deleted or overwritten; if it fails the
// encoded file is discarded and the original kept.
func (p *Pipeline) Process(ctx context.Context, name string, decoded image.Image, commit domain.ImageCommitFunc) (string, error) {
	if name == "" {
		return "", &ProcessingError{Stage: StageDecode, Err: errors.New("empty image reference")}
	}
	src := p.storage.Path(name)

	img := decoded
	if img == nil {
		var err error
		img, err = imaging.Open(src, imaging.AutoOrientation(true))
		if err != nil {
			return "", &ProcessingError{Stage: StageDecode, Path: src, Err: err}
		}
	}

	img = Flatten(Resize(img, p.cfg.MaxWidth, p.cfg.MaxHeight))

	dst := WebPPath(src)
	tmp, err := encodeTemp(p.encode, img, p.cfg.Quality, dst)
	if err != nil {
		return "", &ProcessingError{Stage: StageEncode, Path: dst, Err: err}
	}
	defer func() { _ = os.Remove(tmp) }()

	// A .webp original is re-encoded in place, so it is only overwritten once
	// the reference has been committed.
	inPlace := dst == src
	if !inPlace {
		if err := os.Rename(tmp, dst); err != nil {
			return "", &ProcessingError{Stage: StageEncode, Path: dst, Err: err}
		}
	}

	newName := SwapName(name, src, dst)
	if err := commit(ctx, newName); err != nil {
		if !inPlace {
			_ = os.Remove(dst)
		}
		return "", &ProcessingError{Stage: StageCommit, Path: dst, Err: err}
	}

	if inPlace {
		if err := os.Rename(tmp, dst); err != nil {
			return "", &ProcessingError{Stage: StageSwap, Path: dst, Err: err}
		}
		return newName, nil
	}
	if err := RemoveStale(src, dst); err != nil {
		p.logger.WarnContext(ctx, "stale original not removed", "path", src, "err", err)
	}
	return newName, nil
}

// Normalize implements domain.ImageNormalizer. Every failure, including a
// panic inside a codec, is logged and reported as false.
func (p *Pipeline) Normalize(ctx context.Context, name string, decoded image.Image, commit domain.ImageCommitFunc) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "image normalization panicked", "image", name, "panic", r)
			ok = false
		}
	}()

	newName, err := p.Process(ctx, name, decoded, commit)
	if err != nil {
		attrs := []any{"image", name, "err", err}
		var perr *ProcessingError
		if errors.As(err, &perr) {
			attrs = append(attrs, "stage", perr.Stage)
		}
		p.logger.WarnContext(ctx, "image normalization failed, keeping original", attrs...)
		return false
	}
	p.logger.InfoContext(ctx, "image normalized", "image", name, "result", newName)
	return true
}
