package ioutils

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrNotImage is returned by Load for files without a known image signature.
var ErrNotImage = errors.New("not an image")

// ErrUnsupportedFormat is returned by Save when the output extension has no
// encoder.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ImageService loads, scales and encodes collage images.
//
// ImageService is used to:
//   - Decode the collected files (PNG, JPEG, GIF, TIFF, BMP, WebP)
//   - Resize each image to the exact cell size
//   - Encode the finished canvas in the format implied by the output path
//
// Example usage:
//
//	svc := NewImageService()
//
//	img, err := svc.Load("all_files/photo.png")
//	cell := svc.Resize(img, 800, 800)
type ImageService struct {
	scaler draw.Scaler
}

// NewImageService creates a new ImageService using Catmull-Rom scaling.
func NewImageService() *ImageService {
	return &ImageService{scaler: draw.CatmullRom}
}

// Load decodes the image at path.
//
// The file signature is checked first so that a mislabelled file fails with
// ErrNotImage instead of a decoder message.
func (s *ImageService) Load(path string) (image.Image, error) {
	kind, err := SniffFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if kind == KindUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrNotImage)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s (%s): %w", path, kind, err)
	}
	return img, nil
}

// Resize scales img to exactly width x height.
//
// The aspect ratio is not preserved: a 1600x900 image becomes a square when
// asked for 800x800. The result keeps straight (non-premultiplied) alpha.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
func (s *ImageService) Resize(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	s.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Save encodes img to path in the format implied by its extension.
//
// The parent directory is created if needed and an existing file is
// overwritten. JPEG output uses quality 90.
//
// Example:
//
//	err := svc.Save(canvas, "out/collage_final.tif") // TIFF, deflate compressed
func (s *ImageService) Save(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := imaging.Encode(f, img, format, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return f.Close()
}
