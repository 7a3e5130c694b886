// Package photo normalizes portrait photos for pasting onto a card.
package photo

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	// WebP decoding; imaging registers the rest.
	_ "golang.org/x/image/webp"
)

// ErrBadBox is returned for a non-positive target size.
var ErrBadBox = errors.New("photo box must be positive")

// Normalize decodes r, applies its EXIF orientation to the pixels, converts
// to non-premultiplied RGBA and stretches it to exactly width×height. The
// aspect ratio of the source is not preserved.
func Normalize(r io.Reader, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadBox, width, height)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode photo: empty image %v", b)
	}

	// Resize returns a clone when the size already matches, so the result is
	// always an owned NRGBA.
	return imaging.Resize(img, width, height, imaging.CatmullRom), nil
}
