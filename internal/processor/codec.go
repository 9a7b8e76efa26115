package processor

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the quality of every JPEG written by Encode.
const JPEGQuality = 90

// Decode reads a JPEG or PNG image.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

// Encode writes img in format. JPEG output uses JPEGQuality.
func Encode(w io.Writer, img image.Image, format imaging.Format) error {
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}

	return nil
}

// Preview shrinks img to fit into maxWidth x maxHeight keeping its aspect
// ratio. Smaller images are returned as an unscaled copy.
func Preview(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	if maxWidth <= 0 || maxHeight <= 0 {
		return imaging.Clone(img)
	}

	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
