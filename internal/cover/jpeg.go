package cover

import (
	"fmt"
	"os"

	"stegcore/errs"
	"stegcore/internal/jpegdct"
)

// JPEG wraps a coefficient-domain decode of a baseline JPEG file. Unlike
// Raster and WAV, JPEG never exposes a flat owned buffer: callers walk
// Image.Components directly, since the position engine (C3) needs to
// address individual AC coefficients by (component, row, col).
type JPEG struct {
	Image *jpegdct.Image
}

// LoadJPEG decodes path's marker structure and Huffman-decodes its scan
// into coefficient planes, without dequantizing or inverse-transforming.
func LoadJPEG(path string) (*JPEG, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedCover, err)
	}
	img, err := jpegdct.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedCover, err)
	}
	return &JPEG{Image: img}, nil
}

// SaveJPEG re-Huffman-encodes the (possibly mutated) coefficient planes and
// writes the result, reusing every other marker segment byte-for-byte from
// the source file.
func SaveJPEG(path string, j *JPEG) error {
	return os.WriteFile(path, j.Image.Encode(), 0o644)
}
