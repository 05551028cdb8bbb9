// Package cover implements the codec I/O layer (C1): loading covers into
// owned, mutable buffers and re-encoding them losslessly. Raster loading is
// grounded on h-rotkiewicz-imgcrypt's EditableImage; the double-free hazard
// documented there for other ecosystems' decoders does not apply to Go's
// image/png (it never aliases the decoded buffer with a live C allocation),
// but the same discipline — copy out, then never hand the owned slice back
// to a fresh decoder — is kept because internal/jpegdct's coefficient
// planes really do get mutated in place.
package cover

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"stegcore/errs"
)

// Raster is an owned H*W*3 RGB pixel buffer. Alpha, if the source had any,
// is dropped: embedding never touches it.
type Raster struct {
	Width, Height int
	Pix           []byte // len == Width*Height*3, row-major, R,G,B per pixel
}

// PixelIndex returns the offset into Pix of channel c (0=R,1=G,2=B) of the
// pixel at (x, y).
func (r *Raster) PixelIndex(x, y, c int) int {
	return (y*r.Width+x)*3 + c
}

// At returns the R,G,B triple of the pixel at (x, y).
func (r *Raster) At(x, y int) (byte, byte, byte) {
	i := r.PixelIndex(x, y, 0)
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// LoadRaster decodes a PNG or BMP file into an owned buffer.
func LoadRaster(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedCover, err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".bmp":
		img, err = bmp.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedCover, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Copy through image/draw into a fresh NRGBA, then copy that NRGBA's Pix
	// slice into our own buffer with the alpha channel stripped, so the
	// returned Raster shares no backing array with the decoder's image.Image.
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)

	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := nrgba.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			d := (y*w + x) * 3
			pix[d+0] = nrgba.Pix[off+0]
			pix[d+1] = nrgba.Pix[off+1]
			pix[d+2] = nrgba.Pix[off+2]
		}
	}

	return &Raster{Width: w, Height: h, Pix: pix}, nil
}

// SaveRaster writes r as a lossless PNG. The output is always PNG,
// regardless of the cover's original format: BMP is a legal input container
// but never an output one, since re-embedding must stay lossless and PNG is
// the format this codec commits to producing.
func SaveRaster(path string, r *Raster) error {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			off := img.PixOffset(x, y)
			s := (y*r.Width + x) * 3
			img.Pix[off+0] = r.Pix[s+0]
			img.Pix[off+1] = r.Pix[s+1]
			img.Pix[off+2] = r.Pix[s+2]
			img.Pix[off+3] = 0xFF
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
