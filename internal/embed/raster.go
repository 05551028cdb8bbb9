// Package embed implements the bit-level embedder/extractor for each cover
// kind (C4): given a cover and the position sequence C3 computed for it,
// write or read one payload bit per slot.
package embed

import (
	"fmt"

	"stegcore/errs"
	"stegcore/internal/bitstream"
	"stegcore/internal/cover"
	"stegcore/internal/position"
)

// EmbedRaster writes payload, length-framed, into r's pixel LSBs in the
// order position.RasterSequence produces for mode/key. r.Pix is mutated in
// place.
func EmbedRaster(r *cover.Raster, payload []byte, mode position.RasterMode, key []byte) error {
	bits := bitstream.Frame(payload)
	slots := position.RasterSequence(r.Width, r.Height, r.Pix, mode, key)
	if len(bits) > len(slots) {
		return fmt.Errorf("%w: need %d bits, cover offers %d", errs.ErrCoverTooSmall, len(bits), len(slots))
	}

	for i, bit := range bits {
		idx := r.PixelIndex(slots[i].X, slots[i].Y, slots[i].Channel)
		if bit {
			r.Pix[idx] |= 1
		} else {
			r.Pix[idx] &^= 1
		}
	}
	return nil
}

// ExtractRaster reads back the framed payload EmbedRaster wrote, using the
// identical mode/key to reproduce the same slot sequence.
func ExtractRaster(r *cover.Raster, mode position.RasterMode, key []byte) ([]byte, error) {
	slots := position.RasterSequence(r.Width, r.Height, r.Pix, mode, key)
	bits := make([]bool, len(slots))
	for i, s := range slots {
		idx := r.PixelIndex(s.X, s.Y, s.Channel)
		bits[i] = r.Pix[idx]&1 == 1
	}
	return bitstream.Unframe(bits)
}

// RasterCapacity returns the number of bits mode/key makes available.
func RasterCapacity(r *cover.Raster, mode position.RasterMode, key []byte) int {
	return len(position.RasterSequence(r.Width, r.Height, r.Pix, mode, key))
}
