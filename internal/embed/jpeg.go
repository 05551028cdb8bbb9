package embed

import (
	"fmt"

	"stegcore/errs"
	"stegcore/internal/bitstream"
	"stegcore/internal/cover"
	"stegcore/internal/position"
)

// EmbedJPEG writes payload into the LSBs of j's eligible AC coefficients,
// in position.JPEGSequence order. Mutates j.Image.Components in place.
func EmbedJPEG(j *cover.JPEG, payload []byte) error {
	bits := bitstream.Frame(payload)
	slots := position.JPEGSequence(j.Image)
	if len(bits) > len(slots) {
		return fmt.Errorf("%w: need %d bits, cover offers %d", errs.ErrCoverTooSmall, len(bits), len(slots))
	}

	for i, bit := range bits {
		s := slots[i]
		comp := j.Image.Components[s.Component]
		v := comp.Coeffs[s.Row][s.Col]
		if bit {
			comp.Coeffs[s.Row][s.Col] = (v &^ 1) | 1
		} else {
			comp.Coeffs[s.Row][s.Col] = v &^ 1
		}
	}
	return nil
}

// ExtractJPEG reads back the framed payload EmbedJPEG wrote.
func ExtractJPEG(j *cover.JPEG) ([]byte, error) {
	slots := position.JPEGSequence(j.Image)
	bits := make([]bool, len(slots))
	for i, s := range slots {
		v := j.Image.Components[s.Component].Coeffs[s.Row][s.Col]
		bits[i] = v&1 == 1
	}
	return bitstream.Unframe(bits)
}

// JPEGCapacity returns the number of bits the cover's eligible coefficients
// can carry.
func JPEGCapacity(j *cover.JPEG) int {
	return len(position.JPEGSequence(j.Image))
}
