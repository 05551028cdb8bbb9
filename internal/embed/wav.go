package embed

import (
	"fmt"

	"stegcore/errs"
	"stegcore/internal/bitstream"
	"stegcore/internal/cover"
	"stegcore/internal/position"
)

// EmbedWAV writes payload into the low byte of w's PCM samples, in
// position.WAVSequence order.
func EmbedWAV(w *cover.WAV, payload []byte) error {
	bits := bitstream.Frame(payload)
	slots := position.WAVSequence(w.BitsPerSample, len(w.Samples))
	if len(bits) > len(slots) {
		return fmt.Errorf("%w: need %d bits, cover offers %d", errs.ErrCoverTooSmall, len(bits), len(slots))
	}

	for i, bit := range bits {
		idx := slots[i].Index
		if bit {
			w.Samples[idx] |= 1
		} else {
			w.Samples[idx] &^= 1
		}
	}
	return nil
}

// ExtractWAV reads back the framed payload EmbedWAV wrote.
func ExtractWAV(w *cover.WAV) ([]byte, error) {
	slots := position.WAVSequence(w.BitsPerSample, len(w.Samples))
	bits := make([]bool, len(slots))
	for i, s := range slots {
		bits[i] = w.Samples[s.Index]&1 == 1
	}
	return bitstream.Unframe(bits)
}

// WAVCapacity returns the number of bits the cover's samples can carry.
func WAVCapacity(w *cover.WAV) int {
	return len(position.WAVSequence(w.BitsPerSample, len(w.Samples)))
}
