package cover

import (
	"encoding/binary"
	"fmt"
	"os"

	"stegcore/errs"
)

// wavHeaderLen is fixed at 44 bytes: this codec only accepts the canonical
// RIFF/WAVE/PCM layout (no extra chunks between "fmt " and "data"), the same
// restriction StephaneBunel-steganoWAV's decodeHeaders enforces.
const wavHeaderLen = 44

// WAV holds a canonical PCM WAVE file's header, preserved verbatim, and an
// owned, mutable copy of its sample bytes.
//
// Embedding mutates one byte per sample: position.WAVSequence strides
// through the raw sample bytes by the sample width. For 16-bit PCM
// (bits_per_sample == 16) this means only the low byte of each
// little-endian sample is ever touched — conventional for
// audio LSB steganography, and made explicit here per SPEC_FULL.md open
// question (ii).
type WAV struct {
	Header        [wavHeaderLen]byte
	BitsPerSample uint16
	Samples       []byte
}

// LoadWAV reads and validates a canonical WAV file.
func LoadWAV(path string) (*WAV, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedCover, err)
	}
	if len(raw) < wavHeaderLen {
		return nil, fmt.Errorf("%w: file shorter than a WAVE header", errs.ErrMalformedCover)
	}

	w := &WAV{}
	copy(w.Header[:], raw[:wavHeaderLen])

	if string(w.Header[0:4]) != "RIFF" ||
		string(w.Header[8:12]) != "WAVE" ||
		string(w.Header[12:16]) != "fmt " ||
		binary.LittleEndian.Uint16(w.Header[20:22]) != 1 || // audio_format == PCM
		string(w.Header[36:40]) != "data" {
		return nil, fmt.Errorf("%w: not a canonical RIFF/WAVE/PCM file", errs.ErrMalformedCover)
	}

	w.BitsPerSample = binary.LittleEndian.Uint16(w.Header[34:36])
	dataSize := binary.LittleEndian.Uint32(w.Header[40:44])

	if uint32(len(raw)-wavHeaderLen) < dataSize {
		return nil, fmt.Errorf("%w: declared data size exceeds file length", errs.ErrMalformedCover)
	}

	w.Samples = make([]byte, dataSize)
	copy(w.Samples, raw[wavHeaderLen:wavHeaderLen+int(dataSize)])
	return w, nil
}

// SaveWAV writes the header verbatim followed by the (possibly mutated)
// sample bytes.
func SaveWAV(path string, w *WAV) error {
	out := make([]byte, 0, wavHeaderLen+len(w.Samples))
	out = append(out, w.Header[:]...)
	out = append(out, w.Samples...)
	return os.WriteFile(path, out, 0o644)
}
