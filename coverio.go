package stegcore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stegcore/errs"
	"stegcore/internal/cover"
	"stegcore/internal/embed"
	"stegcore/internal/position"
)

// Kind identifies which codec a cover path is handled by.
type Kind string

const (
	KindRaster Kind = "raster"
	KindJPEG   Kind = "jpeg"
	KindWAV    Kind = "wav"
)

// DetectKind maps a file extension to the cover codec that handles it.
func DetectKind(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".bmp":
		return KindRaster, nil
	case ".jpg", ".jpeg":
		return KindJPEG, nil
	case ".wav":
		return KindWAV, nil
	default:
		return "", fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// loadedCover bundles whichever concrete cover.* value was loaded, tagged
// with its kind, so embedding, extraction, capacity queries and deniable
// partitioning (via sequentialBits) dispatch the same way regardless of
// cover kind.
type loadedCover struct {
	kind   Kind
	raster *cover.Raster
	jpeg   *cover.JPEG
	wav    *cover.WAV
}

func loadCover(path string) (*loadedCover, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}
	lc := &loadedCover{kind: kind}
	switch kind {
	case KindRaster:
		lc.raster, err = cover.LoadRaster(path)
	case KindJPEG:
		lc.jpeg, err = cover.LoadJPEG(path)
	case KindWAV:
		lc.wav, err = cover.LoadWAV(path)
	}
	if err != nil {
		return nil, err
	}
	return lc, nil
}

func (lc *loadedCover) save(path string) error {
	switch lc.kind {
	case KindRaster:
		return cover.SaveRaster(path, lc.raster)
	case KindJPEG:
		return cover.SaveJPEG(path, lc.jpeg)
	case KindWAV:
		return cover.SaveWAV(path, lc.wav)
	default:
		return fmt.Errorf("%w: unknown cover kind %q", errs.ErrUnsupportedFormat, lc.kind)
	}
}

// bitSequence is a uniform view over one cover's addressable LSB slots,
// indexed 0..Len()-1 in some cover-specific but deterministic order.
// EmbedDeniable and ExtractDeniable operate purely in terms of this
// interface, so neither needs to know which concrete cover kind it is
// holding; single-payload Embed and Extract go through internal/embed.
type bitSequence interface {
	Len() int
	Get(i int) bool
	Set(i int, bit bool)
}

// sequentialBits returns the full, unpermuted slot universe for a cover —
// raster covers use the row-major, adaptive-masked slot set (deniable
// partitioning splits this same adaptive universe rather than a separate
// one, so both halves stay confined to high-variance regions), JPEG covers
// use the usual eligible-AC-coefficient order, and WAV covers use sample
// order.
func (lc *loadedCover) sequentialBits() bitSequence {
	switch lc.kind {
	case KindRaster:
		slots := position.RasterEligible(lc.raster.Width, lc.raster.Height, lc.raster.Pix, position.Adaptive)
		return &rasterBits{r: lc.raster, slots: slots}
	case KindJPEG:
		slots := position.JPEGSequence(lc.jpeg.Image)
		return &jpegBits{j: lc.jpeg, slots: slots}
	case KindWAV:
		slots := position.WAVSequence(lc.wav.BitsPerSample, len(lc.wav.Samples))
		return &wavBits{w: lc.wav, slots: slots}
	default:
		return emptyBits{}
	}
}

// embed writes payload into lc's LSBs via internal/embed, the single
// authoritative implementation of C4 for single-payload Embed. Raster
// covers use opts.Mode/key; JPEG and WAV covers have no keyed mode.
func (lc *loadedCover) embed(payload []byte, opts Options, key []byte) error {
	switch lc.kind {
	case KindRaster:
		return embed.EmbedRaster(lc.raster, payload, opts.Mode, key)
	case KindJPEG:
		return embed.EmbedJPEG(lc.jpeg, payload)
	case KindWAV:
		return embed.EmbedWAV(lc.wav, payload)
	default:
		return fmt.Errorf("%w: unknown cover kind %q", errs.ErrUnsupportedFormat, lc.kind)
	}
}

// extract reads back a payload internal/embed wrote.
func (lc *loadedCover) extract(opts Options, key []byte) ([]byte, error) {
	switch lc.kind {
	case KindRaster:
		return embed.ExtractRaster(lc.raster, opts.Mode, key)
	case KindJPEG:
		return embed.ExtractJPEG(lc.jpeg)
	case KindWAV:
		return embed.ExtractWAV(lc.wav)
	default:
		return nil, fmt.Errorf("%w: unknown cover kind %q", errs.ErrUnsupportedFormat, lc.kind)
	}
}

// capacityBits returns the number of raw LSB slots internal/embed reports
// available for a single payload under opts/key.
func (lc *loadedCover) capacityBits(opts Options, key []byte) int {
	switch lc.kind {
	case KindRaster:
		return embed.RasterCapacity(lc.raster, opts.Mode, key)
	case KindJPEG:
		return embed.JPEGCapacity(lc.jpeg)
	case KindWAV:
		return embed.WAVCapacity(lc.wav)
	default:
		return 0
	}
}

type rasterBits struct {
	r     *cover.Raster
	slots []position.RasterSlot
}

func (b *rasterBits) Len() int { return len(b.slots) }
func (b *rasterBits) Get(i int) bool {
	s := b.slots[i]
	return b.r.Pix[b.r.PixelIndex(s.X, s.Y, s.Channel)]&1 == 1
}
func (b *rasterBits) Set(i int, bit bool) {
	s := b.slots[i]
	idx := b.r.PixelIndex(s.X, s.Y, s.Channel)
	if bit {
		b.r.Pix[idx] |= 1
	} else {
		b.r.Pix[idx] &^= 1
	}
}

type jpegBits struct {
	j     *cover.JPEG
	slots []position.JPEGSlot
}

func (b *jpegBits) Len() int { return len(b.slots) }
func (b *jpegBits) Get(i int) bool {
	s := b.slots[i]
	return b.j.Image.Components[s.Component].Coeffs[s.Row][s.Col]&1 == 1
}
func (b *jpegBits) Set(i int, bit bool) {
	s := b.slots[i]
	comp := b.j.Image.Components[s.Component]
	v := comp.Coeffs[s.Row][s.Col]
	if bit {
		comp.Coeffs[s.Row][s.Col] = (v &^ 1) | 1
	} else {
		comp.Coeffs[s.Row][s.Col] = v &^ 1
	}
}

type wavBits struct {
	w     *cover.WAV
	slots []position.WAVSlot
}

func (b *wavBits) Len() int { return len(b.slots) }
func (b *wavBits) Get(i int) bool {
	return b.w.Samples[b.slots[i].Index]&1 == 1
}
func (b *wavBits) Set(i int, bit bool) {
	idx := b.slots[i].Index
	if bit {
		b.w.Samples[idx] |= 1
	} else {
		b.w.Samples[idx] &^= 1
	}
}

type emptyBits struct{}

func (emptyBits) Len() int      { return 0 }
func (emptyBits) Get(int) bool  { return false }
func (emptyBits) Set(int, bool) {}

func writeFramedBitsAt(seq bitSequence, indices []int, framed []bool) error {
	if len(framed) > len(indices) {
		return fmt.Errorf("%w: need %d bits, have %d slots", errs.ErrCoverTooSmall, len(framed), len(indices))
	}
	for i, bit := range framed {
		seq.Set(indices[i], bit)
	}
	return nil
}

func readBitsAt(seq bitSequence, indices []int) []bool {
	out := make([]bool, len(indices))
	for i, idx := range indices {
		out[i] = seq.Get(idx)
	}
	return out
}

func writeOutputFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", errs.ErrOutputExists, path)
		}
	}
	return nil
}
