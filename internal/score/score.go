// Package score implements the pure cover-suitability heuristic (C8): a
// weighted blend of pixel entropy, adaptive-texture density, and
// resolution, mapped to a 0-100 integer and a human label. It never
// touches an AEAD key or a passphrase and never mutates its input.
package score

import (
	"math"

	"stegcore/internal/cover"
	"stegcore/internal/position"
)

// Result is a cover's suitability score.
type Result struct {
	Score int
	Label string
}

const (
	entropyWeight    = 0.40
	textureWeight    = 0.40
	resolutionWeight = 0.20

	// referencePixels caps the resolution term: any cover at or above
	// 1080p scores the full resolution weight.
	referencePixels = 1920.0 * 1080.0
)

// Raster scores a raster cover.
func Raster(r *cover.Raster) Result {
	combined := entropyWeight*byteEntropy(r.Pix) +
		textureWeight*textureDensity(r) +
		resolutionWeight*resolutionFactor(r.Width, r.Height)
	return finish(combined)
}

// WAV scores a WAV cover using the same entropy/resolution blend. PCM
// audio has no 2-D neighborhood to compute local variance over, so texture
// density is approximated by the entropy of the low-byte stream alone,
// which is exactly the channel embedding touches.
func WAV(w *cover.WAV) Result {
	lowBytes := make([]byte, 0, len(w.Samples)/2+1)
	slots := position.WAVSequence(w.BitsPerSample, len(w.Samples))
	for _, s := range slots {
		lowBytes = append(lowBytes, w.Samples[s.Index])
	}
	combined := entropyWeight*byteEntropy(w.Samples) +
		textureWeight*byteEntropy(lowBytes) +
		resolutionWeight*resolutionFactor(len(w.Samples), 1)
	return finish(combined)
}

func finish(combined float64) Result {
	s := int(math.Round(combined * 100))
	if s > 100 {
		s = 100
	}
	if s < 0 {
		s = 0
	}
	return Result{Score: s, Label: label(s)}
}

// byteEntropy returns the Shannon entropy of data's byte distribution,
// normalized to [0, 1] by dividing by the 8-bit maximum.
func byteEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var hist [256]int
	for _, b := range data {
		hist[b]++
	}
	n := float64(len(data))
	var h float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h / 8.0
}

// textureDensity is the fraction of channel bytes the adaptive variance
// mask (position.VarianceThreshold) accepts as embeddable.
func textureDensity(r *cover.Raster) float64 {
	total := r.Width * r.Height * 3
	if total == 0 {
		return 0
	}
	eligible := position.RasterEligible(r.Width, r.Height, r.Pix, position.Adaptive)
	return float64(len(eligible)) / float64(total)
}

func resolutionFactor(width, height int) float64 {
	pixels := float64(width) * float64(height)
	if pixels >= referencePixels {
		return 1.0
	}
	return pixels / referencePixels
}

func label(s int) string {
	switch {
	case s >= 75:
		return "excellent"
	case s >= 55:
		return "good"
	case s >= 35:
		return "fair"
	default:
		return "poor"
	}
}
