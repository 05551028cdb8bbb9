package position

// RasterSlot addresses one channel byte of one pixel: LSB steganography
// writes and reads bit 0 of Pix[(Y*Width+X)*3+Channel].
type RasterSlot struct {
	X, Y, Channel int
}

// RasterMode selects how raster slots are ordered.
type RasterMode int

const (
	// Sequential visits every channel byte in row-major order. Used for
	// debugging and for covers too small to bother masking.
	Sequential RasterMode = iota
	// Adaptive restricts slots to high-local-variance regions, then visits
	// them in a keyed random order.
	Adaptive
)

// VarianceThreshold is the fixed 3x3 local-variance cutoff (v=10.0) below
// which a channel byte is considered part of a flat region unsafe to
// perturb without visible banding.
const VarianceThreshold = 10.0

// RasterSequence returns the ordered list of slots embed/extract will walk.
// mode == Adaptive requires key (the 32-byte steg key); mode == Sequential
// ignores it.
//
// Eligibility is computed from a *flip-invariant* baseline: each sampled
// byte has its LSB zeroed before the variance is computed, so recomputing
// the same sequence against the stego cover (whose LSBs have since been
// overwritten by embedding) reproduces exactly the same eligible set and
// exactly the same order. This is what lets extract rediscover the
// sequence without ever seeing the original cover.
func RasterSequence(width, height int, pix []byte, mode RasterMode, key []byte) []RasterSlot {
	all := RasterEligible(width, height, pix, mode)
	if mode == Sequential {
		return all
	}
	perm := KeyedPermutation(key, len(all))
	out := make([]RasterSlot, len(all))
	for i, p := range perm {
		out[i] = all[p]
	}
	return out
}

// RasterEligible returns the unpermuted set of slots mode makes eligible,
// in row-major order. Scoring (C8) uses this directly, since it only needs
// the count and never needs a key.
func RasterEligible(width, height int, pix []byte, mode RasterMode) []RasterSlot {
	var all []RasterSlot
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			eligible := mode != Adaptive || pixelVariance(pix, width, height, x, y) >= VarianceThreshold
			if !eligible {
				continue
			}
			for ch := 0; ch < 3; ch++ {
				all = append(all, RasterSlot{X: x, Y: y, Channel: ch})
			}
		}
	}
	return all
}

// pixelVariance computes the population variance of the 3x3 neighborhood of
// (x, y), clipped at image edges, with every sampled byte's LSB zeroed
// first and each neighbor's R/G/B channels averaged into one value before
// the variance is taken — one number per pixel, not per channel, so all
// three channel slots of a pixel are admitted or rejected together.
func pixelVariance(pix []byte, width, height, x, y int) float64 {
	var sum, sumSq float64
	var n int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			base := (ny*width + nx) * 3
			r := float64(pix[base+0] &^ 1)
			g := float64(pix[base+1] &^ 1)
			b := float64(pix[base+2] &^ 1)
			v := (r + g + b) / 3
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}
