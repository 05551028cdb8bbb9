package score

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stegcore/internal/cover"
)

func TestRasterFlatImageScoresLow(t *testing.T) {
	flat := &cover.Raster{Width: 100, Height: 100, Pix: make([]byte, 100*100*3)}
	r := Raster(flat)
	require.LessOrEqual(t, r.Score, 20)
}

func TestRasterNoisyLargeImageScoresHigh(t *testing.T) {
	pix := make([]byte, 1920*1080*3)
	x := uint32(12345)
	for i := range pix {
		x = x*1664525 + 1013904223 // small LCG for reproducible pseudo-noise
		pix[i] = byte(x >> 24)
	}
	noisy := &cover.Raster{Width: 1920, Height: 1080, Pix: pix}
	r := Raster(noisy)
	require.GreaterOrEqual(t, r.Score, 60)
}

func TestLabelBoundaries(t *testing.T) {
	require.Equal(t, "excellent", label(75))
	require.Equal(t, "good", label(55))
	require.Equal(t, "fair", label(35))
	require.Equal(t, "poor", label(34))
	require.Equal(t, "poor", label(0))
}

func TestWAVScoreWithinRange(t *testing.T) {
	samples := make([]byte, 20000)
	for i := range samples {
		samples[i] = byte(i * 91)
	}
	w := &cover.WAV{BitsPerSample: 16, Samples: samples}
	r := WAV(w)
	require.GreaterOrEqual(t, r.Score, 0)
	require.LessOrEqual(t, r.Score, 100)
}
