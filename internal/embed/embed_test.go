package embed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stegcore/internal/cover"
	"stegcore/internal/jpegdct"
	"stegcore/internal/position"
)

func makeRaster(w, h int) *cover.Raster {
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = byte(i * 31)
	}
	return &cover.Raster{Width: w, Height: h, Pix: pix}
}

func TestRasterEmbedExtractRoundTrip(t *testing.T) {
	r := makeRaster(32, 32)
	payload := []byte("a deniable message hidden in the pixels")

	require.NoError(t, EmbedRaster(r, payload, position.Sequential, nil))
	got, err := ExtractRaster(r, position.Sequential, nil)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestRasterEmbedExtractRoundTripAdaptive(t *testing.T) {
	r := makeRaster(40, 40)
	for i := range r.Pix {
		r.Pix[i] = byte((i*37 + i*i) % 256) // enough texture to pass the variance threshold widely
	}
	key := []byte("adaptive-mode-round-trip-key0000")[:32]
	payload := []byte("adaptive slots survive round trip")

	require.NoError(t, EmbedRaster(r, payload, position.Adaptive, key))
	got, err := ExtractRaster(r, position.Adaptive, key)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestRasterEmbedTooSmallFails(t *testing.T) {
	r := makeRaster(2, 2)
	err := EmbedRaster(r, make([]byte, 1000), position.Sequential, nil)
	require.Error(t, err)
}

func makeJPEGComponent(rows, cols int) *jpegdct.Component {
	c := &jpegdct.Component{BlockRows: rows / 8, BlockCols: cols / 8}
	c.Coeffs = make([][]int32, rows)
	for r := range c.Coeffs {
		c.Coeffs[r] = make([]int32, cols)
		for col := range c.Coeffs[r] {
			if r%8 == 0 && col%8 == 0 {
				c.Coeffs[r][col] = 10 // DC
				continue
			}
			c.Coeffs[r][col] = int32((r*cols+col)%40) - 5 // spread of small AC values, some excluded
		}
	}
	return c
}

func TestJPEGEmbedExtractRoundTrip(t *testing.T) {
	img := &jpegdct.Image{Components: []*jpegdct.Component{
		makeJPEGComponent(16, 16),
		makeJPEGComponent(16, 16),
		makeJPEGComponent(16, 16),
	}}
	j := &cover.JPEG{Image: img}
	payload := []byte("dct domain payload")

	require.NoError(t, EmbedJPEG(j, payload))
	got, err := ExtractJPEG(j)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func makeWAV(n int, bits uint16) *cover.WAV {
	samples := make([]byte, n)
	for i := range samples {
		samples[i] = byte(i)
	}
	return &cover.WAV{BitsPerSample: bits, Samples: samples}
}

func TestWAVEmbedExtractRoundTrip(t *testing.T) {
	w := makeWAV(4000, 16)
	payload := []byte("audio lsb payload")

	require.NoError(t, EmbedWAV(w, payload))
	got, err := ExtractWAV(w)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestWAVEmbedTooSmallFails(t *testing.T) {
	w := makeWAV(10, 16)
	err := EmbedWAV(w, make([]byte, 100))
	require.Error(t, err)
}
