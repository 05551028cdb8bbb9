package stegcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stegcore/internal/bitstream"
	"stegcore/internal/cipher"
	"stegcore/internal/cover"
	"stegcore/internal/position"
)

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	pix := make([]byte, width*height*3)
	x := uint32(42)
	for i := range pix {
		x = x*1664525 + 1013904223
		pix[i] = byte(x >> 24)
	}
	r := &cover.Raster{Width: width, Height: height, Pix: pix}
	require.NoError(t, cover.SaveRaster(path, r))
}

func writeTestWAV(t *testing.T, path string, numSamples int) {
	t.Helper()
	samples := make([]byte, numSamples*2)
	for i := range samples {
		samples[i] = byte(i * 7)
	}
	w := &cover.WAV{BitsPerSample: 16, Samples: samples}
	header := [44]byte{}
	copy(header[0:4], "RIFF")
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	header[16] = 16 // fmt chunk size
	header[20] = 1  // PCM
	header[22] = 1  // mono
	header[34] = 16 // bits per sample
	copy(header[36:40], "data")
	dataLen := uint32(len(samples))
	header[40] = byte(dataLen)
	header[41] = byte(dataLen >> 8)
	header[42] = byte(dataLen >> 16)
	header[43] = byte(dataLen >> 24)
	w.Header = header
	require.NoError(t, cover.SaveWAV(path, w))
}

func TestEnginePNGAdaptiveHappyPath(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.png")
	writeTestPNG(t, coverPath, 64, 64)

	e := New(Config{})
	outPath := filepath.Join(dir, "stego.png")
	sidecarPath := filepath.Join(dir, "stego.sidecar")
	payload := []byte("a message concealed in pixel noise")

	require.NoError(t, e.Embed(coverPath, outPath, sidecarPath, payload, "correct horse battery staple",
		Options{CipherID: cipher.ChaCha20Poly1305, Mode: Adaptive}))

	got, err := e.Extract(outPath, sidecarPath, "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestEngineSequentialModeDebug(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.png")
	writeTestPNG(t, coverPath, 32, 32)

	e := New(Config{})
	outPath := filepath.Join(dir, "stego.png")
	sidecarPath := filepath.Join(dir, "stego.sidecar")
	payload := []byte("debug mode payload")

	require.NoError(t, e.Embed(coverPath, outPath, sidecarPath, payload, "pw",
		Options{CipherID: cipher.AES256GCM, Mode: Sequential}))

	got, err := e.Extract(outPath, sidecarPath, "pw")
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestEngineCapacityExhaustion(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.png")
	writeTestPNG(t, coverPath, 4, 4)

	e := New(Config{})
	outPath := filepath.Join(dir, "stego.png")
	sidecarPath := filepath.Join(dir, "stego.sidecar")
	hugePayload := make([]byte, 1<<20)

	err := e.Embed(coverPath, outPath, sidecarPath, hugePayload, "pw", Options{CipherID: cipher.Ascon128, Mode: Sequential})
	require.Error(t, err)
}

func TestEngineDeniableBothHalves(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.png")
	writeTestPNG(t, coverPath, 96, 96)

	e := New(Config{})
	outPath := filepath.Join(dir, "stego.png")
	decoySidecarPath := filepath.Join(dir, "decoy.sidecar")
	realSidecarPath := filepath.Join(dir, "real.sidecar")

	decoy := []byte("just some vacation photos metadata")
	real := []byte("the actual secret")

	require.NoError(t, e.EmbedDeniable(coverPath, outPath, decoySidecarPath, realSidecarPath, decoy, "decoy-pass", real, "real-pass",
		Options{CipherID: cipher.ChaCha20Poly1305}))

	gotDecoy, err := e.ExtractDeniable(outPath, decoySidecarPath, "decoy-pass")
	require.NoError(t, err)
	require.Equal(t, decoy, gotDecoy)

	gotReal, err := e.ExtractDeniable(outPath, realSidecarPath, "real-pass")
	require.NoError(t, err)
	require.Equal(t, real, gotReal)
}

func TestEngineTamperedStegoFailsAuth(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.png")
	writeTestPNG(t, coverPath, 48, 48)

	e := New(Config{})
	outPath := filepath.Join(dir, "stego.png")
	sidecarPath := filepath.Join(dir, "stego.sidecar")
	payload := []byte("tamper detection payload")

	require.NoError(t, e.Embed(coverPath, outPath, sidecarPath, payload, "pw",
		Options{CipherID: cipher.ChaCha20Poly1305, Mode: Adaptive}))

	r, err := cover.LoadRaster(outPath)
	require.NoError(t, err)
	// Flip the LSB carrying the first ciphertext bit (the slot right after
	// the length prefix), so the embedded AEAD ciphertext itself is altered.
	rec, err := readSidecarFile(sidecarPath)
	require.NoError(t, err)
	key := cipher.DeriveStegKey("pw", rec.Salt)
	slots := position.RasterSequence(r.Width, r.Height, r.Pix, position.Adaptive, key)
	s := slots[bitstream.HeaderBits]
	r.Pix[r.PixelIndex(s.X, s.Y, s.Channel)] ^= 1
	require.NoError(t, cover.SaveRaster(outPath, r))

	_, err = e.Extract(outPath, sidecarPath, "pw")
	require.Error(t, err)
}

func TestEngineWAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.wav")
	writeTestWAV(t, coverPath, 5000)

	e := New(Config{})
	outPath := filepath.Join(dir, "stego.wav")
	sidecarPath := filepath.Join(dir, "stego.sidecar")
	payload := []byte("audio cover payload")

	require.NoError(t, e.Embed(coverPath, outPath, sidecarPath, payload, "pw", Options{CipherID: cipher.Ascon128}))

	got, err := e.Extract(outPath, sidecarPath, "pw")
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestEmbedRefusesExistingOutputWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.png")
	writeTestPNG(t, coverPath, 16, 16)

	outPath := filepath.Join(dir, "stego.png")
	require.NoError(t, os.WriteFile(outPath, []byte("already here"), 0o644))

	e := New(Config{})
	err := e.Embed(coverPath, outPath, filepath.Join(dir, "stego.sidecar"), []byte("x"), "pw",
		Options{CipherID: cipher.ChaCha20Poly1305, Mode: Sequential})
	require.Error(t, err)
}
