package position

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stegcore/internal/jpegdct"
)

func TestKeyedPermutationIsDeterministic(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	a := KeyedPermutation(key, 1000)
	b := KeyedPermutation(key, 1000)
	require.Equal(t, a, b)

	seen := map[int]bool{}
	for _, v := range a {
		require.False(t, seen[v])
		seen[v] = true
	}
	require.Len(t, seen, 1000)
}

func TestKeyedPermutationDiffersByKey(t *testing.T) {
	k1 := make([]byte, 32)
	k2 := make([]byte, 32)
	k2[0] = 1
	require.NotEqual(t, KeyedPermutation(k1, 256), KeyedPermutation(k2, 256))
}

func TestRasterSequenceAdaptiveIsSubsetOfSequential(t *testing.T) {
	width, height := 8, 8
	pix := make([]byte, width*height*3)
	// Alternating 0xFF/0x00 bytes give alternating bright/dark columns (the
	// width is even), so every pixel's window, border ones included, has
	// high local variance.
	for i := range pix {
		if i%2 == 0 {
			pix[i] = 0xFF
		}
	}
	key := make([]byte, 32)

	seq := RasterSequence(width, height, pix, Sequential, nil)
	adaptive := RasterSequence(width, height, pix, Adaptive, key)

	all := map[RasterSlot]bool{}
	for _, s := range seq {
		all[s] = true
	}
	for _, s := range adaptive {
		require.True(t, all[s], "adaptive slot %v not present in the full sequential set", s)
	}
	require.LessOrEqual(t, len(adaptive), len(seq))
}

func TestRasterSequenceIsFlipInvariant(t *testing.T) {
	width, height := 6, 6
	pix := make([]byte, width*height*3)
	for i := range pix {
		pix[i] = byte(i * 17)
	}
	key := []byte("0123456789abcdef0123456789abcdef")[:32]

	before := RasterSequence(width, height, pix, Adaptive, key)

	flipped := append([]byte(nil), pix...)
	for _, s := range before {
		idx := (s.Y*width+s.X)*3 + s.Channel
		flipped[idx] ^= 1
	}

	after := RasterSequence(width, height, flipped, Adaptive, key)
	require.Equal(t, before, after)
}

func newTestComponent(vals [][]int32) *jpegdct.Component {
	rows := len(vals)
	cols := len(vals[0])
	c := &jpegdct.Component{BlockRows: rows / 8, BlockCols: cols / 8, Coeffs: make([][]int32, rows)}
	for r := range vals {
		c.Coeffs[r] = append([]int32(nil), vals[r]...)
	}
	return c
}

func TestJPEGSequenceExcludesDCAndSmallValues(t *testing.T) {
	block := make([][]int32, 8)
	for r := range block {
		block[r] = make([]int32, 8)
	}
	block[0][0] = 40 // DC, must never appear
	block[0][1] = 3  // eligible
	block[0][2] = -2 // excluded
	block[0][3] = -1 // excluded
	block[0][4] = 0  // excluded
	block[0][5] = 1  // excluded
	block[0][6] = 2  // eligible
	block[0][7] = -3 // eligible

	img := &jpegdct.Image{Components: []*jpegdct.Component{newTestComponent(block)}}
	slots := JPEGSequence(img)

	var coords [][2]int
	for _, s := range slots {
		coords = append(coords, [2]int{s.Row, s.Col})
	}
	require.Contains(t, coords, [2]int{0, 1})
	require.Contains(t, coords, [2]int{0, 6})
	require.Contains(t, coords, [2]int{0, 7})
	require.NotContains(t, coords, [2]int{0, 0})
	require.NotContains(t, coords, [2]int{0, 2})
	require.NotContains(t, coords, [2]int{0, 3})
	require.NotContains(t, coords, [2]int{0, 4})
	require.NotContains(t, coords, [2]int{0, 5})
}

// TestJPEGExclusionSetClosedUnderFlip proves the invariant the comment in
// jpeg.go relies on: no value outside excludedACValues can be mapped into
// it by a single LSB flip, so embed-time and extract-time enumeration of a
// coefficient plane can never disagree.
func TestJPEGExclusionSetClosedUnderFlip(t *testing.T) {
	for v := int32(-2050); v <= 2050; v++ {
		if excludedACValues[v] {
			continue
		}
		flip0 := v &^ 1
		flip1 := v | 1
		require.False(t, excludedACValues[flip0], "value %d flips to excluded %d", v, flip0)
		require.False(t, excludedACValues[flip1], "value %d flips to excluded %d", v, flip1)
	}
}

func TestWAVSequenceStride(t *testing.T) {
	s8 := WAVSequence(8, 10)
	require.Len(t, s8, 10)
	require.Equal(t, 0, s8[0].Index)
	require.Equal(t, 9, s8[9].Index)

	s16 := WAVSequence(16, 10)
	require.Len(t, s16, 5)
	require.Equal(t, 0, s16[0].Index)
	require.Equal(t, 8, s16[4].Index)
}
