package jpegdct

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZigzagPosCoversBlockExactly(t *testing.T) {
	seen := map[[2]int]bool{}
	for _, p := range zigzagPos {
		require.GreaterOrEqual(t, p[0], 0)
		require.Less(t, p[0], 8)
		require.GreaterOrEqual(t, p[1], 0)
		require.Less(t, p[1], 8)
		require.False(t, seen[p], "position %v visited twice", p)
		seen[p] = true
	}
	require.Len(t, seen, 64)
}

func sampleSpec() huffSpec {
	// A small synthetic DC-style table: one 1-bit code, two 3-bit codes.
	spec := huffSpec{}
	spec.bits[0] = 1 // one code of length 1
	spec.bits[2] = 2 // two codes of length 3
	spec.values = []byte{0x00, 0x01, 0x05}
	return spec
}

func TestHuffmanEncodeDecodeRoundTrip(t *testing.T) {
	spec := sampleSpec()
	dt := buildDecodeTable(spec)
	et := buildEncodeTable(spec)

	for _, sym := range spec.values {
		var buf bytes.Buffer
		w := newBitWriter(&buf)
		w.writeHuff(et, sym)
		w.flush()

		r := newBitReader(buf.Bytes(), 0)
		got, err := dt.decode(r)
		require.NoError(t, err)
		require.Equal(t, sym, got)
	}
}

func TestReceiveExtendWriteExtendInverse(t *testing.T) {
	for size := 1; size <= 11; size++ {
		// Category size holds magnitudes minMag..maxMag, of either sign.
		minMag := int32(1 << uint(size-1))
		maxMag := int32(1<<uint(size)) - 1
		for _, v := range []int32{-maxMag, -minMag, minMag, maxMag} {
			var buf bytes.Buffer
			w := newBitWriter(&buf)
			w.writeExtend(v, size)
			w.flush()

			r := newBitReader(buf.Bytes(), 0)
			got, err := r.receiveExtend(size)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	}
}

func TestBitWriterStuffsFF(t *testing.T) {
	var buf bytes.Buffer
	w := newBitWriter(&buf)
	w.writeBits(0xFF, 8)
	w.flush()
	require.Equal(t, []byte{0xFF, 0x00}, buf.Bytes())
}

func TestBitReaderDestuffsFF(t *testing.T) {
	r := newBitReader([]byte{0xFF, 0x00, 0x12}, 0)
	var v uint32
	for i := 0; i < 8; i++ {
		bit, err := r.readBit()
		require.NoError(t, err)
		v = v<<1 | uint32(bit)
	}
	require.Equal(t, uint32(0xFF), v)
}

func TestBitReaderStopsOnRealMarker(t *testing.T) {
	r := newBitReader([]byte{0xAB, 0xFF, 0xD9}, 0)
	for i := 0; i < 8; i++ {
		_, err := r.readBit()
		require.NoError(t, err)
	}
	_, err := r.readBit()
	require.ErrorIs(t, err, errMarkerHit)
}

func TestFindScanEndSkipsStuffingAndRestarts(t *testing.T) {
	data := []byte{0x01, 0xFF, 0x00, 0x02, 0xFF, 0xD0, 0x03, 0xFF, 0xD9, 0x04}
	end := findScanEnd(data, 0)
	require.Equal(t, 7, end) // points at the 0xFF of the EOI marker
}

func TestBlockEncodeDecodeRoundTrip(t *testing.T) {
	dcSpec := huffSpec{values: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}
	dcSpec.bits[1] = 2 // length 2: 2 symbols
	dcSpec.bits[2] = 4 // length 3: 4 symbols
	dcSpec.bits[3] = 6 // length 4: 6 symbols

	acSpec := huffSpec{values: []byte{0x00, 0xF0, 0x01, 0x11, 0x02, 0x21}}
	acSpec.bits[1] = 2
	acSpec.bits[2] = 4

	decDC := buildDecodeTable(dcSpec)
	decAC := buildDecodeTable(acSpec)
	encDC := buildEncodeTable(dcSpec)
	encAC := buildEncodeTable(acSpec)

	comp := &Component{H: 1, V: 1, BlockRows: 1, BlockCols: 1}
	comp.Coeffs = make([][]int32, 8)
	for i := range comp.Coeffs {
		comp.Coeffs[i] = make([]int32, 8)
	}
	comp.Coeffs[0][0] = 5 // DC
	comp.Coeffs[0][1] = 3
	comp.Coeffs[1][0] = -2

	var buf bytes.Buffer
	w := newBitWriter(&buf)
	var prevDCEnc int32
	encodeBlock(w, comp, 0, 0, encDC, encAC, &prevDCEnc)
	w.flush()

	out := &Component{H: 1, V: 1, BlockRows: 1, BlockCols: 1}
	out.Coeffs = make([][]int32, 8)
	for i := range out.Coeffs {
		out.Coeffs[i] = make([]int32, 8)
	}

	r := newBitReader(buf.Bytes(), 0)
	var prevDCDec int32
	err := decodeBlock(r, out, 0, 0, decDC, decAC, &prevDCDec)
	require.NoError(t, err)
	require.Equal(t, comp.Coeffs, out.Coeffs)
}
