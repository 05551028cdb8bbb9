package jpegdct

// zigzagPos maps a zigzag scan index (0..63, DC first) to its (row, col)
// position within an 8x8 block. This is the standard JPEG coefficient
// ordering (Annex A of ITU-T T.81), reproduced here since jpegdct stores
// coefficients in natural row/col order rather than zigzag order.
var zigzagPos = [64][2]int{
	{0, 0}, {0, 1}, {1, 0}, {2, 0}, {1, 1}, {0, 2}, {0, 3}, {1, 2},
	{2, 1}, {3, 0}, {4, 0}, {3, 1}, {2, 2}, {1, 3}, {0, 4}, {0, 5},
	{1, 4}, {2, 3}, {3, 2}, {4, 1}, {5, 0}, {6, 0}, {5, 1}, {4, 2},
	{3, 3}, {2, 4}, {1, 5}, {0, 6}, {0, 7}, {1, 6}, {2, 5}, {3, 4},
	{4, 3}, {5, 2}, {6, 1}, {7, 0}, {7, 1}, {6, 2}, {5, 3}, {4, 4},
	{3, 5}, {2, 6}, {1, 7}, {2, 7}, {3, 6}, {4, 5}, {5, 4}, {6, 3},
	{7, 2}, {7, 3}, {6, 4}, {5, 5}, {4, 6}, {3, 7}, {4, 7}, {5, 6},
	{6, 5}, {7, 4}, {7, 5}, {6, 6}, {5, 7}, {6, 7}, {7, 6}, {7, 7},
}

// huffSpec is a DHT table's raw BITS/HUFFVAL pair, kept around so both a
// decode table and an encode table can be built from it.
type huffSpec struct {
	bits   [16]byte
	values []byte
}

// huffDecodeTable maps (length<<16 | code) to the decoded symbol.
type huffDecodeTable struct {
	codes map[uint32]byte
}

func buildDecodeTable(spec huffSpec) *huffDecodeTable {
	t := &huffDecodeTable{codes: make(map[uint32]byte, len(spec.values))}
	code := 0
	k := 0
	for length := 1; length <= 16; length++ {
		for i := 0; i < int(spec.bits[length-1]); i++ {
			t.codes[uint32(length)<<16|uint32(code)] = spec.values[k]
			code++
			k++
		}
		code <<= 1
	}
	return t
}

// huffEncodeTable maps a symbol to its canonical (code, length).
type huffEncodeTable struct {
	code map[byte]uint16
	size map[byte]byte
}

func buildEncodeTable(spec huffSpec) *huffEncodeTable {
	t := &huffEncodeTable{code: make(map[byte]uint16, len(spec.values)), size: make(map[byte]byte, len(spec.values))}
	code := 0
	k := 0
	for length := 1; length <= 16; length++ {
		for i := 0; i < int(spec.bits[length-1]); i++ {
			t.code[spec.values[k]] = uint16(code)
			t.size[spec.values[k]] = byte(length)
			code++
			k++
		}
		code <<= 1
	}
	return t
}

func bitLen(v uint32) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

func abs32(v int32) uint32 {
	if v < 0 {
		return uint32(-v)
	}
	return uint32(v)
}
