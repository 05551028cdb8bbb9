// Package bitstream implements the length-prefixed bit framing used by
// every embedder: a 4-byte big-endian length prefix followed by the payload
// bytes, all viewed as an MSB-first bit stream.
package bitstream

import (
	"encoding/binary"
	"fmt"

	"stegcore/errs"
)

// HeaderBits is the width of the length prefix in bits.
const HeaderBits = 32

// Frame prepends a 4-byte big-endian length to data and returns the whole
// thing as an MSB-first bit stream, one bool per bit.
func Frame(data []byte) []bool {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	bits := make([]bool, 0, (len(header)+len(data))*8)
	bits = appendBytes(bits, header)
	bits = appendBytes(bits, data)
	return bits
}

func appendBytes(bits []bool, data []byte) []bool {
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1 == 1)
		}
	}
	return bits
}

// Unframe consumes the 32-bit header from bits, interprets it as a length L,
// and returns the next 8*L bits decoded as bytes.
func Unframe(bits []bool) ([]byte, error) {
	if len(bits) < HeaderBits {
		return nil, fmt.Errorf("%w: stream has fewer than %d header bits", errs.ErrMalformedCover, HeaderBits)
	}

	length := bitsToUint32(bits[:HeaderBits])
	needed := int64(length) * 8
	remaining := int64(len(bits) - HeaderBits)

	if needed > remaining {
		if int64(length) > remaining/8+1024 {
			// Grossly larger than anything the remaining stream could hold:
			// treat this as a corrupt/oversize header rather than a merely
			// short read.
			return nil, fmt.Errorf("%w: header declares %d bytes, far exceeding remaining capacity", errs.ErrCoverTooSmall, length)
		}
		return nil, fmt.Errorf("%w: need %d bits, have %d", errs.ErrCoverTooSmall, needed, remaining)
	}

	return bitsToBytes(bits[HeaderBits : HeaderBits+needed]), nil
}

func bitsToUint32(bits []bool) uint32 {
	var v uint32
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

func bitsToBytes(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits[i*8+j] {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}
