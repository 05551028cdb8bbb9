package cipher

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

// Ascon-128 (NIST SP 800-232 lightweight AEAD family, v1.2). No maintained
// Go module implementing this cipher was found anywhere in the retrieved
// corpus (golang.org/x/crypto and the cloudflare/circl tree that shows up as
// an indirect dependency of i5heu-ouroboros-kv both lack it), so this is a
// direct, from-specification permutation implementation rather than a
// third-party import. See DESIGN.md.
//
// Parameters for the Ascon-128 variant: 320-bit state (five 64-bit words),
// 128-bit key, 128-bit nonce, 64-bit rate, a=12 permutation rounds for
// initialization/finalization, b=6 rounds between absorbed/squeezed blocks.
const (
	asconKeyLen   = 16
	asconNonceLen = 16
	asconTagLen   = 16
	asconRate     = 8
	asconRoundsA  = 12
	asconRoundsB  = 6

	asconIV = 0x80400c0600000000 // k=128, rate=64, a=12, b=6, packed per spec
)

var errAsconTag = errors.New("ascon: authentication failed")

type asconState [5]uint64

func rotr(x uint64, n uint) uint64 {
	return (x >> n) | (x << (64 - n))
}

// permute runs `rounds` rounds of the Ascon permutation, using the LAST
// `rounds` round constants of the canonical 12-round schedule — this is
// what lets p^a and p^b share one implementation.
func (s *asconState) permute(rounds int) {
	for r := 12 - rounds; r < 12; r++ {
		s[2] ^= uint64(0xf0 - r*0x10 + r*0x1)

		s[0] ^= s[4]
		s[4] ^= s[3]
		s[2] ^= s[1]

		var t [5]uint64
		for i := 0; i < 5; i++ {
			t[i] = (s[i] ^ ^uint64(0)) & s[(i+1)%5]
		}
		for i := 0; i < 5; i++ {
			s[i] ^= t[(i+1)%5]
		}

		s[1] ^= s[0]
		s[0] ^= s[4]
		s[3] ^= s[2]
		s[2] ^= ^uint64(0)

		s[0] ^= rotr(s[0], 19) ^ rotr(s[0], 28)
		s[1] ^= rotr(s[1], 61) ^ rotr(s[1], 39)
		s[2] ^= rotr(s[2], 1) ^ rotr(s[2], 6)
		s[3] ^= rotr(s[3], 10) ^ rotr(s[3], 17)
		s[4] ^= rotr(s[4], 7) ^ rotr(s[4], 41)
	}
}

func asconInit(key, nonce []byte) *asconState {
	s := &asconState{
		asconIV,
		binary.BigEndian.Uint64(key[0:8]),
		binary.BigEndian.Uint64(key[8:16]),
		binary.BigEndian.Uint64(nonce[0:8]),
		binary.BigEndian.Uint64(nonce[8:16]),
	}
	s.permute(asconRoundsA)
	s[3] ^= binary.BigEndian.Uint64(key[0:8])
	s[4] ^= binary.BigEndian.Uint64(key[8:16])
	return s
}

func asconAbsorbAD(s *asconState, ad []byte) {
	if len(ad) > 0 {
		padded := padTo(ad, asconRate)
		for i := 0; i < len(padded); i += asconRate {
			s[0] ^= binary.BigEndian.Uint64(padded[i : i+asconRate])
			s.permute(asconRoundsB)
		}
	}
	s[4] ^= 1
}

// padTo appends 0x80 then zero bytes so the result is a non-zero multiple
// of blockSize, always adding at least one byte of padding (matching the
// Ascon padding rule: a message whose length is already a multiple of
// blockSize still gets one full padding-only block).
func padTo(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	out[len(data)] = 0x80
	return out
}

func asconEncryptBlocks(s *asconState, plaintext []byte) []byte {
	lastLen := len(plaintext) % asconRate
	padded := padTo(plaintext, asconRate)
	nBlocks := len(padded) / asconRate

	ciphertext := make([]byte, 0, len(plaintext))
	for i := 0; i < nBlocks; i++ {
		block := padded[i*asconRate : (i+1)*asconRate]
		s[0] ^= binary.BigEndian.Uint64(block)

		var out [8]byte
		binary.BigEndian.PutUint64(out[:], s[0])

		if i == nBlocks-1 {
			ciphertext = append(ciphertext, out[:lastLen]...)
		} else {
			ciphertext = append(ciphertext, out[:]...)
			s.permute(asconRoundsB)
		}
	}
	return ciphertext
}

func asconDecryptBlocks(s *asconState, ciphertext []byte) []byte {
	lastLen := len(ciphertext) % asconRate
	padLen := asconRate - lastLen
	padded := make([]byte, len(ciphertext)+padLen) // zero-padded, not 0x80-padded
	copy(padded, ciphertext)
	nBlocks := len(padded) / asconRate

	plaintext := make([]byte, 0, len(ciphertext))
	for i := 0; i < nBlocks; i++ {
		block := padded[i*asconRate : (i+1)*asconRate]
		ci := binary.BigEndian.Uint64(block)

		if i < nBlocks-1 {
			pt := s[0] ^ ci
			var out [8]byte
			binary.BigEndian.PutUint64(out[:], pt)
			plaintext = append(plaintext, out[:]...)
			s[0] = ci
			s.permute(asconRoundsB)
			continue
		}

		// Last (possibly partial) block: the output plaintext bytes are the
		// XOR of the old state with the real ciphertext bytes; the state
		// carried into finalization reuses the ciphertext bytes for the
		// first lastLen positions and reconstructs the padding tail from
		// the old state, matching what encryption would have produced.
		pt := s[0] ^ ci
		var out [8]byte
		binary.BigEndian.PutUint64(out[:], pt)
		plaintext = append(plaintext, out[:lastLen]...)

		var oldBytes, newBytes [8]byte
		binary.BigEndian.PutUint64(oldBytes[:], s[0])
		copy(newBytes[:lastLen], block[:lastLen])
		copy(newBytes[lastLen+1:], oldBytes[lastLen+1:])
		newBytes[lastLen] = oldBytes[lastLen] ^ 0x80
		s[0] = binary.BigEndian.Uint64(newBytes[:])
	}
	return plaintext
}

func asconFinalize(s *asconState, key []byte) []byte {
	s[1] ^= binary.BigEndian.Uint64(key[0:8])
	s[2] ^= binary.BigEndian.Uint64(key[8:16])
	s.permute(asconRoundsA)
	s[3] ^= binary.BigEndian.Uint64(key[0:8])
	s[4] ^= binary.BigEndian.Uint64(key[8:16])

	tag := make([]byte, asconTagLen)
	binary.BigEndian.PutUint64(tag[0:8], s[3])
	binary.BigEndian.PutUint64(tag[8:16], s[4])
	return tag
}

// asconEncrypt seals plaintext under key/nonce with empty associated data,
// returning ciphertext with the 16-byte tag appended.
func asconEncrypt(key, nonce, plaintext []byte) ([]byte, error) {
	if len(key) != asconKeyLen {
		return nil, errors.New("ascon: key must be 16 bytes")
	}
	if len(nonce) != asconNonceLen {
		return nil, errors.New("ascon: nonce must be 16 bytes")
	}

	s := asconInit(key, nonce)
	asconAbsorbAD(s, nil)
	ciphertext := asconEncryptBlocks(s, plaintext)
	tag := asconFinalize(s, key)
	return append(ciphertext, tag...), nil
}

// asconDecrypt verifies and opens a ciphertext produced by asconEncrypt.
func asconDecrypt(key, nonce, sealed []byte) ([]byte, error) {
	if len(key) != asconKeyLen {
		return nil, errors.New("ascon: key must be 16 bytes")
	}
	if len(nonce) != asconNonceLen {
		return nil, errors.New("ascon: nonce must be 16 bytes")
	}
	if len(sealed) < asconTagLen {
		return nil, errAsconTag
	}

	ciphertext := sealed[:len(sealed)-asconTagLen]
	wantTag := sealed[len(sealed)-asconTagLen:]

	s := asconInit(key, nonce)
	asconAbsorbAD(s, nil)
	plaintext := asconDecryptBlocks(s, ciphertext)
	gotTag := asconFinalize(s, key)

	if subtle.ConstantTimeCompare(gotTag, wantTag) != 1 {
		return nil, errAsconTag
	}
	return plaintext, nil
}
