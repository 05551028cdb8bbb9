// Package position implements the keyed slot-selection engine (C3): given a
// cover's addressable bit-carrying units (pixel channel bytes, JPEG AC
// coefficients, WAV sample bytes), it produces the deterministic sequence
// of positions embed and extract walk in lock-step.
//
// The keyed permutation at the heart of adaptive raster embedding and
// deniable partitioning is a ChaCha20-seeded Fisher-Yates shuffle with
// rejection sampling to avoid modulo bias. This replaces the teacher's
// FNV-seeded math/rand point generator with a CSPRNG keystream, since an
// attacker without the passphrase shouldn't be able to predict slot order,
// which a 64-bit FNV seed can't guarantee.
package position

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// newKeystream returns a ChaCha20 cipher seeded from key with a zero nonce
// and counter 0. Both embed and extract derive the identical stream from
// the same steg key, so no nonce ever needs to travel with the stego cover.
func newKeystream(key []byte) *chacha20.Cipher {
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// Only possible if key is not exactly 32 bytes; the engine always
		// passes 32 bytes (a cipher.DeriveStegKey output, a zeroed capacity
		// probe, or a SHA-256 partition key).
		panic("position: keystream key must be 32 bytes: " + err.Error())
	}
	return c
}

func randUint32(c *chacha20.Cipher) uint32 {
	var b [4]byte
	c.XORKeyStream(b[:], b[:])
	return binary.BigEndian.Uint32(b[:])
}

// boundedUint32 draws a uniform value in [0, n) via rejection sampling,
// discarding draws in the tail that would otherwise bias small n.
func boundedUint32(c *chacha20.Cipher, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	limit := ^uint32(0) - (^uint32(0) % n)
	for {
		v := randUint32(c)
		if v < limit {
			return v % n
		}
	}
}

// KeyedPermutation returns a Fisher-Yates shuffle of [0, n) deterministically
// seeded from key. Same key and n always produce the same permutation.
func KeyedPermutation(key []byte, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if n < 2 {
		return perm
	}
	c := newKeystream(key)
	for i := n - 1; i > 0; i-- {
		j := int(boundedUint32(c, uint32(i+1)))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
