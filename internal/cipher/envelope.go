// Package cipher implements the AEAD envelope (C5): Argon2id key derivation,
// Zstandard compression, and the three supported AEAD ciphers.
package cipher

import (
	"bytes"
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"stegcore/errs"
)

// ID identifies one of the supported AEAD ciphers.
type ID string

const (
	Ascon128         ID = "Ascon-128"
	ChaCha20Poly1305 ID = "ChaCha20-Poly1305"
	AES256GCM        ID = "AES-256-GCM"
)

type cipherParams struct {
	keyLen   int
	nonceLen int
}

var params = map[ID]cipherParams{
	Ascon128:         {keyLen: 16, nonceLen: 16},
	ChaCha20Poly1305: {keyLen: 32, nonceLen: 12},
	AES256GCM:        {keyLen: 32, nonceLen: 12},
}

// Supported lists the cipher ids in a fixed, user-facing order.
func Supported() []ID {
	return []ID{Ascon128, ChaCha20Poly1305, AES256GCM}
}

func (id ID) valid() bool {
	_, ok := params[id]
	return ok
}

const (
	argon2Time    = 3
	argon2Memory  = 65536 // KiB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Envelope is the wire form produced by Encrypt and consumed by Decrypt. It
// never carries key material.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte
	Salt       []byte
	CipherID   ID
}

// zeroBytes overwrites b with zeros on every return path. Callers defer it
// immediately after deriving key material.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// DeriveKey runs Argon2id over passphrase/salt, truncated to the cipher's
// key length. The full 32-byte output is also the steg key used to seed
// C3's keyed permutation (see position.KeyedPermutation) — callers that need
// both must derive once and slice, not derive twice.
func DeriveKey(passphrase string, salt []byte, id ID) []byte {
	full := argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	p := params[id]
	if p.keyLen == argon2KeyLen {
		return full
	}
	key := make([]byte, p.keyLen)
	copy(key, full[:p.keyLen])
	zeroBytes(full)
	return key
}

// DeriveStegKey runs Argon2id and returns the full 32-byte output, used to
// seed both the cipher key (by truncation, see DeriveKey) and the C3 keyed
// permutation. Returning it once and deriving both downstream values from
// it keeps embed and extract from silently drifting apart.
func DeriveStegKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// Encrypt compresses then AEAD-encrypts plaintext under a fresh random salt
// and nonce. It returns the envelope and the full 32-byte derived steg key
// (zeroised by the caller once consumed).
func Encrypt(plaintext []byte, passphrase string, id ID) (Envelope, []byte, error) {
	if !id.valid() {
		return Envelope{}, nil, fmt.Errorf("unsupported cipher %q", id)
	}
	if passphrase == "" {
		return Envelope{}, nil, fmt.Errorf("passphrase cannot be empty")
	}

	p := params[id]
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return Envelope{}, nil, fmt.Errorf("generating salt: %w", err)
	}
	nonce := make([]byte, p.nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, nil, fmt.Errorf("generating nonce: %w", err)
	}

	stegKey := DeriveStegKey(passphrase, salt)
	key := stegKey[:p.keyLen]

	compressed, err := compress(plaintext)
	if err != nil {
		zeroBytes(stegKey)
		return Envelope{}, nil, fmt.Errorf("compressing payload: %w", err)
	}

	ciphertext, err := sealWith(id, key, nonce, compressed)
	if err != nil {
		zeroBytes(stegKey)
		return Envelope{}, nil, fmt.Errorf("encrypting payload: %w", err)
	}

	return Envelope{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Salt:       salt,
		CipherID:   id,
	}, stegKey, nil
}

// Decrypt authenticates and decrypts an Envelope, returning the full
// 32-byte derived steg key alongside the plaintext. An unknown cipher id is
// reported as errs.ErrMalformedSidecar; every other failure is reported as
// errs.ErrAuthFail, regardless of whether the passphrase was wrong or the
// stego was tampered with.
func Decrypt(env Envelope, passphrase string) ([]byte, []byte, error) {
	if !env.CipherID.valid() {
		return nil, nil, fmt.Errorf("%w: unsupported cipher %q", errs.ErrMalformedSidecar, env.CipherID)
	}
	p := params[env.CipherID]

	stegKey := DeriveStegKey(passphrase, env.Salt)
	key := stegKey[:p.keyLen]

	compressed, err := openWith(env.CipherID, key, env.Nonce, env.Ciphertext)
	if err != nil {
		zeroBytes(stegKey)
		return nil, nil, fmt.Errorf("%w", errs.ErrAuthFail)
	}

	plaintext, err := decompress(compressed)
	if err != nil {
		zeroBytes(stegKey)
		return nil, nil, fmt.Errorf("%w", errs.ErrAuthFail)
	}

	return plaintext, stegKey, nil
}

func sealWith(id ID, key, nonce, plaintext []byte) ([]byte, error) {
	switch id {
	case Ascon128:
		return asconEncrypt(key, nonce, plaintext)
	case ChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
		return aead.Seal(nil, nonce, plaintext, nil), nil
	case AES256GCM:
		aead, err := newAESGCM(key)
		if err != nil {
			return nil, err
		}
		return aead.Seal(nil, nonce, plaintext, nil), nil
	default:
		return nil, fmt.Errorf("unknown cipher %q", id)
	}
}

func openWith(id ID, key, nonce, ciphertext []byte) ([]byte, error) {
	switch id {
	case Ascon128:
		return asconDecrypt(key, nonce, ciphertext)
	case ChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
		return aead.Open(nil, nonce, ciphertext, nil)
	case AES256GCM:
		aead, err := newAESGCM(key)
		if err != nil {
			return nil, err
		}
		return aead.Open(nil, nonce, ciphertext, nil)
	default:
		return nil, fmt.Errorf("unknown cipher %q", id)
	}
}

// newAESGCM is the one ambient concern in this package built on the
// standard library rather than a third-party import: no AES-GCM
// implementation appears anywhere in the retrieved corpus (jfcrypt uses
// Tink's streaming AEAD over AES-GCM-HKDF, which is a different
// construction entirely and unsuitable for a single in-memory seal/open),
// and Go's crypto/aes + crypto/cipher.NewGCM is the canonical,
// constant-time reference implementation any Go codebase would reach for
// here. See DESIGN.md.
func newAESGCM(key []byte) (gocipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return gocipher.NewGCM(block)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

var idOrder = []ID{Ascon128, ChaCha20Poly1305, AES256GCM}

func idByte(id ID) (byte, error) {
	for i, v := range idOrder {
		if v == id {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cipher %q", id)
}

func idFromByte(b byte) (ID, error) {
	if int(b) >= len(idOrder) {
		return "", fmt.Errorf("unknown cipher byte %d", b)
	}
	return idOrder[b], nil
}

// MarshalEnvelope serializes env into the compact binary form embedded
// in-band with deniable payloads: a one-byte cipher id, the fixed-length
// salt, the cipher's nonce, then the ciphertext. Deniable mode never puts
// per-payload cipher metadata in the sidecar, since that would leak the
// hidden payload's existence to anyone who only has the sidecar and one
// passphrase; this lets that metadata travel with the payload itself.
func MarshalEnvelope(env Envelope) ([]byte, error) {
	idb, err := idByte(env.CipherID)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(env.Salt)+len(env.Nonce)+len(env.Ciphertext))
	out = append(out, idb)
	out = append(out, env.Salt...)
	out = append(out, env.Nonce...)
	out = append(out, env.Ciphertext...)
	return out, nil
}

// UnmarshalEnvelope reverses MarshalEnvelope.
func UnmarshalEnvelope(data []byte) (Envelope, error) {
	if len(data) < 1+saltLen {
		return Envelope{}, fmt.Errorf("%w: envelope too short", errs.ErrMalformedSidecar)
	}
	id, err := idFromByte(data[0])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", errs.ErrMalformedSidecar, err)
	}
	p := params[id]
	o := 1
	if len(data) < o+saltLen+p.nonceLen {
		return Envelope{}, fmt.Errorf("%w: envelope too short for cipher %q", errs.ErrMalformedSidecar, id)
	}
	salt := append([]byte(nil), data[o:o+saltLen]...)
	o += saltLen
	nonce := append([]byte(nil), data[o:o+p.nonceLen]...)
	o += p.nonceLen
	ciphertext := append([]byte(nil), data[o:]...)
	return Envelope{CipherID: id, Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}
