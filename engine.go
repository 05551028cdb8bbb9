// Package stegcore implements crypto-steganography: AEAD-encrypted
// payloads concealed inside PNG/BMP raster images, baseline JPEG DCT
// coefficients, or PCM WAV audio, with an optional dual-payload deniable
// mode. See DESIGN.md for how each piece is grounded.
package stegcore

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/sirupsen/logrus"

	"stegcore/errs"
	"stegcore/internal/bitstream"
	"stegcore/internal/cipher"
	"stegcore/internal/deniable"
	"stegcore/internal/position"
	"stegcore/internal/score"
	"stegcore/internal/sidecar"
)

// Config configures an Engine. A nil Logger falls back to logrus's
// standard logger, matching how i5heu-ouroboros-kv wires an injectable
// package-level logger through its own Config.
type Config struct {
	Logger *logrus.Logger
}

// Engine is the entry point for every operation this package exposes.
type Engine struct {
	log *logrus.Logger
}

// New constructs an Engine from cfg.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{log: log}
}

// Options controls single-payload embedding and capacity queries.
type Options struct {
	CipherID  cipher.ID
	Mode      RasterMode // ignored for JPEG and WAV covers
	Overwrite bool
}

// RasterMode re-exports position.RasterMode so callers never need to
// import an internal package to select it.
type RasterMode = position.RasterMode

// Raster mode selectors, re-exported from the position package.
const (
	Sequential = position.Sequential
	Adaptive   = position.Adaptive
)

// Embed encrypts payload under passphrase, embeds it into coverPath's LSB
// slots, and writes the stego cover to outPath plus a sidecar file to
// sidecarPath.
func (e *Engine) Embed(coverPath, outPath, sidecarPath string, payload []byte, passphrase string, opts Options) error {
	if err := writeOutputFile(outPath, opts.Overwrite); err != nil {
		return err
	}
	lc, err := loadCover(coverPath)
	if err != nil {
		return err
	}

	env, stegKey, err := cipher.Encrypt(payload, passphrase, opts.CipherID)
	if err != nil {
		return fmt.Errorf("encrypting payload: %w", err)
	}
	defer zeroBytesLocal(stegKey)

	if err := lc.embed(env.Ciphertext, opts, stegKey); err != nil {
		return err
	}

	if err := lc.save(outPath); err != nil {
		return fmt.Errorf("saving stego cover: %w", err)
	}

	rec := sidecar.Record{
		CipherID:  env.CipherID,
		Salt:      env.Salt,
		Nonce:     env.Nonce,
		CoverKind: string(lc.kind),
		Mode:      modeLabel(lc.kind, opts.Mode),
	}
	e.log.WithFields(logrus.Fields{"cover": coverPath, "cipher": env.CipherID}).Info("embedded payload")
	return writeSidecarFile(sidecarPath, rec)
}

// Extract reads sidecarPath, recomputes the slot sequence it describes,
// and decrypts the embedded payload under passphrase.
func (e *Engine) Extract(coverPath, sidecarPath, passphrase string) ([]byte, error) {
	rec, err := readSidecarFile(sidecarPath)
	if err != nil {
		return nil, err
	}
	lc, err := loadCover(coverPath)
	if err != nil {
		return nil, err
	}
	if string(lc.kind) != rec.CoverKind {
		return nil, fmt.Errorf("%w: sidecar says %q, cover is %q", errs.ErrModeMismatch, rec.CoverKind, lc.kind)
	}

	env := cipher.Envelope{CipherID: rec.CipherID, Salt: rec.Salt, Nonce: rec.Nonce}
	stegKey := cipher.DeriveStegKey(passphrase, rec.Salt)
	defer zeroBytesLocal(stegKey)

	opts := Options{Mode: modeFromLabel(rec.Mode)}
	ciphertext, err := lc.extract(opts, stegKey)
	if err != nil {
		return nil, err
	}
	env.Ciphertext = ciphertext

	plaintext, decKey, err := cipher.Decrypt(env, passphrase)
	zeroBytesLocal(decKey)
	if err != nil {
		return nil, err
	}
	e.log.WithField("cover", coverPath).Info("extracted payload")
	return plaintext, nil
}

// Capacity returns the number of bytes coverPath can carry inside the
// length-prefixed frame under opts. The framing overhead is subtracted; the
// compression and AEAD overhead that Embed adds to a payload are not.
func (e *Engine) Capacity(coverPath string, opts Options) (int, error) {
	lc, err := loadCover(coverPath)
	if err != nil {
		return 0, err
	}
	// Capacity doesn't depend on the key for JPEG/WAV, and for raster it
	// only depends on the key insofar as adaptive mode's *set* of eligible
	// slots is key-independent (only their order is keyed), so any non-nil
	// 32-byte key gives the true capacity.
	probe := make([]byte, 32)
	capacityBytes := lc.capacityBits(opts, probe)/8 - bitstream.HeaderBits/8
	if capacityBytes < 0 {
		capacityBytes = 0
	}
	return capacityBytes, nil
}

// Score rates coverPath's suitability as a steganographic cover.
func (e *Engine) Score(coverPath string) (score.Result, error) {
	lc, err := loadCover(coverPath)
	if err != nil {
		return score.Result{}, err
	}
	switch lc.kind {
	case KindRaster:
		return score.Raster(lc.raster), nil
	case KindWAV:
		return score.WAV(lc.wav), nil
	default:
		return score.Result{}, fmt.Errorf("%w: scoring is only defined for raster and WAV covers", errs.ErrUnsupportedFormat)
	}
}

// EmbedDeniable encrypts decoyPayload and realPayload under separate
// passphrases, partitions coverPath's full slot universe into two disjoint
// halves via a public partition salt, and embeds each payload's full
// marshaled envelope into its own half. It writes two sidecars — one per
// payload, to decoySidecarPath and realSidecarPath — each recording only
// the shared partition salt and that sidecar's own half index: nothing
// about either payload's cipher parameters, so a party holding just one
// sidecar and its matching passphrase has no way to learn a second payload
// exists, and extraction never has to guess which half a sidecar describes.
func (e *Engine) EmbedDeniable(coverPath, outPath, decoySidecarPath, realSidecarPath string, decoyPayload []byte, decoyPass string, realPayload []byte, realPass string, opts Options) error {
	if err := writeOutputFile(outPath, opts.Overwrite); err != nil {
		return err
	}
	lc, err := loadCover(coverPath)
	if err != nil {
		return err
	}

	partitionSalt := make([]byte, 16)
	if _, err := rand.Read(partitionSalt); err != nil {
		return fmt.Errorf("generating partition salt: %w", err)
	}
	partitionKey := sha256Expand(partitionSalt)

	seq := lc.sequentialBits()
	h0, h1 := deniable.Partition(partitionKey, seq.Len())

	if err := embedDeniableHalf(seq, h0, decoyPayload, decoyPass, opts.CipherID); err != nil {
		return fmt.Errorf("embedding decoy payload: %w", err)
	}
	if err := embedDeniableHalf(seq, h1, realPayload, realPass, opts.CipherID); err != nil {
		return fmt.Errorf("embedding real payload: %w", err)
	}

	if err := lc.save(outPath); err != nil {
		return fmt.Errorf("saving stego cover: %w", err)
	}

	base := sidecar.Record{
		CoverKind:     string(lc.kind),
		Deniable:      true,
		PartitionSalt: partitionSalt,
	}
	decoyRec, realRec := base, base
	decoyRec.PartitionHalf, realRec.PartitionHalf = 0, 1

	e.log.WithField("cover", coverPath).Info("embedded deniable dual payload")
	if err := writeSidecarFile(decoySidecarPath, decoyRec); err != nil {
		return fmt.Errorf("writing decoy sidecar: %w", err)
	}
	return writeSidecarFile(realSidecarPath, realRec)
}

func embedDeniableHalf(seq bitSequence, half []int, payload []byte, passphrase string, id cipher.ID) error {
	env, stegKey, err := cipher.Encrypt(payload, passphrase, id)
	if err != nil {
		return err
	}
	defer zeroBytesLocal(stegKey)

	marshaled, err := cipher.MarshalEnvelope(env)
	if err != nil {
		return err
	}
	framed := bitstream.Frame(marshaled)
	return writeFramedBitsAt(seq, half, framed)
}

// ExtractDeniable recomputes the public partition from sidecarPath and
// decrypts the payload embedded in the half sidecarPath's own
// PartitionHalf names. Each deniable sidecar records exactly which half it
// describes, so this never needs to try the other half.
func (e *Engine) ExtractDeniable(coverPath, sidecarPath, passphrase string) ([]byte, error) {
	rec, err := readSidecarFile(sidecarPath)
	if err != nil {
		return nil, err
	}
	if !rec.Deniable {
		return nil, fmt.Errorf("%w: sidecar does not describe a deniable cover", errs.ErrModeMismatch)
	}
	lc, err := loadCover(coverPath)
	if err != nil {
		return nil, err
	}
	if string(lc.kind) != rec.CoverKind {
		return nil, fmt.Errorf("%w: sidecar says %q, cover is %q", errs.ErrModeMismatch, rec.CoverKind, lc.kind)
	}

	partitionKey := sha256Expand(rec.PartitionSalt)
	seq := lc.sequentialBits()
	h0, h1 := deniable.Partition(partitionKey, seq.Len())

	half := h0
	if rec.PartitionHalf == 1 {
		half = h1
	}
	pt, err := extractDeniableHalf(seq, half, passphrase)
	if err != nil {
		return nil, errs.ErrAuthFail
	}
	return pt, nil
}

func extractDeniableHalf(seq bitSequence, half []int, passphrase string) ([]byte, error) {
	bits := readBitsAt(seq, half)
	marshaled, err := bitstream.Unframe(bits)
	if err != nil {
		return nil, err
	}
	env, err := cipher.UnmarshalEnvelope(marshaled)
	if err != nil {
		return nil, err
	}
	plaintext, decKey, err := cipher.Decrypt(env, passphrase)
	zeroBytesLocal(decKey)
	return plaintext, err
}

func sha256Expand(salt []byte) []byte {
	sum := sha256.Sum256(salt)
	return sum[:]
}

func zeroBytesLocal(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func modeLabel(kind Kind, mode RasterMode) string {
	if kind != KindRaster {
		return ""
	}
	if mode == Adaptive {
		return "adaptive"
	}
	return "sequential"
}

func modeFromLabel(s string) RasterMode {
	if s == "adaptive" {
		return Adaptive
	}
	return Sequential
}
