// Package errs defines the sentinel error kinds exposed at the stegcore API
// boundary. Callers should match with errors.Is, never string comparison.
package errs

import "errors"

var (
	// ErrAuthFail is returned when AEAD verification fails: wrong passphrase
	// or a tampered/corrupted stego file. The two cases are never
	// distinguished.
	ErrAuthFail = errors.New("authentication failed")

	// ErrCoverTooSmall is returned when a cover does not have enough
	// eligible slots for the framed payload.
	ErrCoverTooSmall = errors.New("cover too small for payload")

	// ErrUnsupportedFormat is returned for an unrecognised cover extension.
	ErrUnsupportedFormat = errors.New("unsupported cover format")

	// ErrMalformedSidecar is returned when a sidecar is missing a required
	// field or carries an invalid combination of fields.
	ErrMalformedSidecar = errors.New("malformed sidecar")

	// ErrMalformedCover is returned when the codec layer rejects the input
	// bytes as not being a valid instance of the claimed format.
	ErrMalformedCover = errors.New("malformed cover")

	// ErrModeMismatch is returned when the requested mode or deniable flag
	// is inconsistent with what the sidecar records.
	ErrModeMismatch = errors.New("mode mismatch")

	// ErrOutputExists is returned when the output path already exists and
	// the caller did not request an overwrite.
	ErrOutputExists = errors.New("output already exists")
)
