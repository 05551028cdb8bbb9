// Package sidecar implements the sidecar record format (C7): the small
// piece of non-secret metadata (cipher choice, salt, nonce, cover kind,
// raster mode, deniability flags, and — for deniable covers — the
// partition seed and which half this particular record describes) that
// must travel alongside a stego cover for extraction to know how to read
// it back.
//
// The format is deliberately a line-oriented "field: value" text file, not
// JSON — a divergence from the JSON sidecar the original implementation
// used, recorded as a deliberate stylistic choice in DESIGN.md rather than
// something forced by any library gap.
package sidecar

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"stegcore/errs"
	"stegcore/internal/cipher"
)

const currentVersion = 1

// Record is the parsed form of a sidecar file.
type Record struct {
	Version       int
	CipherID      cipher.ID
	Salt          []byte
	Nonce         []byte
	CoverKind     string // "raster", "jpeg", "wav"
	Mode          string // "sequential" or "adaptive"; empty outside raster covers
	Deniable      bool
	PartitionSalt []byte // required, and only present, when Deniable
	PartitionHalf int    // 0 or 1, required, and only present, when Deniable
}

// Write serializes r into the line-oriented sidecar format.
func Write(r Record) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "version: %d\n", currentVersion)
	fmt.Fprintf(&b, "cipher: %s\n", r.CipherID)
	fmt.Fprintf(&b, "salt: %s\n", hex.EncodeToString(r.Salt))
	fmt.Fprintf(&b, "nonce: %s\n", hex.EncodeToString(r.Nonce))
	fmt.Fprintf(&b, "cover: %s\n", r.CoverKind)
	if r.Mode != "" {
		fmt.Fprintf(&b, "mode: %s\n", r.Mode)
	}
	fmt.Fprintf(&b, "deniable: %t\n", r.Deniable)
	if r.Deniable {
		fmt.Fprintf(&b, "partition_salt: %s\n", hex.EncodeToString(r.PartitionSalt))
		fmt.Fprintf(&b, "partition_half: %d\n", r.PartitionHalf)
	}
	return []byte(b.String())
}

// Read parses the line-oriented sidecar format, validating that every
// field a Record of this shape requires is present.
func Read(data []byte) (Record, error) {
	fields := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return Record{}, fmt.Errorf("%w: line %q has no \":\" separator", errs.ErrMalformedSidecar, line)
		}
		fields[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", errs.ErrMalformedSidecar, err)
	}

	for _, required := range []string{"version", "cipher", "salt", "nonce", "cover", "deniable"} {
		if _, ok := fields[required]; !ok {
			return Record{}, fmt.Errorf("%w: missing field %q", errs.ErrMalformedSidecar, required)
		}
	}

	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad version %q", errs.ErrMalformedSidecar, fields["version"])
	}
	salt, err := hex.DecodeString(fields["salt"])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad salt encoding", errs.ErrMalformedSidecar)
	}
	nonce, err := hex.DecodeString(fields["nonce"])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad nonce encoding", errs.ErrMalformedSidecar)
	}
	deniable, err := strconv.ParseBool(fields["deniable"])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad deniable flag %q", errs.ErrMalformedSidecar, fields["deniable"])
	}

	r := Record{
		Version:   version,
		CipherID:  cipher.ID(fields["cipher"]),
		Salt:      salt,
		Nonce:     nonce,
		CoverKind: fields["cover"],
		Mode:      fields["mode"],
		Deniable:  deniable,
	}

	if deniable {
		ps, ok := fields["partition_salt"]
		if !ok {
			return Record{}, fmt.Errorf("%w: deniable record missing partition_salt", errs.ErrMalformedSidecar)
		}
		r.PartitionSalt, err = hex.DecodeString(ps)
		if err != nil {
			return Record{}, fmt.Errorf("%w: bad partition_salt encoding", errs.ErrMalformedSidecar)
		}

		ph, ok := fields["partition_half"]
		if !ok {
			return Record{}, fmt.Errorf("%w: deniable record missing partition_half", errs.ErrMalformedSidecar)
		}
		half, err := strconv.Atoi(ph)
		if err != nil || (half != 0 && half != 1) {
			return Record{}, fmt.Errorf("%w: bad partition_half %q", errs.ErrMalformedSidecar, ph)
		}
		r.PartitionHalf = half
	}

	return r, nil
}
