package main

import (
	"flag"
	"fmt"
	"os"

	"stegcore"
	"stegcore/internal/cipher"
)

func runEmbed(e *stegcore.Engine, args []string) error {
	cmd := flag.NewFlagSet("embed", flag.ExitOnError)
	coverPath := cmd.String("cover", "", "path to the cover file (png, bmp, jpg, or wav)")
	outPath := cmd.String("out", "", "path to write the stego cover to")
	sidecarPath := cmd.String("sidecar", "", "path to write the sidecar metadata to")
	message := cmd.String("message", "", "payload text to embed")
	payloadFile := cmd.String("payload-file", "", "path to a file whose bytes are the payload (overrides -message)")
	pass := cmd.String("pass", "", "passphrase (insecure: it is recorded in shell history)")
	cipherName := cmd.String("cipher", string(cipher.ChaCha20Poly1305), "cipher: Ascon-128, ChaCha20-Poly1305, or AES-256-GCM")
	mode := cmd.String("mode", "adaptive", "raster placement mode: adaptive or sequential")
	overwrite := cmd.Bool("overwrite", false, "overwrite -out if it already exists")
	deniable := cmd.Bool("deniable", false, "embed two payloads: a decoy under -decoy-pass and the real one under -pass")
	decoyMessage := cmd.String("decoy-message", "", "decoy payload text (deniable mode only)")
	decoyPass := cmd.String("decoy-pass", "", "decoy passphrase (deniable mode only; insecure: it is recorded in shell history)")
	decoySidecarPath := cmd.String("decoy-sidecar", "", "path to write the decoy sidecar metadata to (deniable mode only; -sidecar is used for the real payload's sidecar)")
	cmd.Parse(args)

	if *coverPath == "" || *outPath == "" || *sidecarPath == "" || *pass == "" {
		return fmt.Errorf("-cover, -out, -sidecar, and -pass are required")
	}

	payload, err := resolvePayload(*message, *payloadFile)
	if err != nil {
		return err
	}

	opts := stegcore.Options{
		CipherID:  cipher.ID(*cipherName),
		Mode:      parseMode(*mode),
		Overwrite: *overwrite,
	}

	if *deniable {
		decoyPayload, err := resolvePayload(*decoyMessage, "")
		if err != nil {
			return err
		}
		if *decoyPass == "" || *decoySidecarPath == "" {
			return fmt.Errorf("-decoy-pass and -decoy-sidecar are required with -deniable")
		}
		return e.EmbedDeniable(*coverPath, *outPath, *decoySidecarPath, *sidecarPath, decoyPayload, *decoyPass, payload, *pass, opts)
	}

	return e.Embed(*coverPath, *outPath, *sidecarPath, payload, *pass, opts)
}

func resolvePayload(message, payloadFile string) ([]byte, error) {
	if payloadFile != "" {
		return os.ReadFile(payloadFile)
	}
	return []byte(message), nil
}

func parseMode(s string) stegcore.RasterMode {
	if s == "sequential" {
		return stegcore.Sequential
	}
	return stegcore.Adaptive
}
