package main

import (
	"flag"
	"fmt"
	"os"

	"stegcore"
)

func runExtract(e *stegcore.Engine, args []string) error {
	cmd := flag.NewFlagSet("extract", flag.ExitOnError)
	coverPath := cmd.String("cover", "", "path to the stego cover")
	sidecarPath := cmd.String("sidecar", "", "path to the sidecar metadata")
	pass := cmd.String("pass", "", "passphrase (insecure: it is recorded in shell history)")
	outPath := cmd.String("out", "", "path to write the recovered payload to (default: stdout)")
	deniable := cmd.Bool("deniable", false, "-sidecar is one half of a dual deniable payload")
	cmd.Parse(args)

	if *coverPath == "" || *sidecarPath == "" || *pass == "" {
		return fmt.Errorf("-cover, -sidecar, and -pass are required")
	}

	var (
		payload []byte
		err     error
	)
	if *deniable {
		payload, err = e.ExtractDeniable(*coverPath, *sidecarPath, *pass)
	} else {
		payload, err = e.Extract(*coverPath, *sidecarPath, *pass)
	}
	if err != nil {
		return err
	}

	if *outPath == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(*outPath, payload, 0o644)
}
