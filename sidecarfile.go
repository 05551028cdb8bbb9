package stegcore

import (
	"fmt"
	"os"

	"stegcore/internal/sidecar"
)

func writeSidecarFile(path string, rec sidecar.Record) error {
	if err := os.WriteFile(path, sidecar.Write(rec), 0o644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}
	return nil
}

func readSidecarFile(path string) (sidecar.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sidecar.Record{}, fmt.Errorf("reading sidecar: %w", err)
	}
	return sidecar.Read(data)
}
