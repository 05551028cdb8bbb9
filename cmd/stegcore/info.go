package main

import (
	"flag"
	"fmt"

	"stegcore"
)

func runInfo(e *stegcore.Engine, args []string) error {
	cmd := flag.NewFlagSet("info", flag.ExitOnError)
	coverPath := cmd.String("cover", "", "path to the candidate cover")
	cmd.Parse(args)

	if *coverPath == "" {
		return fmt.Errorf("-cover is required")
	}

	kind, err := stegcore.DetectKind(*coverPath)
	if err != nil {
		return err
	}
	fmt.Printf("kind: %s\n", kind)

	modes := []struct {
		name string
		mode stegcore.RasterMode
	}{
		{"sequential", stegcore.Sequential},
		{"adaptive", stegcore.Adaptive},
	}
	for _, m := range modes {
		capacity, err := e.Capacity(*coverPath, stegcore.Options{Mode: m.mode})
		if err != nil {
			return err
		}
		fmt.Printf("capacity (%s): %d bytes\n", m.name, capacity)
		if kind != stegcore.KindRaster {
			break // mode only matters for raster covers
		}
	}
	return nil
}
