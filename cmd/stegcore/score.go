package main

import (
	"flag"
	"fmt"

	"stegcore"
)

func runScore(e *stegcore.Engine, args []string) error {
	cmd := flag.NewFlagSet("score", flag.ExitOnError)
	coverPath := cmd.String("cover", "", "path to the candidate cover")
	cmd.Parse(args)

	if *coverPath == "" {
		return fmt.Errorf("-cover is required")
	}

	result, err := e.Score(*coverPath)
	if err != nil {
		return err
	}
	fmt.Printf("%d/100 (%s)\n", result.Score, result.Label)
	return nil
}
