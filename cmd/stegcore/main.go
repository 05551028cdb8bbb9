package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"stegcore"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := logrus.StandardLogger()
	engine := stegcore.New(stegcore.Config{Logger: log})

	var err error
	switch os.Args[1] {
	case "embed":
		err = runEmbed(engine, os.Args[2:])
	case "extract":
		err = runExtract(engine, os.Args[2:])
	case "score":
		err = runScore(engine, os.Args[2:])
	case "info":
		err = runInfo(engine, os.Args[2:])
	case "ciphers":
		runCiphers()
	case "wizard":
		runWizard()
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Expected one of: embed, extract, score, info, ciphers, wizard")
}
