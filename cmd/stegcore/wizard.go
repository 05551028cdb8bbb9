package main

import "fmt"

// runWizard is a non-interactive stub. An earlier draft of this tool had a
// prompted walkthrough for choosing a cover and cipher; it's not wired up
// yet, so for now this just points people at the real subcommands.
func runWizard() {
	fmt.Println("interactive wizard not implemented; use embed, extract, score, info, or ciphers directly")
}
