package main

import (
	"fmt"

	"stegcore/internal/cipher"
)

func runCiphers() {
	for _, id := range cipher.Supported() {
		fmt.Println(id)
	}
}
