package main

import (
	"log"

	"github.com/thiagokokada/gitdag-go/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("gitdag-go: %v", err)
	}
}
