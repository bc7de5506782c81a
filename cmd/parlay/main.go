package main

import (
	"os"

	"github.com/rustyeddy/parlay/cmd/parlay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
