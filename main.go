package main

import (
	"os"

	"github.com/DefiantLabs/cosmos-explorer/cmd"
)

func main() {
	// simplest main as recommended by the Cobra package
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
