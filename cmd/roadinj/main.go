package main

import (
	"os"

	"github.com/epistat/roadinj/cmd/roadinj/commands"
)

// main is the entry point for the roadinj CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
