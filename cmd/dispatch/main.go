package main

import (
	"os"

	"github.com/adamavenir/dispatch/internal/command"
)

func main() {
	// Errors are printed by the command that failed.
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
