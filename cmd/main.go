package main

// Entry point: runs the Cobra root command, exit code 1 on any error

import (
	"fmt"
	"os"

	"nbody-bench/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
