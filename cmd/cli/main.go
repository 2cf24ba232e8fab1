// Package main is the entry point for the routed CLI.
package main

import (
	"os"

	"routed-values/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
