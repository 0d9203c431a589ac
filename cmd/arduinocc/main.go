// Package main provides the CLI entry point for the compiler.
package main

import (
	"os"

	"github.com/mauriciogardini/arduino-c-compiler/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
