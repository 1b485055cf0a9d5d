// taskboard is the command line companion to the board server. It runs the
// attachment intake pipeline against local files, inspects candidates,
// prints the limits in effect and can run the HTTP API itself.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if !isTTY() {
		color.NoColor = true
	}
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
