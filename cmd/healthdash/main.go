// ABOUTME: Entry point for the healthdash CLI.
// ABOUTME: Invokes the root Cobra command and exits non-zero on error.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
