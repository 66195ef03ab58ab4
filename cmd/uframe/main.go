// Command uframe is the entry point for the whole-program static analyzer:
// wiring cmd/uframe's cobra command tree to internal/driver.
//
// Grounded on _examples/roach88-nysm's internal/cli/root.go (persistent
// flags on a root command, RunE-returned errors mapped to an exit code) —
// library: github.com/spf13/cobra.
package main

import (
	"os"

	"github.com/uframe/uframe/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
