// Command keypad is a calculator expression accumulator.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/keypad/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
