// Command srl is the command-line front end of the SRL proof kernel.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/srl/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "srl:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
