// Command objsel selects physics objects from event files.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/objsel/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "objsel:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
