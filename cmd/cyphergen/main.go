package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/graphspec/cyphergen/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		// Commands silence cobra's own printing, so this is the one
		// place an error reaches the terminal. Detailed diagnostics
		// were already written by the formatter.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		// Usage and flag errors carry no coded exit.
		os.Exit(cli.ExitCommandError)
	}
}
