package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rshade/loandash/internal/cli"
	"github.com/rshade/loandash/pkg/version"
)

func main() {
	if err := run(); err != nil {
		os.Exit(exitCode(os.Stderr, err))
	}
}

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}

// exitCode prints err and returns the process exit code. Failed fetches are
// shown as their alert message alone.
func exitCode(w io.Writer, err error) int {
	if cli.IsAlert(err) {
		_, _ = fmt.Fprintln(w, err)
	} else {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	}
	return 1
}
