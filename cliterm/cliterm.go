// Package cliterm holds the small terminal-detection and shell
// completion helpers shared by the CLI subcommands.
package cliterm

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether stdout is a terminal, gating both the
// live progress bar and the raw-mode keyboard reader: piping output
// to a file or another process should produce plain sequential lines.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// ColorEnabled reports whether ANSI colors should be emitted: stdout
// must be a terminal and NO_COLOR must be unset, following the
// convention the rest of the ecosystem's CLIs already respect.
func ColorEnabled() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsInteractive()
}
