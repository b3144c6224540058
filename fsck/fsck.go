// Package fsck implements the "fsck" subcommand: load a script without
// running it against any credentials, surfacing load-time errors the
// same way the script host would during a real run.
package fsck

import (
	"fmt"
	"io"

	"github.com/kpcyrd/authoscope/conf"
	"github.com/kpcyrd/authoscope/script"
)

// Check loads each path and reports its description, or its error.
// It returns false if any script failed to load.
func Check(w io.Writer, paths []string, cfg *conf.Config) bool {
	ok := true
	for _, path := range paths {
		s, err := script.Load(path, cfg)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, err)
			ok = false
			continue
		}
		desc := s.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(w, "%s: ok, %s\n", path, desc)
	}
	return ok
}
