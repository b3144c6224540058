// Package ulimit raises the process file-descriptor ceiling per
// spec.md §5, since a worker pool wide enough to be useful routinely
// needs more open sockets than the default soft limit allows.
package ulimit

import (
	"golang.org/x/sys/unix"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// Raise sets RLIMIT_NOFILE's soft limit to want, capped at the
// current hard limit. A want of 0 is a no-op.
func Raise(want uint64) error {
	if want == 0 {
		return nil
	}

	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return scopeerr.Annotatef(err, scopeerr.Io, "reading rlimit_nofile")
	}

	target := want
	if target > rlim.Max {
		target = rlim.Max
	}
	if target <= rlim.Cur {
		return nil
	}

	rlim.Cur = target
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return scopeerr.Annotatef(err, scopeerr.Io, "raising rlimit_nofile to %d", target)
	}
	return nil
}
