// Package keyboard reads single keystrokes from a raw-mode terminal
// and forwards the ones the driver loop understands onto the
// scheduler's unified event channel, per spec.md §4.E.
package keyboard

import (
	"os"

	"golang.org/x/term"

	"github.com/kpcyrd/authoscope/scheduler"
)

// Sink is the minimal surface keyboard needs from the scheduler: a
// way to push a Key event onto the shared channel.
type Sink interface {
	SendKey(k scheduler.Key)
}

// Reader owns the raw terminal mode toggle for stdin while it runs.
type Reader struct {
	fd       int
	oldState *term.State
}

// NewReader puts stdin into raw mode. Callers must call Restore when
// done, even on error paths, to avoid leaving the user's terminal raw.
func NewReader() (*Reader, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &Reader{fd: fd, oldState: old}, nil
}

// Restore returns the terminal to its original mode.
func (r *Reader) Restore() {
	if r.oldState != nil {
		term.Restore(r.fd, r.oldState)
	}
}

// Run reads keystrokes until stdin is closed or stop is closed,
// translating the five recognized keys onto sink and discarding
// everything else.
func (r *Reader) Run(sink Sink, stop <-chan struct{}) {
	buf := make([]byte, 1)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}

		switch buf[0] {
		case 'h', 'H':
			sink.SendKey(scheduler.KeyHelp)
		case 'p', 'P':
			sink.SendKey(scheduler.KeyPause)
		case 'r', 'R':
			sink.SendKey(scheduler.KeyResume)
		case '+':
			sink.SendKey(scheduler.KeyIncr)
		case '-':
			sink.SendKey(scheduler.KeyDecr)
		}
	}
}
