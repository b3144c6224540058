// Package progressbar renders the single-line live status the driver
// loop updates as attempts complete, rate-limited so a fast worker
// pool doesn't spend more time drawing than probing.
package progressbar

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/kpcyrd/authoscope/cliterm"
)

const minRedrawInterval = 100 * time.Millisecond

// Bar tracks completed/total attempt counts and draws them to w as a
// single overwritten line. Draw calls cheaper than minRedrawInterval
// apart are coalesced into a no-op, matching the rate limiting the
// original's progress bar applies so a tight completion loop doesn't
// dominate wall-clock time with terminal writes.
type Bar struct {
	w   io.Writer
	tty bool

	mu       sync.Mutex
	done     int
	total    int
	found    int
	workers  int
	lastDraw time.Time
}

func New(w io.Writer) *Bar {
	return &Bar{w: w, tty: cliterm.IsInteractive()}
}

// SetTotal sets the denominator, 0 meaning "unknown" (the readout then
// shows only the completed count).
func (b *Bar) SetTotal(total int) {
	b.mu.Lock()
	b.total = total
	b.mu.Unlock()
}

// SetWorkers updates the worker-count readout after a pool resize.
func (b *Bar) SetWorkers(n int) {
	b.mu.Lock()
	b.workers = n
	b.mu.Unlock()
	b.draw(false)
}

// Tick records one completed attempt, found indicating whether it
// succeeded, and redraws if enough time has passed since the last
// draw.
func (b *Bar) Tick(found bool) {
	b.mu.Lock()
	b.done++
	if found {
		b.found++
	}
	b.mu.Unlock()
	b.draw(false)
}

// Finish forces a final draw followed by a newline, so the last line
// isn't left half-overwritten once the run concludes.
func (b *Bar) Finish() {
	b.draw(true)
	if b.tty {
		fmt.Fprintln(b.w)
	}
}

// WriteAbove prints a line above the progress bar (a found
// credential, typically) without disturbing the bar's redraw
// rhythm: clear the line, print the message, then redraw immediately.
func (b *Bar) WriteAbove(line string) {
	b.mu.Lock()
	if b.tty {
		fmt.Fprint(b.w, "\r\033[K")
	}
	fmt.Fprintln(b.w, line)
	b.mu.Unlock()
	b.draw(true)
}

func (b *Bar) draw(force bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if !force && now.Sub(b.lastDraw) < minRedrawInterval {
		return
	}
	b.lastDraw = now

	line := b.render()
	if b.tty {
		fmt.Fprintf(b.w, "\r\033[K%s", line)
	} else {
		fmt.Fprintln(b.w, line)
	}
}

func (b *Bar) render() string {
	if b.total > 0 {
		return fmt.Sprintf("[%d/%d] %d found, %d workers", b.done, b.total, b.found, b.workers)
	}
	return fmt.Sprintf("[%d] %d found, %d workers", b.done, b.found, b.workers)
}
