// Package driver implements the event loop of spec.md §4.D: it reads
// the scheduler's unified event channel, reacts to keyboard control
// events, and owns attempt retry/ttl bookkeeping, resubmitting a
// failed attempt with a decremented budget until it succeeds, fails
// permanently, or its ttl is exhausted.
package driver

import (
	"fmt"
	"time"

	"github.com/kpcyrd/authoscope/logger"
	"github.com/kpcyrd/authoscope/progressbar"
	"github.com/kpcyrd/authoscope/report"
	"github.com/kpcyrd/authoscope/scheduler"
)

const helpText = `keys: h help, p pause, r resume, + more workers, - fewer workers`

// Summary is the tally the loop returns once every originally
// submitted attempt has reached a terminal state (succeeded, failed
// with no retry budget left, or expired).
type Summary struct {
	Attempts int // original submissions, not counting retries
	Found    int
	Retries  int
	Expired  int
	Elapsed  time.Duration
}

// String renders the closing run summary line.
func (s Summary) String() string {
	avg := time.Duration(0)
	if s.Attempts > 0 {
		avg = s.Elapsed / time.Duration(s.Attempts)
	}
	return fmt.Sprintf(
		"found %d valid credentials with %d attempts and %d retries after %s and on average %s per attempt. %d attempts expired.\n",
		s.Found, s.Attempts, s.Retries, s.Elapsed, avg, s.Expired,
	)
}

// Run drains sched until every one of the total originally submitted
// attempts has resolved, updating bar and recording every success to
// rep. It unconditionally resumes the scheduler on entry, matching
// the CLI's "start running immediately, let the operator pause if
// they want to" default.
//
// An errored attempt with ttl remaining is resubmitted here rather
// than inside the scheduler (spec.md §4.D), so the retry uniformly
// applies across every error kind, including Script: the source
// retries uniformly and this preserves that behavior rather than
// silently special-casing it away.
func Run(sched *scheduler.Scheduler, bar *progressbar.Bar, rep *report.Writer, total int) (Summary, error) {
	sched.Resume()
	bar.SetTotal(total)
	bar.SetWorkers(sched.Workers())

	start := time.Now()
	sum := Summary{Attempts: total}

	completed := 0
	for completed < total {
		msg, ok := sched.Recv()
		if !ok {
			break
		}

		switch msg.Kind {
		case scheduler.MsgKey:
			handleKey(sched, bar, msg.Key)

		case scheduler.MsgAttempt:
			a := msg.Attempt
			if a.Err != nil {
				if a.Ttl > 0 {
					sum.Retries++
					sched.Submit(a.Creds, a.Ttl-1, a.Fn)
					continue
				}
				sum.Expired++
				completed++
				logger.Debugf("attempt for %s errored and expired: %v", a.Creds.User, a.Err)
				bar.Tick(false)
				continue
			}

			completed++
			bar.Tick(a.Success)
			if a.Success {
				sum.Found++
				if err := rep.Write(a.Creds.User, a.Creds.Password); err != nil {
					return sum, err
				}
				bar.WriteAbove(formatHit(a.Creds))
			}
		}
	}

	sum.Elapsed = time.Since(start)
	bar.Finish()
	return sum, nil
}

func handleKey(sched *scheduler.Scheduler, bar *progressbar.Bar, k scheduler.Key) {
	switch k {
	case scheduler.KeyHelp:
		bar.WriteAbove(helpText)
	case scheduler.KeyPause:
		sched.Pause()
		bar.WriteAbove("paused")
	case scheduler.KeyResume:
		sched.Resume()
		bar.WriteAbove("resumed")
	case scheduler.KeyIncr:
		sched.Incr()
		bar.SetWorkers(sched.Workers())
	case scheduler.KeyDecr:
		sched.Decr()
		bar.SetWorkers(sched.Workers())
	}
}

func formatHit(c scheduler.Creds) string {
	if c.Password == nil {
		return fmt.Sprintf("found: %s", c.User)
	}
	return fmt.Sprintf("found: %s:%s", c.User, *c.Password)
}
