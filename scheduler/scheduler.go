// Package scheduler implements the bounded concurrent attempt runner
// described in spec.md §4.C: a resizable worker pool with a pause
// gate and a single event channel that multiplexes attempt
// completions with keyboard events so the driver loop never has to
// select across two channels. Retry/ttl bookkeeping belongs to the
// driver (spec.md §4.D): the scheduler runs each submitted Job
// exactly once and reports whatever it got.
package scheduler

import (
	"sync"
	"sync/atomic"
)

// DefaultTTL is the retry budget a freshly submitted attempt starts
// with: one original try plus up to this many retries before the
// driver counts it expired.
const DefaultTTL = 5

// Key is one of the interactive control keys the driver loop reacts
// to: h (help), p (pause), r (resume), + (grow the pool), - (shrink
// the pool).
type Key int

const (
	KeyHelp Key = iota
	KeyPause
	KeyResume
	KeyIncr
	KeyDecr
)

// Creds is the credential pair (or single identifier, in enumerate
// mode where Password is nil) an attempt was run against.
type Creds struct {
	User     string
	Password *string
}

// Attempt is the outcome of running a script against one Creds value,
// carrying the remaining retry budget and the closure that produced
// it so the driver can resubmit on failure without the caller having
// to track either itself.
type Attempt struct {
	Creds   Creds
	Ttl     int
	Fn      func() (bool, error)
	Success bool
	Err     error
}

// MsgKind discriminates the two variants carried over the scheduler's
// event channel.
type MsgKind int

const (
	MsgAttempt MsgKind = iota
	MsgKey
)

// Msg is the unified event the driver loop consumes: either an
// Attempt result or a keyboard Key.
type Msg struct {
	Kind    MsgKind
	Attempt *Attempt
	Key     Key
}

// Job is the unit of work a worker executes: run fn against creds and
// report whether it succeeded, carrying the ttl along for the
// driver's benefit.
type Job struct {
	Creds Creds
	Ttl   int
	Fn    func() (bool, error)
}

// Scheduler runs submitted Jobs on a resizable worker pool, honoring a
// pause gate, before reporting each result on Events.
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
	quit   int // workers that should exit after their current job

	jobs   chan Job
	events chan Msg

	inflight int64

	workersMu sync.Mutex
	workerID  int
	active    map[int]chan struct{}
}

// New builds a Scheduler with the given initial worker count. The
// pool starts paused, matching the original's "armed but waiting"
// startup behavior; callers must Resume() to begin processing.
func New(workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	s := &Scheduler{
		jobs:   make(chan Job, 4096),
		events: make(chan Msg, 4096),
		paused: true,
		active: make(map[int]chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	for i := 0; i < workers; i++ {
		s.spawnWorker()
	}
	return s
}

func (s *Scheduler) spawnWorker() {
	s.workersMu.Lock()
	id := s.workerID
	s.workerID++
	done := make(chan struct{})
	s.active[id] = done
	s.workersMu.Unlock()

	go s.workerLoop(id, done)
}

func (s *Scheduler) workerLoop(id int, done chan struct{}) {
	defer close(done)
	for {
		s.mu.Lock()
		for s.paused && s.quit == 0 {
			s.cond.Wait()
		}
		if s.quit > 0 {
			s.quit--
			s.mu.Unlock()
			s.workersMu.Lock()
			delete(s.active, id)
			s.workersMu.Unlock()
			return
		}
		s.mu.Unlock()

		job, ok := <-s.jobs
		if !ok {
			return
		}
		s.runJob(job)
	}
}

func (s *Scheduler) runJob(job Job) {
	success, err := job.Fn()
	s.events <- Msg{
		Kind: MsgAttempt,
		Attempt: &Attempt{
			Creds:   job.Creds,
			Ttl:     job.Ttl,
			Fn:      job.Fn,
			Success: success,
			Err:     err,
		},
	}
}

// Submit enqueues a job with the given retry budget. The scheduler's
// inflight count increases immediately and only drops once the
// corresponding result has been consumed via Recv, so Inflight()
// always equals submissions minus consumptions.
func (s *Scheduler) Submit(creds Creds, ttl int, fn func() (bool, error)) {
	atomic.AddInt64(&s.inflight, 1)
	s.jobs <- Job{Creds: creds, Ttl: ttl, Fn: fn}
}

// Recv returns the next event. ok is false once Close has been called
// and every pending event has been drained.
func (s *Scheduler) Recv() (Msg, bool) {
	msg, ok := <-s.events
	if ok && msg.Kind == MsgAttempt {
		atomic.AddInt64(&s.inflight, -1)
	}
	return msg, ok
}

// SendKey injects a keyboard event onto the unified event channel.
func (s *Scheduler) SendKey(k Key) {
	s.events <- Msg{Kind: MsgKey, Key: k}
}

// Inflight reports submissions not yet consumed via Recv.
func (s *Scheduler) Inflight() int {
	return int(atomic.LoadInt64(&s.inflight))
}

// HasWork reports whether any attempt is outstanding.
func (s *Scheduler) HasWork() bool {
	return s.Inflight() > 0
}

// Pause halts workers before they pick up their next job. Jobs
// already running are not interrupted.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume releases all workers blocked by Pause.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Paused reports the current pause state.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Incr grows the pool by one worker.
func (s *Scheduler) Incr() {
	s.spawnWorker()
}

// Decr shrinks the pool by one worker, never going below one.
func (s *Scheduler) Decr() {
	s.workersMu.Lock()
	n := len(s.active)
	s.workersMu.Unlock()
	if n <= 1 {
		return
	}
	s.mu.Lock()
	s.quit++
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Workers reports the current pool size.
func (s *Scheduler) Workers() int {
	s.workersMu.Lock()
	defer s.workersMu.Unlock()
	return len(s.active)
}

// Close stops accepting new jobs and closes the event channel once
// every outstanding job has reported its result. Callers must not
// Submit after calling Close.
func (s *Scheduler) Close() {
	close(s.jobs)
	s.workersMu.Lock()
	waiters := make([]chan struct{}, 0, len(s.active))
	for _, done := range s.active {
		waiters = append(waiters, done)
	}
	s.workersMu.Unlock()
	s.Resume()
	for _, done := range waiters {
		<-done
	}
	close(s.events)
}
