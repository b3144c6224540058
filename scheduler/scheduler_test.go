package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s *Scheduler, n int, timeout time.Duration) []Msg {
	t.Helper()
	out := make([]Msg, 0, n)
	deadline := time.After(timeout)
	for len(out) < n {
		select {
		case <-deadline:
			t.Fatalf("timed out draining events, got %d/%d", len(out), n)
		default:
		}
		msg, ok := s.Recv()
		require.True(t, ok)
		out = append(out, msg)
	}
	return out
}

func TestSubmitAndResume(t *testing.T) {
	s := New(2)
	s.Submit(Creds{User: "alice"}, DefaultTTL, func() (bool, error) { return true, nil })
	s.Submit(Creds{User: "bob"}, DefaultTTL, func() (bool, error) { return false, nil })

	assert.Equal(t, 2, s.Inflight())
	s.Resume()

	msgs := drain(t, s, 2, time.Second)
	seen := map[string]bool{}
	for _, m := range msgs {
		require.Equal(t, MsgAttempt, m.Kind)
		seen[m.Attempt.Creds.User] = m.Attempt.Success
	}
	assert.True(t, seen["alice"])
	assert.False(t, seen["bob"])
	assert.Equal(t, 0, s.Inflight())
}

func TestPauseBlocksDispatch(t *testing.T) {
	s := New(1)
	ran := make(chan struct{}, 1)
	s.Submit(Creds{User: "x"}, DefaultTTL, func() (bool, error) {
		ran <- struct{}{}
		return true, nil
	})

	select {
	case <-ran:
		t.Fatal("job ran while scheduler was paused")
	case <-time.After(50 * time.Millisecond):
	}

	s.Resume()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job never ran after resume")
	}
	drain(t, s, 1, time.Second)
}

// Retry/ttl bookkeeping moved to the driver (spec.md §4.D); the
// scheduler itself now always runs a job exactly once and reports
// whatever it got, carrying the ttl along unexamined. See
// driver/driver_test.go for the retry-exhaustion and
// uniform-across-kinds behavior this used to cover here.
func TestJobRunsExactlyOnceAndReportsTtl(t *testing.T) {
	s := New(1)
	s.Resume()
	calls := 0
	s.Submit(Creds{User: "x"}, 3, func() (bool, error) {
		calls++
		return false, nil
	})
	msgs := drain(t, s, 1, time.Second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, msgs[0].Attempt.Ttl)
}

func TestIncrDecrNeverGoesBelowOne(t *testing.T) {
	s := New(1)
	assert.Equal(t, 1, s.Workers())
	s.Decr()
	s.Resume()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, s.Workers())

	s.Incr()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, s.Workers())
}

func TestKeyEventsMultiplexOnSameChannel(t *testing.T) {
	s := New(1)
	s.SendKey(KeyHelp)
	msg, ok := s.Recv()
	require.True(t, ok)
	assert.Equal(t, MsgKey, msg.Kind)
	assert.Equal(t, KeyHelp, msg.Key)
}
