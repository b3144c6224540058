package driver

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpcyrd/authoscope/progressbar"
	"github.com/kpcyrd/authoscope/report"
	"github.com/kpcyrd/authoscope/scheduler"
	"github.com/kpcyrd/authoscope/scopeerr"
)

func newBar() *progressbar.Bar {
	return progressbar.New(os.Stdout)
}

func TestRunCountsSuccessAndFailure(t *testing.T) {
	sched := scheduler.New(2)
	rep, err := report.Open("")
	require.NoError(t, err)
	defer rep.Close()

	sched.Submit(scheduler.Creds{User: "alice"}, scheduler.DefaultTTL, func() (bool, error) { return true, nil })
	sched.Submit(scheduler.Creds{User: "bob"}, scheduler.DefaultTTL, func() (bool, error) { return false, nil })

	sum, err := Run(sched, newBar(), rep, 2)
	sched.Close()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Attempts)
	assert.Equal(t, 1, sum.Found)
	assert.Equal(t, 0, sum.Retries)
	assert.Equal(t, 0, sum.Expired)
}

// An attempt with ttl=5 must be delivered to the driver exactly 6
// times (1 original + 5 retries) before it counts as expired, per the
// concrete scenario driving the retry/ttl handoff from the scheduler
// to the driver.
func TestErroredAttemptRetriesUntilTtlExhaustedThenExpires(t *testing.T) {
	sched := scheduler.New(1)
	rep, err := report.Open("")
	require.NoError(t, err)
	defer rep.Close()

	calls := 0
	sched.Submit(scheduler.Creds{User: "x"}, 5, func() (bool, error) {
		calls++
		return false, scopeerr.New(scopeerr.Io, nil, "connection refused")
	})

	sum, err := Run(sched, newBar(), rep, 1)
	sched.Close()
	require.NoError(t, err)
	assert.Equal(t, 6, calls) // 1 original + 5 retries
	assert.Equal(t, 5, sum.Retries)
	assert.Equal(t, 1, sum.Expired)
	assert.Equal(t, 0, sum.Found)
}

// The retry policy applies uniformly across every error kind,
// including Script: the original retries uniformly and this is
// preserved as a known quirk rather than silently special-cased away.
func TestScriptErrorsAreRetriedJustLikeAnyOtherKind(t *testing.T) {
	sched := scheduler.New(1)
	rep, err := report.Open("")
	require.NoError(t, err)
	defer rep.Close()

	calls := 0
	sched.Submit(scheduler.Creds{User: "x"}, 2, func() (bool, error) {
		calls++
		return false, scopeerr.New(scopeerr.Script, nil, "nil value arithmetic")
	})

	sum, err := Run(sched, newBar(), rep, 1)
	sched.Close()
	require.NoError(t, err)
	assert.Equal(t, 3, calls) // 1 original + 2 retries
	assert.Equal(t, 2, sum.Retries)
	assert.Equal(t, 1, sum.Expired)
}

func TestSummaryStringIncludesExpiredAndRetryCounts(t *testing.T) {
	sum := Summary{Attempts: 4, Found: 1, Retries: 6, Expired: 1}
	s := sum.String()
	assert.Contains(t, s, "found 1 valid credentials")
	assert.Contains(t, s, "4 attempts")
	assert.Contains(t, s, "6 retries")
	assert.Contains(t, s, "1 attempts expired")
}
