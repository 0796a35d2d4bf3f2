package client

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
	clock   *fakeClock
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true

	return active
}

// fakeClock fires due timers synchronously from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f, clock: c}
	c.timers = append(c.timers, t)

	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

type scriptedRefresher struct {
	mu       sync.Mutex
	calls    []string
	at       []time.Time
	failures int
	clock    *fakeClock
	issue    func(n int) Tokens
}

func (r *scriptedRefresher) Refresh(_ context.Context, token string) (LoginResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, token)
	r.at = append(r.at, r.clock.Now())
	if r.failures > 0 {
		r.failures--
		return LoginResult{}, errors.New("network down")
	}

	return LoginResult{Tokens: r.issue(len(r.calls))}, nil
}

func (r *scriptedRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.calls)
}

var epoch = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func pairAt(now time.Time, n int) Tokens {
	return Tokens{
		AccessToken:      "access",
		AccessExpiresAt:  now.Add(15 * time.Minute),
		RefreshToken:     "refresh-" + strconv.Itoa(n),
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func newSessionFixture(failures int, opts ...SessionOption) (*Session, *fakeClock, *scriptedRefresher) {
	clock := newFakeClock(epoch)
	refresher := &scriptedRefresher{failures: failures, clock: clock}
	refresher.issue = func(n int) Tokens { return pairAt(clock.Now(), n) }

	opts = append([]SessionOption{WithClock(clock)}, opts...)

	return NewSession(refresher, opts...), clock, refresher
}

func TestSession_RefreshesBeforeAccessExpiry(t *testing.T) {
	var refreshed []Tokens
	s, clock, refresher := newSessionFixture(0, OnRefresh(func(tok Tokens) { refreshed = append(refreshed, tok) }))
	s.Start(pairAt(epoch, 0))

	clock.Advance(15*time.Minute - RefreshLead - time.Second)
	assert.Zero(t, refresher.count())

	clock.Advance(time.Second)
	require.Equal(t, 1, refresher.count())
	assert.Equal(t, []string{"refresh-0"}, refresher.calls)
	assert.Equal(t, epoch.Add(15*time.Minute-RefreshLead), refresher.at[0])
	require.Len(t, refreshed, 1)
	assert.Equal(t, "refresh-1", s.Tokens().RefreshToken)

	clock.Advance(15*time.Minute - RefreshLead)
	assert.Equal(t, 2, refresher.count(), "the next refresh is scheduled from the new pair")
	assert.Equal(t, []string{"refresh-0", "refresh-1"}, refresher.calls)
	assert.True(t, s.Running())
}

func TestSession_RetriesEveryTwoSeconds(t *testing.T) {
	s, clock, refresher := newSessionFixture(2)
	s.Start(pairAt(epoch, 0))

	first := 15*time.Minute - RefreshLead
	clock.Advance(first + 2*RetryInterval)

	require.Equal(t, 3, refresher.count())
	assert.Equal(t, []time.Time{
		epoch.Add(first),
		epoch.Add(first + RetryInterval),
		epoch.Add(first + 2*RetryInterval),
	}, refresher.at)
	assert.Equal(t, "refresh-3", s.Tokens().RefreshToken)
	assert.True(t, s.Running())
}

func TestSession_UnboundedRetryByDefault(t *testing.T) {
	s, clock, refresher := newSessionFixture(1000)
	s.Start(pairAt(epoch, 0))

	clock.Advance(15*time.Minute - RefreshLead + 100*RetryInterval)
	assert.Equal(t, 101, refresher.count())
	assert.True(t, s.Running())
}

func TestSession_LogsOutAfterMaxAttempts(t *testing.T) {
	logouts := 0
	s, clock, refresher := newSessionFixture(1000, WithMaxRefreshAttempts(3), OnLogout(func() { logouts++ }))
	s.Start(pairAt(epoch, 0))

	clock.Advance(time.Hour)
	assert.Equal(t, 3, refresher.count())
	assert.Equal(t, 1, logouts)
	assert.False(t, s.Running())
	assert.Empty(t, s.Tokens().AccessToken)
}

func TestSession_LogsOutBeforeRefreshExpiry(t *testing.T) {
	logouts := 0
	s, clock, refresher := newSessionFixture(0, OnLogout(func() { logouts++ }))
	s.Start(Tokens{
		AccessToken:      "access",
		AccessExpiresAt:  epoch.Add(time.Hour),
		RefreshToken:     "refresh-0",
		RefreshExpiresAt: epoch.Add(30 * time.Minute),
	})

	clock.Advance(30*time.Minute - LogoutLead - time.Second)
	assert.Zero(t, logouts)

	clock.Advance(time.Second)
	assert.Equal(t, 1, logouts)

	clock.Advance(2 * time.Hour)
	assert.Zero(t, refresher.count())
	assert.Equal(t, 1, logouts)
}

func TestSession_ExpiredTokensFireImmediately(t *testing.T) {
	logouts := 0
	s, clock, _ := newSessionFixture(0, OnLogout(func() { logouts++ }))
	s.Start(Tokens{
		AccessExpiresAt:  epoch.Add(-time.Hour),
		RefreshExpiresAt: epoch.Add(-time.Minute),
	})

	clock.Advance(0)
	assert.Equal(t, 1, logouts)
	assert.False(t, s.Running())
}

func TestSession_StopCancelsTimers(t *testing.T) {
	logouts := 0
	s, clock, refresher := newSessionFixture(0, OnLogout(func() { logouts++ }))
	s.Start(pairAt(epoch, 0))
	s.Stop()

	clock.Advance(8 * 24 * time.Hour)
	assert.Zero(t, refresher.count())
	assert.Zero(t, logouts)
	assert.False(t, s.Running())
}

func TestSession_RestartReplacesSchedule(t *testing.T) {
	s, clock, refresher := newSessionFixture(0)
	s.Start(pairAt(epoch, 0))

	clock.Advance(10 * time.Minute)
	s.Start(pairAt(clock.Now(), 5))

	clock.Advance(5*time.Minute - RefreshLead)
	assert.Zero(t, refresher.count(), "the first schedule was dropped")

	clock.Advance(10 * time.Minute)
	assert.Equal(t, []string{"refresh-5"}, refresher.calls)
}

func TestSession_SystemClockDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	refresher := &scriptedRefresher{clock: newFakeClock(epoch), issue: func(n int) Tokens { return pairAt(epoch, n) }}
	s := NewSession(refresher)
	s.Start(Tokens{
		AccessExpiresAt:  time.Now().Add(time.Hour),
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.True(t, s.Running())
	s.Stop()
	assert.Zero(t, refresher.count())
}
