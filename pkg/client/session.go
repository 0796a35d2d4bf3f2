package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// RefreshLead is how long before access expiry the session refreshes.
	RefreshLead = 20 * time.Second
	// LogoutLead is how long before refresh expiry the session logs out.
	LogoutLead    = 20 * time.Second
	RetryInterval = 2 * time.Second
)

type Timer interface {
	Stop() bool
}

// Clock schedules the session timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (LoginResult, error)
}

type SessionOption func(*Session)

func WithClock(clock Clock) SessionOption {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithMaxRefreshAttempts caps consecutive failed refreshes before the
// session logs out. Zero keeps retrying forever.
func WithMaxRefreshAttempts(n int) SessionOption {
	return func(s *Session) {
		s.maxAttempts = n
	}
}

func OnRefresh(f func(Tokens)) SessionOption {
	return func(s *Session) {
		s.onRefresh = f
	}
}

func OnLogout(f func()) SessionOption {
	return func(s *Session) {
		s.onLogout = f
	}
}

func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session keeps a token pair fresh in the background until it is stopped
// or the refresh token runs out.
type Session struct {
	refresher   Refresher
	clock       Clock
	logger      *zap.Logger
	maxAttempts int
	onRefresh   func(Tokens)
	onLogout    func()

	mu           sync.Mutex
	tokens       Tokens
	running      bool
	generation   uint64
	attempts     int
	refreshTimer Timer
	logoutTimer  Timer
	cancel       context.CancelFunc
	ctx          context.Context
}

func NewSession(refresher Refresher, opts ...SessionOption) *Session {
	s := &Session{
		refresher: refresher,
		clock:     systemClock{},
		logger:    zap.L(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start replaces any running schedule with one derived from tokens.
func (s *Session) Start(tokens Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.halt()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.tokens = tokens
	s.running = true
	s.attempts = 0
	s.schedule()
}

// Stop cancels both timers and any refresh in flight. No callback fires.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.halt()
}

func (s *Session) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tokens
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// halt must be called with s.mu held.
func (s *Session) halt() {
	s.running = false
	s.generation++
	s.stopTimers()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) stopTimers() {
	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
		s.refreshTimer = nil
	}
	if s.logoutTimer != nil {
		s.logoutTimer.Stop()
		s.logoutTimer = nil
	}
}

// schedule must be called with s.mu held.
func (s *Session) schedule() {
	s.generation++
	gen := s.generation
	now := s.clock.Now()

	refreshIn := until(now, s.tokens.AccessExpiresAt.Add(-RefreshLead))
	logoutIn := until(now, s.tokens.RefreshExpiresAt.Add(-LogoutLead))

	s.logoutTimer = s.clock.AfterFunc(logoutIn, func() {
		s.logout(gen, "refresh token expiring")
	})
	// A refresh due at or after the logout would never be used.
	if refreshIn < logoutIn {
		s.refreshTimer = s.clock.AfterFunc(refreshIn, func() {
			s.refresh(gen)
		})
	}
}

func until(now, at time.Time) time.Duration {
	if d := at.Sub(now); d > 0 {
		return d
	}

	return 0
}

func (s *Session) refresh(gen uint64) {
	s.mu.Lock()
	if !s.running || gen != s.generation {
		s.mu.Unlock()
		return
	}
	ctx, token := s.ctx, s.tokens.RefreshToken
	s.mu.Unlock()

	res, err := s.refresher.Refresh(ctx, token)

	s.mu.Lock()
	if !s.running || gen != s.generation {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.attempts++
		s.logger.Warn("session refresh failed", zap.Int("attempt", s.attempts), zap.Error(err))
		if s.maxAttempts > 0 && s.attempts >= s.maxAttempts {
			s.mu.Unlock()
			s.logout(gen, "refresh attempts exhausted")
			return
		}
		s.refreshTimer = s.clock.AfterFunc(RetryInterval, func() {
			s.refresh(gen)
		})
		s.mu.Unlock()
		return
	}

	s.attempts = 0
	s.tokens = res.Tokens
	s.stopTimers()
	s.schedule()
	onRefresh := s.onRefresh
	s.mu.Unlock()

	if onRefresh != nil {
		onRefresh(res.Tokens)
	}
}

func (s *Session) logout(gen uint64, reason string) {
	s.mu.Lock()
	if !s.running || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.halt()
	s.tokens = Tokens{}
	onLogout := s.onLogout
	s.mu.Unlock()

	s.logger.Info("session logged out", zap.String("reason", reason))
	if onLogout != nil {
		onLogout()
	}
}
