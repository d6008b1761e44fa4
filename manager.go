package amsauth

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/amstrack/amsauth/authapi"
	"github.com/amstrack/amsauth/internal/flows"
	"github.com/amstrack/amsauth/store"
	"github.com/amstrack/amsauth/token"
)

// Manager is the session/auth state machine. It is the single writer of
// the token store and of the session state; UI code observes both
// through [Manager.Snapshot] and the role predicates.
//
// A freshly built Manager is in the checking state: loading is true and
// initialized is false until the first [Manager.CheckAuthStatus]
// reaches a terminal state.
type Manager struct {
	config   Config
	store    store.Store
	api      *authapi.Client
	logger   *zap.Logger
	metrics  *Metrics
	redirect func(loginPath string)

	mu          sync.Mutex
	user        *SessionUser
	loading     bool
	initialized bool
	// checkGen orders concurrent checks: only the most recently issued
	// one may commit, so a stale response can never clobber newer state.
	checkGen uint64
	closed   bool

	refreshMu   sync.Mutex
	refreshStop chan struct{}
	refreshDone chan struct{}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SessionSnapshot{
		User:        m.user,
		Loading:     m.loading,
		Initialized: m.initialized,
	}
}

// User returns the current session user, or nil when unauthenticated.
func (m *Manager) User() *SessionUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated reports whether a session user is present.
func (m *Manager) IsAuthenticated() bool {
	return m.User() != nil
}

// SystemID returns the subsystem identifier this session authorizes
// against.
func (m *Manager) SystemID() string {
	return m.config.Service.SystemID
}

// LoginPath returns the configured login entry point.
func (m *Manager) LoginPath() string {
	return m.config.Session.LoginPath
}

// MetricsSnapshot returns a point-in-time copy of the session counters.
func (m *Manager) MetricsSnapshot() map[MetricID]uint64 {
	return m.metrics.Snapshot()
}

// CheckAuthStatus is the single source of truth for (re)establishing
// session validity: stored token -> local expiry -> remote verify ->
// profile fetch -> system role gate. Every terminal branch leaves
// loading false and initialized true. It returns whether the session
// ended authenticated.
//
// Concurrent calls are safe; only the most recently issued call commits
// its result.
func (m *Manager) CheckAuthStatus(ctx context.Context) bool {
	gen, ok := m.beginCheck()
	if !ok {
		return false
	}

	res := flows.RunCheck(ctx, m.checkDeps())
	authenticated := res.Failure == flows.CheckFailureNone

	var user *SessionUser
	if authenticated {
		user = mergeSessionUser(res.Payload, res.Profile)
		if res.ProfileErr != nil {
			m.logger.Warn("profile fetch failed, serving token-only session",
				zap.Error(res.ProfileErr))
		}
	}

	if m.commit(gen, user) {
		if authenticated {
			m.metrics.Inc(MetricCheckSuccess)
			m.armRefresh(gen)
		} else {
			m.metrics.Inc(MetricCheckFailure)
			m.logger.Debug("auth check ended unauthenticated",
				zap.Error(checkFailureError(res.Failure)))
			m.disarmRefresh()
		}
	}
	return authenticated
}

// Login exchanges credentials for a session. On success the full
// session state is populated through CheckAuthStatus; login never
// short-circuits profile and role loading. On failure no partial
// session state is left behind.
func (m *Manager) Login(ctx context.Context, creds Credentials) LoginResult {
	if m.isClosed() {
		return LoginResult{Error: ErrManagerClosed.Error(), Err: ErrManagerClosed}
	}

	res := flows.RunLogin(ctx, creds, flows.LoginDeps{
		Obtain:      m.api.ObtainToken,
		CookieToken: m.api.CookieToken,
		StoreToken:  m.store.Set,
		Check:       m.CheckAuthStatus,
		Warn:        m.warnf,
	})

	if res.Failure == flows.LoginFailureNone {
		m.metrics.Inc(MetricLoginSuccess)
		return LoginResult{Success: true}
	}

	m.metrics.Inc(MetricLoginFailure)
	err := res.Err
	switch res.Failure {
	case flows.LoginFailureNoAccess:
		err = ErrNoSystemAccess
	case flows.LoginFailureNoToken:
		err = ErrNoToken
	case flows.LoginFailureStore:
		err = errors.Join(ErrTokenStoreFailed, res.Err)
	default:
		if err == nil {
			err = ErrInvalidCredentials
		}
	}
	return LoginResult{Error: res.Message, Err: err}
}

// Logout invalidates the session server-side on a best-effort basis,
// then unconditionally clears the token store, resets the state to
// unauthenticated, and invokes the redirect hook with the login path.
// Logout cannot fail from the caller's perspective.
func (m *Manager) Logout(ctx context.Context) {
	if m.isClosed() {
		return
	}

	if tok, ok := m.store.Get(); ok {
		if err := m.api.Logout(ctx, tok); err != nil {
			m.logger.Warn("remote logout failed", zap.Error(err))
		}
	}

	// State goes down before the store: a refresh tick in flight sees a
	// dead session and refuses its store write (storeRefreshedToken), so
	// the clear below cannot be undone.
	m.mu.Lock()
	m.checkGen++ // an in-flight check must not resurrect the session
	m.user = nil
	m.loading = false
	m.initialized = true
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("token store clear failed on logout", zap.Error(err))
	}

	m.disarmRefresh()
	m.metrics.Inc(MetricLogout)

	if m.redirect != nil {
		m.redirect(m.config.Session.LoginPath)
	}
}

// RefreshAuth re-validates the session on demand, for UI that needs a
// fresh guarantee before a sensitive action.
func (m *Manager) RefreshAuth(ctx context.Context) bool {
	return m.CheckAuthStatus(ctx)
}

// Close tears the Manager down: the background refresh loop is stopped
// and waited for, and all further operations are no-ops. Session state
// and the token store are left as-is; Close is shutdown, not logout.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.checkGen++
	m.mu.Unlock()

	m.disarmRefreshWait()
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// genCurrent reports whether gen is still the latest issued generation
// on a live Manager. Logout and Close both bump the generation, so a
// stale gen means the session state that produced it is gone.
func (m *Manager) genCurrent(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && gen == m.checkGen
}

func (m *Manager) sessionLive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

func (m *Manager) beginCheck() (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, false
	}
	m.loading = true
	m.checkGen++
	return m.checkGen, true
}

// commit applies a check result. It refuses stale generations, so of
// two racing checks the last one issued wins and the other's result is
// discarded.
func (m *Manager) commit(gen uint64, user *SessionUser) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.checkGen {
		return false
	}
	m.user = user
	m.loading = false
	m.initialized = true
	return true
}

func (m *Manager) checkDeps() flows.CheckDeps {
	now := time.Now
	return flows.CheckDeps{
		GetToken: m.store.Get,
		Decode:   token.DecodePayload,
		Expired: func(p *token.Payload) bool {
			return p.Expired(now())
		},
		Verify:       m.api.VerifyToken,
		FetchProfile: m.api.Profile,
		HasAccess: func(roles []token.RoleGrant) bool {
			for _, grant := range roles {
				if grant.MatchesSystem(m.config.Service.SystemID) {
					return true
				}
			}
			return false
		},
		ClearStore: m.store.Clear,
		Warn:       m.warnf,
	}
}

func (m *Manager) warnf(msg string, kv ...any) {
	m.logger.Sugar().Warnw(msg, kv...)
}

func checkFailureError(kind flows.CheckFailureKind) error {
	switch kind {
	case flows.CheckFailureNoToken:
		return ErrNoToken
	case flows.CheckFailureDecode:
		return ErrTokenMalformed
	case flows.CheckFailureExpired:
		return ErrTokenExpired
	case flows.CheckFailureVerify:
		return ErrVerificationFailed
	case flows.CheckFailureNoSystemAccess:
		return ErrNoSystemAccess
	}
	return nil
}

// ---- background refresh ----

// armRefresh starts the silent refresh loop if it is not running.
// Called whenever a check commits an authenticated session, with the
// generation that check committed under.
func (m *Manager) armRefresh(gen uint64) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()
	if m.refreshStop != nil {
		return
	}
	// The committing check may lose a race with Logout or Close between
	// its commit and here; a stale generation must not arm a loop that
	// nothing will ever stop.
	if !m.genCurrent(gen) {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	m.refreshStop = stop
	m.refreshDone = done
	go m.refreshLoop(stop, done)
}

// disarmRefresh signals the loop to stop without waiting for it, so it
// is safe to call from inside the loop (via a failing full check).
func (m *Manager) disarmRefresh() {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()
	if m.refreshStop == nil {
		return
	}
	close(m.refreshStop)
	m.refreshStop = nil
}

func (m *Manager) disarmRefreshWait() {
	m.refreshMu.Lock()
	if m.refreshStop != nil {
		close(m.refreshStop)
		m.refreshStop = nil
	}
	done := m.refreshDone
	m.refreshMu.Unlock()

	if done != nil {
		<-done
	}
}

// refreshLoop ticks at the fixed refresh interval. Ticks run strictly
// sequentially; a tick's work completes before the next is considered.
func (m *Manager) refreshLoop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.config.Session.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.backgroundRefresh()
		}
	}
}

func (m *Manager) backgroundRefresh() {
	if !m.sessionLive() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.config.HTTP.Timeout)
	defer cancel()

	res := flows.RunBackgroundRefresh(ctx, flows.RefreshDeps{
		Refresh:    m.api.RefreshToken,
		StoreToken: m.storeRefreshedToken,
		FullCheck:  m.CheckAuthStatus,
	})

	switch res.Failure {
	case flows.RefreshFailureNone:
		m.metrics.Inc(MetricRefreshSuccess)
	case flows.RefreshFailureRecovered:
		m.metrics.Inc(MetricRefreshRecovered)
		m.logger.Warn("token refresh failed, session recovered by full check",
			zap.Error(res.Err))
	case flows.RefreshFailureSessionLost:
		m.metrics.Inc(MetricRefreshSessionLost)
		m.logger.Warn("token refresh failed, session ended", zap.Error(res.Err))
	case flows.RefreshFailureStore:
		m.logger.Warn("refreshed token could not be stored", zap.Error(res.Err))
	}
}

// storeRefreshedToken persists a token obtained by the background
// refresh. The write is gated on session liveness so a tick in flight
// during Logout cannot resurrect the cleared token: Logout drops the
// user before clearing the store, so the re-check after the write
// catches every interleaving and undoes a write that slipped through.
func (m *Manager) storeRefreshedToken(tok string) error {
	if m.sessionLive() {
		if err := m.store.Set(tok); err != nil {
			return err
		}
	}
	if !m.sessionLive() {
		// Logout raced the refresh. Wipe whatever the response left
		// behind, whether our own write above or a Set-Cookie in the
		// jar; Clear is idempotent, so re-clearing is safe.
		if err := m.store.Clear(); err != nil {
			m.logger.Warn("token store clear failed after logout raced a refresh",
				zap.Error(err))
		}
	}
	return nil
}
