package amsauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amstrack/amsauth/authapi"
	"github.com/amstrack/amsauth/store"
	"github.com/amstrack/amsauth/token"
)

// fakeAuthService is a scripted stand-in for the remote auth service.
// All knobs are safe to flip while the manager is running.
type fakeAuthService struct {
	srv *httptest.Server

	mu           sync.Mutex
	obtainStatus int
	obtainDetail string
	obtainAccess string
	cookieAccess string // delivered via Set-Cookie instead of the body
	verifyFail   bool
	profile      *authapi.Profile
	profileFail  bool
	refreshFail  bool
	refreshNext  string
	// refreshGate, when set, holds /token/refresh open until the channel
	// closes; refreshEntered signals that a refresh request is in flight.
	refreshGate    chan struct{}
	refreshEntered chan struct{}
	counts         map[string]int
}

func newFakeAuthService(t *testing.T) *fakeAuthService {
	t.Helper()

	f := &fakeAuthService{counts: map[string]int{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAuthService) URL() string { return f.srv.URL }

func (f *fakeAuthService) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token/refresh" {
		f.mu.Lock()
		gate, entered := f.refreshGate, f.refreshEntered
		f.mu.Unlock()
		if entered != nil {
			select {
			case entered <- struct{}{}:
			default:
			}
		}
		if gate != nil {
			<-gate
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[r.URL.Path]++

	switch r.URL.Path {
	case "/token/obtain":
		if f.obtainStatus >= 400 {
			w.WriteHeader(f.obtainStatus)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": f.obtainDetail})
			return
		}
		if f.cookieAccess != "" {
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: f.cookieAccess, Path: "/"})
		}
		_ = json.NewEncoder(w).Encode(authapi.TokenPair{Access: f.obtainAccess})
	case "/token/verify":
		if f.verifyFail {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	case "/users/profile":
		if f.profileFail || f.profile == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(f.profile)
	case "/token/refresh":
		if f.refreshFail {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(authapi.TokenPair{Access: f.refreshNext})
	case "/logout":
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAuthService) set(fn func(*fakeAuthService)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeAuthService) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[path]
}

func testToken(t *testing.T, roles []RoleGrant, exp time.Time) string {
	t.Helper()

	claims := token.Payload{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func amsToken(t *testing.T) string {
	return testToken(t, []RoleGrant{{System: "AMS", Role: "Admin"}}, time.Now().Add(time.Hour))
}

type testEnv struct {
	backend  *fakeAuthService
	primary  *store.FileStore
	manager  *Manager
	redirect *[]string
}

func newTestEnv(t *testing.T, refreshInterval time.Duration) *testEnv {
	t.Helper()

	backend := newFakeAuthService(t)
	primary := store.NewFileStore(t.TempDir(), "")
	var redirects []string

	cfg := defaultConfig()
	cfg.Service.BaseURL = backend.URL()
	cfg.Storage.StateDir = t.TempDir()
	cfg.Session.RefreshInterval = refreshInterval
	cfg.HTTP.Timeout = 2 * time.Second

	mgr, err := New().
		WithConfig(cfg).
		WithStore(primary).
		WithRedirect(func(path string) { redirects = append(redirects, path) }).
		Build()
	if err != nil {
		t.Fatalf("build manager: %v", err)
	}
	t.Cleanup(mgr.Close)

	return &testEnv{backend: backend, primary: primary, manager: mgr, redirect: &redirects}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}
