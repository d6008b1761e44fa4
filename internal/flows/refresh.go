package flows

import "context"

// RefreshFailureKind classifies background refresh outcomes for
// root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	// RefreshFailureRecovered: the refresh call failed but the fallback
	// auth check kept the session alive.
	RefreshFailureRecovered
	// RefreshFailureSessionLost: the refresh call failed and so did the
	// fallback check; the session is gone.
	RefreshFailureSessionLost
	RefreshFailureStore
)

// RefreshResult carries the background refresh outcome.
type RefreshResult struct {
	Failure  RefreshFailureKind
	Err      error
	NewToken string
}

// RefreshDeps captures background refresh dependencies.
type RefreshDeps struct {
	Refresh    func(context.Context) (string, error)
	StoreToken func(string) error
	FullCheck  func(context.Context) bool
}

// RunBackgroundRefresh silently renews the access token. Success is the
// fast path: only the store changes, the session user is untouched. On
// failure the flow falls back to a full auth check, which may tear the
// session down.
func RunBackgroundRefresh(ctx context.Context, deps RefreshDeps) RefreshResult {
	access, err := deps.Refresh(ctx)
	if err == nil {
		if storeErr := deps.StoreToken(access); storeErr != nil {
			return RefreshResult{Failure: RefreshFailureStore, Err: storeErr, NewToken: access}
		}
		return RefreshResult{Failure: RefreshFailureNone, NewToken: access}
	}

	if deps.FullCheck(ctx) {
		return RefreshResult{Failure: RefreshFailureRecovered, Err: err}
	}
	return RefreshResult{Failure: RefreshFailureSessionLost, Err: err}
}
