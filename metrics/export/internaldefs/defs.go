package internaldefs

import (
	amsauth "github.com/amstrack/amsauth"
)

// CounterDef maps a session counter to its exported metric name.
type CounterDef struct {
	ID   amsauth.MetricID
	Name string
	Help string
}

// CounterDefs is the shared counter catalog. Both exporters iterate it
// so the two surfaces always expose the same set of metrics.
var CounterDefs = []CounterDef{
	{ID: amsauth.MetricCheckSuccess, Name: "amsauth_check_success_total", Help: "Auth checks that ended authenticated."},
	{ID: amsauth.MetricCheckFailure, Name: "amsauth_check_failure_total", Help: "Auth checks that ended unauthenticated."},
	{ID: amsauth.MetricLoginSuccess, Name: "amsauth_login_success_total", Help: "Successful login attempts."},
	{ID: amsauth.MetricLoginFailure, Name: "amsauth_login_failure_total", Help: "Failed login attempts."},
	{ID: amsauth.MetricRefreshSuccess, Name: "amsauth_refresh_success_total", Help: "Background refreshes completed on the fast path."},
	{ID: amsauth.MetricRefreshRecovered, Name: "amsauth_refresh_recovered_total", Help: "Refresh failures rescued by a full auth check."},
	{ID: amsauth.MetricRefreshSessionLost, Name: "amsauth_refresh_session_lost_total", Help: "Refresh failures that ended the session."},
	{ID: amsauth.MetricLogout, Name: "amsauth_logout_total", Help: "Logout operations."},
}
