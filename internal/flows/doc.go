// Package flows contains the session flow orchestration: auth check,
// login, and background refresh. Each flow takes its dependencies as a
// struct of functions and returns a typed failure kind, so the root
// package can map outcomes to state transitions and public errors
// without the flows importing it back.
package flows
