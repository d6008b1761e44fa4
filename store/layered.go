package store

// CookieSource yields the token currently visible through the cookie
// fallback, if any.
type CookieSource func() (string, bool)

// Layered combines a primary Store with the cookie fallback.
//
// Reads prefer the primary location; writes go to the primary location
// only. Clear clears the primary store and then expires the fallback
// cookies through the optional DropCookies hook.
type Layered struct {
	Primary     Store
	Cookies     CookieSource
	DropCookies func()
}

// Has reports whether a token is visible in either location.
func (l *Layered) Has() bool {
	_, ok := l.Get()
	return ok
}

// Get returns the primary token when present, else the cookie token.
func (l *Layered) Get() (string, bool) {
	if tok, ok := l.Primary.Get(); ok {
		return tok, true
	}
	if l.Cookies != nil {
		return l.Cookies()
	}
	return "", false
}

// Set writes the primary store only. The cookie copy is set by the auth
// service, never by the client.
func (l *Layered) Set(token string) error {
	return l.Primary.Set(token)
}

// Clear clears the primary store and expires the fallback cookies.
func (l *Layered) Clear() error {
	err := l.Primary.Clear()
	if l.DropCookies != nil {
		l.DropCookies()
	}
	return err
}
