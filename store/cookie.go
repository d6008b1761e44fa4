package store

import (
	"net/http"
	"net/url"
	"time"
)

// Cookie names the auth service may set the token under. The new name is
// always tried before the legacy one, everywhere cookies are read.
const (
	CookieName       = "access_token"
	LegacyCookieName = "accessToken"
)

var cookieNames = []string{CookieName, LegacyCookieName}

// TokenFromCookieHeader extracts the access token from a raw Cookie
// header line. Values are URL-decoded; an unmatched name yields false.
func TokenFromCookieHeader(header string) (string, bool) {
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return "", false
	}

	for _, name := range cookieNames {
		for _, c := range cookies {
			if c.Name != name || c.Value == "" {
				continue
			}
			value, err := url.QueryUnescape(c.Value)
			if err != nil || value == "" {
				continue
			}
			return value, true
		}
	}
	return "", false
}

// TokenFromJar extracts the access token from the cookies a jar holds
// for the auth service URL. The jar is populated by Set-Cookie responses,
// so this is the fallback when a login response body carries no token.
func TokenFromJar(jar http.CookieJar, serviceURL *url.URL) (string, bool) {
	if jar == nil || serviceURL == nil {
		return "", false
	}

	for _, name := range cookieNames {
		for _, c := range jar.Cookies(serviceURL) {
			if c.Name == name && c.Value != "" {
				return c.Value, true
			}
		}
	}
	return "", false
}

// ExpireJarCookies overwrites the token cookies in the jar with values
// expired at the epoch, mirroring how the browser client drops the
// access_token cookie on logout.
func ExpireJarCookies(jar http.CookieJar, serviceURL *url.URL) {
	if jar == nil || serviceURL == nil {
		return
	}

	expired := make([]*http.Cookie, 0, len(cookieNames))
	for _, name := range cookieNames {
		expired = append(expired, &http.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			Expires: time.Unix(0, 0),
			MaxAge:  -1,
		})
	}
	jar.SetCookies(serviceURL, expired)
}
