package store

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"
)

func TestTokenFromCookieHeader(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"new name", "access_token=abc; theme=dark", "abc", true},
		{"legacy name", "accessToken=legacy", "legacy", true},
		{"new name wins", "accessToken=old; access_token=new", "new", true},
		{"url decoded", "access_token=a%2Eb%2Ec", "a.b.c", true},
		{"unmatched", "session=zzz", "", false},
		{"empty value", "access_token=", "", false},
		{"empty header", "", "", false},
		{"garbage", ";;;===", "", false},
	}

	for _, tc := range cases {
		got, ok := TokenFromCookieHeader(tc.header)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTokenFromJarAndExpire(t *testing.T) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	u, _ := url.Parse("https://auth.example.com/")

	if _, ok := TokenFromJar(jar, u); ok {
		t.Fatal("empty jar should yield no token")
	}

	jar.SetCookies(u, []*http.Cookie{
		{Name: LegacyCookieName, Value: "legacy", Path: "/"},
		{Name: CookieName, Value: "current", Path: "/"},
	})

	tok, ok := TokenFromJar(jar, u)
	if !ok || tok != "current" {
		t.Fatalf("expected new cookie name to win, got (%q, %v)", tok, ok)
	}

	ExpireJarCookies(jar, u)
	if tok, ok := TokenFromJar(jar, u); ok {
		t.Fatalf("token %q survived cookie expiry", tok)
	}
}

func TestTokenFromJarNil(t *testing.T) {
	if _, ok := TokenFromJar(nil, nil); ok {
		t.Fatal("nil jar must not yield a token")
	}
	ExpireJarCookies(nil, nil) // must not panic
}
