package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amstrack/amsauth/store"
)

const defaultTimeout = 15 * time.Second

// Client talks to the remote authentication service. It is safe for
// concurrent use after construction.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
	jar     http.CookieJar
	logger  *zap.Logger
}

// Option configures a Client during construction.
type Option func(*Client)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets the per-request timeout. A non-positive value keeps
// the default. Without a timeout a hung verify call would pin the
// session in the loading state forever.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpc.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client's jar,
// when present, becomes the cookie fallback source.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
		if httpc.Jar != nil {
			c.jar = httpc.Jar
		}
	}
}

// NewClient creates a Client for the auth service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid auth service URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("auth service URL must be absolute")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		jar:     jar,
		httpc:   &http.Client{Timeout: defaultTimeout, Jar: jar},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc.Jar == nil {
		c.httpc.Jar = c.jar
	}
	return c, nil
}

// CookieToken returns the access token visible through the client's
// cookie jar, if the service delivered one via Set-Cookie.
func (c *Client) CookieToken() (string, bool) {
	return store.TokenFromJar(c.jar, c.baseURL)
}

// DropCookies expires the token cookies held in the jar.
func (c *Client) DropCookies() {
	store.ExpireJarCookies(c.jar, c.baseURL)
}

// ObtainToken exchanges credentials for a token pair. A rejected login
// returns an [*APIError] whose Detail holds the server message, when the
// service provided one.
func (c *Client) ObtainToken(ctx context.Context, creds Credentials) (*TokenPair, error) {
	var pair TokenPair
	if err := c.postJSON(ctx, "/token/obtain", "", creds, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// VerifyToken asks the service whether tok is still valid. Any non-2xx
// status or transport failure is an error; callers fail closed on it.
func (c *Client) VerifyToken(ctx context.Context, tok string) error {
	return c.postJSON(ctx, "/token/verify", "", map[string]string{"token": tok}, nil)
}

// RefreshToken requests a fresh access token. The refresh credential is
// not passed explicitly; it travels as a cookie in the jar.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var pair TokenPair
	if err := c.postJSON(ctx, "/token/refresh", "", struct{}{}, &pair); err != nil {
		return "", err
	}
	if pair.Access == "" {
		return "", &APIError{StatusCode: http.StatusOK, Detail: "refresh response carried no access token"}
	}
	return pair.Access, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, tok string) (*Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users/profile", tok, nil, "")
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile edit: multipart form data when
// an avatar file is attached, JSON otherwise.
func (c *Client) UpdateProfile(ctx context.Context, tok string, upd ProfileUpdate) (*Profile, error) {
	var (
		body        io.Reader
		contentType string
	)

	if upd.Avatar != nil {
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		for field, value := range upd.Fields {
			if err := mw.WriteField(field, value); err != nil {
				return nil, err
			}
		}
		name := upd.AvatarName
		if name == "" {
			name = "avatar"
		}
		fw, err := mw.CreateFormFile("avatar", name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, upd.Avatar); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
		body = buf
		contentType = mw.FormDataContentType()
	} else {
		raw, err := json.Marshal(upd.Fields)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, http.MethodPatch, "/users/profile", tok, body, contentType)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListUsers fetches the user directory. The endpoint has served both a
// bare array and a {"users": [...]} wrapper across gateway versions;
// both shapes are accepted.
func (c *Client) ListUsers(ctx context.Context, tok string) ([]Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users/list", tok, nil, "")
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}

	var users []Profile
	if err := json.Unmarshal(raw, &users); err == nil {
		return users, nil
	}
	var wrapped struct {
		Users []Profile `json:"users"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected user list shape: %w", err)
	}
	return wrapped.Users, nil
}

// Logout asks the service to invalidate the session server-side.
func (c *Client) Logout(ctx context.Context, tok string) error {
	return c.postJSON(ctx, "/logout", tok, struct{}{}, nil)
}

func (c *Client) postJSON(ctx context.Context, path, tok string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, tok, bytes.NewReader(raw), "application/json")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path, tok string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug("auth service call failed",
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("auth service call",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
