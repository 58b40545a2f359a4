// Package zammad is a typed client for the Zammad REST API. It owns
// the HTTP session, authentication, URL and input safety checks, and a
// process-wide cache of the slow-changing lookup tables. Responses are
// parsed through the models package; no raw payload crosses the
// package boundary in either direction.
package zammad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zammad-tools/zammad-mcp/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Options configures a Client. Exactly one of HTTPToken, OAuth2Token,
// or the Username/Password pair must be set.
type Options struct {
	// URL is the API base URL and must end with /api/v1.
	URL string

	HTTPToken   string
	OAuth2Token string
	Username    string
	Password    string

	// AllowInternal permits loopback/private-range hosts (test and
	// staging deployments).
	AllowInternal bool

	// CacheDisabled turns the lookup cache into a pass-through.
	CacheDisabled bool

	// Timeout bounds each outbound call. Zero means the default.
	Timeout time.Duration
}

type authMode int

const (
	authToken authMode = iota
	authOAuth2
	authBasic
)

// Client is the single long-lived handle to the remote system. It is
// constructed once at startup and injected into every consumer; a nil
// *Client is the "not yet initialized" sentinel and every entry point
// in the dispatch layer checks for it before use. Client is safe for
// concurrent use.
type Client struct {
	baseURL    string
	mode       authMode
	credential string
	username   string
	password   string

	policy     URLPolicy
	httpClient *http.Client
	cache      *lookupCache
}

// New validates configuration and returns a ready client. Credential
// ambiguity and URL policy violations are reported here, at startup,
// never at call time. No network traffic is issued.
func New(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, &ConfigError{Reason: "Zammad URL is required (set ZAMMAD_URL)"}
	}

	modes := 0
	if opts.HTTPToken != "" {
		modes++
	}
	if opts.OAuth2Token != "" {
		modes++
	}
	if opts.Username != "" || opts.Password != "" {
		if opts.Username == "" || opts.Password == "" {
			return nil, &ConfigError{Reason: "username and password must be set together"}
		}
		modes++
	}
	switch {
	case modes == 0:
		return nil, &ConfigError{Reason: "authentication credentials required: set ZAMMAD_HTTP_TOKEN, ZAMMAD_OAUTH2_TOKEN, or ZAMMAD_USERNAME and ZAMMAD_PASSWORD"}
	case modes > 1:
		return nil, &ConfigError{Reason: "ambiguous credentials: exactly one of API token, OAuth2 token, or username/password may be configured"}
	}

	policy := URLPolicy{AllowInternal: opts.AllowInternal}
	if err := policy.ValidateBase(opts.URL); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimSuffix(opts.URL, "/"),
		policy:  policy,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: newLookupCache(opts.CacheDisabled),
	}

	switch {
	case opts.HTTPToken != "":
		c.mode = authToken
		c.credential = opts.HTTPToken
	case opts.OAuth2Token != "":
		c.mode = authOAuth2
		c.credential = opts.OAuth2Token
	default:
		c.mode = authBasic
		c.username = opts.Username
		c.password = opts.Password
	}

	return c, nil
}

// BaseURL returns the validated API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// CacheStats returns lookup-cache counters.
func (c *Client) CacheStats() CacheStats { return c.cache.Stats() }

// RefreshCache drops the cached lookup tables; the next lookup fetch
// repopulates them from the remote.
func (c *Client) RefreshCache() { c.cache.Invalidate() }

func (c *Client) authorize(req *http.Request) {
	switch c.mode {
	case authToken:
		// Zammad API tokens use their own Authorization scheme.
		req.Header.Set("Authorization", "Token token="+c.credential)
	case authOAuth2:
		req.Header.Set("Authorization", "Bearer "+c.credential)
	case authBasic:
		req.SetBasicAuth(c.username, c.password)
	}
}

// get issues a GET against an API path and returns the raw body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// do issues a request against path (relative to the base URL), maps
// the response to the error taxonomy, and returns the raw body for the
// models layer to parse.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.doURL(ctx, method, target, body)
}

// doURL issues a request against an absolute URL. Every target is
// re-validated against the URL policy: attachment downloads and other
// server-supplied locations get no trust for having come from an
// authenticated response.
func (c *Client) doURL(ctx context.Context, method, target string, body any) ([]byte, error) {
	if err := c.policy.ValidateTarget(target); err != nil {
		metrics.RemoteRequests.WithLabelValues("policy").Inc()
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues("transport").Inc()
		return nil, &TransportError{Op: method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues("transport").Inc()
		return nil, &TransportError{Op: "read response", Err: err}
	}

	switch {
	case resp.StatusCode >= 500:
		metrics.RemoteRequests.WithLabelValues("unavailable").Inc()
		return nil, &RemoteError{Status: resp.StatusCode, Message: remoteMessage(data)}
	case resp.StatusCode >= 400:
		metrics.RemoteRequests.WithLabelValues("rejected").Inc()
		return nil, &RequestError{Status: resp.StatusCode, Message: remoteMessage(data)}
	}

	metrics.RemoteRequests.WithLabelValues("ok").Inc()
	return data, nil
}

// remoteMessage extracts the human-readable error Zammad embeds in
// failure bodies, falling back to the raw body.
func remoteMessage(data []byte) string {
	var payload struct {
		Error      string `json:"error"`
		ErrorHuman string `json:"error_human"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.ErrorHuman != "" {
			return payload.ErrorHuman
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(data))
	const max = 200
	if len(msg) > max {
		msg = msg[:max] + "..."
	}
	return msg
}
