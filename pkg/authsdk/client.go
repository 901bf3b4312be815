// Package authsdk is a typed client for the pgpauth service. It keeps the
// session cookie in a jar so a LogIn followed by Session/LogOut behaves like
// a browser would. The e2e suite drives the service exclusively through it.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client talks to a pgpauth service instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// BasicUser/BasicPass, when set, are sent as the transport credential
	// on every request (the admin path).
	BasicUser string
	BasicPass string
}

// NewClient creates a client with a fresh cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// WithBasicAuth returns the same client configured to send the transport
// credential.
func (c *Client) WithBasicAuth(user, pass string) *Client {
	c.BasicUser = user
	c.BasicPass = pass
	return c
}

// SignUp registers a user whose password slot holds an armored public key.
func (c *Client) SignUp(ctx context.Context, name, publicKeyArmored string, roles []string) (SignUpResponse, error) {
	var out SignUpResponse
	err := c.do(ctx, http.MethodPut, "/v1/users/"+url.PathEscape(name),
		SignUpRequest{Password: publicKeyArmored, Roles: roles}, &out)
	return out, err
}

// GetUser fetches a user record. Requires admin or self.
func (c *Client) GetUser(ctx context.Context, name string) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(name), nil, &out)
	return out, err
}

// Remove deletes a user record given its current revision.
func (c *Client) Remove(ctx context.Context, name, rev string) (RemoveResponse, error) {
	var out RemoveResponse
	err := c.do(ctx, http.MethodDelete,
		"/v1/users/"+url.PathEscape(name)+"?rev="+url.QueryEscape(rev), nil, &out)
	return out, err
}

// ServerKey fetches the current challenge payload.
func (c *Client) ServerKey(ctx context.Context) (ServerKeyResponse, error) {
	var out ServerKeyResponse
	err := c.do(ctx, http.MethodGet, "/v1/key", nil, &out)
	return out, err
}

// LogIn submits the encrypted challenge response; on success the session
// cookie lands in the jar.
func (c *Client) LogIn(ctx context.Context, name, password string) (LogInResponse, error) {
	var out LogInResponse
	err := c.do(ctx, http.MethodPost, "/v1/session",
		LogInRequest{Name: name, Password: password}, &out)
	return out, err
}

// Session reports the current caller identity.
func (c *Client) Session(ctx context.Context) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodGet, "/v1/session", nil, &out)
	return out, err
}

// LogOut destroys the cookie session. Idempotent.
func (c *Client) LogOut(ctx context.Context) (LogOutResponse, error) {
	var out LogOutResponse
	err := c.do(ctx, http.MethodDelete, "/v1/session", nil, &out)
	return out, err
}

// Livez probes service liveness.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("authsdk: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("authsdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.BasicUser != "" {
		req.SetBasicAuth(c.BasicUser, c.BasicPass)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("authsdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Status == 0 {
			return &APIError{Status: resp.StatusCode, Name: "unknown", Message: resp.Status}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("authsdk: decode response: %w", err)
	}
	return nil
}
