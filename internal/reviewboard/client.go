// Package reviewboard implements a client for the ReviewBoard REST/XML API.
// It covers the endpoints an automated build bot needs: session
// authentication, listing pending review requests, reading diffs and
// comments, listing repositories, and posting a review comment.
package reviewboard

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Connection holds the credentials and HTTP channel for one ReviewBoard
// session. It is not safe for concurrent use; callers needing parallel
// sessions should construct one Connection each.
type Connection struct {
	baseURL  string // always ends with "/"
	username string
	password string
	http     *http.Client
}

// New creates a connection to the ReviewBoard server at url, normalizing
// the base URL to end with a separator. Credentials are attached
// preemptively to every request; no network traffic happens until the
// first operation.
func New(url, username, password string) *Connection {
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return &Connection{
		baseURL:  url,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Username returns the account this connection authenticates as.
func (c *Connection) Username() string { return c.username }

// AuthError reports a session check that the server refused.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: HTTP status %d", e.Status)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// EnsureAuthenticated issues a session check against api/session/. On a
// transport-level failure it performs exactly one recovery attempt: the
// request is rebuilt with fresh credentials and re-issued, without
// further retry. A non-200 result is an AuthError.
func (c *Connection) EnsureAuthenticated(ctx context.Context) error {
	status, err := c.sessionCheck(ctx)
	if err != nil {
		status, err = c.sessionCheck(ctx)
		if err != nil {
			return fmt.Errorf("session check: %w", err)
		}
	}
	if status != http.StatusOK {
		return &AuthError{Status: status}
	}
	return nil
}

func (c *Connection) sessionCheck(ctx context.Context) (int, error) {
	resp, err := c.get(ctx, c.baseURL+"api/session/", "application/xml")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain so the connection is reused
	return resp.StatusCode, nil
}

// Logout best-effort invalidates the session. Failures are swallowed;
// the return value reports whether the server acknowledged the logout.
func (c *Connection) Logout(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"api/accounts/logout/", nil)
	if err != nil {
		return false
	}
	req.SetBasicAuth(c.username, c.password)
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return resp.StatusCode == http.StatusOK
}

// Close releases the underlying connection resources. The Connection
// must not be used afterwards.
func (c *Connection) Close() {
	c.http.CloseIdleConnections()
}

// get issues an authenticated GET with the given Accept header.
func (c *Connection) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", accept)
	return c.http.Do(req)
}

// getXML fetches url and decodes the XML payload into v. Transport
// errors, non-200 statuses and malformed payloads all surface as a
// single opaque failure; no partial result is produced.
func (c *Connection) getXML(ctx context.Context, url string, v any) error {
	resp, err := c.get(ctx, url, "application/xml")
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected HTTP status %d", url, resp.StatusCode)
	}
	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}
