package reviewboard

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PostComment submits a public top-level comment on the review at
// reviewURL, optionally marking "ship it" and optionally tagging the
// body as markdown. Unlike most operations it never returns an error:
// posting is a non-critical side effect, so any failure (bad URL,
// authentication, transport, non-200 status) reports false.
func (c *Connection) PostComment(ctx context.Context, reviewURL, message string, shipIt, markdown bool) bool {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		slog.Debug("comment not posted", "review", reviewURL, "error", err)
		return false
	}
	postURL, err := c.apiURL(reviewURL, "reviews")
	if err != nil {
		slog.Debug("comment not posted", "review", reviewURL, "error", err)
		return false
	}

	form := url.Values{}
	form.Set("body_top", message)
	form.Set("public", "true")
	form.Set("ship_it", strconv.FormatBool(shipIt))
	if markdown {
		form.Set("body_top_text_type", "markdown")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("comment not posted", "review", reviewURL, "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return resp.StatusCode == http.StatusOK
}

// Properties fetches the review-request detail and exposes the fields
// the build orchestrator consumes as a key/value mapping.
func (c *Connection) Properties(ctx context.Context, reviewURL string) (map[string]string, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}
	detailURL, err := c.apiURL(reviewURL, "")
	if err != nil {
		return nil, err
	}
	var env reviewRequestEnvelope
	if err := c.getXML(ctx, detailURL, &env); err != nil {
		return nil, err
	}
	return map[string]string{
		"REVIEW_BRANCH":     orDefault(env.Request.Branch, "master"),
		"REVIEW_REPOSITORY": orDefault(env.Request.Links.Repository.Title, "unknown"),
	}, nil
}
