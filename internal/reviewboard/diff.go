package reviewboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Diff fetches the latest uploaded patch for the review at reviewURL.
// Diff content is negotiated as text/x-patch; a review with no diffs
// is a hard failure, not an empty patch.
func (c *Connection) Diff(ctx context.Context, reviewURL string) (string, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return "", err
	}
	diffsURL, err := c.apiURL(reviewURL, "diffs")
	if err != nil {
		return "", err
	}

	var env listEnvelope
	if err := c.getXML(ctx, diffsURL, &env); err != nil {
		return "", err
	}
	if env.Total < 1 {
		return "", fmt.Errorf("review %s has no diffs", reviewURL)
	}

	// diff content lives at <diffs-url><count>/
	resp, err := c.get(ctx, fmt.Sprintf("%s%d/", diffsURL, env.Total), "text/x-patch")
	if err != nil {
		return "", fmt.Errorf("fetching diff for %s: %w", reviewURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching diff for %s: unexpected HTTP status %d", reviewURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading diff for %s: %w", reviewURL, err)
	}
	return string(body), nil
}
