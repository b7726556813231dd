package reviewboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxResults caps the page size of listing queries.
const maxResults = 200

// AnyPort marks a base URL whose scheme gives no standard port.
const AnyPort = -1

var digitsPattern = regexp.MustCompile(`\d+`)

// HostPort is the host and port extracted from a base URL.
type HostPort struct {
	Host string
	Port int
}

// SplitHostPort parses host and optional port from a base URL. Without
// an explicit port, the scheme's standard port is assumed (80 for http,
// 443 for https, AnyPort when the scheme is absent).
func SplitHostPort(rawURL string) (HostPort, error) {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}

	host := rest
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		host = rest[:i]
		port, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			return HostPort{}, fmt.Errorf("invalid port in %q: %w", rawURL, err)
		}
		return HostPort{Host: host, Port: port}, nil
	}
	if host == "" {
		return HostPort{}, fmt.Errorf("no host in %q", rawURL)
	}

	switch {
	case strings.HasPrefix(rawURL, "http:"):
		return HostPort{Host: host, Port: 80}, nil
	case strings.HasPrefix(rawURL, "https:"):
		return HostPort{Host: host, Port: 443}, nil
	default:
		return HostPort{Host: host, Port: AnyPort}, nil
	}
}

// apiURL rewrites a canonical review URL of the form <base>/r/<id>/ to
// <base>/api/review-requests/<id>/<resource>/. An empty resource
// addresses the review-request itself.
func (c *Connection) apiURL(reviewURL, resource string) (string, error) {
	marker := strings.Index(reviewURL, "/r/")
	if marker < 0 {
		return "", fmt.Errorf("review URL %q has no /r/ segment", reviewURL)
	}
	id := reviewURL[marker+3:]
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}

	var b strings.Builder
	b.WriteString(reviewURL[:marker])
	b.WriteString("/api/review-requests/")
	b.WriteString(id)
	b.WriteByte('/')
	if resource != "" {
		b.WriteString(resource)
		b.WriteByte('/')
	}
	return b.String(), nil
}

// apiURLForID is apiURL starting from a bare review id.
func (c *Connection) apiURLForID(id int64, resource string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("api/review-requests/")
	b.WriteString(strconv.FormatInt(id, 10))
	b.WriteByte('/')
	if resource != "" {
		b.WriteString(resource)
		b.WriteByte('/')
	}
	return b.String()
}

// ReviewNumberToURL builds the canonical review URL for a review id.
func (c *Connection) ReviewNumberToURL(number string) string {
	return c.baseURL + "r/" + number + "/"
}

// ReviewURLFromText extracts the first run of digits from arbitrary
// text (a branch name, a commit message reference) and builds the
// canonical review URL from it. Text with no digits yields review "0",
// which callers must treat as "no review found".
func (c *Connection) ReviewURLFromText(text string) string {
	number := digitsPattern.FindString(text)
	if number == "" {
		number = "0"
	}
	return c.ReviewNumberToURL(number)
}

// ResolveReviewURL is ReviewURLFromText with the "no review found"
// case turned into an error, for callers that need a real review.
func (c *Connection) ResolveReviewURL(text string) (string, error) {
	number := digitsPattern.FindString(text)
	if number == "" || strings.Trim(number, "0") == "" {
		return "", fmt.Errorf("no review id found in %q", text)
	}
	return c.ReviewNumberToURL(number), nil
}

// pendingListURL builds the pending review-requests listing query.
// A negative repositoryID means no repository filter.
func (c *Connection) pendingListURL(onlyMine bool, repositoryID int) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("api/review-requests/?status=pending")
	if onlyMine {
		b.WriteString("&to-users=")
		b.WriteString(c.username)
	}
	fmt.Fprintf(&b, "&max-results=%d", maxResults)
	if repositoryID >= 0 {
		// user selected to filter by repository; different
		// repository means a different test job
		fmt.Fprintf(&b, "&repository=%d", repositoryID)
	}
	return b.String()
}

// repositoriesURL builds the first-page repository listing query.
func (c *Connection) repositoriesURL() string {
	return fmt.Sprintf("%sapi/repositories/?max-results=%d", c.baseURL, maxResults)
}
