package reviewboard

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pendingServer scripts the endpoints the selector walks: the session
// check, the pending listing, and per-review diffs and reviews
// resources. It records how often each path was hit.
type pendingServer struct {
	mu      sync.Mutex
	hits    map[string]int
	listing string
	diffs   map[int64]string
	reviews map[int64]string
}

func (s *pendingServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session/", func(w http.ResponseWriter, _ *http.Request) {
		s.hit("session")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/review-requests/", func(w http.ResponseWriter, r *http.Request) {
		var id int64
		var resource string
		if n, _ := fmt.Sscanf(r.URL.Path, "/api/review-requests/%d/%s", &id, &resource); n == 0 {
			s.hit("listing")
			fmt.Fprint(w, s.listing) //nolint:errcheck
			return
		}
		switch resource {
		case "diffs/":
			s.hit(fmt.Sprintf("diffs-%d", id))
			fmt.Fprint(w, s.diffs[id]) //nolint:errcheck
		case "reviews/":
			s.hit(fmt.Sprintf("reviews-%d", id))
			fmt.Fprint(w, s.reviews[id]) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return mux
}

func (s *pendingServer) hit(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hits == nil {
		s.hits = make(map[string]int)
	}
	s.hits[key]++
}

func (s *pendingServer) hitCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func listingItem(id int64, lastUpdated, branch, repository string) string {
	item := fmt.Sprintf("<item><id>%d</id>", id)
	if lastUpdated != "" {
		item += fmt.Sprintf("<last_updated>%s</last_updated>", lastUpdated)
	}
	item += fmt.Sprintf("<branch>%s</branch>", branch)
	if repository != "" {
		item += fmt.Sprintf("<links><repository><title>%s</title></repository></links>", repository)
	}
	return item + "</item>"
}

func listing(items ...string) string {
	body := "<rsp><stat>ok</stat>"
	body += fmt.Sprintf("<total_results>%d</total_results><review_requests>", len(items))
	for _, it := range items {
		body += it
	}
	return body + "</review_requests></rsp>"
}

func diffSet(timestamps ...string) string {
	body := fmt.Sprintf("<rsp><total_results>%d</total_results><diffs>", len(timestamps))
	for _, ts := range timestamps {
		body += fmt.Sprintf("<item><timestamp>%s</timestamp></item>", ts)
	}
	return body + "</diffs></rsp>"
}

func commentSet(comments ...[2]string) string {
	body := fmt.Sprintf("<rsp><total_results>%d</total_results><reviews>", len(comments))
	for _, c := range comments {
		body += fmt.Sprintf("<item><timestamp>%s</timestamp><links><user><title>%s</title></user></links></item>",
			c[1], c[0])
	}
	return body + "</reviews></rsp>"
}

func TestPendingReviews_Pipeline(t *testing.T) {
	// hottest item at 12:00, period 3h, threshold 09:00
	srv := &pendingServer{
		listing: listing(
			listingItem(3, "2013-08-25T11:00:00Z", "fix-3", "core"),
			listingItem(1, "2013-08-25T12:00:00Z", "feature-1", "core"),
			listingItem(5, "2013-08-25T05:00:00Z", "old-5", "core"),
			listingItem(2, "2013-08-25T11:30:00Z", "empty-2", "core"),
			listingItem(4, "2013-08-25T10:00:00Z", "", ""),
			listingItem(6, "", "no-date-6", "core"),
		),
		diffs: map[int64]string{
			1: diffSet("2013-08-25T11:00:00Z"),
			2: diffSet(), // zero diffs, never a build candidate
			3: diffSet("2013-08-25T10:00:00Z"),
			4: diffSet("2013-08-25 09:30:00"), // legacy encoding
		},
		reviews: map[int64]string{
			// comment by someone else after the upload does not suppress
			1: commentSet([2]string{"alice", "2013-08-25T11:30:00Z"}),
			// own comment strictly after the upload suppresses
			3: commentSet([2]string{"jenkins", "2013-08-25T10:30:00Z"}),
			// own comment before the upload does not suppress
			4: commentSet([2]string{"jenkins", "2013-08-25T09:00:00Z"}),
		},
	}

	conn := newTestConnection(t, srv.handler())
	reviews, err := conn.PendingReviews(context.Background(), 3, false, -1)
	require.NoError(t, err)

	require.Len(t, reviews, 2)

	// order follows the recency sort
	first := reviews[0]
	assert.Contains(t, first.URL, "/r/1/")
	assert.Equal(t, "feature-1", first.Branch)
	assert.Equal(t, "core", first.Repository)
	assert.True(t, first.LastUpload.Equal(time.Date(2013, 8, 25, 11, 0, 0, 0, time.UTC)))

	second := reviews[1]
	assert.Contains(t, second.URL, "/r/4/")
	assert.Equal(t, "master", second.Branch)      // empty branch defaults
	assert.Equal(t, "unknown", second.Repository) // missing repository defaults
	assert.True(t, second.LastUpload.Equal(time.Date(2013, 8, 25, 9, 30, 0, 0, time.UTC)))

	// cold and timestamp-less items are never enriched
	assert.Zero(t, srv.hitCount("diffs-5"))
	assert.Zero(t, srv.hitCount("diffs-6"))
	// a review with zero diffs skips the comment round trip entirely
	assert.Zero(t, srv.hitCount("reviews-2"))
}

func TestPendingReviews_EmptyListing(t *testing.T) {
	srv := &pendingServer{listing: listing()}

	conn := newTestConnection(t, srv.handler())
	reviews, err := conn.PendingReviews(context.Background(), 24, false, -1)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Equal(t, 1, srv.hitCount("listing"))
}

func TestPendingReviews_NegativePeriodIsOneHour(t *testing.T) {
	srv := &pendingServer{
		listing: listing(
			listingItem(1, "2013-08-25T12:00:00Z", "a", "core"),
			listingItem(2, "2013-08-25T10:30:00Z", "b", "core"),
		),
		diffs: map[int64]string{
			1: diffSet("2013-08-25T11:00:00Z"),
		},
		reviews: map[int64]string{
			1: commentSet(),
		},
	}

	conn := newTestConnection(t, srv.handler())
	reviews, err := conn.PendingReviews(context.Background(), -5, false, -1)
	require.NoError(t, err)

	require.Len(t, reviews, 1)
	assert.Contains(t, reviews[0].URL, "/r/1/")
	assert.Zero(t, srv.hitCount("diffs-2"))
}

func TestPendingReviews_AuthFailureStopsPipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	conn := newTestConnection(t, mux)
	_, err := conn.PendingReviews(context.Background(), 1, false, -1)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestHotReviews(t *testing.T) {
	at := func(hour int) apiTime {
		return apiTime{Time: time.Date(2013, 8, 25, hour, 0, 0, 0, time.UTC)}
	}

	t.Run("window is inclusive", func(t *testing.T) {
		items := []reviewItem{
			{ID: 1, LastUpdated: at(12)},
			{ID: 2, LastUpdated: at(10)}, // exactly on the threshold
			{ID: 3, LastUpdated: at(9)},
		}
		hot := hotReviews(items, 2)
		require.Len(t, hot, 2)
		assert.Equal(t, int64(1), hot[0].ID)
		assert.Equal(t, int64(2), hot[1].ID)
	})

	t.Run("missing timestamps sort oldest without panicking", func(t *testing.T) {
		items := []reviewItem{
			{ID: 1},
			{ID: 2, LastUpdated: at(12)},
			{ID: 3},
		}
		hot := hotReviews(items, 1)
		require.Len(t, hot, 1)
		assert.Equal(t, int64(2), hot[0].ID)
	})

	t.Run("ties keep listing order", func(t *testing.T) {
		items := []reviewItem{
			{ID: 7, LastUpdated: at(12)},
			{ID: 8, LastUpdated: at(12)},
			{ID: 9, LastUpdated: at(12)},
		}
		hot := hotReviews(items, 1)
		require.Len(t, hot, 3)
		assert.Equal(t, []int64{7, 8, 9}, []int64{hot[0].ID, hot[1].ID, hot[2].ID})
	})

	t.Run("zero period keeps only the hottest instant", func(t *testing.T) {
		items := []reviewItem{
			{ID: 1, LastUpdated: at(12)},
			{ID: 2, LastUpdated: at(11)},
		}
		hot := hotReviews(items, 0)
		require.Len(t, hot, 1)
		assert.Equal(t, int64(1), hot[0].ID)
	})
}
