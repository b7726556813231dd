package reviewboard

import (
	"context"
	"sort"
	"strconv"
	"time"
)

// Review is the slim, externally visible result of the pending
// selector: everything the build orchestrator needs and nothing from
// the raw API envelopes.
type Review struct {
	// URL is the canonical review URL, <base>/r/<id>/.
	URL string
	// LastUpload is the timestamp of the review's most recent diff.
	LastUpload time.Time
	// Branch is the review's branch, "master" when the server left it empty.
	Branch string
	// Repository is the owning repository's display title, "unknown"
	// when the server left it empty.
	Repository string
}

// summary is a review item enriched with its latest diff upload time.
// A zero lastUpload means the review has no diffs and can never need a
// build.
type summary struct {
	item       reviewItem
	url        string
	lastUpload time.Time
}

// PendingReviews runs the selection pipeline: fetch the pending
// listing, sort by recency, keep reviews updated within periodHours of
// the hottest one, enrich each survivor with its latest diff upload
// time, drop reviews this account already commented on after that
// upload, and project the rest to Review. Order follows the recency
// sort throughout. A negative periodHours is treated as one hour.
//
// A negative repositoryID disables the repository filter.
func (c *Connection) PendingReviews(ctx context.Context, periodHours int64, onlyMine bool, repositoryID int) ([]Review, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}

	var env pendingEnvelope
	if err := c.getXML(ctx, c.pendingListURL(onlyMine, repositoryID), &env); err != nil {
		return nil, err
	}
	if len(env.Requests) == 0 {
		return nil, nil
	}

	hot := hotReviews(env.Requests, periodHours)

	enriched := make([]summary, 0, len(hot))
	for _, it := range hot {
		s, err := c.enrich(ctx, it)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, s)
	}

	var results []Review
	for _, s := range enriched {
		needed, err := c.needsBuild(ctx, s)
		if err != nil {
			return nil, err
		}
		if needed {
			results = append(results, s.trim())
		}
	}
	return results, nil
}

// hotReviews sorts items by last-updated descending and keeps those
// within the recency window of the hottest item. Items without a
// timestamp sort as oldest; ties keep their original order.
func hotReviews(items []reviewItem, periodHours int64) []reviewItem {
	sorted := make([]reviewItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUpdated.After(sorted[j].LastUpdated.Time)
	})

	period := time.Duration(periodHours) * time.Hour
	if periodHours < 0 {
		period = time.Hour
	}
	threshold := sorted[0].LastUpdated.Add(-period)

	var hot []reviewItem
	for _, it := range sorted {
		if !it.LastUpdated.Before(threshold) {
			hot = append(hot, it)
		}
	}
	return hot
}

// enrich fetches the diff resource for one review and records its
// latest upload time (zero when the review has no diffs).
func (c *Connection) enrich(ctx context.Context, it reviewItem) (summary, error) {
	var d listEnvelope
	if err := c.getXML(ctx, c.apiURLForID(it.ID, "diffs"), &d); err != nil {
		return summary{}, err
	}
	var lastUpload time.Time
	if d.Total > 0 && len(d.Diffs) > 0 {
		lastUpload = d.Diffs[len(d.Diffs)-1].Timestamp.Time
	}
	return summary{
		item:       it,
		url:        c.ReviewNumberToURL(strconv.FormatInt(it.ID, 10)),
		lastUpload: lastUpload,
	}, nil
}

// needsBuild reports whether a review still wants an automated build:
// it has at least one diff, and this account has posted no comment
// strictly after the latest diff upload. A review with no diffs never
// qualifies, so its comment resource is not fetched at all.
func (c *Connection) needsBuild(ctx context.Context, s summary) (bool, error) {
	if s.lastUpload.IsZero() {
		return false, nil
	}
	var env listEnvelope
	if err := c.getXML(ctx, c.apiURLForID(s.item.ID, "reviews"), &env); err != nil {
		return false, err
	}
	for _, r := range env.Reviews {
		if r.Links.User.Title == c.username && r.Timestamp.After(s.lastUpload) {
			return false, nil
		}
	}
	return true, nil
}

func (s summary) trim() Review {
	return Review{
		URL:        s.url,
		LastUpload: s.lastUpload,
		Branch:     orDefault(s.item.Branch, "master"),
		Repository: orDefault(s.item.Links.Repository.Title, "unknown"),
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
