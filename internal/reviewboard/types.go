package reviewboard

import "encoding/xml"

// Wire envelopes for the server's <rsp> XML payloads. The shapes mirror
// what the pending selector, catalog fetcher and metadata lookup read;
// fields irrelevant to those operations are not mapped.

// reviewRequestEnvelope is the review-request detail response.
type reviewRequestEnvelope struct {
	XMLName xml.Name   `xml:"rsp"`
	Request reviewItem `xml:"review_request"`
}

// pendingEnvelope is the review-requests listing response.
type pendingEnvelope struct {
	XMLName  xml.Name     `xml:"rsp"`
	Total    string       `xml:"total_results"`
	Stat     string       `xml:"stat"`
	Requests []reviewItem `xml:"review_requests>item"`
}

// reviewItem is one review request in a listing or detail response.
type reviewItem struct {
	ID          int64   `xml:"id"`
	LastUpdated apiTime `xml:"last_updated"`
	Branch      string  `xml:"branch"`
	Links       links   `xml:"links"`
}

// listEnvelope is the shared shape of the diffs, reviews (comments) and
// repositories responses.
type listEnvelope struct {
	XMLName      xml.Name `xml:"rsp"`
	Total        int      `xml:"total_results"`
	Diffs        []item   `xml:"diffs>item"`
	Reviews      []item   `xml:"reviews>item"`
	Repositories []item   `xml:"repositories>item"`
	Links        links    `xml:"links"`
}

// item is one diff, comment or repository entry.
type item struct {
	Timestamp apiTime `xml:"timestamp"`
	Links     links   `xml:"links"`
	// repository entries only
	ID   int    `xml:"id"`
	Name string `xml:"name"`
	Tool string `xml:"tool"`
	Path string `xml:"path"`
}

type links struct {
	User       titled `xml:"user"`
	Repository titled `xml:"repository"`
	Next       link   `xml:"next"`
}

type titled struct {
	Title string `xml:"title"`
}

type link struct {
	Href string `xml:"href"`
}
