package reviewboard

import (
	"encoding/xml"
	"fmt"
	"time"
)

// legacyTimeLayout is the timestamp encoding emitted by ReviewBoard 1.6
// era servers, tried after RFC 3339 fails.
const legacyTimeLayout = "2006-01-02 15:04:05"

// apiTime is a timestamp element that accepts both encodings the server
// is known to emit. The zero value means the element was absent.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	parsed, err := parseAPITime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalXML exists for symmetry only; no outbound call encodes these
// envelopes.
func (t apiTime) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(t.Time.Format(time.RFC3339), start)
}

func parseAPITime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(legacyTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is in neither supported format", s)
	}
	return ts, nil
}
