// Package xmlexport serializes request snapshots into the ERD handoff
// document consumed by the upload side: an <events> root with one
// zero-padded <eventNNN> element per request.
//
// ERD conversions: datetimes become epoch milliseconds, booleans become
// 0/1, priority is its numeric enum value and requestType its string
// value. Unset optional fields are omitted entirely.
package xmlexport

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/jonesrussell/request-manager/internal/models"
)

// payload is the ERD field block. Letter names are the ERD's, not ours;
// i, l and o are reserved and never emitted.
type payload struct {
	BackcrawlDepth      *int   `xml:"a,omitempty"`
	BackcrawlEnd        *int64 `xml:"b,omitempty"`
	BackcrawlStart      *int64 `xml:"c,omitempty"`
	CutOff              *int64 `xml:"d,omitempty"`
	ContentType         string `xml:"e"`
	EndCollection       *int64 `xml:"f,omitempty"`
	AlwaysRun           *int   `xml:"g,omitempty"`
	CollectPopularPosts *int   `xml:"h,omitempty"`
	Priority            int    `xml:"j"`
	RecurringFreq       *int   `xml:"k,omitempty"`
	RequestType         string `xml:"m"`
	StartCollection     *int64 `xml:"n,omitempty"`
	URL                 string `xml:"p"`
}

type exportEvent struct {
	XMLName   xml.Name
	EventType string  `xml:"eventType"`
	RequestID string  `xml:"requestId"`
	UserGroup string  `xml:"userGroup"`
	Version   int     `xml:"ver"`
	Payload   payload `xml:"payload"`
}

type document struct {
	XMLName xml.Name `xml:"events"`
	Events  []exportEvent
}

// Generate renders the selected requests as a complete XML document,
// numbered event001, event002, ... in slice order.
func Generate(requests []models.Request) ([]byte, error) {
	doc := document{Events: make([]exportEvent, 0, len(requests))}
	for i, r := range requests {
		doc.Events = append(doc.Events, buildEvent(r, i+1))
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func buildEvent(r models.Request, number int) exportEvent {
	eventType := string(models.EventTypeCreate)
	if r.LatestEvent != nil {
		eventType = string(r.LatestEvent.EventType)
	}
	return exportEvent{
		XMLName:   xml.Name{Local: fmt.Sprintf("event%03d", number)},
		EventType: eventType,
		RequestID: r.ID,
		UserGroup: r.UserGroup,
		Version:   r.Version,
		Payload:   buildPayload(r),
	}
}

func buildPayload(r models.Request) payload {
	return payload{
		BackcrawlDepth:      r.BackcrawlDepthDays,
		BackcrawlEnd:        epochMs(r.BackcrawlEndTime),
		BackcrawlStart:      epochMs(r.BackcrawlStartTime),
		CutOff:              epochMs(r.CutOffTime),
		ContentType:         r.ContentType,
		EndCollection:       epochMs(r.EndCollectionTime),
		AlwaysRun:           boolInt(r.IsAlwaysRun),
		CollectPopularPosts: boolInt(r.IsCollectPopularPostOnly),
		Priority:            int(r.Priority),
		RecurringFreq:       r.RecurringFreqHours,
		RequestType:         string(r.RequestType),
		StartCollection:     epochMs(r.StartCollectionTime),
		URL:                 r.URL,
	}
}

func epochMs(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func boolInt(v *bool) *int {
	if v == nil {
		return nil
	}
	n := 0
	if *v {
		n = 1
	}
	return &n
}
