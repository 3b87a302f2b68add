package models

import (
	"fmt"
	"time"
)

// ChangeIndicator is the UI-facing classification derived from a request's
// latest event.
type ChangeIndicator string

const (
	IndicatorAdded         ChangeIndicator = "added"
	IndicatorDeleted       ChangeIndicator = "deleted"
	IndicatorPendingUpload ChangeIndicator = "pending_upload"
	IndicatorUploaded      ChangeIndicator = "uploaded"
	IndicatorConflict      ChangeIndicator = "conflict"
	IndicatorNone          ChangeIndicator = "none"
)

// DeriveChangeIndicator maps a latest event to its change indicator.
// Conflict is the highest-priority signal and is checked first; a missing
// event means the request is dormant and yields IndicatorNone.
func DeriveChangeIndicator(event *RequestEvent) ChangeIndicator {
	if event == nil {
		return IndicatorNone
	}

	switch event.Status {
	case StatusConflict:
		return IndicatorConflict
	case StatusUploaded:
		return IndicatorUploaded
	case StatusPendingUpload:
		return IndicatorPendingUpload
	case StatusLocal, StatusApproved:
		switch event.EventType {
		case EventTypeCreate, EventTypeUpdate:
			return IndicatorAdded
		case EventTypeDelete:
			return IndicatorDeleted
		}
	}

	return IndicatorNone
}

// DepthKind discriminates the three backcrawl shapes.
type DepthKind string

const (
	DepthLastHours DepthKind = "lastHours"
	DepthLastDays  DepthKind = "lastDays"
	DepthDateRange DepthKind = "dateRange"
)

// fixedWindowHours is the collection window used when no backcrawl fields
// are set.
const fixedWindowHours = 2

// Depth describes the backcrawl window of a request.
type Depth struct {
	Kind      DepthKind  `json:"kind"`
	Hours     int        `json:"hours,omitempty"`
	Days      int        `json:"days,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// DeriveDepth classifies the backcrawl fields into one of the three depth
// shapes, purely from which optional fields are populated. An explicit start
// time wins over a day count; with neither set the fixed 2-hour window
// applies.
func DeriveDepth(r *Request) Depth {
	if r.BackcrawlStartTime != nil {
		return Depth{
			Kind:      DepthDateRange,
			StartDate: r.BackcrawlStartTime,
			EndDate:   r.BackcrawlEndTime,
		}
	}
	if r.BackcrawlDepthDays != nil {
		return Depth{Kind: DepthLastDays, Days: *r.BackcrawlDepthDays}
	}
	return Depth{Kind: DepthLastHours, Hours: fixedWindowHours}
}

// Label formats the depth for display, e.g. "Last 2 hours", "Last 5 days"
// or "2026-01-01 to 2026-01-31".
func (d Depth) Label() string {
	switch d.Kind {
	case DepthLastHours:
		return fmt.Sprintf("Last %d hours", d.Hours)
	case DepthLastDays:
		if d.Days == 1 {
			return "Last 1 day"
		}
		return fmt.Sprintf("Last %d days", d.Days)
	case DepthDateRange:
		if d.StartDate == nil {
			return "-"
		}
		start := d.StartDate.Format("2006-01-02")
		if d.EndDate != nil {
			return fmt.Sprintf("%s to %s", start, d.EndDate.Format("2006-01-02"))
		}
		return fmt.Sprintf("From %s", start)
	}
	return "-"
}
