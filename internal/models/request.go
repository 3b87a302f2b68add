// Package models defines the request/event entity model shared by the
// lifecycle engine, the snapshot repository, and the API layer.
package models

import "time"

// RequestType classifies how a request is executed in the R-segment.
type RequestType string

const (
	RequestTypeAdhoc      RequestType = "ADHOC"
	RequestTypeRecurring  RequestType = "RECURRING"
	RequestTypeLivestream RequestType = "LIVESTREAM"
)

// Priority is the request priority ordinal. Urgent is highest (0).
type Priority int

const (
	PriorityUrgent Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

var priorityLabels = map[Priority]string{
	PriorityUrgent: "Urgent",
	PriorityHigh:   "High",
	PriorityMedium: "Medium",
	PriorityLow:    "Low",
}

// Label returns the display label for the priority, or "-" for unknown values.
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return "-"
}

// EventType is the action recorded by a request event.
// PAUSE and RESUME are reserved; no current operation produces them.
type EventType string

const (
	EventTypeCreate EventType = "CREATE"
	EventTypeUpdate EventType = "UPDATE"
	EventTypeDelete EventType = "DELETE"
	EventTypePause  EventType = "PAUSE"
	EventTypeResume EventType = "RESUME"
)

// EventStatus is the synchronization stage of an event.
// Status only moves forward along LOCAL -> APPROVED -> PENDING_UPLOAD ->
// UPLOADED. CONFLICT is asserted by the remote system on APPROVED or
// PENDING_UPLOAD events and is never produced by this service.
type EventStatus string

const (
	StatusLocal         EventStatus = "LOCAL"
	StatusApproved      EventStatus = "APPROVED"
	StatusPendingUpload EventStatus = "PENDING_UPLOAD"
	StatusUploaded      EventStatus = "UPLOADED"
	StatusConflict      EventStatus = "CONFLICT"
)

// CollectionStatus mirrors the R-segment collection state. The engine only
// reads these through; they arrive out-of-band.
type CollectionStatus string

const (
	CollectionCollecting CollectionStatus = "COLLECTING"
	CollectionCompleted  CollectionStatus = "COMPLETED"
	CollectionDeleting   CollectionStatus = "DELETING"
	CollectionDeleted    CollectionStatus = "DELETED"
	CollectionError      CollectionStatus = "ERROR"
	CollectionErrorCount CollectionStatus = "ERROR_COUNT"
	CollectionPaused     CollectionStatus = "PAUSED"
	CollectionPendingC   CollectionStatus = "PENDING_C"
	CollectionSuspended  CollectionStatus = "SUSPENDED"
)

// AutoApprovalActor is the sentinel approver recorded on system-generated
// approvals.
const AutoApprovalActor = "SYSTEM-AUTO"

// RequestEvent is the latest-only record of an action taken on a request.
// The model keeps a single event per request; eligibility and display
// derivation are driven entirely by this record.
type RequestEvent struct {
	ID           string      `json:"id"`
	RequestID    string      `json:"requestId"`
	EventType    EventType   `json:"eventType"`
	Status       EventStatus `json:"status"`
	Version      int         `json:"version"`
	Payload      string      `json:"payload"`
	User         string      `json:"user"`
	UserGroup    string      `json:"userGroup"`
	CreatedTime  time.Time   `json:"createdTime"`
	ApprovedBy   string      `json:"approvedBy,omitempty"`
	UploadedTime *time.Time  `json:"uploadedTime,omitempty"`
}

// Request is the durable unit of work tracked between the S-segment and the
// R/W-segment. Version always equals LatestEvent.Version; a request with no
// latest event is dormant (no pending change).
type Request struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	RequestType RequestType `json:"requestType"`
	Priority    Priority    `json:"priority"`
	ContentType string      `json:"contentType,omitempty"`
	CreatedTime time.Time   `json:"createdTime"`
	User        string      `json:"user"`
	UserGroup   string      `json:"userGroup"`
	Version     int         `json:"version"`
	Archived    bool        `json:"archived,omitempty"`

	// Optional scheduling fields. Opaque to the engine; only the depth
	// derivation reads the backcrawl window.
	BackcrawlDepthDays       *int       `json:"backcrawlDepthDays,omitempty"`
	BackcrawlStartTime       *time.Time `json:"backcrawlStartTime,omitempty"`
	BackcrawlEndTime         *time.Time `json:"backcrawlEndTime,omitempty"`
	Country                  string     `json:"country,omitempty"`
	Zone                     string     `json:"zone,omitempty"`
	CutOffTime               *time.Time `json:"cutOffTime,omitempty"`
	StartCollectionTime      *time.Time `json:"startCollectionTime,omitempty"`
	EndCollectionTime        *time.Time `json:"endCollectionTime,omitempty"`
	IsAlwaysRun              *bool      `json:"isAlwaysRun,omitempty"`
	IsCollectPopularPostOnly *bool      `json:"isCollectPopularPostOnly,omitempty"`
	RecurringFreqHours       *int       `json:"recurringFreqHours,omitempty"`
	Tags                     []string   `json:"tags,omitempty"`
	Title                    string     `json:"title,omitempty"`

	LatestEvent *RequestEvent `json:"latestEvent,omitempty"`

	// Collection facts supplied by the R-segment out-of-band. Never written
	// by the engine.
	CollectionStatus         CollectionStatus `json:"collectionStatus,omitempty"`
	CollectionEndTime        *time.Time       `json:"collectionEndTime,omitempty"`
	EstimatedDurationMinutes *int             `json:"estimatedDurationMinutes,omitempty"`
}

// Clone returns a deep copy of the request so snapshot readers cannot
// mutate the repository's backing collection.
func (r Request) Clone() Request {
	out := r
	out.BackcrawlDepthDays = cloneIntPtr(r.BackcrawlDepthDays)
	out.BackcrawlStartTime = cloneTimePtr(r.BackcrawlStartTime)
	out.BackcrawlEndTime = cloneTimePtr(r.BackcrawlEndTime)
	out.CutOffTime = cloneTimePtr(r.CutOffTime)
	out.StartCollectionTime = cloneTimePtr(r.StartCollectionTime)
	out.EndCollectionTime = cloneTimePtr(r.EndCollectionTime)
	out.IsAlwaysRun = cloneBoolPtr(r.IsAlwaysRun)
	out.IsCollectPopularPostOnly = cloneBoolPtr(r.IsCollectPopularPostOnly)
	out.RecurringFreqHours = cloneIntPtr(r.RecurringFreqHours)
	out.CollectionEndTime = cloneTimePtr(r.CollectionEndTime)
	out.EstimatedDurationMinutes = cloneIntPtr(r.EstimatedDurationMinutes)
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	if r.LatestEvent != nil {
		ev := *r.LatestEvent
		ev.UploadedTime = cloneTimePtr(r.LatestEvent.UploadedTime)
		out.LatestEvent = &ev
	}
	return out
}

// CloneRequests deep-copies a snapshot slice.
func CloneRequests(requests []Request) []Request {
	out := make([]Request, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.Clone())
	}
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBoolPtr(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
