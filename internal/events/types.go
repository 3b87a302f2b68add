// Package events publishes request lifecycle notifications to Redis
// Streams so downstream consumers (dashboards, auditing) can follow the
// S-segment workflow without polling the API.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream for request lifecycle events.
const StreamName = "request-lifecycle-events"

// EventType represents the kind of lifecycle notification.
type EventType string

const (
	// RequestCreated indicates a new request was created and auto-approved.
	RequestCreated EventType = "REQUEST_CREATED"
	// RequestUpdated indicates a local update event was recorded.
	RequestUpdated EventType = "REQUEST_UPDATED"
	// RequestDeleteRequested indicates an approved DELETE event was recorded.
	RequestDeleteRequested EventType = "REQUEST_DELETE_REQUESTED"
	// RequestReverted indicates a request was hard-deleted by revert.
	RequestReverted EventType = "REQUEST_REVERTED"
	// RequestExportCommitted indicates a request moved to PENDING_UPLOAD.
	RequestExportCommitted EventType = "REQUEST_EXPORT_COMMITTED"
	// RequestUploaded indicates upload feedback marked a request UPLOADED.
	RequestUploaded EventType = "REQUEST_UPLOADED"
	// RequestPurged indicates upload feedback confirmed a remote deletion.
	RequestPurged EventType = "REQUEST_PURGED"
)

// LifecycleEvent is the envelope for all request lifecycle notifications.
type LifecycleEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	RequestID string    `json:"request_id"`
	Version   int       `json:"version"`
	User      string    `json:"user"`
	UserGroup string    `json:"user_group"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}
