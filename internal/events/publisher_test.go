// Package events_test provides tests for the events package.
package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/request-manager/internal/events"
)

func TestNewPublisherRequiresClient(t *testing.T) {
	pub := events.NewPublisher(nil, nil)
	assert.Nil(t, pub)
}

func TestPublishNilReceiverIsNoOp(t *testing.T) {
	var pub *events.Publisher
	event := events.LifecycleEvent{
		EventType: events.RequestCreated,
		RequestID: "req-1",
		User:      "tester",
	}

	// Should not panic and return nil
	assert.NoError(t, pub.Publish(context.Background(), event))
}

func TestPublishAsyncNilReceiverIsNoOp(t *testing.T) {
	var pub *events.Publisher
	pub.PublishAsync(events.LifecycleEvent{
		EventType: events.RequestUploaded,
		RequestID: "req-1",
	})
}

func TestLifecycleEventJSONShape(t *testing.T) {
	raw, err := json.Marshal(events.LifecycleEvent{
		EventType: events.RequestDeleteRequested,
		RequestID: "req-1",
		Version:   5,
		User:      "tester",
		UserGroup: "qa",
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "REQUEST_DELETE_REQUESTED", decoded["event_type"])
	assert.Equal(t, "req-1", decoded["request_id"])
	assert.EqualValues(t, 5, decoded["version"])
}
