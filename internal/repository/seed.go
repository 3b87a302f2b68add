package repository

import (
	"time"

	"github.com/jonesrussell/request-manager/internal/models"
)

// SeedRequests returns the demo dataset used by the devtools reset flow:
// approved creates/updates/deletes awaiting export, pending uploads,
// uploaded requests active in the R-segment, and one conflict.
func SeedRequests() []models.Request {
	return []models.Request{
		seedApprovedCreate(),
		seedApprovedUpdate(),
		seedApprovedDelete(),
		seedPendingUpload("4", "global-climate.net/sensors", models.PriorityUrgent, 1, "Singapore", "R", "user789", nil),
		seedPendingUpload("5", "environment-tracker.io/data", models.PriorityHigh, 4, "Japan", "W", "user456", intPtr(3)),
		seedPendingLivestream(),
		seedUploaded("7", "api.example.com/v1/climate-data", models.PriorityUrgent, 3, "United States", "user123",
			models.CollectionCompleted, intPtr(120)),
		seedUploaded("8", "temperature-monitor.io/latest", models.PriorityHigh, 2, "France", "user789",
			models.CollectionCollecting, nil),
		seedConflict(),
	}
}

func seedApprovedCreate() models.Request {
	created := seedTime("2026-01-15T10:00:00Z")
	return models.Request{
		ID:                 "1",
		URL:                "metrics-api.cloud/collection",
		RequestType:        models.RequestTypeRecurring,
		Priority:           models.PriorityHigh,
		ContentType:        "post",
		CreatedTime:        created,
		User:               "user123",
		UserGroup:          "analysts",
		Version:            2,
		RecurringFreqHours: intPtr(3),
		Country:            "Australia",
		Zone:               "W",
		LatestEvent: &models.RequestEvent{
			ID:          "evt-1-approved",
			RequestID:   "1",
			EventType:   models.EventTypeCreate,
			Status:      models.StatusApproved,
			Version:     2,
			Payload:     `{"action":"create"}`,
			User:        "user123",
			UserGroup:   "analysts",
			CreatedTime: created,
			ApprovedBy:  models.AutoApprovalActor,
		},
	}
}

func seedApprovedUpdate() models.Request {
	created := seedTime("2026-01-14T09:15:00Z")
	return models.Request{
		ID:                 "2",
		URL:                "climate-monitor.global/api/temp",
		RequestType:        models.RequestTypeAdhoc,
		Priority:           models.PriorityHigh,
		ContentType:        "post",
		CreatedTime:        created,
		User:               "user123",
		UserGroup:          "analysts",
		Version:            3,
		BackcrawlDepthDays: intPtr(2),
		Country:            "Germany",
		Zone:               "G",
		LatestEvent: &models.RequestEvent{
			ID:          "evt-2-approved",
			RequestID:   "2",
			EventType:   models.EventTypeUpdate,
			Status:      models.StatusApproved,
			Version:     3,
			Payload:     `{"action":"update"}`,
			User:        "user123",
			UserGroup:   "analysts",
			CreatedTime: created,
			ApprovedBy:  models.AutoApprovalActor,
		},
		CollectionStatus:  models.CollectionCollecting,
		CollectionEndTime: timePtr(seedTime("2026-01-14T09:15:00Z")),
	}
}

func seedApprovedDelete() models.Request {
	created := seedTime("2026-01-14T08:45:00Z")
	return models.Request{
		ID:                 "3",
		URL:                "weather-data.science/metrics",
		RequestType:        models.RequestTypeRecurring,
		Priority:           models.PriorityMedium,
		ContentType:        "post",
		CreatedTime:        created,
		User:               "user456",
		UserGroup:          "analysts",
		Version:            3,
		RecurringFreqHours: intPtr(2),
		Country:            "United Kingdom",
		Zone:               "-",
		LatestEvent: &models.RequestEvent{
			ID:          "evt-3-delete-approved",
			RequestID:   "3",
			EventType:   models.EventTypeDelete,
			Status:      models.StatusApproved,
			Version:     3,
			Payload:     `{"action":"delete"}`,
			User:        "user456",
			UserGroup:   "analysts",
			CreatedTime: created,
			ApprovedBy:  models.AutoApprovalActor,
		},
		CollectionStatus:         models.CollectionCompleted,
		CollectionEndTime:        timePtr(created),
		EstimatedDurationMinutes: intPtr(45),
	}
}

func seedPendingUpload(id, url string, priority models.Priority, freqHours int,
	country, zone, user string, backcrawlDays *int,
) models.Request {
	created := seedTime("2026-01-14T07:20:00Z")
	return models.Request{
		ID:                 id,
		URL:                url,
		RequestType:        models.RequestTypeRecurring,
		Priority:           priority,
		ContentType:        "post",
		CreatedTime:        created,
		User:               user,
		UserGroup:          "analysts",
		Version:            3,
		RecurringFreqHours: intPtr(freqHours),
		BackcrawlDepthDays: backcrawlDays,
		Country:            country,
		Zone:               zone,
		LatestEvent: &models.RequestEvent{
			ID:          "evt-" + id + "-pending",
			RequestID:   id,
			EventType:   models.EventTypeCreate,
			Status:      models.StatusPendingUpload,
			Version:     3,
			Payload:     `{"action":"create"}`,
			User:        user,
			UserGroup:   "analysts",
			CreatedTime: created,
		},
	}
}

func seedPendingLivestream() models.Request {
	created := seedTime("2026-01-14T05:30:00Z")
	return models.Request{
		ID:                 "6",
		URL:                "eco-sensors.worldwide/api",
		RequestType:        models.RequestTypeLivestream,
		Priority:           models.PriorityMedium,
		ContentType:        "post",
		CreatedTime:        created,
		User:               "user123",
		UserGroup:          "analysts",
		Version:            3,
		CutOffTime:         timePtr(seedTime("2026-01-31T23:59:59Z")),
		BackcrawlStartTime: timePtr(seedTime("2026-01-01T00:00:00Z")),
		BackcrawlEndTime:   timePtr(seedTime("2026-01-31T00:00:00Z")),
		Country:            "Canada",
		Zone:               "G",
		LatestEvent: &models.RequestEvent{
			ID:          "evt-6-pending",
			RequestID:   "6",
			EventType:   models.EventTypeCreate,
			Status:      models.StatusPendingUpload,
			Version:     3,
			Payload:     `{"action":"create"}`,
			User:        "user123",
			UserGroup:   "analysts",
			CreatedTime: created,
		},
	}
}

func seedUploaded(id, url string, priority models.Priority, freqHours int,
	country, user string, colStatus models.CollectionStatus, estimatedMins *int,
) models.Request {
	created := seedTime("2026-01-14T10:30:00Z")
	return models.Request{
		ID:                 id,
		URL:                url,
		RequestType:        models.RequestTypeRecurring,
		Priority:           priority,
		ContentType:        "post",
		CreatedTime:        created,
		User:               user,
		UserGroup:          "analysts",
		Version:            2,
		RecurringFreqHours: intPtr(freqHours),
		Country:            country,
		Zone:               "W",
		LatestEvent: &models.RequestEvent{
			ID:           "evt-" + id + "-uploaded",
			RequestID:    id,
			EventType:    models.EventTypeCreate,
			Status:       models.StatusUploaded,
			Version:      2,
			Payload:      `{"action":"create"}`,
			User:         user,
			UserGroup:    "analysts",
			CreatedTime:  created,
			UploadedTime: timePtr(created),
		},
		CollectionStatus:         colStatus,
		CollectionEndTime:        timePtr(created),
		EstimatedDurationMinutes: estimatedMins,
	}
}

func seedConflict() models.Request {
	created := seedTime("2026-01-14T04:15:00Z")
	return models.Request{
		ID:                 "9",
		URL:                "data-hub.research.org/endpoints",
		RequestType:        models.RequestTypeAdhoc,
		Priority:           models.PriorityMedium,
		ContentType:        "post",
		CreatedTime:        created,
		User:               "user456",
		UserGroup:          "analysts",
		Version:            3,
		BackcrawlDepthDays: intPtr(2),
		Country:            "India",
		Zone:               "R",
		LatestEvent: &models.RequestEvent{
			ID:           "evt-9-conflict",
			RequestID:    "9",
			EventType:    models.EventTypeUpdate,
			Status:       models.StatusConflict,
			Version:      3,
			Payload:      `{"action":"update"}`,
			User:         "user456",
			UserGroup:    "analysts",
			CreatedTime:  created,
			UploadedTime: timePtr(seedTime("2026-01-14T04:20:00Z")),
		},
		CollectionStatus:         models.CollectionCompleted,
		CollectionEndTime:        timePtr(seedTime("2026-01-14T06:30:00Z")),
		EstimatedDurationMinutes: intPtr(120),
	}
}

func seedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }
