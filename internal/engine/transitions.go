package engine

import (
	"context"
	"fmt"

	"github.com/jonesrussell/request-manager/internal/events"
	"github.com/jonesrussell/request-manager/internal/logger"
	"github.com/jonesrussell/request-manager/internal/models"
)

// MarkPendingUpload commits the selected requests for upload: every request
// whose latest event sits at LOCAL or APPROVED gets a new event with the
// same event type at PENDING_UPLOAD and version+1. Ineligible or unknown
// ids are silently skipped.
func (e *Engine) MarkPendingUpload(ctx context.Context, ids []string) ([]models.Request, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	actor := e.identity.CurrentActor(ctx)
	now := e.clock.Now()
	wanted := idSet(ids)

	var marked []models.Request
	for i, r := range requests {
		if !wanted[r.ID] || r.LatestEvent == nil {
			continue
		}
		status := r.LatestEvent.Status
		if status != models.StatusLocal && status != models.StatusApproved {
			continue
		}

		req := r.Clone()
		req.Version++
		prev := req.LatestEvent
		req.LatestEvent = &models.RequestEvent{
			ID:          newEventID(),
			RequestID:   req.ID,
			EventType:   prev.EventType,
			Status:      models.StatusPendingUpload,
			Version:     req.Version,
			Payload:     prev.Payload,
			User:        actor.User,
			UserGroup:   actor.UserGroup,
			CreatedTime: now,
		}
		requests[i] = req
		marked = append(marked, req)
	}

	if len(marked) == 0 {
		return nil, nil
	}

	if err := e.repo.SaveAll(ctx, requests); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}

	for _, req := range marked {
		e.logger.Info("Request marked pending upload",
			logger.String("request_id", req.ID),
			logger.String("event_type", string(req.LatestEvent.EventType)),
			logger.Int("version", req.Version),
		)
		e.publish(events.LifecycleEvent{
			EventType: events.RequestExportCommitted,
			RequestID: req.ID,
			Version:   req.Version,
			User:      actor.User,
			UserGroup: actor.UserGroup,
		})
	}

	return models.CloneRequests(marked), nil
}

// MarkUploaded applies upload feedback to every PENDING_UPLOAD request in
// the snapshot. Pending DELETE events purge the request entirely; every
// other event type transitions to UPLOADED at version+1 with the upload
// timestamp recorded. Both outcomes are reported in the result's updated
// ids.
func (e *Engine) MarkUploaded(ctx context.Context) (*UploadResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	actor := e.identity.CurrentActor(ctx)
	now := e.clock.Now()

	result := &UploadResult{UpdatedIDs: []string{}}
	var purged []string
	kept := make([]models.Request, 0, len(requests))
	for _, r := range requests {
		if r.LatestEvent == nil || r.LatestEvent.Status != models.StatusPendingUpload {
			kept = append(kept, r)
			continue
		}

		if r.LatestEvent.EventType == models.EventTypeDelete {
			// The remote accepted the deletion; nothing local remains, but
			// the purge still counts as processed upload feedback.
			purged = append(purged, r.ID)
			result.UpdatedIDs = append(result.UpdatedIDs, r.ID)
			result.CreatedEvents++
			continue
		}

		req := r.Clone()
		req.Version++
		prev := req.LatestEvent
		uploadedAt := now
		req.LatestEvent = &models.RequestEvent{
			ID:           newEventID(),
			RequestID:    req.ID,
			EventType:    prev.EventType,
			Status:       models.StatusUploaded,
			Version:      req.Version,
			Payload:      prev.Payload,
			User:         prev.User,
			UserGroup:    prev.UserGroup,
			CreatedTime:  now,
			UploadedTime: &uploadedAt,
		}
		kept = append(kept, req)
		result.UpdatedIDs = append(result.UpdatedIDs, req.ID)
		result.CreatedEvents++
	}

	if len(result.UpdatedIDs) == 0 {
		return result, nil
	}

	if err := e.repo.SaveAll(ctx, kept); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}

	e.logger.Info("Upload feedback applied",
		logger.Int("uploaded", len(result.UpdatedIDs)),
		logger.Int("purged", len(purged)),
	)
	for _, id := range result.UpdatedIDs {
		e.publish(events.LifecycleEvent{
			EventType: events.RequestUploaded,
			RequestID: id,
			User:      actor.User,
			UserGroup: actor.UserGroup,
		})
	}
	for _, id := range purged {
		e.publish(events.LifecycleEvent{
			EventType: events.RequestPurged,
			RequestID: id,
			User:      actor.User,
			UserGroup: actor.UserGroup,
		})
	}

	return result, nil
}
