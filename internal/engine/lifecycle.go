package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonesrussell/request-manager/internal/events"
	"github.com/jonesrussell/request-manager/internal/identity"
	"github.com/jonesrussell/request-manager/internal/logger"
	"github.com/jonesrussell/request-manager/internal/models"
)

// Create allocates a new request with an auto-approved CREATE event.
// The LOCAL step is collapsed: only the APPROVED event is persisted and the
// version lands at 2. The new request is prepended to the snapshot.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*models.Request, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	actor := e.identity.CurrentActor(ctx)
	req := e.buildRequest(in, actor)

	requests = append([]models.Request{req}, requests...)
	if err := e.repo.SaveAll(ctx, requests); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}

	e.logger.Info("Request created",
		logger.String("request_id", req.ID),
		logger.String("url", req.URL),
		logger.String("user", actor.User),
	)
	e.publish(events.LifecycleEvent{
		EventType: events.RequestCreated,
		RequestID: req.ID,
		Version:   req.Version,
		User:      actor.User,
		UserGroup: actor.UserGroup,
	})

	created := req.Clone()
	return &created, nil
}

// CreateBatch creates several requests in one snapshot write. Used by the
// bulk importer; all inputs must validate or nothing is written.
func (e *Engine) CreateBatch(ctx context.Context, inputs []CreateInput) ([]models.Request, error) {
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return nil, err
		}
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	actor := e.identity.CurrentActor(ctx)
	created := make([]models.Request, 0, len(inputs))
	for _, in := range inputs {
		req := e.buildRequest(in, actor)
		created = append(created, req)
		requests = append([]models.Request{req}, requests...)
	}

	if err := e.repo.SaveAll(ctx, requests); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}

	e.logger.Info("Request batch created",
		logger.Int("count", len(created)),
		logger.String("user", actor.User),
	)
	for _, req := range created {
		e.publish(events.LifecycleEvent{
			EventType: events.RequestCreated,
			RequestID: req.ID,
			Version:   req.Version,
			User:      actor.User,
			UserGroup: actor.UserGroup,
		})
	}

	return models.CloneRequests(created), nil
}

// createdVersion is the version after an auto-approved create: the LOCAL
// event at version 1 is collapsed into the APPROVED event at version 2.
const createdVersion = 2

func (e *Engine) buildRequest(in CreateInput, actor identity.Actor) models.Request {
	now := e.clock.Now()
	id := uuid.NewString()

	event := models.RequestEvent{
		ID:          newEventID(),
		RequestID:   id,
		EventType:   models.EventTypeCreate,
		Status:      models.StatusApproved,
		Version:     createdVersion,
		Payload:     eventPayload("create", in),
		User:        actor.User,
		UserGroup:   actor.UserGroup,
		CreatedTime: now,
		ApprovedBy:  models.AutoApprovalActor,
	}

	return models.Request{
		ID:                       id,
		URL:                      in.URL,
		RequestType:              in.RequestType,
		Priority:                 in.Priority,
		ContentType:              in.ContentType,
		CreatedTime:              now,
		User:                     actor.User,
		UserGroup:                actor.UserGroup,
		Version:                  createdVersion,
		Country:                  in.Country,
		Zone:                     in.Zone,
		Title:                    in.Title,
		Tags:                     in.Tags,
		BackcrawlDepthDays:       in.BackcrawlDepthDays,
		BackcrawlStartTime:       in.BackcrawlStartTime,
		BackcrawlEndTime:         in.BackcrawlEndTime,
		CutOffTime:               in.CutOffTime,
		StartCollectionTime:      in.StartCollectionTime,
		EndCollectionTime:        in.EndCollectionTime,
		IsAlwaysRun:              in.IsAlwaysRun,
		IsCollectPopularPostOnly: in.IsCollectPopularPostOnly,
		RecurringFreqHours:       in.RecurringFreqHours,
		LatestEvent:              &event,
	}
}

// Update records an UPDATE event at LOCAL status with version+1. Unlike
// creates, updates are not auto-approved.
func (e *Engine) Update(ctx context.Context, id string, patch UpdatePatch) (*models.Request, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	idx := indexOf(requests, id)
	if idx < 0 {
		return nil, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	actor := e.identity.CurrentActor(ctx)
	now := e.clock.Now()

	req := requests[idx].Clone()
	patch.applyTo(&req)
	req.Version++
	req.LatestEvent = &models.RequestEvent{
		ID:          newEventID(),
		RequestID:   id,
		EventType:   models.EventTypeUpdate,
		Status:      models.StatusLocal,
		Version:     req.Version,
		Payload:     eventPayload("update", patch),
		User:        actor.User,
		UserGroup:   actor.UserGroup,
		CreatedTime: now,
	}
	requests[idx] = req

	if err := e.repo.SaveAll(ctx, requests); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}

	e.logger.Info("Request updated",
		logger.String("request_id", id),
		logger.Int("version", req.Version),
	)
	e.publish(events.LifecycleEvent{
		EventType: events.RequestUpdated,
		RequestID: id,
		Version:   req.Version,
		User:      actor.User,
		UserGroup: actor.UserGroup,
	})

	updated := req.Clone()
	return &updated, nil
}

// DeleteOne records a DELETE event on a single request. Unknown ids signal
// ErrNotFound; an ineligible request is left untouched without error,
// matching the bulk semantics.
func (e *Engine) DeleteOne(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load requests: %w", err)
	}

	if indexOf(requests, id) < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	return e.recordDeletes(ctx, requests, map[string]bool{id: true})
}

// DeleteSelected records DELETE events for every eligible id. Ineligible or
// unknown ids are silently skipped; the batch never fails as a whole.
func (e *Engine) DeleteSelected(ctx context.Context, ids []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load requests: %w", err)
	}

	return e.recordDeletes(ctx, requests, idSet(ids))
}

func (e *Engine) recordDeletes(ctx context.Context, requests []models.Request, wanted map[string]bool) error {
	actor := e.identity.CurrentActor(ctx)
	now := e.clock.Now()

	var deleted []models.Request
	for i, r := range requests {
		if !wanted[r.ID] || !deleteEligible(r) {
			continue
		}

		req := r.Clone()
		// Collapsed local-then-auto-approve step: two version increments,
		// one persisted APPROVED event.
		req.Version += 2
		req.LatestEvent = &models.RequestEvent{
			ID:          newEventID(),
			RequestID:   req.ID,
			EventType:   models.EventTypeDelete,
			Status:      models.StatusApproved,
			Version:     req.Version,
			Payload:     eventPayload("delete", nil),
			User:        actor.User,
			UserGroup:   actor.UserGroup,
			CreatedTime: now,
			ApprovedBy:  models.AutoApprovalActor,
		}
		requests[i] = req
		deleted = append(deleted, req)
	}

	if len(deleted) == 0 {
		return nil
	}

	if err := e.repo.SaveAll(ctx, requests); err != nil {
		return fmt.Errorf("save requests: %w", err)
	}

	for _, req := range deleted {
		e.logger.Info("Request delete recorded",
			logger.String("request_id", req.ID),
			logger.Int("version", req.Version),
		)
		e.publish(events.LifecycleEvent{
			EventType: events.RequestDeleteRequested,
			RequestID: req.ID,
			Version:   req.Version,
			User:      actor.User,
			UserGroup: actor.UserGroup,
		})
	}
	return nil
}

// deleteEligible reports whether a request may receive a DELETE event:
// it must have left the purely-local stage (PENDING_UPLOAD or UPLOADED)
// and must not already carry a DELETE event.
func deleteEligible(r models.Request) bool {
	if r.LatestEvent == nil {
		return false
	}
	if r.LatestEvent.EventType == models.EventTypeDelete {
		return false
	}
	status := r.LatestEvent.Status
	return status == models.StatusPendingUpload || status == models.StatusUploaded
}

// RevertSelected hard-deletes every requested request that has never left
// the local system: no event at all, or a latest event still at LOCAL or
// APPROVED. Everything else is left untouched.
func (e *Engine) RevertSelected(ctx context.Context, ids []string) (*RevertResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	actor := e.identity.CurrentActor(ctx)
	wanted := idSet(ids)

	result := &RevertResult{RevertedIDs: []string{}}
	kept := make([]models.Request, 0, len(requests))
	for _, r := range requests {
		if wanted[r.ID] && revertEligible(r) {
			result.RevertedIDs = append(result.RevertedIDs, r.ID)
			continue
		}
		kept = append(kept, r)
	}

	if len(result.RevertedIDs) == 0 {
		return result, nil
	}

	if err := e.repo.SaveAll(ctx, kept); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}

	e.logger.Info("Requests reverted",
		logger.Strings("request_ids", result.RevertedIDs),
	)
	for _, id := range result.RevertedIDs {
		e.publish(events.LifecycleEvent{
			EventType: events.RequestReverted,
			RequestID: id,
			User:      actor.User,
			UserGroup: actor.UserGroup,
		})
	}
	return result, nil
}

// revertEligible is the complement of delete eligibility, except both
// exclude CONFLICT.
func revertEligible(r models.Request) bool {
	if r.LatestEvent == nil {
		return true
	}
	status := r.LatestEvent.Status
	return status == models.StatusLocal || status == models.StatusApproved
}

// HardDelete removes the given ids from the snapshot entirely, regardless
// of status. Unknown ids are ignored.
func (e *Engine) HardDelete(ctx context.Context, ids []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load requests: %w", err)
	}

	wanted := idSet(ids)
	kept := make([]models.Request, 0, len(requests))
	removed := 0
	for _, r := range requests {
		if wanted[r.ID] {
			removed++
			continue
		}
		kept = append(kept, r)
	}

	if removed == 0 {
		return nil
	}

	if err := e.repo.SaveAll(ctx, kept); err != nil {
		return fmt.Errorf("save requests: %w", err)
	}

	e.logger.Info("Requests hard-deleted", logger.Int("count", removed))
	return nil
}

func indexOf(requests []models.Request, id string) int {
	for i, r := range requests {
		if r.ID == id {
			return i
		}
	}
	return -1
}
