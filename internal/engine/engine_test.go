package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/request-manager/internal/clock"
	"github.com/jonesrussell/request-manager/internal/identity"
	"github.com/jonesrussell/request-manager/internal/logger"
	"github.com/jonesrussell/request-manager/internal/models"
	"github.com/jonesrussell/request-manager/internal/repository"
)

var testStart = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, seed ...models.Request) (*Engine, *repository.MemoryStore, *clock.Fake) {
	t.Helper()
	store := repository.NewMemoryStoreWith(seed)
	clk := clock.NewFake(testStart)
	idp := identity.Static{Actor: identity.Actor{User: "tester", UserGroup: "qa"}}
	return New(store, idp, clk, nil, logger.NewNop()), store, clk
}

func mustLoad(t *testing.T, store *repository.MemoryStore) []models.Request {
	t.Helper()
	requests, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	return requests
}

func findRequest(t *testing.T, requests []models.Request, id string) models.Request {
	t.Helper()
	for _, r := range requests {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("request %s not in snapshot", id)
	return models.Request{}
}

func seedWithStatus(id string, eventType models.EventType, status models.EventStatus, version int) models.Request {
	return models.Request{
		ID:          id,
		URL:         "example.com/" + id,
		RequestType: models.RequestTypeAdhoc,
		Priority:    models.PriorityMedium,
		CreatedTime: testStart.Add(-time.Hour),
		User:        "seeder",
		UserGroup:   "qa",
		Version:     version,
		LatestEvent: &models.RequestEvent{
			ID:          "evt-seed-" + id,
			RequestID:   id,
			EventType:   eventType,
			Status:      status,
			Version:     version,
			Payload:     `{"action":"seed"}`,
			User:        "seeder",
			UserGroup:   "qa",
			CreatedTime: testStart.Add(-time.Hour),
		},
	}
}

func TestCreate(t *testing.T) {
	t.Run("lands at version 2 with auto-approved CREATE event", func(t *testing.T) {
		eng, store, _ := newTestEngine(t)

		created, err := eng.Create(context.Background(), CreateInput{
			URL:         "news.example.com/feed",
			RequestType: models.RequestTypeRecurring,
			Priority:    models.PriorityHigh,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 2, created.Version)
		assert.Equal(t, "tester", created.User)
		assert.Equal(t, "qa", created.UserGroup)
		assert.Equal(t, testStart, created.CreatedTime)

		require.NotNil(t, created.LatestEvent)
		assert.Equal(t, models.EventTypeCreate, created.LatestEvent.EventType)
		assert.Equal(t, models.StatusApproved, created.LatestEvent.Status)
		assert.Equal(t, 2, created.LatestEvent.Version)
		assert.Equal(t, models.AutoApprovalActor, created.LatestEvent.ApprovedBy)
		assert.Nil(t, created.LatestEvent.UploadedTime)

		assert.Equal(t, models.IndicatorAdded, models.DeriveChangeIndicator(created.LatestEvent))

		requests := mustLoad(t, store)
		require.Len(t, requests, 1)
	})

	t.Run("prepends to the snapshot", func(t *testing.T) {
		eng, store, _ := newTestEngine(t, seedWithStatus("old", models.EventTypeCreate, models.StatusApproved, 2))

		created, err := eng.Create(context.Background(), CreateInput{URL: "fresh.example.com"})
		require.NoError(t, err)

		requests := mustLoad(t, store)
		require.Len(t, requests, 2)
		assert.Equal(t, created.ID, requests[0].ID)
		assert.Equal(t, "old", requests[1].ID)
	})

	t.Run("rejects empty url without touching the snapshot", func(t *testing.T) {
		eng, store, _ := newTestEngine(t)

		_, err := eng.Create(context.Background(), CreateInput{URL: "   "})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Empty(t, mustLoad(t, store))
	})
}

func TestUpdate(t *testing.T) {
	t.Run("records LOCAL event at version+1", func(t *testing.T) {
		eng, store, clk := newTestEngine(t, seedWithStatus("r1", models.EventTypeCreate, models.StatusApproved, 2))
		clk.Advance(10 * time.Minute)

		newURL := "updated.example.com"
		updated, err := eng.Update(context.Background(), "r1", UpdatePatch{URL: &newURL})
		require.NoError(t, err)

		assert.Equal(t, "updated.example.com", updated.URL)
		assert.Equal(t, 3, updated.Version)
		require.NotNil(t, updated.LatestEvent)
		assert.Equal(t, models.EventTypeUpdate, updated.LatestEvent.EventType)
		assert.Equal(t, models.StatusLocal, updated.LatestEvent.Status)
		assert.Equal(t, 3, updated.LatestEvent.Version)
		assert.Empty(t, updated.LatestEvent.ApprovedBy)
		assert.Equal(t, clk.Now(), updated.LatestEvent.CreatedTime)

		persisted := findRequest(t, mustLoad(t, store), "r1")
		assert.Equal(t, 3, persisted.Version)
		assert.Equal(t, models.StatusLocal, persisted.LatestEvent.Status)
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)
		url := "x.example.com"
		_, err := eng.Update(context.Background(), "ghost", UpdatePatch{URL: &url})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nil fields leave values untouched", func(t *testing.T) {
		seed := seedWithStatus("r1", models.EventTypeCreate, models.StatusApproved, 2)
		seed.Country = "Brazil"
		eng, store, _ := newTestEngine(t, seed)

		prio := models.PriorityUrgent
		_, err := eng.Update(context.Background(), "r1", UpdatePatch{Priority: &prio})
		require.NoError(t, err)

		persisted := findRequest(t, mustLoad(t, store), "r1")
		assert.Equal(t, "Brazil", persisted.Country)
		assert.Equal(t, "example.com/r1", persisted.URL)
		assert.Equal(t, models.PriorityUrgent, persisted.Priority)
	})
}

func TestDeleteSelected(t *testing.T) {
	t.Run("eligible requests gain APPROVED DELETE at version+2", func(t *testing.T) {
		eng, store, _ := newTestEngine(t,
			seedWithStatus("pending", models.EventTypeCreate, models.StatusPendingUpload, 3),
			seedWithStatus("uploaded", models.EventTypeCreate, models.StatusUploaded, 2),
		)

		err := eng.DeleteSelected(context.Background(), []string{"pending", "uploaded"})
		require.NoError(t, err)

		requests := mustLoad(t, store)
		for _, id := range []string{"pending", "uploaded"} {
			r := findRequest(t, requests, id)
			assert.Equal(t, models.EventTypeDelete, r.LatestEvent.EventType, id)
			assert.Equal(t, models.StatusApproved, r.LatestEvent.Status, id)
			assert.Equal(t, models.AutoApprovalActor, r.LatestEvent.ApprovedBy, id)
			assert.Equal(t, models.IndicatorDeleted, models.DeriveChangeIndicator(r.LatestEvent), id)
		}
		assert.Equal(t, 5, findRequest(t, requests, "pending").Version)
		assert.Equal(t, 4, findRequest(t, requests, "uploaded").Version)
	})

	t.Run("skips local, approved, conflict and already-deleted requests", func(t *testing.T) {
		eng, store, _ := newTestEngine(t,
			seedWithStatus("local", models.EventTypeUpdate, models.StatusLocal, 3),
			seedWithStatus("approved", models.EventTypeCreate, models.StatusApproved, 2),
			seedWithStatus("conflict", models.EventTypeUpdate, models.StatusConflict, 3),
			seedWithStatus("deleted", models.EventTypeDelete, models.StatusPendingUpload, 4),
		)

		err := eng.DeleteSelected(context.Background(), []string{"local", "approved", "conflict", "deleted", "ghost"})
		require.NoError(t, err)

		requests := mustLoad(t, store)
		assert.Equal(t, 3, findRequest(t, requests, "local").Version)
		assert.Equal(t, 2, findRequest(t, requests, "approved").Version)
		assert.Equal(t, 3, findRequest(t, requests, "conflict").Version)
		r := findRequest(t, requests, "deleted")
		assert.Equal(t, 4, r.Version)
		assert.Equal(t, models.StatusPendingUpload, r.LatestEvent.Status)
	})
}

func TestDeleteOne(t *testing.T) {
	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)
		assert.ErrorIs(t, eng.DeleteOne(context.Background(), "ghost"), ErrNotFound)
	})

	t.Run("ineligible request is a silent no-op", func(t *testing.T) {
		eng, store, _ := newTestEngine(t, seedWithStatus("local", models.EventTypeUpdate, models.StatusLocal, 3))
		require.NoError(t, eng.DeleteOne(context.Background(), "local"))
		assert.Equal(t, 3, findRequest(t, mustLoad(t, store), "local").Version)
	})
}

func TestRevertSelected(t *testing.T) {
	t.Run("hard-deletes local and approved requests", func(t *testing.T) {
		eng, store, _ := newTestEngine(t,
			seedWithStatus("local", models.EventTypeUpdate, models.StatusLocal, 3),
			seedWithStatus("approved", models.EventTypeCreate, models.StatusApproved, 2),
			seedWithStatus("pending", models.EventTypeCreate, models.StatusPendingUpload, 3),
		)

		result, err := eng.RevertSelected(context.Background(), []string{"local", "approved", "pending"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"local", "approved"}, result.RevertedIDs)

		requests := mustLoad(t, store)
		require.Len(t, requests, 1)
		assert.Equal(t, "pending", requests[0].ID)
	})

	t.Run("request without an event is revertible", func(t *testing.T) {
		dormant := seedWithStatus("dormant", models.EventTypeCreate, models.StatusApproved, 1)
		dormant.LatestEvent = nil
		eng, store, _ := newTestEngine(t, dormant)

		result, err := eng.RevertSelected(context.Background(), []string{"dormant"})
		require.NoError(t, err)
		assert.Equal(t, []string{"dormant"}, result.RevertedIDs)
		assert.Empty(t, mustLoad(t, store))
	})

	t.Run("no eligible ids returns empty result without save", func(t *testing.T) {
		eng, store, _ := newTestEngine(t, seedWithStatus("uploaded", models.EventTypeCreate, models.StatusUploaded, 2))

		result, err := eng.RevertSelected(context.Background(), []string{"uploaded", "ghost"})
		require.NoError(t, err)
		assert.Empty(t, result.RevertedIDs)
		require.Len(t, mustLoad(t, store), 1)
	})
}

func TestMarkPendingUpload(t *testing.T) {
	t.Run("local and approved events move to PENDING_UPLOAD preserving event type", func(t *testing.T) {
		eng, store, clk := newTestEngine(t,
			seedWithStatus("created", models.EventTypeCreate, models.StatusApproved, 2),
			seedWithStatus("edited", models.EventTypeUpdate, models.StatusLocal, 3),
			seedWithStatus("removed", models.EventTypeDelete, models.StatusApproved, 4),
		)
		clk.Advance(time.Minute)

		marked, err := eng.MarkPendingUpload(context.Background(), []string{"created", "edited", "removed"})
		require.NoError(t, err)
		require.Len(t, marked, 3)

		requests := mustLoad(t, store)

		created := findRequest(t, requests, "created")
		assert.Equal(t, models.EventTypeCreate, created.LatestEvent.EventType)
		assert.Equal(t, models.StatusPendingUpload, created.LatestEvent.Status)
		assert.Equal(t, 3, created.Version)

		edited := findRequest(t, requests, "edited")
		assert.Equal(t, models.EventTypeUpdate, edited.LatestEvent.EventType)
		assert.Equal(t, 4, edited.Version)

		removed := findRequest(t, requests, "removed")
		assert.Equal(t, models.EventTypeDelete, removed.LatestEvent.EventType)
		assert.Equal(t, 5, removed.Version)

		for _, r := range requests {
			assert.Equal(t, clk.Now(), r.LatestEvent.CreatedTime)
			assert.Nil(t, r.LatestEvent.UploadedTime)
		}
	})

	t.Run("pending, uploaded and conflict requests are skipped", func(t *testing.T) {
		eng, store, _ := newTestEngine(t,
			seedWithStatus("pending", models.EventTypeCreate, models.StatusPendingUpload, 3),
			seedWithStatus("uploaded", models.EventTypeCreate, models.StatusUploaded, 2),
			seedWithStatus("conflict", models.EventTypeUpdate, models.StatusConflict, 3),
		)

		marked, err := eng.MarkPendingUpload(context.Background(), []string{"pending", "uploaded", "conflict"})
		require.NoError(t, err)
		assert.Empty(t, marked)

		requests := mustLoad(t, store)
		assert.Equal(t, 3, findRequest(t, requests, "pending").Version)
		assert.Equal(t, 2, findRequest(t, requests, "uploaded").Version)
		assert.Equal(t, 3, findRequest(t, requests, "conflict").Version)
	})
}

func TestMarkUploaded(t *testing.T) {
	t.Run("pending creates become UPLOADED, pending deletes purge", func(t *testing.T) {
		eng, store, clk := newTestEngine(t,
			seedWithStatus("create", models.EventTypeCreate, models.StatusPendingUpload, 3),
			seedWithStatus("delete", models.EventTypeDelete, models.StatusPendingUpload, 5),
			seedWithStatus("bystander", models.EventTypeCreate, models.StatusApproved, 2),
		)
		clk.Advance(time.Hour)

		result, err := eng.MarkUploaded(context.Background())
		require.NoError(t, err)
		// Purged deletions are reported alongside the uploaded requests.
		assert.Equal(t, []string{"create", "delete"}, result.UpdatedIDs)
		assert.Equal(t, 2, result.CreatedEvents)

		requests := mustLoad(t, store)
		require.Len(t, requests, 2)

		uploaded := findRequest(t, requests, "create")
		assert.Equal(t, models.StatusUploaded, uploaded.LatestEvent.Status)
		assert.Equal(t, 4, uploaded.Version)
		require.NotNil(t, uploaded.LatestEvent.UploadedTime)
		assert.Equal(t, clk.Now(), *uploaded.LatestEvent.UploadedTime)

		bystander := findRequest(t, requests, "bystander")
		assert.Equal(t, 2, bystander.Version)
		assert.Equal(t, models.StatusApproved, bystander.LatestEvent.Status)
	})

	t.Run("purge-only pass still reports the removed ids", func(t *testing.T) {
		eng, store, _ := newTestEngine(t,
			seedWithStatus("gone", models.EventTypeDelete, models.StatusPendingUpload, 5),
		)

		result, err := eng.MarkUploaded(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"gone"}, result.UpdatedIDs)
		assert.Equal(t, 1, result.CreatedEvents)
		assert.Empty(t, mustLoad(t, store))
	})

	t.Run("empty pass saves nothing", func(t *testing.T) {
		eng, _, _ := newTestEngine(t, seedWithStatus("approved", models.EventTypeCreate, models.StatusApproved, 2))

		result, err := eng.MarkUploaded(context.Background())
		require.NoError(t, err)
		assert.Empty(t, result.UpdatedIDs)
		assert.Zero(t, result.CreatedEvents)
	})
}

func TestExportSelected(t *testing.T) {
	eng, store, _ := newTestEngine(t,
		seedWithStatus("a", models.EventTypeCreate, models.StatusApproved, 2),
		seedWithStatus("b", models.EventTypeUpdate, models.StatusLocal, 3),
		seedWithStatus("c", models.EventTypeCreate, models.StatusUploaded, 2),
	)

	selected, err := eng.ExportSelected(context.Background(), []string{"c", "a"})
	require.NoError(t, err)
	require.Len(t, selected, 2)

	// Snapshot order is preserved, not selection order.
	assert.Equal(t, "a", selected[0].ID)
	assert.Equal(t, "c", selected[1].ID)

	// Read-only: no version or status movement.
	requests := mustLoad(t, store)
	assert.Equal(t, 2, findRequest(t, requests, "a").Version)
	assert.Equal(t, models.StatusApproved, findRequest(t, requests, "a").LatestEvent.Status)
}

func TestFullLifecycleRoundTrip(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	ctx := context.Background()

	created, err := eng.Create(ctx, CreateInput{URL: "site.example.com", RequestType: models.RequestTypeAdhoc})
	require.NoError(t, err)
	assert.Equal(t, 2, created.Version)

	clk.Advance(time.Minute)
	marked, err := eng.MarkPendingUpload(ctx, []string{created.ID})
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, 3, marked[0].Version)

	clk.Advance(time.Minute)
	result, err := eng.MarkUploaded(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, result.UpdatedIDs)

	clk.Advance(time.Minute)
	require.NoError(t, eng.DeleteSelected(ctx, []string{created.ID}))
	r := findRequest(t, mustLoad(t, store), created.ID)
	assert.Equal(t, 6, r.Version)
	assert.Equal(t, models.EventTypeDelete, r.LatestEvent.EventType)

	clk.Advance(time.Minute)
	marked, err = eng.MarkPendingUpload(ctx, []string{created.ID})
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, 7, marked[0].Version)

	clk.Advance(time.Minute)
	result, err = eng.MarkUploaded(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, result.UpdatedIDs)
	assert.Equal(t, 1, result.CreatedEvents)
	assert.Empty(t, mustLoad(t, store))
}

type failingRepo struct{ err error }

func (f failingRepo) LoadAll(context.Context) ([]models.Request, error) { return nil, f.err }
func (f failingRepo) SaveAll(context.Context, []models.Request) error   { return f.err }

func TestStorageErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	eng := New(failingRepo{err: boom},
		identity.Static{Actor: identity.Actor{User: "tester", UserGroup: "qa"}},
		clock.NewFake(testStart), nil, logger.NewNop())
	ctx := context.Background()

	_, err := eng.Create(ctx, CreateInput{URL: "x.example.com"})
	assert.ErrorIs(t, err, boom)

	_, err = eng.List(ctx)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, eng.DeleteSelected(ctx, []string{"1"}), boom)

	_, err = eng.MarkUploaded(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestHardDelete(t *testing.T) {
	eng, store, _ := newTestEngine(t,
		seedWithStatus("keep", models.EventTypeCreate, models.StatusApproved, 2),
		seedWithStatus("drop", models.EventTypeCreate, models.StatusUploaded, 2),
	)

	require.NoError(t, eng.HardDelete(context.Background(), []string{"drop", "ghost"}))

	requests := mustLoad(t, store)
	require.Len(t, requests, 1)
	assert.Equal(t, "keep", requests[0].ID)
}
