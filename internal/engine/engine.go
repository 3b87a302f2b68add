// Package engine implements the request lifecycle and synchronization
// core: the status state machine, the version-increment discipline, and
// the eligibility rules for delete, revert, export and upload-feedback
// operations.
//
// Every mutating operation is a read-modify-write over the whole snapshot:
// load, transform, save. A single mutex serializes these passes, giving the
// single-writer, last-write-wins semantics the model is designed for. The
// repository only guarantees atomicity of one SaveAll.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonesrussell/request-manager/internal/clock"
	"github.com/jonesrussell/request-manager/internal/events"
	"github.com/jonesrussell/request-manager/internal/identity"
	"github.com/jonesrussell/request-manager/internal/logger"
	"github.com/jonesrussell/request-manager/internal/models"
	"github.com/jonesrussell/request-manager/internal/repository"
)

// Engine is the request lifecycle core.
type Engine struct {
	repo      repository.SnapshotRepository
	identity  identity.Provider
	clock     clock.Clock
	publisher *events.Publisher
	logger    logger.Logger

	mu sync.Mutex
}

// New wires the engine to its collaborators. publisher may be nil.
func New(
	repo repository.SnapshotRepository,
	idp identity.Provider,
	clk clock.Clock,
	publisher *events.Publisher,
	log logger.Logger,
) *Engine {
	return &Engine{
		repo:      repo,
		identity:  idp,
		clock:     clk,
		publisher: publisher,
		logger:    log,
	}
}

// List returns the current snapshot, most recently created first (creation
// prepends).
func (e *Engine) List(ctx context.Context) ([]models.Request, error) {
	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	return requests, nil
}

// ExportSelected returns the current snapshot of the requested ids for
// payload serialization. Read-only: no status changes, no events.
func (e *Engine) ExportSelected(ctx context.Context, ids []string) ([]models.Request, error) {
	requests, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	wanted := idSet(ids)
	selected := make([]models.Request, 0, len(ids))
	for _, r := range requests {
		if wanted[r.ID] {
			selected = append(selected, r)
		}
	}
	return selected, nil
}

// Reset replaces the snapshot with the given requests. Devtools only.
func (e *Engine) Reset(ctx context.Context, requests []models.Request) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.repo.SaveAll(ctx, requests); err != nil {
		return fmt.Errorf("save requests: %w", err)
	}
	e.logger.Info("Snapshot reset", logger.Int("count", len(requests)))
	return nil
}

func (e *Engine) publish(event events.LifecycleEvent) {
	e.publisher.PublishAsync(event)
}

// eventPayload serializes the intended change for later transport.
func eventPayload(action string, data any) string {
	body := map[string]any{"action": action}
	if data != nil {
		body["data"] = data
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprintf(`{"action":%q}`, action)
	}
	return string(raw)
}

func newEventID() string { return "evt-" + uuid.NewString() }

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
