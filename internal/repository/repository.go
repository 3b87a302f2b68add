// Package repository persists the request collection as a single snapshot
// document. Every mutating engine operation reads the whole snapshot,
// computes a new one, and writes it back as a unit; atomicity of the write
// is the repository's only concurrency guarantee.
package repository

import (
	"context"
	"time"

	"github.com/jonesrussell/request-manager/internal/models"
)

// CurrentSchemaVersion gates the persisted document. A stored document with
// a different version is treated as absent, never partially migrated.
const CurrentSchemaVersion = 3

// SnapshotDocument is the persisted shape of the request collection.
type SnapshotDocument struct {
	SchemaVersion int              `json:"schemaVersion"`
	Requests      []models.Request `json:"requests"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// SnapshotRepository stores the request collection as one replaceable
// snapshot.
type SnapshotRepository interface {
	// LoadAll returns the current snapshot. An absent or schema-mismatched
	// store yields an empty snapshot, not an error.
	LoadAll(ctx context.Context) ([]models.Request, error)
	// SaveAll replaces the entire snapshot.
	SaveAll(ctx context.Context, requests []models.Request) error
}
