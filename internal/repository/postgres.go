package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/request-manager/internal/logger"
	"github.com/jonesrussell/request-manager/internal/models"
)

// snapshotRowID pins the store to a single document row.
const snapshotRowID = 1

// PostgresStore keeps the snapshot document in one JSONB row.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresStore returns a snapshot store backed by the given database.
func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log,
	}
}

// LoadAll reads the snapshot document. No row, or a document whose
// schemaVersion differs from CurrentSchemaVersion, yields an empty
// snapshot.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]models.Request, error) {
	query := `
		SELECT document
		FROM request_snapshots
		WHERE id = $1
	`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, snapshotRowID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Request{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	var doc SnapshotDocument
	if unmarshalErr := json.Unmarshal(raw, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", unmarshalErr)
	}

	if doc.SchemaVersion != CurrentSchemaVersion {
		s.logger.Warn("Snapshot schema version mismatch, treating store as absent",
			logger.Int("found", doc.SchemaVersion),
			logger.Int("expected", CurrentSchemaVersion),
		)
		return []models.Request{}, nil
	}

	if doc.Requests == nil {
		return []models.Request{}, nil
	}
	return doc.Requests, nil
}

// SaveAll replaces the snapshot document.
func (s *PostgresStore) SaveAll(ctx context.Context, requests []models.Request) error {
	doc := SnapshotDocument{
		SchemaVersion: CurrentSchemaVersion,
		Requests:      requests,
		UpdatedAt:     time.Now().UTC(),
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO request_snapshots (id, schema_version, document, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`

	if _, execErr := s.db.ExecContext(ctx, query, snapshotRowID, CurrentSchemaVersion, raw, doc.UpdatedAt); execErr != nil {
		return fmt.Errorf("save snapshot: %w", execErr)
	}

	return nil
}
