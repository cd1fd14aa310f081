package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
)

// modelStore implements driven.ModelStore.
type modelStore struct {
	store *Store
}

var _ driven.ModelStore = (*modelStore)(nil)

// Save stores or replaces the document for its namespace.
func (s *modelStore) Save(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.Namespace == "" {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling model %s: %w", doc.Namespace, err)
	}

	now := time.Now().UTC()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO models (namespace, document, declarations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			document = excluded.document,
			declarations = excluded.declarations,
			updated_at = excluded.updated_at
	`, doc.Namespace, string(data), len(doc.Declarations), now, now)
	if err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	return nil
}

// Get retrieves a document by namespace.
func (s *modelStore) Get(ctx context.Context, namespace string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT document FROM models WHERE namespace = ?", namespace)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning model: %w", err)
	}
	return decodeDocument(data)
}

// List returns all documents ordered by namespace.
func (s *modelStore) List(ctx context.Context) ([]*domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT document FROM models ORDER BY namespace")
	if err != nil {
		return nil, fmt.Errorf("querying models: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		doc, err := decodeDocument(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document.
func (s *modelStore) Delete(ctx context.Context, namespace string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM models WHERE namespace = ?", namespace)
	if err != nil {
		return fmt.Errorf("deleting model: %w", err)
	}
	return nil
}

func decodeDocument(data string) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling model: %w", err)
	}
	return &doc, nil
}
