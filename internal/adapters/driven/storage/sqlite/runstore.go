package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

const runColumns = "id, target, namespaces, status, error, resolved, started_at, finished_at"

// Save stores a run. Saving an existing ID replaces it.
func (s *runStore) Save(ctx context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	namespaces := run.Namespaces
	if namespaces == nil {
		namespaces = []string{}
	}
	namespacesJSON, err := json.Marshal(namespaces)
	if err != nil {
		return fmt.Errorf("marshalling namespaces: %w", err)
	}

	var resolved any
	if run.Resolved != nil {
		data, err := json.Marshal(run.Resolved)
		if err != nil {
			return fmt.Errorf("marshalling resolved models: %w", err)
		}
		resolved = string(data)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target = excluded.target,
			namespaces = excluded.namespaces,
			status = excluded.status,
			error = excluded.error,
			resolved = excluded.resolved,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, run.ID, run.Target, string(namespacesJSON), string(run.Status), nullString(run.Error),
		resolved, run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// List returns runs, newest first.
func (s *runStore) List(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs")
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stored timestamps are text, so order on the parsed values.
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var status, namespacesJSON string
	var runErr, resolved sql.NullString

	if err := row.Scan(&run.ID, &run.Target, &namespacesJSON, &status, &runErr, &resolved,
		&run.StartedAt, &run.FinishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	run.Error = runErr.String

	if err := json.Unmarshal([]byte(namespacesJSON), &run.Namespaces); err != nil {
		return nil, fmt.Errorf("unmarshaling namespaces: %w", err)
	}
	if resolved.Valid {
		var models domain.Models
		if err := json.Unmarshal([]byte(resolved.String), &models); err != nil {
			return nil, fmt.Errorf("unmarshaling resolved models: %w", err)
		}
		run.Resolved = &models
	}

	return &run, nil
}
