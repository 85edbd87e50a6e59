package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	repoTimeout = 5 * time.Second

	// PageSize is the fixed directory listing window.
	PageSize = 20
)

const entityColumns = "id, user_id, name, type, parent_id, is_public, local_path, created_at, updated_at"

// Repository provides access to entity metadata storage.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new entity repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new entity; the id is assigned by the store.
func (r *Repository) Create(ctx context.Context, e Entity) (Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO files (user_id, name, type, parent_id, is_public, local_path)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
RETURNING ` + entityColumns + `;`

	row := r.pool.QueryRow(ctx, query,
		e.UserID,
		e.Name,
		e.Type,
		e.ParentID,
		e.IsPublic,
		e.LocalPath,
	)

	stored, err := scanEntity(row)
	if err != nil {
		return Entity{}, fmt.Errorf("create entity: %w", err)
	}
	return stored, nil
}

// Get fetches a single entity by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `SELECT ` + entityColumns + ` FROM files WHERE id = $1;`

	e, err := scanEntity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entity{}, ErrNotFound
		}
		return Entity{}, fmt.Errorf("get entity: %w", err)
	}
	return e, nil
}

// ListByParent returns the page-th window of entities under a parent, in
// insertion order. The match predicate is the parent alone.
func (r *Repository) ListByParent(ctx context.Context, parentID uuid.NullUUID, page int) ([]Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT ` + entityColumns + `
FROM files
WHERE parent_id IS NOT DISTINCT FROM $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3;`

	rows, err := r.pool.Query(ctx, query, parentID, PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return entities, nil
}

// SetPublic flips the visibility flag of an entity owned by userID. The
// ownership check is folded into the update predicate so an entity owned by
// someone else is indistinguishable from a missing one.
func (r *Repository) SetPublic(ctx context.Context, id, userID uuid.UUID, public bool) (Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
UPDATE files
SET is_public = $3, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + entityColumns + `;`

	e, err := scanEntity(r.pool.QueryRow(ctx, query, id, userID, public))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entity{}, ErrNotFound
		}
		return Entity{}, fmt.Errorf("set entity visibility: %w", err)
	}
	return e, nil
}

// Count returns the number of stored entities.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entities: %w", err)
	}
	return n, nil
}

func scanEntity(row pgx.Row) (Entity, error) {
	var (
		e         Entity
		localPath *string
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.Type,
		&e.ParentID,
		&e.IsPublic,
		&localPath,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return Entity{}, err
	}
	if localPath != nil {
		e.LocalPath = *localPath
	}
	return e, nil
}
