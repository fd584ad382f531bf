package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPositionNotFound = errors.New("position not found")
	ErrDuplicateTitle   = errors.New("position title already exists")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Position groups members under a title and carries the round-robin cursor.
// The cursor only ever grows; selection uses it modulo the eligible set size.
type Position struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Title             string
	LastAssignedIndex int64
	CreatedAt         time.Time
}

func (r *Repository) CreatePosition(ctx context.Context, tenantID uuid.UUID, title string) (Position, error) {
	var pos Position
	err := r.pool.QueryRow(ctx, `
		INSERT INTO positions (tenant_id, title)
		VALUES ($1, $2)
		RETURNING id, tenant_id, title, last_assigned_index, created_at
	`, tenantID, title).Scan(&pos.ID, &pos.TenantID, &pos.Title, &pos.LastAssignedIndex, &pos.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Position{}, ErrDuplicateTitle
		}
		return Position{}, err
	}
	return pos, nil
}

func (r *Repository) ListPositions(ctx context.Context, tenantID uuid.UUID) ([]Position, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, title, last_assigned_index, created_at
		FROM positions
		WHERE tenant_id = $1
		ORDER BY title ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]Position, 0)
	for rows.Next() {
		var pos Position
		if err := rows.Scan(&pos.ID, &pos.TenantID, &pos.Title, &pos.LastAssignedIndex, &pos.CreatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return positions, nil
}

// FindPosition resolves a position by title. Returns (nil, nil) when the
// tenant has no position row for the title; callers fall back to degraded
// member lookup then.
func (r *Repository) FindPosition(ctx context.Context, tenantID uuid.UUID, title string) (*Position, error) {
	var pos Position
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, title, last_assigned_index, created_at
		FROM positions
		WHERE tenant_id = $1 AND title = $2
	`, tenantID, title).Scan(&pos.ID, &pos.TenantID, &pos.Title, &pos.LastAssignedIndex, &pos.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// AdvanceCursor atomically increments the position's round-robin cursor and
// returns the value it held before the increment. The single-statement
// read-modify-write serializes concurrent callers at the storage layer, so
// two simultaneous stage transitions can never observe the same cursor value.
func (r *Repository) AdvanceCursor(ctx context.Context, id uuid.UUID) (int64, error) {
	var previous int64
	err := r.pool.QueryRow(ctx, `
		UPDATE positions
		SET last_assigned_index = last_assigned_index + 1
		WHERE id = $1
		RETURNING last_assigned_index - 1
	`, id).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrPositionNotFound
	}
	return previous, err
}
