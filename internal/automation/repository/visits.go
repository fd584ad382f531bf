package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VisitRepository is the stage re-entry ledger. One row exists per
// (lead, stage) pair the first time automation ran for it; rows are only
// ever inserted, never updated. The UNIQUE(lead_id, stage) constraint is
// what collapses concurrent triggers into a single winner.
type VisitRepository struct {
	pool *pgxpool.Pool
}

func NewVisitRepository(pool *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{pool: pool}
}

// Exists reports whether the lead has already entered the stage.
func (r *VisitRepository) Exists(ctx context.Context, leadID uuid.UUID, stage string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM stage_visits WHERE lead_id = $1 AND stage = $2
		)
	`, leadID, stage).Scan(&exists)
	return exists, err
}

// InsertIfAbsent records the visit. It returns false when another caller won
// the race and the row already exists; a unique violation is not an error.
func (r *VisitRepository) InsertIfAbsent(ctx context.Context, leadID uuid.UUID, stage string, tenantID uuid.UUID) (bool, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stage_visits (lead_id, stage, tenant_id)
		VALUES ($1, $2, $3)
	`, leadID, stage, tenantID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
