package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrMemberNotFound = errors.New("member not found")

// Member is a staff member who can receive automated work. Eligibility for
// round-robin assignment requires active AND available.
type Member struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	PositionID    *uuid.UUID
	PositionTitle string
	Name          string
	Email         string
	Active        bool
	Available     bool
	CreatedAt     time.Time
}

type CreateMemberParams struct {
	TenantID      uuid.UUID
	PositionID    *uuid.UUID
	PositionTitle string
	Name          string
	Email         string
}

func (r *Repository) CreateMember(ctx context.Context, params CreateMemberParams) (Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		INSERT INTO members (tenant_id, position_id, position_title, name, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tenant_id, position_id, position_title, name, email, active, available, created_at
	`, params.TenantID, params.PositionID, params.PositionTitle, params.Name, params.Email).Scan(
		&m.ID, &m.TenantID, &m.PositionID, &m.PositionTitle, &m.Name, &m.Email, &m.Active, &m.Available, &m.CreatedAt,
	)
	return m, err
}

func (r *Repository) ListMembers(ctx context.Context, tenantID uuid.UUID) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, position_id, position_title, name, email, active, available, created_at
		FROM members
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMembers(rows)
}

func (r *Repository) GetMember(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, position_id, position_title, name, email, active, available, created_at
		FROM members
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&m.ID, &m.TenantID, &m.PositionID, &m.PositionTitle, &m.Name, &m.Email, &m.Active, &m.Available, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrMemberNotFound
	}
	return m, err
}

// SetMemberFlags updates the active and available flags (day-off handling).
func (r *Repository) SetMemberFlags(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, active, available bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE members SET active = $3, available = $4
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID, active, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// FindEligible returns the currently eligible members of a position, ordered
// by creation time ascending. Creation-time ordering fixes a deterministic
// rotation for round-robin selection.
func (r *Repository) FindEligible(ctx context.Context, positionID uuid.UUID) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, position_id, position_title, name, email, active, available, created_at
		FROM members
		WHERE position_id = $1 AND active = TRUE AND available = TRUE
		ORDER BY created_at ASC
	`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMembers(rows)
}

// FindEarliestEligibleByTitle is the degraded-mode lookup for legacy data
// where no position row exists: it matches members by the raw title string
// and returns the earliest-created eligible one, or (nil, nil).
func (r *Repository) FindEarliestEligibleByTitle(ctx context.Context, tenantID uuid.UUID, title string) (*Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, position_id, position_title, name, email, active, available, created_at
		FROM members
		WHERE tenant_id = $1 AND position_title = $2 AND active = TRUE AND available = TRUE
		ORDER BY created_at ASC
		LIMIT 1
	`, tenantID, title).Scan(
		&m.ID, &m.TenantID, &m.PositionID, &m.PositionTitle, &m.Name, &m.Email, &m.Active, &m.Available, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMembers(rows pgx.Rows) ([]Member, error) {
	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		if err := rows.Scan(
			&m.ID, &m.TenantID, &m.PositionID, &m.PositionTitle, &m.Name, &m.Email, &m.Active, &m.Available, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return members, nil
}
