package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	Name             string
	Phone            string
	Email            *string
	Source           *string
	PipelineStage    string
	AssignedMemberID *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateLeadParams struct {
	TenantID      uuid.UUID
	Name          string
	Phone         string
	Email         *string
	Source        *string
	PipelineStage string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (tenant_id, name, phone, email, source, pipeline_stage)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, tenant_id, name, phone, email, source, pipeline_stage, assigned_member_id, created_at, updated_at
	`, params.TenantID, params.Name, params.Phone, params.Email, params.Source, params.PipelineStage).Scan(
		&lead.ID, &lead.TenantID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source,
		&lead.PipelineStage, &lead.AssignedMemberID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, phone, email, source, pipeline_stage, assigned_member_id, created_at, updated_at
		FROM leads WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&lead.ID, &lead.TenantID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source,
		&lead.PipelineStage, &lead.AssignedMemberID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListLeadsParams struct {
	TenantID uuid.UUID
	Stage    string
	Limit    int
	Offset   int
}

func (r *Repository) List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads
		WHERE tenant_id = $1 AND ($2 = '' OR pipeline_stage = $2)
	`, params.TenantID, params.Stage).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, name, phone, email, source, pipeline_stage, assigned_member_id, created_at, updated_at
		FROM leads
		WHERE tenant_id = $1 AND ($2 = '' OR pipeline_stage = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, params.TenantID, params.Stage, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0, params.Limit)
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.TenantID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source,
			&lead.PipelineStage, &lead.AssignedMemberID, &lead.CreatedAt, &lead.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// UpdateStage persists the lead's move into a new pipeline stage.
func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, stage string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET pipeline_stage = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID, stage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAssignee records the member who most recently received automated work
// for the lead. Last writer wins.
func (r *Repository) SetAssignee(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, memberID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET assigned_member_id = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID, memberID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
