// Package audit provides the append-only audit trail. Entries are written
// and listed, never updated or deleted.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Action constants recorded by the automation engine.
const (
	ActionStageEntered         = "stage.entered"
	ActionAutomationTaskCreate = "automation.task_created"
)

// ActorAutomation identifies engine-written entries; API-written entries
// carry the acting user's ID instead.
const ActorAutomation = "automation"

type Entry struct {
	ID        uuid.UUID       `json:"id"`
	TenantID  uuid.UUID       `json:"tenantId"`
	LeadID    *uuid.UUID      `json:"leadId,omitempty"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type AppendParams struct {
	TenantID uuid.UUID
	LeadID   *uuid.UUID
	Actor    string
	Action   string
	Detail   map[string]any
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append writes one audit entry.
func (r *Repository) Append(ctx context.Context, params AppendParams) error {
	detail, err := json.Marshal(params.Detail)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_log (tenant_id, lead_id, actor, action, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, params.TenantID, params.LeadID, params.Actor, params.Action, detail)
	return err
}

// ListByLead returns the audit entries for a lead, newest first.
func (r *Repository) ListByLead(ctx context.Context, tenantID, leadID uuid.UUID, limit int) ([]Entry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, lead_id, actor, action, detail, created_at
		FROM audit_log
		WHERE tenant_id = $1 AND lead_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, tenantID, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.LeadID, &entry.Actor, &entry.Action, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}
