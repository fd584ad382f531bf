package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRuleNotFound = errors.New("automation rule not found")

// DefaultDueInHours applies when a task template does not specify a due window.
const DefaultDueInHours = 24

// TaskTemplate is one unit of work an automation rule generates. Templates
// are stored as JSONB and validated into this typed form at ingestion, so
// the engine never touches untyped JSON.
type TaskTemplate struct {
	Title                 string `json:"title"`
	Description           string `json:"description,omitempty"`
	AssigneePositionTitle string `json:"assigneePositionTitle"`
	DueInHours            int    `json:"dueInHours,omitempty"`
}

// Rule triggers task generation when a lead first enters its pipeline stage.
type Rule struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	PipelineStage string
	Active        bool
	TaskTemplates []TaskTemplate
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateTemplates checks template invariants and applies the due-window
// default. It mutates the slice in place.
func ValidateTemplates(templates []TaskTemplate) error {
	if len(templates) == 0 {
		return apperr.Validation("a rule requires at least one task template")
	}
	for i := range templates {
		if templates[i].Title == "" {
			return apperr.Validation("task template title is required")
		}
		if templates[i].AssigneePositionTitle == "" {
			return apperr.Validation("task template assignee position is required")
		}
		if templates[i].DueInHours < 0 {
			return apperr.Validation("task template dueInHours must not be negative")
		}
		if templates[i].DueInHours == 0 {
			templates[i].DueInHours = DefaultDueInHours
		}
	}
	return nil
}

type RuleRepository struct {
	pool *pgxpool.Pool
}

func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

type CreateRuleParams struct {
	TenantID      uuid.UUID
	PipelineStage string
	Active        bool
	TaskTemplates []TaskTemplate
}

func (r *RuleRepository) Create(ctx context.Context, params CreateRuleParams) (Rule, error) {
	if err := ValidateTemplates(params.TaskTemplates); err != nil {
		return Rule{}, err
	}

	templates, err := json.Marshal(params.TaskTemplates)
	if err != nil {
		return Rule{}, err
	}

	var rule Rule
	var raw []byte
	err = r.pool.QueryRow(ctx, `
		INSERT INTO automation_rules (tenant_id, pipeline_stage, active, task_templates)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tenant_id, pipeline_stage, active, task_templates, created_at, updated_at
	`, params.TenantID, params.PipelineStage, params.Active, templates).Scan(
		&rule.ID, &rule.TenantID, &rule.PipelineStage, &rule.Active, &raw, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return Rule{}, err
	}
	if err := json.Unmarshal(raw, &rule.TaskTemplates); err != nil {
		return Rule{}, err
	}

	return rule, nil
}

// FindActive returns the active rules for (tenant, stage). An empty result
// is a normal outcome. A rule whose stored template JSON no longer parses
// into the typed form is treated as inactive rather than failing the whole
// lookup.
func (r *RuleRepository) FindActive(ctx context.Context, tenantID uuid.UUID, stage string) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, pipeline_stage, active, task_templates, created_at, updated_at
		FROM automation_rules
		WHERE tenant_id = $1 AND pipeline_stage = $2 AND active = TRUE
		ORDER BY created_at ASC
	`, tenantID, stage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRules(rows, true)
}

func (r *RuleRepository) List(ctx context.Context, tenantID uuid.UUID) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, pipeline_stage, active, task_templates, created_at, updated_at
		FROM automation_rules
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRules(rows, false)
}

func (r *RuleRepository) SetActive(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE automation_rules SET active = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func scanRules(rows pgx.Rows, skipMalformed bool) ([]Rule, error) {
	rules := make([]Rule, 0)
	for rows.Next() {
		var rule Rule
		var raw []byte
		if err := rows.Scan(
			&rule.ID, &rule.TenantID, &rule.PipelineStage, &rule.Active, &raw, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &rule.TaskTemplates); err != nil {
			if skipMalformed {
				continue
			}
			return nil, err
		}
		rules = append(rules, rule)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return rules, nil
}
