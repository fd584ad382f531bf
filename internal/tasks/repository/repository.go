package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("task not found")

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Task is a generated work item. Tasks are only ever created by the
// automation engine; completion happens through the API.
type Task struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	LeadID      uuid.UUID
	RuleID      uuid.UUID
	MemberID    uuid.UUID
	Title       string
	Description string
	Status      string
	DueAt       time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type CreateTaskParams struct {
	TenantID    uuid.UUID
	LeadID      uuid.UUID
	RuleID      uuid.UUID
	MemberID    uuid.UUID
	Title       string
	Description string
	DueAt       time.Time
}

func (r *Repository) Create(ctx context.Context, params CreateTaskParams) (Task, error) {
	var task Task
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (tenant_id, lead_id, rule_id, member_id, title, description, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, tenant_id, lead_id, rule_id, member_id, title, description, status, due_at, created_at, completed_at
	`, params.TenantID, params.LeadID, params.RuleID, params.MemberID, params.Title, params.Description, params.DueAt).Scan(
		&task.ID, &task.TenantID, &task.LeadID, &task.RuleID, &task.MemberID,
		&task.Title, &task.Description, &task.Status, &task.DueAt, &task.CreatedAt, &task.CompletedAt,
	)
	return task, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (Task, error) {
	var task Task
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, lead_id, rule_id, member_id, title, description, status, due_at, created_at, completed_at
		FROM tasks WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&task.ID, &task.TenantID, &task.LeadID, &task.RuleID, &task.MemberID,
		&task.Title, &task.Description, &task.Status, &task.DueAt, &task.CreatedAt, &task.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return task, err
}

func (r *Repository) ListByMember(ctx context.Context, tenantID, memberID uuid.UUID, status string) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, lead_id, rule_id, member_id, title, description, status, due_at, created_at, completed_at
		FROM tasks
		WHERE tenant_id = $1 AND member_id = $2 AND ($3 = '' OR status = $3)
		ORDER BY due_at ASC
	`, tenantID, memberID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *Repository) ListByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, lead_id, rule_id, member_id, title, description, status, due_at, created_at, completed_at
		FROM tasks
		WHERE tenant_id = $1 AND lead_id = $2
		ORDER BY created_at ASC
	`, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Complete marks a pending task completed. Completing an already completed
// task is a no-op conflict surfaced to the caller.
func (r *Repository) Complete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (Task, error) {
	var task Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks SET status = $3, completed_at = now()
		WHERE id = $1 AND tenant_id = $2 AND status = $4
		RETURNING id, tenant_id, lead_id, rule_id, member_id, title, description, status, due_at, created_at, completed_at
	`, id, tenantID, StatusCompleted, StatusPending).Scan(
		&task.ID, &task.TenantID, &task.LeadID, &task.RuleID, &task.MemberID,
		&task.Title, &task.Description, &task.Status, &task.DueAt, &task.CreatedAt, &task.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return task, err
}

// ListDueBetween returns pending tasks with a due date inside [from, to).
// The reminder job queries one business-day window at a time.
func (r *Repository) ListDueBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, lead_id, rule_id, member_id, title, description, status, due_at, created_at, completed_at
		FROM tasks
		WHERE tenant_id = $1 AND status = $2 AND due_at >= $3 AND due_at < $4
		ORDER BY due_at ASC
	`, tenantID, StatusPending, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]Task, error) {
	tasks := make([]Task, 0)
	for rows.Next() {
		var task Task
		if err := rows.Scan(
			&task.ID, &task.TenantID, &task.LeadID, &task.RuleID, &task.MemberID,
			&task.Title, &task.Description, &task.Status, &task.DueAt, &task.CreatedAt, &task.CompletedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return tasks, nil
}
