// Package service implements the pipeline stage automation engine: the
// re-entry guard, round-robin assignment and task materialization that run
// when a lead first enters a pipeline stage.
package service

import (
	"context"
	"time"

	"leadflow_backend/internal/automation/repository"

	"github.com/google/uuid"
)

// Position is the engine's view of an assignable role. The cursor itself is
// engine-owned state and only ever moves through AdvanceCursor.
type Position struct {
	ID    uuid.UUID
	Title string
}

// Member is the engine's view of an assignee.
type Member struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Lead is the engine's view of the record that triggered automation.
type Lead struct {
	ID   uuid.UUID
	Name string
}

// CreatedTask describes a work item the engine materialized.
type CreatedTask struct {
	ID       uuid.UUID
	MemberID uuid.UUID
	Title    string
	DueAt    time.Time
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

// TaskAssignment carries everything a notification about a freshly created
// task needs.
type TaskAssignment struct {
	Task     CreatedTask
	TenantID uuid.UUID
	LeadID   uuid.UUID
	LeadName string
	RuleID   uuid.UUID
	Stage    string
	Member   Member
}

// AuditEntry is a row the engine appends to the tenant audit trail.
type AuditEntry struct {
	TenantID uuid.UUID
	LeadID   uuid.UUID
	Action   string
	Detail   map[string]any
}

// VisitLedger is the per-(lead, stage) re-entry guard. InsertIfAbsent must
// report false, not an error, when another caller already recorded the visit.
type VisitLedger interface {
	Exists(ctx context.Context, leadID uuid.UUID, stage string) (bool, error)
	InsertIfAbsent(ctx context.Context, leadID uuid.UUID, stage string, tenantID uuid.UUID) (bool, error)
}

// RuleSource yields the active automation rules for a (tenant, stage) pair.
type RuleSource interface {
	FindActive(ctx context.Context, tenantID uuid.UUID, stage string) ([]repository.Rule, error)
}

// PositionDirectory resolves positions by title and owns the round-robin
// cursor. Find returns (nil, nil) when no position carries the title.
// AdvanceCursor atomically increments the cursor and returns its value from
// before the increment.
type PositionDirectory interface {
	Find(ctx context.Context, tenantID uuid.UUID, title string) (*Position, error)
	AdvanceCursor(ctx context.Context, positionID uuid.UUID) (int64, error)
}

// MemberDirectory lists assignable members. Eligible means active and
// available, ordered by creation time so the rotation order is stable.
// FindEarliestEligibleByTitle is the fallback when no position row exists for
// a template's title; it returns (nil, nil) when nobody matches.
type MemberDirectory interface {
	FindEligible(ctx context.Context, positionID uuid.UUID) ([]Member, error)
	FindEarliestEligibleByTitle(ctx context.Context, tenantID uuid.UUID, title string) (*Member, error)
}

// LeadDirectory reads the triggering lead and records its assignee. When
// multiple templates resolve assignees for the same lead, each SetAssignee
// overwrites the previous one; the last template wins.
type LeadDirectory interface {
	Get(ctx context.Context, leadID, tenantID uuid.UUID) (*Lead, error)
	SetAssignee(ctx context.Context, leadID, tenantID, memberID uuid.UUID) error
}

// TaskCreator persists materialized work items.
type TaskCreator interface {
	Create(ctx context.Context, params CreateTaskParams) (CreatedTask, error)
}

// Notifier delivers the task-assigned notification. Delivery is best effort;
// the engine logs and continues when it fails.
type Notifier interface {
	TaskAssigned(ctx context.Context, assignment TaskAssignment) error
}

// AuditTrail appends entries to the tenant audit log.
type AuditTrail interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// ReminderScheduler enqueues a due-soon reminder for a task. Like
// notifications this is best effort.
type ReminderScheduler interface {
	ScheduleTaskDueReminder(ctx context.Context, taskID, tenantID uuid.UUID, runAt time.Time) error
}
