// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return events.NewBaseEvent()
}

// LeadCreated is published after a new lead is persisted.
type LeadCreated struct {
	BaseEvent
	LeadID   uuid.UUID
	TenantID uuid.UUID
	Stage    string
}

func (LeadCreated) EventName() string { return "lead.created" }

// LeadStageChanged is published after a lead's pipeline stage move has been
// committed. Automation runs off this fact, never ahead of it.
type LeadStageChanged struct {
	BaseEvent
	LeadID    uuid.UUID
	TenantID  uuid.UUID
	FromStage string
	ToStage   string
}

func (LeadStageChanged) EventName() string { return "lead.stage_changed" }

// TaskAssigned is published when the automation engine materializes a task
// for a member. The notification module fans it out in-app and by email.
type TaskAssigned struct {
	BaseEvent
	TaskID      uuid.UUID
	TenantID    uuid.UUID
	LeadID      uuid.UUID
	LeadName    string
	RuleID      uuid.UUID
	MemberID    uuid.UUID
	MemberEmail string
	MemberName  string
	Title       string
	Stage       string
	DueAt       time.Time
}

func (TaskAssigned) EventName() string { return "task.assigned" }

// TaskDueSoon is published by the scheduler worker when a pending task
// approaches its due date.
type TaskDueSoon struct {
	BaseEvent
	TaskID      uuid.UUID
	TenantID    uuid.UUID
	MemberID    uuid.UUID
	MemberEmail string
	MemberName  string
	Title       string
	DueAt       time.Time
}

func (TaskDueSoon) EventName() string { return "task.due_soon" }
