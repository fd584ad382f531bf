package service

import (
	"context"
	"time"

	"leadflow_backend/internal/automation/repository"
	"leadflow_backend/internal/audit"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/timeutil"

	"github.com/google/uuid"
)

// Materializer turns one task template into a persisted task plus its
// side effects: lead assignment, in-app notification, audit entry and a
// due-soon reminder.
type Materializer struct {
	assignor  *Assignor
	tasks     TaskCreator
	leads     LeadDirectory
	notifier  Notifier
	auditor   AuditTrail
	reminders ReminderScheduler
	reminder  time.Duration
	cutover   int
	now       func() time.Time
	log       *logger.Logger
}

type MaterializerDeps struct {
	Assignor  *Assignor
	Tasks     TaskCreator
	Leads     LeadDirectory
	Notifier  Notifier
	Audit     AuditTrail
	Reminders ReminderScheduler
	// ReminderLead is how long before due time the reminder fires.
	ReminderLead time.Duration
	// CutoverHour is the business-day rollover hour used to clamp reminders.
	CutoverHour int
	Now         func() time.Time
	Logger      *logger.Logger
}

func NewMaterializer(deps MaterializerDeps) *Materializer {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Materializer{
		assignor:  deps.Assignor,
		tasks:     deps.Tasks,
		leads:     deps.Leads,
		notifier:  deps.Notifier,
		auditor:   deps.Audit,
		reminders: deps.Reminders,
		reminder:  deps.ReminderLead,
		cutover:   deps.CutoverHour,
		now:       now,
		log:       deps.Logger,
	}
}

// Materialize creates the task for one template. A nil task with a nil error
// means the template was skipped because no assignee was eligible; the rule's
// other templates still execute. Task creation, lead assignment and the audit
// entry are required; notification and reminder delivery are best effort.
func (m *Materializer) Materialize(ctx context.Context, lead *Lead, rule repository.Rule, tmpl repository.TaskTemplate, tenantID uuid.UUID) (*CreatedTask, error) {
	member, err := m.assignor.NextMember(ctx, tenantID, tmpl.AssigneePositionTitle)
	if err != nil {
		return nil, err
	}
	if member == nil {
		m.log.Warn("automation_template_skipped",
			"lead_id", lead.ID.String(),
			"rule_id", rule.ID.String(),
			"position", tmpl.AssigneePositionTitle,
			"reason", "no eligible assignee",
		)
		return nil, nil
	}

	dueInHours := tmpl.DueInHours
	if dueInHours <= 0 {
		dueInHours = repository.DefaultDueInHours
	}
	dueAt := m.now().Add(time.Duration(dueInHours) * time.Hour)

	task, err := m.tasks.Create(ctx, CreateTaskParams{
		TenantID:    tenantID,
		LeadID:      lead.ID,
		RuleID:      rule.ID,
		MemberID:    member.ID,
		Title:       tmpl.Title,
		Description: tmpl.Description,
		DueAt:       dueAt,
	})
	if err != nil {
		return nil, err
	}

	// Last writer wins: a later template for the same lead overwrites this.
	if err := m.leads.SetAssignee(ctx, lead.ID, tenantID, member.ID); err != nil {
		return nil, err
	}

	if err := m.auditor.Append(ctx, AuditEntry{
		TenantID: tenantID,
		LeadID:   lead.ID,
		Action:   audit.ActionAutomationTaskCreate,
		Detail: map[string]any{
			"taskId":   task.ID.String(),
			"ruleId":   rule.ID.String(),
			"stage":    rule.PipelineStage,
			"memberId": member.ID.String(),
			"title":    tmpl.Title,
		},
	}); err != nil {
		return nil, err
	}

	if err := m.notifier.TaskAssigned(ctx, TaskAssignment{
		Task:     task,
		TenantID: tenantID,
		LeadID:   lead.ID,
		LeadName: lead.Name,
		RuleID:   rule.ID,
		Stage:    rule.PipelineStage,
		Member:   *member,
	}); err != nil {
		m.log.Warn("automation_notify_failed",
			"task_id", task.ID.String(),
			"member_id", member.ID.String(),
			"error", err.Error(),
		)
	}

	if m.reminders != nil {
		// The reminder fires within the due date's business day: a lead that
		// would push it before the cutover hour lands on the day start instead.
		runAt := dueAt.Add(-m.reminder)
		if dayStart := timeutil.BusinessDayStart(dueAt, m.cutover); runAt.Before(dayStart) {
			runAt = dayStart
		}
		if err := m.reminders.ScheduleTaskDueReminder(ctx, task.ID, tenantID, runAt); err != nil {
			m.log.Warn("automation_reminder_failed",
				"task_id", task.ID.String(),
				"error", err.Error(),
			)
		}
	}

	return &task, nil
}
