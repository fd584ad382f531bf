package automation

import (
	"context"

	"leadflow_backend/internal/audit"
	"leadflow_backend/internal/automation/service"
	"leadflow_backend/internal/events"
	leadsrepo "leadflow_backend/internal/leads/repository"
	tasksrepo "leadflow_backend/internal/tasks/repository"
	teamrepo "leadflow_backend/internal/team/repository"

	"github.com/google/uuid"
)

// The adapters below bind the engine's ports to the other bounded contexts'
// repositories. The engine itself never imports those packages.

type positionAdapter struct {
	repo *teamrepo.Repository
}

func (a *positionAdapter) Find(ctx context.Context, tenantID uuid.UUID, title string) (*service.Position, error) {
	position, err := a.repo.FindPosition(ctx, tenantID, title)
	if err != nil || position == nil {
		return nil, err
	}
	return &service.Position{ID: position.ID, Title: position.Title}, nil
}

func (a *positionAdapter) AdvanceCursor(ctx context.Context, positionID uuid.UUID) (int64, error) {
	return a.repo.AdvanceCursor(ctx, positionID)
}

type memberAdapter struct {
	repo *teamrepo.Repository
}

func (a *memberAdapter) FindEligible(ctx context.Context, positionID uuid.UUID) ([]service.Member, error) {
	members, err := a.repo.FindEligible(ctx, positionID)
	if err != nil {
		return nil, err
	}
	out := make([]service.Member, 0, len(members))
	for _, m := range members {
		out = append(out, service.Member{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	return out, nil
}

func (a *memberAdapter) FindEarliestEligibleByTitle(ctx context.Context, tenantID uuid.UUID, title string) (*service.Member, error) {
	member, err := a.repo.FindEarliestEligibleByTitle(ctx, tenantID, title)
	if err != nil || member == nil {
		return nil, err
	}
	return &service.Member{ID: member.ID, Name: member.Name, Email: member.Email}, nil
}

type leadAdapter struct {
	repo *leadsrepo.Repository
}

func (a *leadAdapter) Get(ctx context.Context, leadID, tenantID uuid.UUID) (*service.Lead, error) {
	lead, err := a.repo.GetByID(ctx, leadID, tenantID)
	if err != nil {
		return nil, err
	}
	return &service.Lead{ID: lead.ID, Name: lead.Name}, nil
}

func (a *leadAdapter) SetAssignee(ctx context.Context, leadID, tenantID, memberID uuid.UUID) error {
	return a.repo.SetAssignee(ctx, leadID, tenantID, memberID)
}

type taskAdapter struct {
	repo *tasksrepo.Repository
}

func (a *taskAdapter) Create(ctx context.Context, params service.CreateTaskParams) (service.CreatedTask, error) {
	task, err := a.repo.Create(ctx, tasksrepo.CreateTaskParams{
		TenantID:    params.TenantID,
		LeadID:      params.LeadID,
		RuleID:      params.RuleID,
		MemberID:    params.MemberID,
		Title:       params.Title,
		Description: params.Description,
		DueAt:       params.DueAt,
	})
	if err != nil {
		return service.CreatedTask{}, err
	}
	return service.CreatedTask{ID: task.ID, MemberID: task.MemberID, Title: task.Title, DueAt: task.DueAt}, nil
}

type auditAdapter struct {
	repo *audit.Repository
}

func (a *auditAdapter) Append(ctx context.Context, entry service.AuditEntry) error {
	leadID := entry.LeadID
	return a.repo.Append(ctx, audit.AppendParams{
		TenantID: entry.TenantID,
		LeadID:   &leadID,
		Actor:    audit.ActorAutomation,
		Action:   entry.Action,
		Detail:   entry.Detail,
	})
}

// eventNotifier publishes TaskAssigned on the in-process bus. The
// notification module picks it up for in-app and email delivery, keeping
// the engine decoupled from delivery channels.
type eventNotifier struct {
	bus events.Bus
}

func (n *eventNotifier) TaskAssigned(ctx context.Context, assignment service.TaskAssignment) error {
	return n.bus.PublishSync(ctx, events.TaskAssigned{
		BaseEvent:   events.NewBaseEvent(),
		TaskID:      assignment.Task.ID,
		TenantID:    assignment.TenantID,
		LeadID:      assignment.LeadID,
		LeadName:    assignment.LeadName,
		RuleID:      assignment.RuleID,
		MemberID:    assignment.Member.ID,
		MemberEmail: assignment.Member.Email,
		MemberName:  assignment.Member.Name,
		Title:       assignment.Task.Title,
		Stage:       assignment.Stage,
		DueAt:       assignment.Task.DueAt,
	})
}
