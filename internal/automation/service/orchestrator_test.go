package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/automation/repository"
	"leadflow_backend/internal/audit"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLedger struct {
	visits     map[string]bool
	loseRace   bool
	existsErr  error
	insertErr  error
	insertions int
}

func visitKey(leadID uuid.UUID, stage string) string {
	return leadID.String() + "|" + stage
}

func (f *fakeLedger) Exists(_ context.Context, leadID uuid.UUID, stage string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.visits[visitKey(leadID, stage)], nil
}

func (f *fakeLedger) InsertIfAbsent(_ context.Context, leadID uuid.UUID, stage string, _ uuid.UUID) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if f.loseRace || f.visits[visitKey(leadID, stage)] {
		return false, nil
	}
	f.visits[visitKey(leadID, stage)] = true
	f.insertions++
	return true, nil
}

type fakeRules struct {
	rules []repository.Rule
	err   error
	panic bool
}

func (f *fakeRules) FindActive(_ context.Context, _ uuid.UUID, _ string) ([]repository.Rule, error) {
	if f.panic {
		panic("rules source blew up")
	}
	return f.rules, f.err
}

type fakeLeadDir struct {
	lead     Lead
	assignee uuid.UUID
	setCalls int
}

func (f *fakeLeadDir) Get(_ context.Context, _, _ uuid.UUID) (*Lead, error) {
	lead := f.lead
	return &lead, nil
}

func (f *fakeLeadDir) SetAssignee(_ context.Context, _, _, memberID uuid.UUID) error {
	f.assignee = memberID
	f.setCalls++
	return nil
}

type fakeTasks struct {
	created     []CreateTaskParams
	failOnTitle string
}

func (f *fakeTasks) Create(_ context.Context, params CreateTaskParams) (CreatedTask, error) {
	if f.failOnTitle != "" && params.Title == f.failOnTitle {
		return CreatedTask{}, errors.New("insert failed")
	}
	f.created = append(f.created, params)
	return CreatedTask{ID: uuid.New(), MemberID: params.MemberID, Title: params.Title, DueAt: params.DueAt}, nil
}

type fakeNotifier struct {
	assignments []TaskAssignment
	err         error
}

func (f *fakeNotifier) TaskAssigned(_ context.Context, assignment TaskAssignment) error {
	if f.err != nil {
		return f.err
	}
	f.assignments = append(f.assignments, assignment)
	return nil
}

type fakeAudit struct {
	entries []AuditEntry
}

func (f *fakeAudit) Append(_ context.Context, entry AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) countAction(action string) int {
	n := 0
	for _, entry := range f.entries {
		if entry.Action == action {
			n++
		}
	}
	return n
}

type fakeReminders struct {
	runAts []time.Time
}

func (f *fakeReminders) ScheduleTaskDueReminder(_ context.Context, _, _ uuid.UUID, runAt time.Time) error {
	f.runAts = append(f.runAts, runAt)
	return nil
}

type engineFixture struct {
	orchestrator *Orchestrator
	ledger       *fakeLedger
	rules        *fakeRules
	leads        *fakeLeadDir
	tasks        *fakeTasks
	notifier     *fakeNotifier
	audit        *fakeAudit
	reminders    *fakeReminders
	positions    *fakePositions
	members      *fakeMembers
	now          time.Time
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	fix := &engineFixture{
		ledger:    &fakeLedger{visits: map[string]bool{}},
		rules:     &fakeRules{},
		leads:     &fakeLeadDir{lead: Lead{ID: uuid.New(), Name: "Acme Corp"}},
		tasks:     &fakeTasks{},
		notifier:  &fakeNotifier{},
		audit:     &fakeAudit{},
		reminders: &fakeReminders{},
		positions: &fakePositions{byTitle: map[string]*Position{}, cursors: map[uuid.UUID]int64{}},
		members:   &fakeMembers{eligible: map[uuid.UUID][]Member{}, earliest: map[string]*Member{}},
		now:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	log := logger.New("development")
	materializer := NewMaterializer(MaterializerDeps{
		Assignor:     NewAssignor(fix.positions, fix.members),
		Tasks:        fix.tasks,
		Leads:        fix.leads,
		Notifier:     fix.notifier,
		Audit:        fix.audit,
		Reminders:    fix.reminders,
		ReminderLead: 2 * time.Hour,
		CutoverHour:  4,
		Now:          func() time.Time { return fix.now },
		Logger:       log,
	})
	fix.orchestrator = NewOrchestrator(fix.ledger, fix.rules, fix.leads, materializer, fix.audit, log)
	return fix
}

// addPosition registers a position with eligible members and returns it.
func (fix *engineFixture) addPosition(title string, members ...Member) *Position {
	position := &Position{ID: uuid.New(), Title: title}
	fix.positions.byTitle[title] = position
	fix.members.eligible[position.ID] = members
	return position
}

func singleRule(stage string, templates ...repository.TaskTemplate) []repository.Rule {
	return []repository.Rule{{
		ID:            uuid.New(),
		PipelineStage: stage,
		Active:        true,
		TaskTemplates: templates,
	}}
}

func TestAutomationRunsOncePerLeadStage(t *testing.T) {
	fix := newEngineFixture(t)
	tenantID := uuid.New()
	closer := newMember("closer")
	fix.addPosition("Account Executive", closer)
	fix.rules.rules = singleRule("Qualified", repository.TaskTemplate{
		Title:                 "Call the lead",
		AssigneePositionTitle: "Account Executive",
		DueInHours:            6,
	})

	ctx := context.Background()
	fix.orchestrator.ExecutePipelineAutomation(ctx, fix.leads.lead.ID, "Qualified", tenantID)
	fix.orchestrator.ExecutePipelineAutomation(ctx, fix.leads.lead.ID, "Qualified", tenantID)

	if len(fix.tasks.created) != 1 {
		t.Fatalf("created %d tasks across two triggers, want 1", len(fix.tasks.created))
	}
	if fix.ledger.insertions != 1 {
		t.Errorf("recorded %d visits, want 1", fix.ledger.insertions)
	}
	if got := fix.audit.countAction(audit.ActionStageEntered); got != 1 {
		t.Errorf("stage.entered audited %d times, want 1", got)
	}

	task := fix.tasks.created[0]
	if task.MemberID != closer.ID {
		t.Errorf("task assigned to %s, want %s", task.MemberID, closer.ID)
	}
	wantDue := fix.now.Add(6 * time.Hour)
	if !task.DueAt.Equal(wantDue) {
		t.Errorf("due at %v, want %v", task.DueAt, wantDue)
	}
	if fix.leads.assignee != closer.ID {
		t.Errorf("lead assignee = %s, want %s", fix.leads.assignee, closer.ID)
	}
	if len(fix.notifier.assignments) != 1 {
		t.Errorf("sent %d notifications, want 1", len(fix.notifier.assignments))
	}
	if len(fix.reminders.runAts) != 1 || !fix.reminders.runAts[0].Equal(wantDue.Add(-2*time.Hour)) {
		t.Errorf("reminder schedule = %v, want one at %v", fix.reminders.runAts, wantDue.Add(-2*time.Hour))
	}
}

func TestAutomationLostRaceCreatesNothing(t *testing.T) {
	fix := newEngineFixture(t)
	fix.ledger.loseRace = true
	fix.rules.rules = singleRule("Qualified", repository.TaskTemplate{
		Title:                 "Call the lead",
		AssigneePositionTitle: "Account Executive",
	})

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Qualified", uuid.New())

	if len(fix.tasks.created) != 0 {
		t.Fatalf("loser of the insert race created %d tasks, want 0", len(fix.tasks.created))
	}
	if len(fix.audit.entries) != 0 {
		t.Errorf("loser appended %d audit entries, want 0", len(fix.audit.entries))
	}
}

func TestAutomationNoRulesIsANoOp(t *testing.T) {
	fix := newEngineFixture(t)

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Negotiation", uuid.New())

	if len(fix.tasks.created) != 0 {
		t.Fatalf("created %d tasks with no rules, want 0", len(fix.tasks.created))
	}
	// The visit is still recorded so a rule added later does not fire
	// retroactively for this stage entry.
	if fix.ledger.insertions != 1 {
		t.Errorf("recorded %d visits, want 1", fix.ledger.insertions)
	}
	if got := fix.audit.countAction(audit.ActionStageEntered); got != 1 {
		t.Errorf("stage.entered audited %d times, want 1", got)
	}
}

func TestAutomationSkipsTemplateWithoutAssignee(t *testing.T) {
	fix := newEngineFixture(t)
	closer := newMember("closer")
	fix.addPosition("Account Executive", closer)
	fix.addPosition("Solutions Engineer") // exists, but nobody eligible
	fix.rules.rules = singleRule("Proposal Sent",
		repository.TaskTemplate{Title: "Scope the demo", AssigneePositionTitle: "Solutions Engineer"},
		repository.TaskTemplate{Title: "Send the proposal", AssigneePositionTitle: "Account Executive"},
	)

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Proposal Sent", uuid.New())

	if len(fix.tasks.created) != 1 {
		t.Fatalf("created %d tasks, want 1 (unassignable template skipped)", len(fix.tasks.created))
	}
	if fix.tasks.created[0].Title != "Send the proposal" {
		t.Errorf("created %q, want the assignable sibling", fix.tasks.created[0].Title)
	}
	if fix.leads.setCalls != 1 {
		t.Errorf("lead assignee written %d times, want 1", fix.leads.setCalls)
	}
	if len(fix.notifier.assignments) != 1 {
		t.Errorf("sent %d notifications, want 1", len(fix.notifier.assignments))
	}
}

func TestAutomationLastTemplateWinsLeadAssignment(t *testing.T) {
	fix := newEngineFixture(t)
	hunter := newMember("hunter")
	closer := newMember("closer")
	fix.addPosition("SDR", hunter)
	fix.addPosition("Account Executive", closer)
	fix.rules.rules = singleRule("Qualified",
		repository.TaskTemplate{Title: "Log discovery notes", AssigneePositionTitle: "SDR"},
		repository.TaskTemplate{Title: "Book the demo", AssigneePositionTitle: "Account Executive"},
	)

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Qualified", uuid.New())

	if len(fix.tasks.created) != 2 {
		t.Fatalf("created %d tasks, want 2", len(fix.tasks.created))
	}
	if fix.leads.setCalls != 2 {
		t.Errorf("lead assignee written %d times, want 2", fix.leads.setCalls)
	}
	if fix.leads.assignee != closer.ID {
		t.Errorf("final assignee = %s, want the last template's member %s", fix.leads.assignee, closer.ID)
	}
}

func TestAutomationTemplateFailureDoesNotStopSiblings(t *testing.T) {
	fix := newEngineFixture(t)
	closer := newMember("closer")
	fix.addPosition("Account Executive", closer)
	fix.tasks.failOnTitle = "Log discovery notes"
	fix.rules.rules = singleRule("Qualified",
		repository.TaskTemplate{Title: "Log discovery notes", AssigneePositionTitle: "Account Executive"},
		repository.TaskTemplate{Title: "Book the demo", AssigneePositionTitle: "Account Executive"},
	)

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Qualified", uuid.New())

	if len(fix.tasks.created) != 1 {
		t.Fatalf("created %d tasks, want 1 surviving sibling", len(fix.tasks.created))
	}
	if fix.tasks.created[0].Title != "Book the demo" {
		t.Errorf("surviving task is %q, want the sibling after the failure", fix.tasks.created[0].Title)
	}
}

func TestAutomationSwallowsRuleLoadError(t *testing.T) {
	fix := newEngineFixture(t)
	fix.rules.err = errors.New("connection refused")

	// Must not panic and must not surface the error.
	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Qualified", uuid.New())

	if len(fix.tasks.created) != 0 {
		t.Fatalf("created %d tasks despite rule load failure, want 0", len(fix.tasks.created))
	}
}

func TestAutomationRecoversPanic(t *testing.T) {
	fix := newEngineFixture(t)
	fix.rules.panic = true

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic escaped the automation boundary: %v", r)
		}
	}()
	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Qualified", uuid.New())
}

func TestAutomationNotificationFailureIsNotFatal(t *testing.T) {
	fix := newEngineFixture(t)
	closer := newMember("closer")
	fix.addPosition("Account Executive", closer)
	fix.notifier.err = errors.New("smtp down")
	fix.rules.rules = singleRule("Qualified", repository.TaskTemplate{
		Title:                 "Call the lead",
		AssigneePositionTitle: "Account Executive",
	})

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Qualified", uuid.New())

	if len(fix.tasks.created) != 1 {
		t.Fatalf("created %d tasks, want 1", len(fix.tasks.created))
	}
	if len(fix.reminders.runAts) != 1 {
		t.Errorf("scheduled %d reminders, want 1", len(fix.reminders.runAts))
	}
}

func TestAutomationReminderClampedToBusinessDay(t *testing.T) {
	fix := newEngineFixture(t)
	closer := newMember("closer")
	fix.addPosition("Account Executive", closer)
	// Due at 05:00, one hour past the 04:00 cutover. The 2h reminder lead
	// would land at 03:00 in the previous business day.
	fix.rules.rules = singleRule("Qualified", repository.TaskTemplate{
		Title:                 "Call the lead",
		AssigneePositionTitle: "Account Executive",
		DueInHours:            20,
	})

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "Qualified", uuid.New())

	if len(fix.reminders.runAts) != 1 {
		t.Fatalf("scheduled %d reminders, want 1", len(fix.reminders.runAts))
	}
	wantRunAt := time.Date(2026, 3, 11, 4, 0, 0, 0, time.UTC)
	if !fix.reminders.runAts[0].Equal(wantRunAt) {
		t.Errorf("reminder at %v, want clamped to business day start %v", fix.reminders.runAts[0], wantRunAt)
	}
}

func TestAutomationDefaultsDueWindow(t *testing.T) {
	fix := newEngineFixture(t)
	closer := newMember("closer")
	fix.addPosition("Account Executive", closer)
	fix.rules.rules = singleRule("New", repository.TaskTemplate{
		Title:                 "First touch",
		AssigneePositionTitle: "Account Executive",
		// DueInHours left zero: a rule written before validation enforced
		// the default still gets 24 hours.
	})

	fix.orchestrator.ExecutePipelineAutomation(context.Background(), fix.leads.lead.ID, "New", uuid.New())

	if len(fix.tasks.created) != 1 {
		t.Fatalf("created %d tasks, want 1", len(fix.tasks.created))
	}
	wantDue := fix.now.Add(24 * time.Hour)
	if !fix.tasks.created[0].DueAt.Equal(wantDue) {
		t.Errorf("due at %v, want %v", fix.tasks.created[0].DueAt, wantDue)
	}
}
