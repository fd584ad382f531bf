package service

import (
	"context"
	"testing"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeLeadStore struct {
	lead        repository.Lead
	stages      []domain.StageDefinition
	updateCalls int
	updatedTo   string
}

func (f *fakeLeadStore) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	return repository.Lead{
		ID:            uuid.New(),
		TenantID:      params.TenantID,
		Name:          params.Name,
		Phone:         params.Phone,
		PipelineStage: params.PipelineStage,
	}, nil
}

func (f *fakeLeadStore) GetByID(_ context.Context, _ uuid.UUID, _ uuid.UUID) (repository.Lead, error) {
	return f.lead, nil
}

func (f *fakeLeadStore) List(_ context.Context, _ repository.ListLeadsParams) ([]repository.Lead, int, error) {
	return []repository.Lead{f.lead}, 1, nil
}

func (f *fakeLeadStore) UpdateStage(_ context.Context, _ uuid.UUID, _ uuid.UUID, stage string) error {
	f.updateCalls++
	f.updatedTo = stage
	return nil
}

func (f *fakeLeadStore) ListStages(_ context.Context, _ uuid.UUID) ([]domain.StageDefinition, error) {
	return f.stages, nil
}

type fakeTrigger struct {
	calls  int
	stage  string
	leadID uuid.UUID
}

func (f *fakeTrigger) ExecutePipelineAutomation(_ context.Context, leadID uuid.UUID, newStage string, _ uuid.UUID) {
	f.calls++
	f.stage = newStage
	f.leadID = leadID
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

func newStageFixture(currentStage string) (*Service, *fakeLeadStore, *fakeTrigger) {
	store := &fakeLeadStore{
		lead: repository.Lead{
			ID:            uuid.New(),
			TenantID:      uuid.New(),
			Name:          "Acme Corp",
			PipelineStage: currentStage,
		},
	}
	trigger := &fakeTrigger{}
	return New(store, &fakeBus{}, trigger), store, trigger
}

func TestChangeStageRejectsBackwardMove(t *testing.T) {
	svc, store, trigger := newStageFixture("Qualified")

	_, err := svc.ChangeStage(context.Background(), store.lead.TenantID, store.lead.ID, "New")
	if err == nil {
		t.Fatal("expected a backward stage move to be rejected")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
	if store.updateCalls != 0 {
		t.Errorf("stage persisted %d times on a rejected move, want 0", store.updateCalls)
	}
	if trigger.calls != 0 {
		t.Errorf("automation triggered %d times on a rejected move, want 0", trigger.calls)
	}
}

func TestChangeStageRejectsUnknownStage(t *testing.T) {
	svc, store, trigger := newStageFixture("Qualified")

	_, err := svc.ChangeStage(context.Background(), store.lead.TenantID, store.lead.ID, "Daydreaming")
	if err == nil {
		t.Fatal("expected an unknown stage to be rejected")
	}
	if store.updateCalls != 0 || trigger.calls != 0 {
		t.Errorf("persisted %d / triggered %d for an unknown stage, want 0 / 0", store.updateCalls, trigger.calls)
	}
}

func TestChangeStageTriggersAutomationAfterCommit(t *testing.T) {
	svc, store, trigger := newStageFixture("Qualified")

	lead, err := svc.ChangeStage(context.Background(), store.lead.TenantID, store.lead.ID, "Proposal Sent")
	if err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}
	if lead.PipelineStage != "Proposal Sent" {
		t.Errorf("returned stage = %q, want %q", lead.PipelineStage, "Proposal Sent")
	}
	if store.updateCalls != 1 || store.updatedTo != "Proposal Sent" {
		t.Errorf("persisted %d moves to %q, want 1 to %q", store.updateCalls, store.updatedTo, "Proposal Sent")
	}
	if trigger.calls != 1 {
		t.Fatalf("automation triggered %d times, want 1", trigger.calls)
	}
	if trigger.stage != "Proposal Sent" || trigger.leadID != store.lead.ID {
		t.Errorf("automation triggered for (%s, %q), want (%s, %q)",
			trigger.leadID, trigger.stage, store.lead.ID, "Proposal Sent")
	}
}
