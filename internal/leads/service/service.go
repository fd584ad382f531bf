// Package service implements lead management use cases.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

// LeadStore is the persistence surface the service needs; satisfied by
// *repository.Repository.
type LeadStore interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, params repository.ListLeadsParams) ([]repository.Lead, int, error)
	UpdateStage(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, stage string) error
	ListStages(ctx context.Context, tenantID uuid.UUID) ([]domain.StageDefinition, error)
}

type Service struct {
	repo       LeadStore
	bus        events.Bus
	automation ports.AutomationTrigger
}

func New(repo LeadStore, bus events.Bus, automation ports.AutomationTrigger) *Service {
	return &Service{
		repo:       repo,
		bus:        bus,
		automation: automation,
	}
}

type CreateLeadInput struct {
	Name   string
	Phone  string
	Email  *string
	Source *string
	Stage  string
}

// Create persists a new lead. The phone number is normalized to E.164 and
// the initial stage defaults to the first stage of the tenant's pipeline.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, input CreateLeadInput) (repository.Lead, error) {
	stages, err := s.stageSet(ctx, tenantID)
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to load pipeline stages", err)
	}

	stage := input.Stage
	if stage == "" {
		stage = s.firstStage(ctx, tenantID)
	}
	if !stages.Contains(stage) {
		return repository.Lead{}, apperr.Validation("unknown pipeline stage: " + stage)
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		TenantID:      tenantID,
		Name:          input.Name,
		Phone:         phone.NormalizeE164(input.Phone),
		Email:         input.Email,
		Source:        input.Source,
		PipelineStage: stage,
	})
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		TenantID:  tenantID,
		Stage:     lead.PipelineStage,
	})

	return lead, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id, tenantID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, stage string, page, pageSize int) ([]repository.Lead, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	leads, total, err := s.repo.List(ctx, repository.ListLeadsParams{
		TenantID: tenantID,
		Stage:    stage,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to list leads", err)
	}
	return leads, total, nil
}

// ChangeStage moves a lead into a new pipeline stage. The move is validated
// against the forward-only constraint and persisted first; only then is the
// automation engine triggered, best-effort. A committed move always succeeds
// from the caller's perspective regardless of automation outcome.
func (s *Service) ChangeStage(ctx context.Context, tenantID, leadID uuid.UUID, newStage string) (repository.Lead, error) {
	lead, err := s.Get(ctx, tenantID, leadID)
	if err != nil {
		return repository.Lead{}, err
	}

	stages, err := s.stageSet(ctx, tenantID)
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to load pipeline stages", err)
	}

	if err := stages.ValidateTransition(lead.PipelineStage, newStage); err != nil {
		return repository.Lead{}, err
	}

	if err := s.repo.UpdateStage(ctx, leadID, tenantID, newStage); err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to update lead stage", err)
	}

	fromStage := lead.PipelineStage
	lead.PipelineStage = newStage

	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		TenantID:  tenantID,
		FromStage: fromStage,
		ToStage:   newStage,
	})

	// The stage change is durably committed at this point; automation is
	// fire-and-forget by contract.
	if s.automation != nil {
		s.automation.ExecutePipelineAutomation(ctx, leadID, newStage, tenantID)
	}

	return lead, nil
}

// Stages returns the tenant's pipeline stage definitions, falling back to
// the default pipeline when the tenant has not customized it.
func (s *Service) Stages(ctx context.Context, tenantID uuid.UUID) ([]domain.StageDefinition, error) {
	defs, err := s.repo.ListStages(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load pipeline stages", err)
	}
	if len(defs) == 0 {
		return domain.DefaultStages, nil
	}
	return defs, nil
}

func (s *Service) stageSet(ctx context.Context, tenantID uuid.UUID) (domain.StageSet, error) {
	defs, err := s.repo.ListStages(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return domain.NewStageSet(defs), nil
}

func (s *Service) firstStage(ctx context.Context, tenantID uuid.UUID) string {
	defs, err := s.repo.ListStages(ctx, tenantID)
	if err != nil || len(defs) == 0 {
		return domain.DefaultStages[0].Name
	}
	return defs[0].Name
}
