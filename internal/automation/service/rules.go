package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/automation/repository"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// Rules is the management surface over automation rules. The engine reads
// rules through the RuleSource port; this service exists for the API.
type Rules struct {
	repo *repository.RuleRepository
}

func NewRules(repo *repository.RuleRepository) *Rules {
	return &Rules{repo: repo}
}

func (s *Rules) Create(ctx context.Context, params repository.CreateRuleParams) (repository.Rule, error) {
	rule, err := s.repo.Create(ctx, params)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return repository.Rule{}, err
		}
		return repository.Rule{}, apperr.Wrap(apperr.KindInternal, "failed to create rule", err).WithOp("rules.Create")
	}
	return rule, nil
}

func (s *Rules) List(ctx context.Context, tenantID uuid.UUID) ([]repository.Rule, error) {
	rules, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list rules", err).WithOp("rules.List")
	}
	return rules, nil
}

func (s *Rules) SetActive(ctx context.Context, id, tenantID uuid.UUID, active bool) error {
	err := s.repo.SetActive(ctx, id, tenantID, active)
	if errors.Is(err, repository.ErrRuleNotFound) {
		return apperr.NotFound("rule not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update rule", err).WithOp("rules.SetActive")
	}
	return nil
}
