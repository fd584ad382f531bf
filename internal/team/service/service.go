// Package service implements team management use cases.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/team/repository"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePosition(ctx context.Context, tenantID uuid.UUID, title string) (repository.Position, error) {
	pos, err := s.repo.CreatePosition(ctx, tenantID, title)
	if errors.Is(err, repository.ErrDuplicateTitle) {
		return repository.Position{}, apperr.Conflict("position title already exists")
	}
	if err != nil {
		return repository.Position{}, apperr.Wrap(apperr.KindInternal, "failed to create position", err)
	}
	return pos, nil
}

func (s *Service) ListPositions(ctx context.Context, tenantID uuid.UUID) ([]repository.Position, error) {
	positions, err := s.repo.ListPositions(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list positions", err)
	}
	return positions, nil
}

type CreateMemberInput struct {
	PositionTitle string
	Name          string
	Email         string
}

// CreateMember persists a member, resolving the position row for the title
// when one exists. Members without a resolved position can still receive
// work through the degraded title-match path.
func (s *Service) CreateMember(ctx context.Context, tenantID uuid.UUID, input CreateMemberInput) (repository.Member, error) {
	var positionID *uuid.UUID
	pos, err := s.repo.FindPosition(ctx, tenantID, input.PositionTitle)
	if err != nil {
		return repository.Member{}, apperr.Wrap(apperr.KindInternal, "failed to resolve position", err)
	}
	if pos != nil {
		positionID = &pos.ID
	}

	member, err := s.repo.CreateMember(ctx, repository.CreateMemberParams{
		TenantID:      tenantID,
		PositionID:    positionID,
		PositionTitle: input.PositionTitle,
		Name:          input.Name,
		Email:         input.Email,
	})
	if err != nil {
		return repository.Member{}, apperr.Wrap(apperr.KindInternal, "failed to create member", err)
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context, tenantID uuid.UUID) ([]repository.Member, error) {
	members, err := s.repo.ListMembers(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list members", err)
	}
	return members, nil
}

// SetMemberFlags toggles the active/available flags used by eligibility.
func (s *Service) SetMemberFlags(ctx context.Context, tenantID, memberID uuid.UUID, active, available bool) (repository.Member, error) {
	if err := s.repo.SetMemberFlags(ctx, memberID, tenantID, active, available); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return repository.Member{}, apperr.NotFound("member not found")
		}
		return repository.Member{}, apperr.Wrap(apperr.KindInternal, "failed to update member flags", err)
	}

	member, err := s.repo.GetMember(ctx, memberID, tenantID)
	if err != nil {
		return repository.Member{}, apperr.Wrap(apperr.KindInternal, "failed to load member", err)
	}
	return member, nil
}
