// Package service implements task management use cases. Task creation is
// owned by the automation engine; this service covers the read/complete side.
package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/tasks/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/timeutil"

	"github.com/google/uuid"
)

type Service struct {
	repo        *repository.Repository
	cutoverHour int
}

func New(repo *repository.Repository, cutoverHour int) *Service {
	return &Service{repo: repo, cutoverHour: cutoverHour}
}

func (s *Service) ListByMember(ctx context.Context, tenantID, memberID uuid.UUID, status string) ([]repository.Task, error) {
	if status != "" && status != repository.StatusPending && status != repository.StatusCompleted {
		return nil, apperr.Validation("unknown task status: " + status)
	}

	tasks, err := s.repo.ListByMember(ctx, tenantID, memberID, status)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list tasks", err)
	}
	return tasks, nil
}

func (s *Service) ListByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]repository.Task, error) {
	tasks, err := s.repo.ListByLead(ctx, tenantID, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list tasks", err)
	}
	return tasks, nil
}

func (s *Service) Complete(ctx context.Context, tenantID, taskID uuid.UUID) (repository.Task, error) {
	task, err := s.repo.Complete(ctx, taskID, tenantID)
	if errors.Is(err, repository.ErrNotFound) {
		// Either absent or already completed; disambiguate for the caller.
		if _, getErr := s.repo.GetByID(ctx, taskID, tenantID); getErr == nil {
			return repository.Task{}, apperr.Conflict("task already completed")
		}
		return repository.Task{}, apperr.NotFound("task not found")
	}
	if err != nil {
		return repository.Task{}, apperr.Wrap(apperr.KindInternal, "failed to complete task", err)
	}
	return task, nil
}

// DueToday returns the tenant's pending tasks due within the current
// business day (cutover-hour boundaries, not midnight).
func (s *Service) DueToday(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]repository.Task, error) {
	from, to := timeutil.BusinessDayWindow(now, s.cutoverHour)
	tasks, err := s.repo.ListDueBetween(ctx, tenantID, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list due tasks", err)
	}
	return tasks, nil
}
