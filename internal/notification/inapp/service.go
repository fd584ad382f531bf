package inapp

import (
	"context"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo *Repository
	log  *logger.Logger
}

func NewService(repo *Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

type SendParams struct {
	TenantID uuid.UUID
	MemberID uuid.UUID
	Title    string
	Content  string
	TaskID   *uuid.UUID
	LeadID   *uuid.UUID
	Category string // "info", "warning"
}

// Send persists the notification for the member's in-app feed.
func (s *Service) Send(ctx context.Context, p SendParams) error {
	if s == nil || s.repo == nil {
		return apperr.Internal("in-app notification service not configured")
	}

	if p.Category == "" {
		p.Category = "info"
	}

	_, err := s.repo.Create(ctx, CreateParams{
		TenantID: p.TenantID,
		MemberID: p.MemberID,
		Title:    p.Title,
		Content:  p.Content,
		TaskID:   p.TaskID,
		LeadID:   p.LeadID,
		Category: p.Category,
	})
	if err != nil {
		if s.log != nil {
			s.log.Error("failed to persist in-app notification", "error", err, "memberId", p.MemberID)
		}
		return err
	}

	return nil
}

func (s *Service) List(ctx context.Context, tenantID, memberID uuid.UUID, page, pageSize int) ([]Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize
	return s.repo.List(ctx, tenantID, memberID, pageSize, offset)
}

func (s *Service) CountUnread(ctx context.Context, tenantID, memberID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, tenantID, memberID)
}

func (s *Service) MarkRead(ctx context.Context, tenantID, memberID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, tenantID, memberID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, tenantID, memberID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, tenantID, memberID)
}
