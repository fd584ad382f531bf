package inapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "notification.inapp.repository.create"
	opList        = "notification.inapp.repository.list"
	opCountUnread = "notification.inapp.repository.count_unread"
	opMarkRead    = "notification.inapp.repository.mark_read"
	opMarkAllRead = "notification.inapp.repository.mark_all_read"

	errRepoNotConfigured = "in-app notification repository not configured"
	errMemberIDRequired  = "memberId is required"
)

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	MemberID  uuid.UUID  `json:"memberId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	Category  string     `json:"category"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CreateParams struct {
	TenantID uuid.UUID
	MemberID uuid.UUID
	Title    string
	Content  string
	TaskID   *uuid.UUID
	LeadID   *uuid.UUID
	Category string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}
	if p.TenantID == uuid.Nil || p.MemberID == uuid.Nil {
		return Notification{}, apperr.Validation("tenantId and memberId are required").WithOp(opCreate)
	}
	if p.Title == "" || p.Content == "" {
		return Notification{}, apperr.Validation("title and content are required").WithOp(opCreate)
	}

	category := p.Category
	if category == "" {
		category = "info"
	}

	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO in_app_notifications
		(tenant_id, member_id, title, content, task_id, lead_id, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, member_id, title, content, task_id, lead_id, category, is_read, created_at
	`, p.TenantID, p.MemberID, p.Title, p.Content, p.TaskID, p.LeadID, category).Scan(
		&n.ID, &n.MemberID, &n.Title, &n.Content, &n.TaskID, &n.LeadID, &n.Category, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Notification{}, apperr.Validation("invalid tenantId or memberId").WithOp(opCreate)
		}
		return Notification{}, apperr.Internal(fmt.Sprintf("create in-app notification failed: %v", err)).WithOp(opCreate)
	}

	return n, nil
}

func (r *Repository) List(ctx context.Context, tenantID, memberID uuid.UUID, limit, offset int) ([]Notification, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}
	if memberID == uuid.Nil {
		return nil, 0, apperr.Validation(errMemberIDRequired).WithOp(opList)
	}

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM in_app_notifications WHERE tenant_id = $1 AND member_id = $2
	`, tenantID, memberID).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("count notifications failed: %v", err)).WithOp(opList)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, member_id, title, content, task_id, lead_id, category, is_read, created_at
		FROM in_app_notifications
		WHERE tenant_id = $1 AND member_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, tenantID, memberID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("list notifications query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if scanErr := rows.Scan(&n.ID, &n.MemberID, &n.Title, &n.Content, &n.TaskID, &n.LeadID, &n.Category, &n.IsRead, &n.CreatedAt); scanErr != nil {
			return nil, 0, apperr.Internal(fmt.Sprintf("scan notifications failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rowsErr)).WithOp(opList)
	}

	return items, total, nil
}

func (r *Repository) CountUnread(ctx context.Context, tenantID, memberID uuid.UUID) (int, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opCountUnread)
	}
	if memberID == uuid.Nil {
		return 0, apperr.Validation(errMemberIDRequired).WithOp(opCountUnread)
	}

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM in_app_notifications
		WHERE tenant_id = $1 AND member_id = $2 AND is_read = FALSE
	`, tenantID, memberID).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("count unread notifications failed: %v", err)).WithOp(opCountUnread)
	}

	return count, nil
}

func (r *Repository) MarkRead(ctx context.Context, tenantID, memberID, notificationID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkRead)
	}
	if memberID == uuid.Nil || notificationID == uuid.Nil {
		return apperr.Validation("memberId and notificationId are required").WithOp(opMarkRead)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE in_app_notifications
		SET is_read = TRUE, read_at = now()
		WHERE id = $1 AND tenant_id = $2 AND member_id = $3
	`, notificationID, tenantID, memberID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err)).WithOp(opMarkRead)
	}

	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, tenantID, memberID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkAllRead)
	}
	if memberID == uuid.Nil {
		return apperr.Validation(errMemberIDRequired).WithOp(opMarkAllRead)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE in_app_notifications
		SET is_read = TRUE, read_at = now()
		WHERE tenant_id = $1 AND member_id = $2 AND is_read = FALSE
	`, tenantID, memberID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark all notifications read failed: %v", err)).WithOp(opMarkAllRead)
	}

	return nil
}
