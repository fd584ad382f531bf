// Package notification subscribes to domain events and fans them out to the
// in-app feed and email. Domain modules publish facts; this module owns
// delivery, so they never touch email providers or templates.
package notification

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	notifhandler "leadflow_backend/internal/notification/handler"
	"leadflow_backend/internal/notification/inapp"
	"leadflow_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender       email.Sender
	log          *logger.Logger
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
}

// New creates a new notification module. The email sender may be nil;
// delivery then stays in-app only.
func New(pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) *Module {
	inAppRepo := inapp.NewRepository(pool)
	inAppSvc := inapp.NewService(inAppRepo, log)

	return &Module{
		sender:       sender,
		log:          log,
		inAppService: inAppSvc,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.inAppHandler == nil {
		return
	}

	notifications := ctx.Protected.Group("/notifications")
	m.inAppHandler.RegisterRoutes(notifications)
}

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// RegisterHandlers subscribes to the domain events this module delivers.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.TaskAssigned{}.EventName(), m)
	bus.Subscribe(events.TaskDueSoon{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.TaskAssigned:
		return m.handleTaskAssigned(ctx, e)
	case events.TaskDueSoon:
		return m.handleTaskDueSoon(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleTaskAssigned(ctx context.Context, e events.TaskAssigned) error {
	taskID := e.TaskID
	leadID := e.LeadID
	content := fmt.Sprintf("%s — lead %q entered stage %q. Due %s.",
		e.Title, e.LeadName, e.Stage, e.DueAt.Format(time.RFC1123))

	if err := m.inAppService.Send(ctx, inapp.SendParams{
		TenantID: e.TenantID,
		MemberID: e.MemberID,
		Title:    "New task assigned",
		Content:  content,
		TaskID:   &taskID,
		LeadID:   &leadID,
		Category: "info",
	}); err != nil {
		return err
	}

	if m.sender != nil && e.MemberEmail != "" {
		if err := m.sender.SendTaskAssignedEmail(ctx, e.MemberEmail, email.TaskAssignedEmailParams{
			MemberName: e.MemberName,
			TaskTitle:  e.Title,
			LeadName:   e.LeadName,
			Stage:      e.Stage,
			DueAt:      e.DueAt.Format(time.RFC1123),
		}); err != nil {
			m.log.Error("failed to send task assigned email",
				"taskId", e.TaskID,
				"email", e.MemberEmail,
				"error", err,
			)
			// In-app delivery already succeeded; email failure is not fatal.
		}
	}

	return nil
}

func (m *Module) handleTaskDueSoon(ctx context.Context, e events.TaskDueSoon) error {
	taskID := e.TaskID
	content := fmt.Sprintf("%s is due %s.", e.Title, e.DueAt.Format(time.RFC1123))

	if err := m.inAppService.Send(ctx, inapp.SendParams{
		TenantID: e.TenantID,
		MemberID: e.MemberID,
		Title:    "Task due soon",
		Content:  content,
		TaskID:   &taskID,
		Category: "warning",
	}); err != nil {
		return err
	}

	if m.sender != nil && e.MemberEmail != "" {
		if err := m.sender.SendTaskDueSoonEmail(ctx, e.MemberEmail, email.TaskDueSoonEmailParams{
			MemberName: e.MemberName,
			TaskTitle:  e.Title,
			DueAt:      e.DueAt.Format(time.RFC1123),
		}); err != nil {
			m.log.Error("failed to send task due soon email",
				"taskId", e.TaskID,
				"email", e.MemberEmail,
				"error", err,
			)
		}
	}

	return nil
}

var _ apphttp.Module = (*Module)(nil)
var _ events.Handler = (*Module)(nil)
