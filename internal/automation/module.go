// Package automation provides the pipeline stage automation engine module:
// rule management over HTTP plus the orchestrator other modules trigger
// after a lead changes stage.
package automation

import (
	"leadflow_backend/internal/audit"
	"leadflow_backend/internal/automation/handler"
	"leadflow_backend/internal/automation/repository"
	"leadflow_backend/internal/automation/service"
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	leadsrepo "leadflow_backend/internal/leads/repository"
	tasksrepo "leadflow_backend/internal/tasks/repository"
	teamrepo "leadflow_backend/internal/team/repository"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the automation bounded context module implementing http.Module.
type Module struct {
	handler      *handler.Handler
	orchestrator *service.Orchestrator
}

// NewModule wires the engine. The reminder scheduler may be nil; reminders
// are then skipped.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, reminders service.ReminderScheduler, cfg config.AutomationConfig, log *logger.Logger) *Module {
	ruleRepo := repository.NewRuleRepository(pool)
	visitRepo := repository.NewVisitRepository(pool)

	leads := &leadAdapter{repo: leadsrepo.New(pool)}
	team := teamrepo.New(pool)
	auditor := &auditAdapter{repo: audit.NewRepository(pool)}

	materializer := service.NewMaterializer(service.MaterializerDeps{
		Assignor:     service.NewAssignor(&positionAdapter{repo: team}, &memberAdapter{repo: team}),
		Tasks:        &taskAdapter{repo: tasksrepo.New(pool)},
		Leads:        leads,
		Notifier:     &eventNotifier{bus: eventBus},
		Audit:        auditor,
		Reminders:    reminders,
		ReminderLead: cfg.GetTaskReminderLead(),
		CutoverHour:  cfg.GetBusinessDayCutoverHour(),
		Logger:       log,
	})
	orchestrator := service.NewOrchestrator(visitRepo, ruleRepo, leads, materializer, auditor, log)

	return &Module{
		handler:      handler.New(service.NewRules(ruleRepo), val),
		orchestrator: orchestrator,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "automation"
}

// Orchestrator exposes the engine entry point; the leads module calls it
// after committing a stage change.
func (m *Module) Orchestrator() *service.Orchestrator {
	return m.orchestrator
}

// RegisterRoutes mounts automation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/automation")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
