// Package leads provides the lead management bounded context module.
package leads

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// The automation trigger is the entry point into the pipeline automation
// engine; it may be nil in contexts that run without automation.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, automation ports.AutomationTrigger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, automation)

	return &Module{
		handler: handler.New(svc, val),
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for external use.
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
var _ service.LeadStore = (*repository.Repository)(nil)
