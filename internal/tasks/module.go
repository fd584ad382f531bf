// Package tasks provides the generated-work-item bounded context module.
package tasks

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/tasks/handler"
	"leadflow_backend/internal/tasks/repository"
	"leadflow_backend/internal/tasks/service"
	"leadflow_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the tasks module.
func NewModule(pool *pgxpool.Pool, cfg config.AutomationConfig) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg.GetBusinessDayCutoverHour())

	return &Module{
		handler: handler.New(svc),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// Repository exposes the tasks repository to the automation engine adapters
// and the scheduler worker.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts tasks routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/tasks")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
