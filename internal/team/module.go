// Package team provides the staff management bounded context module:
// positions and the members the automation engine assigns work to.
package team

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/team/handler"
	"leadflow_backend/internal/team/repository"
	"leadflow_backend/internal/team/service"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the team bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the team module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "team"
}

// Repository exposes the team repository to the automation engine adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts team routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/team")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
