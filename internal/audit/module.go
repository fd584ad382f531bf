package audit

import (
	"net/http"
	"strconv"

	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the audit bounded context module implementing http.Module.
// It only exposes reads; writes happen through the repository from the
// automation engine and other modules.
type Module struct {
	repo *Repository
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{repo: NewRepository(pool)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "audit" }

// Repository exposes the audit repository for other modules' writes.
func (m *Module) Repository() *Repository { return m.repo }

// RegisterRoutes mounts audit routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/audit", m.listByLead)
}

// listByLead returns the audit trail of a lead, newest first.
// GET /api/v1/audit?leadId=...&limit=...
func (m *Module) listByLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Query("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "leadId is required", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := m.repo.ListByLead(c.Request.Context(), identity.TenantID(), leadID, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, entries)
}

var _ apphttp.Module = (*Module)(nil)
