package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/billing-admin-service/internal/service"
	"github.com/maxviazov/billing-admin-service/internal/view"
)

// Deps are the collaborators the HTTP layer needs. Nil services leave their
// routes unmounted; tests rely on that to exercise one area at a time.
type Deps struct {
	Pinger  Pinger
	Staff   service.StaffService
	Balance service.BalanceService
	Views   *view.Renderer
	PerPage int
	// OpenAPIPath is the spec served at /openapi.yaml; empty disables the docs routes.
	OpenAPIPath string
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, d Deps) {
	h := NewHealthHandler(d.Pinger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	if d.OpenAPIPath != "" {
		RegisterDocs(r, d.OpenAPIPath)
	}

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		admin := api.Group(AdminPrefix)
		if d.Staff != nil {
			NewStaffHandler(d.Staff, d.PerPage).Register(admin)
		}
		if d.Balance != nil {
			NewBalanceHandler(d.Balance, d.PerPage).Register(admin)
		}
	}

	if d.Views != nil && d.Staff != nil && d.Balance != nil {
		r.HTMLRender = d.Views
		NewPageHandler(d.Views, d.Staff, d.Balance, d.PerPage).Register(r.Group(AdminPrefix))
	}
}
