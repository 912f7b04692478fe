package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/billing-admin-service/internal/repository"
	"github.com/maxviazov/billing-admin-service/internal/service"
	"github.com/maxviazov/billing-admin-service/internal/view"
	"github.com/maxviazov/billing-admin-service/pkg/response"
)

const (
	staffIndexTemplate    = "mod_staff_index.html"
	clientBalanceTemplate = "mod_client_balance.html"
)

// PageHandler renders the admin area HTML pages from the same services the API uses.
type PageHandler struct {
	views   *view.Renderer
	staff   service.StaffService
	balance service.BalanceService
	perPage int
}

func NewPageHandler(views *view.Renderer, staff service.StaffService, balance service.BalanceService, perPage int) *PageHandler {
	return &PageHandler{views: views, staff: staff, balance: balance, perPage: perPage}
}

func (h *PageHandler) Register(r gin.IRouter) {
	r.GET("/staff", h.staffIndex)
	r.GET("/balance", h.balanceIndex)
	r.GET("/icons/:module", h.icon)
}

// render resolves the template before anything is written so a missing
// template still produces a proper error status.
func (h *PageHandler) render(c *gin.Context, name string, data gin.H) {
	if _, err := h.views.Template(name); err != nil {
		response.WriteError(c, err)
		return
	}
	c.HTML(http.StatusOK, name, data)
}

func (h *PageHandler) staffIndex(c *gin.Context) {
	req, err := pageRequest(c, h.perPage)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.StaffFilter{Search: strings.TrimSpace(c.Query("search")), Status: c.Query("status")}
	res, err := h.staff.ListStaff(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	h.render(c, staffIndexTemplate, gin.H{"Title": "Staff", "Result": res})
}

func (h *PageHandler) balanceIndex(c *gin.Context) {
	req, err := pageRequest(c, h.perPage)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	clientID, err := queryID(c, "client_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	q := service.BalanceQuery{ClientID: clientID, DateFrom: c.Query("date_from"), DateTo: c.Query("date_to")}
	res, err := h.balance.ListBalance(c.Request.Context(), q, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	h.render(c, clientBalanceTemplate, gin.H{"Title": "Transactions", "Result": res})
}

// icon serves a module icon through the loader's icon.svg fallback.
func (h *PageHandler) icon(c *gin.Context) {
	module := strings.ToLower(c.Param("module"))
	p, err := h.views.Loader().Find("mod_" + module + "_icon.svg")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header("Content-Type", "image/svg+xml")
	c.File(p)
}
