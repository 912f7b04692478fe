package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/billing-admin-service/internal/service"
	"github.com/maxviazov/billing-admin-service/pkg/response"
	"github.com/spf13/cast"
)

// BalanceHandler serves the client ledger.
type BalanceHandler struct {
	svc     service.BalanceService
	perPage int
}

func NewBalanceHandler(svc service.BalanceService, perPage int) *BalanceHandler {
	return &BalanceHandler{svc: svc, perPage: perPage}
}

func (h *BalanceHandler) Register(r *gin.RouterGroup) {
	// client_id matches the wildcard name other client routes would use
	client := r.Group("/clients/:client_id/balance")
	{
		client.GET("", h.total)
		client.GET("/entries", h.listForClient)
		client.POST("/deduct", h.deduct)
		client.DELETE("", h.removeByClient)
	}
	g := r.Group("/balance")
	{
		g.GET("", h.list)
		g.DELETE("/:id", h.remove)
	}
}

func (h *BalanceHandler) total(c *gin.Context) {
	clientID := pathID(c, "client_id")
	total, err := h.svc.ClientBalance(c.Request.Context(), clientID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"client_id": clientID, "balance": total})
}

func (h *BalanceHandler) list(c *gin.Context) {
	clientID, err := queryID(c, "client_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	h.respondList(c, clientID)
}

func (h *BalanceHandler) listForClient(c *gin.Context) {
	clientID := pathID(c, "client_id")
	if clientID <= 0 {
		response.WriteError(c, service.NewInvalidInputError(service.FieldError{Field: "client_id", Message: "must be > 0"}))
		return
	}
	h.respondList(c, clientID)
}

func (h *BalanceHandler) respondList(c *gin.Context, clientID int64) {
	req, err := pageRequest(c, h.perPage)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	id, err := queryID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	q := service.BalanceQuery{
		ID:       id,
		ClientID: clientID,
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
	res, err := h.svc.ListBalance(c.Request.Context(), q, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

// deductRequest accepts the amount as a JSON number or a numeric string.
type deductRequest struct {
	Amount      any     `json:"amount"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	RelID       *string `json:"rel_id"`
}

func (h *BalanceHandler) deduct(c *gin.Context) {
	var req deductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	entry, err := h.svc.DeductFunds(c.Request.Context(), pathID(c, "client_id"), service.Deduction{
		Amount:      amount,
		Description: req.Description,
		Type:        req.Type,
		RelID:       req.RelID,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, entry)
}

func parseAmount(v any) (float64, error) {
	invalid := service.NewInvalidInputError(service.FieldError{Field: "amount", Message: "funds amount is not valid"})
	switch v.(type) {
	case float64, string:
	default:
		return 0, invalid
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalid
	}
	return f, nil
}

func (h *BalanceHandler) removeByClient(c *gin.Context) {
	n, err := h.svc.RemoveByClient(c.Request.Context(), pathID(c, "client_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"removed": n})
}

func (h *BalanceHandler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), pathID(c, "id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
