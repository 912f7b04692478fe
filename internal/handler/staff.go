package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/repository"
	"github.com/maxviazov/billing-admin-service/internal/service"
	"github.com/maxviazov/billing-admin-service/pkg/response"
)

// StaffHandler serves staff members, their groups and the sign-in log.
type StaffHandler struct {
	svc     service.StaffService
	perPage int
}

func NewStaffHandler(svc service.StaffService, perPage int) *StaffHandler {
	return &StaffHandler{svc: svc, perPage: perPage}
}

func (h *StaffHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/staff")
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.GET("/:id", h.get)
		g.PUT("/:id", h.update)
		g.DELETE("/:id", h.delete)
		g.PUT("/:id/password", h.changePassword)
		g.GET("/:id/permissions", h.getPermissions)
		g.PUT("/:id/permissions", h.setPermissions)
	}
	// static segments resolve before /staff/:id
	groups := g.Group("/groups")
	{
		groups.GET("", h.listGroups)
		groups.GET("/pairs", h.groupPairs)
		groups.POST("", h.createGroup)
		groups.GET("/:id", h.getGroup)
		groups.PUT("/:id", h.updateGroup)
		groups.DELETE("/:id", h.deleteGroup)
	}
	logins := g.Group("/logins")
	{
		logins.GET("", h.listLogins)
		logins.POST("/batch-delete", h.batchDeleteLogins)
		logins.GET("/:id", h.getLogin)
		logins.DELETE("/:id", h.deleteLogin)
	}
}

func (h *StaffHandler) list(c *gin.Context) {
	req, err := pageRequest(c, h.perPage)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	groupID, err := queryID(c, "group_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.StaffFilter{
		Search:  strings.TrimSpace(c.Query("search")),
		Status:  c.Query("status"),
		GroupID: groupID,
	}
	res, err := h.svc.ListStaff(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type createStaffRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	AdminGroupID int64  `json:"admin_group_id"`
	Signature    string `json:"signature"`
}

func (h *StaffHandler) create(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // parser details stay internal
		return
	}
	id, err := h.svc.CreateStaff(c.Request.Context(), service.NewStaff{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		AdminGroupID: req.AdminGroupID,
		Signature:    req.Signature,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, gin.H{"id": id})
}

func (h *StaffHandler) get(c *gin.Context) {
	a, err := h.svc.GetStaff(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, a)
}

type updateStaffRequest struct {
	Email        *string `json:"email"`
	Name         *string `json:"name"`
	Status       *string `json:"status"`
	Signature    *string `json:"signature"`
	AdminGroupID *int64  `json:"admin_group_id"`
}

func (h *StaffHandler) update(c *gin.Context) {
	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	a, err := h.svc.UpdateStaff(c.Request.Context(), pathID(c, "id"), model.AdminPatch{
		Email:        req.Email,
		Name:         req.Name,
		Status:       req.Status,
		Signature:    req.Signature,
		AdminGroupID: req.AdminGroupID,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, a)
}

func (h *StaffHandler) delete(c *gin.Context) {
	if err := h.svc.DeleteStaff(c.Request.Context(), pathID(c, "id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changePasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (h *StaffHandler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), pathID(c, "id"), req.Password, req.PasswordConfirm); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) getPermissions(c *gin.Context) {
	perms, err := h.svc.GetPermissions(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, perms)
}

func (h *StaffHandler) setPermissions(c *gin.Context) {
	var perms model.Permissions
	if err := c.ShouldBindJSON(&perms); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.SetPermissions(c.Request.Context(), pathID(c, "id"), perms); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) groupPairs(c *gin.Context) {
	pairs, err := h.svc.GroupPairs(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, pairs)
}

func (h *StaffHandler) listGroups(c *gin.Context) {
	req, err := pageRequest(c, h.perPage)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListGroups(c.Request.Context(), strings.TrimSpace(c.Query("search")), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type groupRequest struct {
	Name string `json:"name"`
}

func (h *StaffHandler) createGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	id, err := h.svc.CreateGroup(c.Request.Context(), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, gin.H{"id": id})
}

func (h *StaffHandler) getGroup(c *gin.Context) {
	g, err := h.svc.GetGroup(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, g)
}

func (h *StaffHandler) updateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	g, err := h.svc.UpdateGroup(c.Request.Context(), pathID(c, "id"), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, g)
}

func (h *StaffHandler) deleteGroup(c *gin.Context) {
	if err := h.svc.DeleteGroup(c.Request.Context(), pathID(c, "id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) listLogins(c *gin.Context) {
	req, err := pageRequest(c, h.perPage)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	adminID, err := queryID(c, "admin_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.LoginHistoryFilter{AdminID: adminID, Search: strings.TrimSpace(c.Query("search"))}
	res, err := h.svc.ListLoginHistory(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *StaffHandler) getLogin(c *gin.Context) {
	l, err := h.svc.GetLoginHistory(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, l)
}

func (h *StaffHandler) deleteLogin(c *gin.Context) {
	if err := h.svc.DeleteLoginHistory(c.Request.Context(), pathID(c, "id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *StaffHandler) batchDeleteLogins(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.BatchDeleteLoginHistory(c.Request.Context(), req.IDs); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
