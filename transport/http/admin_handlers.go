package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/service"
)

// AdminHandlers contains HTTP handlers for the administrative endpoints
type AdminHandlers struct {
	projects *service.ProjectService
	admins   *service.AdminService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(projects *service.ProjectService, admins *service.AdminService) *AdminHandlers {
	return &AdminHandlers{projects: projects, admins: admins}
}

// ListProjects returns every project, newest first, plus the total count
func (h *AdminHandlers) ListProjects(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		writeError(c, err)
		return
	}

	projects, total, err := h.projects.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": newProjectList(projects, true),
		"total":    total,
	})
}

// ProjectsByAddress returns all projects owned by a wallet address
func (h *AdminHandlers) ProjectsByAddress(c *gin.Context) {
	projects, err := h.projects.ListByAddress(c.Request.Context(), c.Param("address"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": newProjectList(projects, true)})
}

// CreateProject provisions a project on behalf of the wallet in the path
func (h *AdminHandlers) CreateProject(c *gin.Context) {
	var req struct {
		Currency string `json:"currency" binding:"required"`
		Mode     string `json:"mode" binding:"required"`
		Network  string `json:"network" binding:"required"`
		PayUntil string `json:"pay_until" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.CreateFor(c.Request.Context(), c.Param("address"), service.CreateProjectInput{
		CurrencySymbol: req.Currency,
		Mode:           req.Mode,
		Network:        req.Network,
		PayUntil:       req.PayUntil,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project, true))
}

// ManageProject applies a partial update to any project
func (h *AdminHandlers) ManageProject(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("node_id"))
	if err != nil {
		writeError(c, core.ErrProjectNotFound)
		return
	}

	var req struct {
		ReserveUntil *string `json:"reserve_until"`
		IsPaid       *bool   `json:"is_paid"`
		Status       *string `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.Update(c.Request.Context(), nodeID, service.ProjectChanges{
		ReserveUntil: req.ReserveUntil,
		IsPaid:       req.IsPaid,
		Status:       req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project, true))
}

// DeleteProject removes any project regardless of owner
func (h *AdminHandlers) DeleteProject(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("node_id"))
	if err != nil {
		writeError(c, core.ErrProjectNotFound)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), nodeID, nil); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// ListAdmins returns the administrator roster
func (h *AdminHandlers) ListAdmins(c *gin.Context) {
	admins, err := h.admins.ListAdmins(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]identityResponse, len(admins))
	for i := range admins {
		out[i] = newIdentityResponse(&admins[i])
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// Promote grants administrator privilege to a wallet
func (h *AdminHandlers) Promote(c *gin.Context) {
	identity, err := h.admins.Promote(c.Request.Context(), c.Param("address"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newIdentityResponse(identity))
}

// Demote revokes administrator privilege from a wallet
func (h *AdminHandlers) Demote(c *gin.Context) {
	identity, err := h.admins.Demote(c.Request.Context(), c.Param("address"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newIdentityResponse(identity))
}
