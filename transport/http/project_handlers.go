package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/service"
)

// ProjectHandlers contains HTTP handlers for owner-scoped project endpoints
type ProjectHandlers struct {
	projects *service.ProjectService
}

// NewProjectHandlers creates new project handlers
func NewProjectHandlers(projects *service.ProjectService) *ProjectHandlers {
	return &ProjectHandlers{projects: projects}
}

// Create provisions a new node project for the caller
func (h *ProjectHandlers) Create(c *gin.Context) {
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

	project, err := h.projects.Create(c.Request.Context(), identityFrom(c), service.CreateProjectInput{
		CurrencySymbol: req.Currency,
		Mode:           req.Mode,
		Network:        req.Network,
		PayUntil:       req.PayUntil,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project, false))
}

// List returns the caller's projects
func (h *ProjectHandlers) List(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		writeError(c, err)
		return
	}

	projects, err := h.projects.List(c.Request.Context(), identityFrom(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": newProjectList(projects, false)})
}

// Get returns one of the caller's projects
func (h *ProjectHandlers) Get(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("node_id"))
	if err != nil {
		writeError(c, core.ErrProjectNotFound)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), identityFrom(c), nodeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project, false))
}

// Delete removes one of the caller's projects
func (h *ProjectHandlers) Delete(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("node_id"))
	if err != nil {
		writeError(c, core.ErrProjectNotFound)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), nodeID, identityFrom(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// pagination reads optional limit/offset query parameters. Absent values
// default to an unbounded window.
func pagination(c *gin.Context) (int, int, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		return 0, 0, core.ErrInvalidPagination
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, core.ErrInvalidPagination
	}
	return limit, offset, nil
}
