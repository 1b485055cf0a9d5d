package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/board"
	"taskboard/internal/logging"
	"taskboard/internal/server/app"
)

// APIHandler serves the board API on top of the app service.
type APIHandler struct {
	service *app.Service
	health  *app.HealthChecker
	logger  logging.Logger
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(service *app.Service, health *app.HealthChecker) *APIHandler {
	return &APIHandler{
		service: service,
		health:  health,
		logger:  logging.NewComponentLogger("APIHandler"),
	}
}

// HandleCreateEditor creates a new editor session.
// POST /api/editors
func (h *APIHandler) HandleCreateEditor(c *gin.Context) {
	var req createEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondBadRequest(c, "title is required")
		return
	}
	column, err := board.ParseColumn(req.Column)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	state := h.service.CreateEditor(c.Request.Context(), req.Title, column)
	respondData(c, http.StatusCreated, state)
}

// HandleListEditors lists all editor sessions, newest first.
// GET /api/editors
func (h *APIHandler) HandleListEditors(c *gin.Context) {
	respondData(c, http.StatusOK, h.service.ListEditors())
}

// HandleGetEditor returns one editor session.
// GET /api/editors/:id
func (h *APIHandler) HandleGetEditor(c *gin.Context) {
	id := c.Param("id")
	if err := validateEditorID(id); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	state, err := h.service.GetEditor(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, state)
}

// HandleDeleteEditor drops an editor session.
// DELETE /api/editors/:id
func (h *APIHandler) HandleDeleteEditor(c *gin.Context) {
	id := c.Param("id")
	if err := validateEditorID(id); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.service.DeleteEditor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "editor deleted",
	})
}

// HandleLimits reports the active intake policy.
// GET /api/limits
func (h *APIHandler) HandleLimits(c *gin.Context) {
	respondData(c, http.StatusOK, h.service.Limits())
}

// HandleHealthCheck aggregates component probes. Any not-ready component
// makes the endpoint report 503.
// GET /health
func (h *APIHandler) HandleHealthCheck(c *gin.Context) {
	results := h.health.CheckAll(c.Request.Context())
	overall := app.OverallStatus(results)

	status := http.StatusOK
	if overall == app.HealthStatusNotReady {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":     overall,
		"components": results,
	})
}
