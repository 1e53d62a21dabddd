package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"team-status-backend/internal/board"
)

const weeklyWindow = 7 * 24 * time.Hour

// requireManager aborts with a denial when the caller is not the manager.
// Identity comes from the X-Member-ID header set by the interaction gateway.
func (h *Handler) requireManager(c *gin.Context) bool {
	if !h.isManager(c.GetHeader("X-Member-ID")) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you are not authorized to do that"})
		return false
	}
	return true
}

// PostBoard handles POST /api/board: the manager publishing or refreshing
// the status board message.
func (h *Handler) PostBoard(c *gin.Context) {
	if !h.requireManager(c) {
		return
	}

	if err := h.refreshBoard(c); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to publish board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "board published"})
}

// GetBoardPreview handles GET /api/board/preview: the rendered board without
// touching the chat relay. Responses are cached by the router.
func (h *Handler) GetBoardPreview(c *gin.Context) {
	snap, err := h.store.GetAllStatuses(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load statuses"})
		return
	}

	c.JSON(http.StatusOK, board.RenderBoard(snap, h.cfg.Team.Roster, h.loc))
}

// GetWeeklyReport handles GET /api/report/weekly: the manager-only activity
// report over the trailing 7-day window.
func (h *Handler) GetWeeklyReport(c *gin.Context) {
	if !h.requireManager(c) {
		return
	}

	windowStart := h.now().Add(-weeklyWindow)
	entries, err := h.store.GetLogSince(c.Request.Context(), windowStart)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity log"})
		return
	}

	c.JSON(http.StatusOK, board.RenderWeeklyReport(entries, h.cfg.Team.Roster, windowStart))
}
