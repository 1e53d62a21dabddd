package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"team-status-backend/internal/board"
	"team-status-backend/internal/notification"
	"team-status-backend/internal/parse"
	"team-status-backend/internal/status"
)

type setStatusRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	State    string `json:"state" binding:"required"`
	Until    string `json:"until"`
	Reason   string `json:"reason"`
}

// PutStatus handles the PUT /api/status request: a member setting their own
// availability. Free-text time expressions are resolved here, before the
// lifecycle engine or the store ever see the request.
func (h *Handler) PutStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := status.State(req.State)
	if !st.Known() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown state %q", req.State)})
		return
	}

	now := h.now()
	var meta status.Metadata
	var reply string

	switch st {
	case status.StateActive:
		until, err := parse.Instant(req.Until, now, h.loc)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid date/time, please try again"})
			return
		}
		meta = status.Metadata{Until: &until}
		reply = fmt.Sprintf("You are active until %s", until.In(h.loc).Format(board.TimeLayout))

	case status.StateInactive:
		since := now
		meta = status.Metadata{Since: &since}
		reply = "You are now inactive"

	case status.StateSignedOff:
		until, err := parse.Instant(req.Until, now, h.loc)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid date, please try again"})
			return
		}
		meta = status.Metadata{Until: &until, Reason: req.Reason}
		reply = fmt.Sprintf("Signed off until %s", until.In(h.loc).Format(board.TimeLayout))
		if req.Reason != "" {
			reply += fmt.Sprintf(" (Reason: %s)", req.Reason)
		}
	}

	if err := h.store.SetStatus(c.Request.Context(), req.MemberID, st, meta, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(notification.Event{MemberID: req.MemberID, State: st})
	}

	// The board refresh is best-effort: a relay hiccup is recovered on the
	// next sweep and never surfaced to the member who set their status.
	if err := h.refreshBoard(c); err != nil {
		log.Printf("Failed to refresh board after status change: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}

func (h *Handler) refreshBoard(c *gin.Context) error {
	ctx := c.Request.Context()
	snap, err := h.store.GetAllStatuses(ctx)
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, board.RenderBoard(snap, h.cfg.Team.Roster, h.loc))
}
