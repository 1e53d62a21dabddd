package api

import (
	"context"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"team-status-backend/config"
	"team-status-backend/internal/board"
	"team-status-backend/internal/notification"
	"team-status-backend/internal/store"
)

// Publisher publishes a rendered board through the chat relay.
type Publisher interface {
	Publish(ctx context.Context, b board.Board) error
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	store     store.Store
	publisher Publisher
	pool      *notification.WorkerPool // nil when push is disabled
	webpush   *webpush.Options
	loc       *time.Location

	// now is the request clock; injectable for tests.
	now func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, s store.Store, publisher Publisher, pool *notification.WorkerPool, webpushOptions *webpush.Options, loc *time.Location) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     s,
		publisher: publisher,
		pool:      pool,
		webpush:   webpushOptions,
		loc:       loc,
		now:       time.Now,
	}
}

// isManager reports whether the given member id is the configured manager.
func (h *Handler) isManager(memberID string) bool {
	return memberID != "" && memberID == h.cfg.Team.ManagerID
}
