package sweep

import (
	"context"
	"log"
	"time"

	"team-status-backend/config"
	"team-status-backend/internal/board"
	"team-status-backend/internal/notification"
	"team-status-backend/internal/status"
	"team-status-backend/internal/store"
)

// BoardPublisher publishes a rendered board to the chat relay.
type BoardPublisher interface {
	Publish(ctx context.Context, b board.Board) error
}

// Service runs the periodic expiry reconciliation pass: overdue active
// statuses become inactive, the board is republished, and subscribers are
// notified of the transitions.
type Service struct {
	cfg       *config.Config
	store     store.Store
	publisher BoardPublisher
	pool      *notification.WorkerPool // nil when push is disabled
	loc       *time.Location

	// now is the clock; injectable so expiry is testable without a timer.
	now func() time.Time
}

// NewService creates and initializes a new sweep service.
func NewService(cfg *config.Config, s store.Store, publisher BoardPublisher, pool *notification.WorkerPool, loc *time.Location) *Service {
	return &Service{
		cfg:       cfg,
		store:     s,
		publisher: publisher,
		pool:      pool,
		loc:       loc,
		now:       time.Now,
	}
}

// Run starts the reconciliation loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sweep.Enabled {
		log.Println("Sweep is disabled. Not starting.")
		return
	}
	log.Println("Starting sweep service...")

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Sweep.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sweep service shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Sweep.Interval)
		}
	}
}

// SweepOnce performs a single reconciliation pass.
//
// Applying a transition reuses the same upsert path a manual status change
// takes, so a concurrent manual change interleaving with the sweep is safe:
// the second writer simply overwrites, and an already-applied expiry is no
// longer active on the next pass.
func (s *Service) SweepOnce(ctx context.Context) {
	now := s.now().UTC()

	snap, err := s.store.GetAllStatuses(ctx)
	if err != nil {
		log.Printf("Sweep aborted: %v", err)
		return
	}

	transitions := status.ComputeExpiry(snap, now)
	for _, tr := range transitions {
		if err := s.store.SetStatus(ctx, tr.MemberID, tr.State, tr.Meta, now); err != nil {
			log.Printf("Failed to expire status for member %s: %v", tr.MemberID, err)
			continue
		}
		snap[tr.MemberID] = status.Entry{State: tr.State, Meta: tr.Meta}
		if s.pool != nil {
			s.pool.Dispatch(notification.Event{MemberID: tr.MemberID, State: tr.State})
		}
	}

	if len(transitions) > 0 {
		log.Printf("Sweep expired %d member(s)", len(transitions))
	}

	rendered := board.RenderBoard(snap, s.cfg.Team.Roster, s.loc)
	if err := s.publisher.Publish(ctx, rendered); err != nil {
		log.Printf("Failed to publish board after sweep: %v", err)
	}
}
