package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"team-status-backend/config"
	"team-status-backend/internal/model"
	"team-status-backend/internal/status"
)

// Event is one status transition worth announcing to subscribers.
type Event struct {
	MemberID string
	State    status.State
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers announcing status transitions to
// push subscribers.
type WorkerPool struct {
	size    int
	jobs    chan Event
	db      *gorm.DB
	webpush *webpush.Options
	roster  []config.Member
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, roster []config.Member) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Event, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		roster:  roster,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case ev := <-wp.jobs:
			log.Printf("Worker %d processing transition for member %s", id, ev.MemberID)
			wp.sendNotificationsForEvent(ctx, ev)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch hands an event to the worker pool. Events are dropped rather than
// blocking the caller when the queue is full.
func (wp *WorkerPool) Dispatch(ev Event) {
	select {
	case wp.jobs <- ev:
	default:
		log.Printf("Notification queue full; dropping event for member %s", ev.MemberID)
	}
}

// displayName resolves a member id against the roster, falling back to the
// raw id for members not on the roster.
func (wp *WorkerPool) displayName(memberID string) string {
	for _, m := range wp.roster {
		if m.ID == memberID {
			return m.Name
		}
	}
	return memberID
}

func transitionMessage(name string, st status.State) string {
	switch st {
	case status.StateActive:
		return fmt.Sprintf("%s is now active", name)
	case status.StateInactive:
		return fmt.Sprintf("%s is now inactive", name)
	case status.StateSignedOff:
		return fmt.Sprintf("%s has signed off", name)
	}
	return fmt.Sprintf("%s changed status", name)
}

// sendNotificationsForEvent fetches subscriptions and sends notifications for
// the member the event concerns.
func (wp *WorkerPool) sendNotificationsForEvent(ctx context.Context, ev Event) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_members sm ON sm.endpoint = push_subscriptions.endpoint").
		Where("sm.member_id = ?", ev.MemberID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for member %s: %v", ev.MemberID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for member %s", len(subscriptions), ev.MemberID)

	message := transitionMessage(wp.displayName(ev.MemberID), ev.State)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == 410 {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
		if err := wp.db.WithContext(ctx).
			Where("endpoint = ?", sub.Endpoint).
			Delete(&model.SubscriptionMember{}).Error; err != nil {
			log.Printf("Failed to delete member mappings for %s: %v", sub.Endpoint, err)
		}
	}
}
