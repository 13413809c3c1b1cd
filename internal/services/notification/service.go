// Package notification delivers best-effort user notifications. Events are
// queued on a buffered channel and handled by a background worker so delivery
// never blocks or fails the request that produced them.
package notification

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
)

// Notifier is the side-channel the domain services publish to.
type Notifier interface {
	Notify(userID uint, notifType, title, body string, data models.JSON)
}

// Service persists notifications and pushes them to the user's devices.
type Service struct {
	repo     repositories.NotificationRepository
	userRepo repositories.UserRepository
	push     PushSender

	queue    chan models.Notification
	wg       sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}

	sent   atomic.Int64
	failed atomic.Int64
}

const defaultQueueSize = 256

// NewService creates the notification service and starts its worker.
func NewService(repo repositories.NotificationRepository, userRepo repositories.UserRepository, push PushSender) *Service {
	if repo == nil {
		panic("notification repository is required")
	}
	if userRepo == nil {
		panic("user repository is required")
	}

	s := &Service{
		repo:     repo,
		userRepo: userRepo,
		push:     push,
		queue:    make(chan models.Notification, defaultQueueSize),
		stop:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.worker()
	return s
}

// Notify enqueues a notification. When the queue is full the event is dropped
// and counted; the caller is never blocked.
func (s *Service) Notify(userID uint, notifType, title, body string, data models.JSON) {
	n := models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now(),
	}

	select {
	case s.queue <- n:
	default:
		s.failed.Add(1)
		log.Printf("notification queue full, dropping %s for user %d", notifType, userID)
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for {
		select {
		case n := <-s.queue:
			s.deliver(n)
		case <-s.stop:
			// Drain what is already queued before exiting.
			for {
				select {
				case n := <-s.queue:
					s.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) deliver(n models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.repo.Create(ctx, &n); err != nil {
		s.failed.Add(1)
		log.Printf("failed to persist notification for user %d: %v", n.UserID, err)
		return
	}

	if s.push == nil {
		s.sent.Add(1)
		return
	}

	user, err := s.userRepo.GetByID(n.UserID)
	if err != nil {
		s.failed.Add(1)
		log.Printf("failed to load user %d for push: %v", n.UserID, err)
		return
	}
	if !user.AllowsNotifications || len(user.PushTokens) == 0 {
		s.sent.Add(1)
		return
	}

	for _, token := range user.PushTokens {
		if err := s.push.Send(ctx, token, n.Title, n.Body, n.Data); err != nil {
			s.failed.Add(1)
			log.Printf("push to user %d failed: %v", n.UserID, err)
			continue
		}
	}
	s.sent.Add(1)
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error) {
	return s.repo.ListForUser(ctx, userID, offset, limit)
}

// MarkRead stamps a single notification as read.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uint) error {
	return s.repo.MarkRead(ctx, notificationID, userID, time.Now())
}

// MarkAllRead stamps every unread notification of the user.
func (s *Service) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID, time.Now())
}

// CountUnread returns the unread badge count.
func (s *Service) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Stats returns delivered and failed counts since startup.
func (s *Service) Stats() (sent, failed int64) {
	return s.sent.Load(), s.failed.Load()
}

// Close stops the worker after draining the queue.
func (s *Service) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}
