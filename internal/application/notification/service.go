package notification

import (
	"context"
	"fmt"

	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/infrastructure/dynamo"
)

type Service interface {
	List(ctx context.Context, userID, status string) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	UpdateStatus(ctx context.Context, notificationID, userID, status string) (*domain.Notification, error)
}

type service struct {
	repo *dynamo.NotificationRepo
}

func NewService(repo *dynamo.NotificationRepo) Service {
	return &service{repo: repo}
}

// List returns the user's notifications newest first, optionally
// filtered by status. An empty status returns everything.
func (s *service) List(ctx context.Context, userID, status string) ([]domain.Notification, error) {
	if status != "" && !domain.ValidNotificationStatus(status) {
		return nil, fmt.Errorf("invalid notification status %q: %w", status, domain.ErrBadRequest)
	}
	return s.repo.ListByUser(ctx, userID, status)
}

func (s *service) Get(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("not the recipient: %w", domain.ErrForbidden)
	}
	return n, nil
}

// UpdateStatus marks a notification READ or ARCHIVED. Only the
// recipient may change it, and it cannot go back to UNREAD.
func (s *service) UpdateStatus(ctx context.Context, notificationID, userID, status string) (*domain.Notification, error) {
	if status != domain.NotificationRead && status != domain.NotificationArchived {
		return nil, fmt.Errorf("status must be READ or ARCHIVED: %w", domain.ErrBadRequest)
	}
	if _, err := s.Get(ctx, notificationID, userID); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, notificationID, status)
}
