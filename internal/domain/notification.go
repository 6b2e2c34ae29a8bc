package domain

import "time"

// Notification statuses.
const (
	NotificationUnread   = "UNREAD"
	NotificationRead     = "READ"
	NotificationArchived = "ARCHIVED"
)

// Notification is a per-user alert created in pairs when a new match is
// persisted: one row for the offer owner, one for the request owner.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	MatchID        string    `json:"match_id" dynamodbav:"match_id"`
	Message        string    `json:"message" dynamodbav:"message"`
	Status         string    `json:"status" dynamodbav:"status"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

// ValidNotificationStatus reports whether s is a known notification status.
func ValidNotificationStatus(s string) bool {
	switch s {
	case NotificationUnread, NotificationRead, NotificationArchived:
		return true
	}
	return false
}
