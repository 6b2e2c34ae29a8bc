package domain

import "time"

// Submission link actions. A link may allow public offer submission,
// public request submission, or both.
const (
	LinkActionOffer   = "OFFER"
	LinkActionRequest = "REQUEST"
)

// SubmissionLink lets a broker collect offers or requests from the
// public without an account. Only the SHA-256 hash of the token is
// stored; the raw token is returned once at creation and travels in the
// public submission URL. Submissions are attributed to the link owner.
type SubmissionLink struct {
	TokenHash      string    `json:"-" dynamodbav:"token_hash"`
	LinkID         string    `json:"id" dynamodbav:"link_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	AllowedActions []string  `json:"allowed_actions" dynamodbav:"allowed_actions"`
	Enable         bool      `json:"enable" dynamodbav:"enable"`
	ExpiresAt      int64     `json:"expires_at,omitempty" dynamodbav:"expires_at"` // Unix seconds, 0 = never
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateSubmissionLinkRequest struct {
	ExpiresInDays  int      `json:"expires_in_days" validate:"omitempty,gt=0"`
	AllowedActions []string `json:"allowed_actions" validate:"omitempty,dive,oneof=OFFER REQUEST"`
}

// ValidLinkAction reports whether a is a known submission link action.
func ValidLinkAction(a string) bool {
	return a == LinkActionOffer || a == LinkActionRequest
}

// Allows reports whether the link permits the given action.
func (l *SubmissionLink) Allows(action string) bool {
	for _, a := range l.AllowedActions {
		if a == action {
			return true
		}
	}
	return false
}

// Expired reports whether the link's deadline has passed. Links with a
// zero ExpiresAt never expire.
func (l *SubmissionLink) Expired(now time.Time) bool {
	return l.ExpiresAt > 0 && now.Unix() > l.ExpiresAt
}
