package domain

import "time"

// Match statuses. A match starts NEW and moves through the pipeline via
// the status update endpoint; status is the only mutable field.
const (
	MatchNew         = "NEW"
	MatchContacted   = "CONTACTED"
	MatchNegotiation = "NEGOTIATION"
	MatchClosed      = "CLOSED"
	MatchRejected    = "REJECTED"
)

// Match is a scored association between exactly one offer and one
// request. The (OfferID, RequestID) pair is the natural key: the store
// enforces at most one match per pair with a conditional write, which is
// the sole backstop against concurrent reconciliations discovering the
// same pair.
type Match struct {
	MatchID   string    `json:"id" dynamodbav:"match_id"`
	OfferID   string    `json:"offer_id" dynamodbav:"offer_id"`
	RequestID string    `json:"request_id" dynamodbav:"request_id"`
	Score     int       `json:"score" dynamodbav:"score"`
	Status    string    `json:"status" dynamodbav:"status"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
	Offer     *Offer    `json:"offer,omitempty" dynamodbav:"-"`
	Request   *Request  `json:"request,omitempty" dynamodbav:"-"`
}

// ValidMatchStatus reports whether s is a known match status.
func ValidMatchStatus(s string) bool {
	switch s {
	case MatchNew, MatchContacted, MatchNegotiation, MatchClosed, MatchRejected:
		return true
	}
	return false
}
