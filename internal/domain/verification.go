package domain

// UserVerification stores short-lived OTP and email confirmation codes.
// PK: user_id, SK: type ("otp" | "email"). ExpiresAt is a Unix timestamp
// used as the table's DynamoDB TTL attribute, so expired codes vanish
// without a cleanup job.
type UserVerification struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Type      string `json:"type" dynamodbav:"type"` // "otp" | "email"
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
