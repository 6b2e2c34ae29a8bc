package domain

import "time"

// Team member roles within a team (distinct from the global user role).
const (
	TeamMemberLead   = "LEAD"
	TeamMemberMember = "MEMBER"
)

type TeamMember struct {
	UserID  string    `json:"user_id" dynamodbav:"user_id"`
	Role    string    `json:"role" dynamodbav:"role"`
	AddedAt time.Time `json:"added_at" dynamodbav:"added_at"`
	User    *User     `json:"user,omitempty" dynamodbav:"-"`
}

// Team groups brokers for match visibility: non-admin users see matches
// whose offer or request belongs to a member of their team.
type Team struct {
	TeamID    string       `json:"id" dynamodbav:"team_id"`
	Name      string       `json:"name" dynamodbav:"name"`
	Type      string       `json:"type" dynamodbav:"type"`
	Members   []TeamMember `json:"members" dynamodbav:"members"`
	CreatedAt time.Time    `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time    `json:"updated" dynamodbav:"updated_at"`
}

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

type AddTeamMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=LEAD MEMBER"`
}
