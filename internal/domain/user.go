package domain

import "time"

// User roles. BROKER is the default for new registrations; MANAGER and
// ADMIN are assigned by an admin via the user update endpoint.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleBroker  = "BROKER"
)

type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Username     string     `json:"username" dynamodbav:"username"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	Phone        *string    `json:"phone" dynamodbav:"phone"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	Verified     bool       `json:"verified" dynamodbav:"verified"`
	Enable       int        `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	Enable   *int    `json:"enable"` // 1 = enabled, 0 = disabled
}

// ValidRole reports whether r is one of the known role names.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleBroker:
		return true
	}
	return false
}
