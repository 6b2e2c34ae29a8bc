package domain

import "time"

// Request priorities.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// Request is a buyer's search criteria submitted by a broker. Shares the
// offer's property/usage/location vocabulary, with a budget interval in
// place of a price interval.
type Request struct {
	RequestID   string    `json:"id" dynamodbav:"request_id"`
	Type        string    `json:"type" dynamodbav:"type"`
	Usage       string    `json:"usage" dynamodbav:"usage"`
	City        string    `json:"city" dynamodbav:"city"`
	District    string    `json:"district" dynamodbav:"district"`
	AreaFrom    float64   `json:"area_from" dynamodbav:"area_from"`
	AreaTo      float64   `json:"area_to" dynamodbav:"area_to"`
	BudgetFrom  float64   `json:"budget_from" dynamodbav:"budget_from"`
	BudgetTo    float64   `json:"budget_to" dynamodbav:"budget_to"`
	Priority    string    `json:"priority" dynamodbav:"priority"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	CreatedByID string    `json:"created_by_id" dynamodbav:"created_by_id"`
	TeamID      *string   `json:"team_id,omitempty" dynamodbav:"team_id"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
	CreatedBy   *User     `json:"created_by,omitempty" dynamodbav:"-"`
}

type CreateRequestRequest struct {
	Type        string  `json:"type" validate:"required,oneof=LAND PROJECT PLAN"`
	Usage       string  `json:"usage" validate:"required,oneof=RESIDENTIAL COMMERCIAL ADMINISTRATIVE INDUSTRIAL AGRICULTURAL"`
	City        string  `json:"city" validate:"required"`
	District    string  `json:"district" validate:"required"`
	AreaFrom    float64 `json:"area_from" validate:"gte=0"`
	AreaTo      float64 `json:"area_to" validate:"gtefield=AreaFrom"`
	BudgetFrom  float64 `json:"budget_from" validate:"gte=0"`
	BudgetTo    float64 `json:"budget_to" validate:"gtefield=BudgetFrom"`
	Priority    string  `json:"priority" validate:"required,oneof=HIGH MEDIUM LOW"`
	Description string  `json:"description"`
	TeamID      *string `json:"team_id"`
}

type UpdateRequestRequest struct {
	Type        *string  `json:"type" validate:"omitempty,oneof=LAND PROJECT PLAN"`
	Usage       *string  `json:"usage" validate:"omitempty,oneof=RESIDENTIAL COMMERCIAL ADMINISTRATIVE INDUSTRIAL AGRICULTURAL"`
	City        *string  `json:"city"`
	District    *string  `json:"district"`
	AreaFrom    *float64 `json:"area_from"`
	AreaTo      *float64 `json:"area_to"`
	BudgetFrom  *float64 `json:"budget_from"`
	BudgetTo    *float64 `json:"budget_to"`
	Priority    *string  `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	Description *string  `json:"description"`
	TeamID      *string  `json:"team_id"`
}
