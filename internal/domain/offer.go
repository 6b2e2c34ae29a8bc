package domain

import "time"

// Property types.
const (
	PropertyLand    = "LAND"
	PropertyProject = "PROJECT"
	PropertyPlan    = "PLAN"
)

// Usage types.
const (
	UsageResidential    = "RESIDENTIAL"
	UsageCommercial     = "COMMERCIAL"
	UsageAdministrative = "ADMINISTRATIVE"
	UsageIndustrial     = "INDUSTRIAL"
	UsageAgricultural   = "AGRICULTURAL"
)

// Land statuses.
const (
	LandRaw       = "RAW"
	LandDeveloped = "DEVELOPED"
)

// Exclusivity types.
const (
	Exclusive    = "EXCLUSIVE"
	NonExclusive = "NON_EXCLUSIVE"
)

// Offer is a property listing submitted by a broker. Offers are visible
// to every authenticated user; only the owner or an elevated role may
// mutate them.
type Offer struct {
	OfferID     string    `json:"id" dynamodbav:"offer_id"`
	Type        string    `json:"type" dynamodbav:"type"`
	Usage       string    `json:"usage" dynamodbav:"usage"`
	LandStatus  string    `json:"land_status,omitempty" dynamodbav:"land_status"`
	City        string    `json:"city" dynamodbav:"city"`
	District    string    `json:"district" dynamodbav:"district"`
	AreaFrom    float64   `json:"area_from" dynamodbav:"area_from"`
	AreaTo      float64   `json:"area_to" dynamodbav:"area_to"`
	PriceFrom   float64   `json:"price_from" dynamodbav:"price_from"`
	PriceTo     float64   `json:"price_to" dynamodbav:"price_to"`
	Exclusivity string    `json:"exclusivity,omitempty" dynamodbav:"exclusivity"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	CreatedByID string    `json:"created_by_id" dynamodbav:"created_by_id"`
	TeamID      *string   `json:"team_id,omitempty" dynamodbav:"team_id"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
	CreatedBy   *User     `json:"created_by,omitempty" dynamodbav:"-"`
}

type CreateOfferRequest struct {
	Type        string  `json:"type" validate:"required,oneof=LAND PROJECT PLAN"`
	Usage       string  `json:"usage" validate:"required,oneof=RESIDENTIAL COMMERCIAL ADMINISTRATIVE INDUSTRIAL AGRICULTURAL"`
	LandStatus  string  `json:"land_status" validate:"omitempty,oneof=RAW DEVELOPED"`
	City        string  `json:"city" validate:"required"`
	District    string  `json:"district" validate:"required"`
	AreaFrom    float64 `json:"area_from" validate:"gte=0"`
	AreaTo      float64 `json:"area_to" validate:"gtefield=AreaFrom"`
	PriceFrom   float64 `json:"price_from" validate:"gte=0"`
	PriceTo     float64 `json:"price_to" validate:"gtefield=PriceFrom"`
	Exclusivity string  `json:"exclusivity" validate:"omitempty,oneof=EXCLUSIVE NON_EXCLUSIVE"`
	Description string  `json:"description"`
	TeamID      *string `json:"team_id"`
}

type UpdateOfferRequest struct {
	Type        *string  `json:"type" validate:"omitempty,oneof=LAND PROJECT PLAN"`
	Usage       *string  `json:"usage" validate:"omitempty,oneof=RESIDENTIAL COMMERCIAL ADMINISTRATIVE INDUSTRIAL AGRICULTURAL"`
	LandStatus  *string  `json:"land_status" validate:"omitempty,oneof=RAW DEVELOPED"`
	City        *string  `json:"city"`
	District    *string  `json:"district"`
	AreaFrom    *float64 `json:"area_from"`
	AreaTo      *float64 `json:"area_to"`
	PriceFrom   *float64 `json:"price_from"`
	PriceTo     *float64 `json:"price_to"`
	Exclusivity *string  `json:"exclusivity" validate:"omitempty,oneof=EXCLUSIVE NON_EXCLUSIVE"`
	Description *string  `json:"description"`
	TeamID      *string  `json:"team_id"`
}

// OfferFilter narrows list queries. Range bounds use overlap semantics:
// an offer matches [MinPrice, MaxPrice] when its own price interval
// intersects it, and likewise for area.
type OfferFilter struct {
	Type     string
	Usage    string
	City     string
	District string
	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	MaxArea  *float64
	BrokerID string
}
