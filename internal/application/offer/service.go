package offer

import (
	"context"
	"fmt"
	"time"

	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldType        = "type"
	fieldUsage       = "usage"
	fieldLandStatus  = "land_status"
	fieldCity        = "city"
	fieldDistrict    = "district"
	fieldAreaFrom    = "area_from"
	fieldAreaTo      = "area_to"
	fieldPriceFrom   = "price_from"
	fieldPriceTo     = "price_to"
	fieldExclusivity = "exclusivity"
	fieldDescription = "description"
	fieldTeamID      = "team_id"
)

type Service interface {
	Create(ctx context.Context, creatorID string, req domain.CreateOfferRequest) (*domain.Offer, error)
	List(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, error)
	Get(ctx context.Context, offerID string) (*domain.Offer, error)
	Update(ctx context.Context, offerID, actorID, actorRole string, req domain.UpdateOfferRequest) (*domain.Offer, error)
	Delete(ctx context.Context, offerID, actorID, actorRole string) error
}

type offerStore interface {
	Put(ctx context.Context, o *domain.Offer) error
	Get(ctx context.Context, offerID string) (*domain.Offer, error)
	List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, error)
	Update(ctx context.Context, offerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, offerID string) error
}

// matcher is the reconciliation trigger. Creation fires it exactly
// once, after the offer row is durable; updates never re-trigger.
type matcher interface {
	TriggerOffer(offer *domain.Offer)
}

type service struct {
	repo     offerStore
	matching matcher
}

func NewService(repo offerStore, matching matcher) Service {
	return &service{repo: repo, matching: matching}
}

func (s *service) Create(ctx context.Context, creatorID string, req domain.CreateOfferRequest) (*domain.Offer, error) {
	now := time.Now().UTC()
	o := &domain.Offer{
		OfferID:     id.New(),
		Type:        req.Type,
		Usage:       req.Usage,
		LandStatus:  req.LandStatus,
		City:        req.City,
		District:    req.District,
		AreaFrom:    req.AreaFrom,
		AreaTo:      req.AreaTo,
		PriceFrom:   req.PriceFrom,
		PriceTo:     req.PriceTo,
		Exclusivity: req.Exclusivity,
		Description: req.Description,
		CreatedByID: creatorID,
		TeamID:      req.TeamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return nil, err
	}
	s.matching.TriggerOffer(o)
	return o, nil
}

func (s *service) List(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, offerID string) (*domain.Offer, error) {
	return s.repo.Get(ctx, offerID)
}

func (s *service) Update(ctx context.Context, offerID, actorID, actorRole string, req domain.UpdateOfferRequest) (*domain.Offer, error) {
	existing, err := s.repo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := authorize(existing.CreatedByID, actorID, actorRole); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Type != nil {
		updates[fieldType] = *req.Type
	}
	if req.Usage != nil {
		updates[fieldUsage] = *req.Usage
	}
	if req.LandStatus != nil {
		updates[fieldLandStatus] = *req.LandStatus
	}
	if req.City != nil {
		updates[fieldCity] = *req.City
	}
	if req.District != nil {
		updates[fieldDistrict] = *req.District
	}
	if req.AreaFrom != nil {
		updates[fieldAreaFrom] = *req.AreaFrom
	}
	if req.AreaTo != nil {
		updates[fieldAreaTo] = *req.AreaTo
	}
	if req.PriceFrom != nil {
		updates[fieldPriceFrom] = *req.PriceFrom
	}
	if req.PriceTo != nil {
		updates[fieldPriceTo] = *req.PriceTo
	}
	if req.Exclusivity != nil {
		updates[fieldExclusivity] = *req.Exclusivity
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.TeamID != nil {
		updates[fieldTeamID] = *req.TeamID
	}
	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.Update(ctx, offerID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, offerID)
}

func (s *service) Delete(ctx context.Context, offerID, actorID, actorRole string) error {
	existing, err := s.repo.Get(ctx, offerID)
	if err != nil {
		return err
	}
	if err := authorize(existing.CreatedByID, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.Delete(ctx, offerID)
}

// authorize allows the owner or an elevated role to mutate a listing.
func authorize(ownerID, actorID, actorRole string) error {
	if actorID == ownerID {
		return nil
	}
	if actorRole == domain.RoleAdmin || actorRole == domain.RoleManager {
		return nil
	}
	return fmt.Errorf("not the owner of this offer: %w", domain.ErrForbidden)
}
