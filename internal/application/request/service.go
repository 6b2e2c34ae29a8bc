package request

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
	fieldCity        = "city"
	fieldDistrict    = "district"
	fieldAreaFrom    = "area_from"
	fieldAreaTo      = "area_to"
	fieldBudgetFrom  = "budget_from"
	fieldBudgetTo    = "budget_to"
	fieldPriority    = "priority"
	fieldDescription = "description"
	fieldTeamID      = "team_id"
)

type Service interface {
	Create(ctx context.Context, creatorID string, req domain.CreateRequestRequest) (*domain.Request, error)
	List(ctx context.Context, actorID, actorRole string) ([]domain.Request, error)
	Get(ctx context.Context, requestID string) (*domain.Request, error)
	Update(ctx context.Context, requestID, actorID, actorRole string, req domain.UpdateRequestRequest) (*domain.Request, error)
	Delete(ctx context.Context, requestID, actorID, actorRole string) error
}

type requestStore interface {
	Put(ctx context.Context, req *domain.Request) error
	Get(ctx context.Context, requestID string) (*domain.Request, error)
	ScanAll(ctx context.Context) ([]domain.Request, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Request, error)
	Update(ctx context.Context, requestID string, updates map[string]interface{}) error
	Delete(ctx context.Context, requestID string) error
}

// matcher is the reconciliation trigger, fired exactly once at creation.
type matcher interface {
	TriggerRequest(req *domain.Request)
}

type service struct {
	repo     requestStore
	matching matcher
}

func NewService(repo requestStore, matching matcher) Service {
	return &service{repo: repo, matching: matching}
}

func (s *service) Create(ctx context.Context, creatorID string, req domain.CreateRequestRequest) (*domain.Request, error) {
	now := time.Now().UTC()
	r := &domain.Request{
		RequestID:   id.New(),
		Type:        req.Type,
		Usage:       req.Usage,
		City:        req.City,
		District:    req.District,
		AreaFrom:    req.AreaFrom,
		AreaTo:      req.AreaTo,
		BudgetFrom:  req.BudgetFrom,
		BudgetTo:    req.BudgetTo,
		Priority:    req.Priority,
		Description: req.Description,
		CreatedByID: creatorID,
		TeamID:      req.TeamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	s.matching.TriggerRequest(r)
	return r, nil
}

// List returns every request for elevated roles and only the caller's
// own requests for brokers.
func (s *service) List(ctx context.Context, actorID, actorRole string) ([]domain.Request, error) {
	if actorRole == domain.RoleAdmin || actorRole == domain.RoleManager {
		return s.repo.ScanAll(ctx)
	}
	return s.repo.ListByOwner(ctx, actorID)
}

func (s *service) Get(ctx context.Context, requestID string) (*domain.Request, error) {
	return s.repo.Get(ctx, requestID)
}

func (s *service) Update(ctx context.Context, requestID, actorID, actorRole string, req domain.UpdateRequestRequest) (*domain.Request, error) {
	existing, err := s.repo.Get(ctx, requestID)
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
	if req.BudgetFrom != nil {
		updates[fieldBudgetFrom] = *req.BudgetFrom
	}
	if req.BudgetTo != nil {
		updates[fieldBudgetTo] = *req.BudgetTo
	}
	if req.Priority != nil {
		updates[fieldPriority] = *req.Priority
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
	if err := s.repo.Update(ctx, requestID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, requestID)
}

func (s *service) Delete(ctx context.Context, requestID, actorID, actorRole string) error {
	existing, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if err := authorize(existing.CreatedByID, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.Delete(ctx, requestID)
}

func authorize(ownerID, actorID, actorRole string) error {
	if actorID == ownerID {
		return nil
	}
	if actorRole == domain.RoleAdmin || actorRole == domain.RoleManager {
		return nil
	}
	return fmt.Errorf("not the owner of this request: %w", domain.ErrForbidden)
}
