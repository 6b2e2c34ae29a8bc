package match

import (
	"context"
	"fmt"

	"github.com/aqarmatch/api/internal/domain"
)

type Service interface {
	List(ctx context.Context, actorID, actorRole string) ([]domain.Match, error)
	Get(ctx context.Context, matchID, actorID, actorRole string) (*domain.Match, error)
	UpdateStatus(ctx context.Context, matchID, actorID, actorRole, status string) (*domain.Match, error)
}

type matchStore interface {
	ScanAll(ctx context.Context) ([]domain.Match, error)
	GetByID(ctx context.Context, matchID string) (*domain.Match, error)
	UpdateStatus(ctx context.Context, offerID, requestID, status string) error
}

type offerStore interface {
	Get(ctx context.Context, offerID string) (*domain.Offer, error)
	ScanAll(ctx context.Context) ([]domain.Offer, error)
}

type requestStore interface {
	Get(ctx context.Context, requestID string) (*domain.Request, error)
	ScanAll(ctx context.Context) ([]domain.Request, error)
}

type teamStore interface {
	Scan(ctx context.Context) ([]domain.Team, error)
}

type service struct {
	matches  matchStore
	offers   offerStore
	requests requestStore
	teams    teamStore
}

func NewService(matches matchStore, offers offerStore, requests requestStore, teams teamStore) Service {
	return &service{matches: matches, offers: offers, requests: requests, teams: teams}
}

// List returns matches visible to the actor, with the offer and request
// sides joined in. Admins see everything; everyone else sees matches
// whose offer or request belongs to themselves or a teammate.
func (s *service) List(ctx context.Context, actorID, actorRole string) ([]domain.Match, error) {
	all, err := s.matches.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	offers, err := s.offers.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	offersByID := make(map[string]*domain.Offer, len(offers))
	for i := range offers {
		offersByID[offers[i].OfferID] = &offers[i]
	}
	requestsByID := make(map[string]*domain.Request, len(requests))
	for i := range requests {
		requestsByID[requests[i].RequestID] = &requests[i]
	}

	var visible map[string]bool
	if actorRole != domain.RoleAdmin {
		if visible, err = s.visibleUserIDs(ctx, actorID); err != nil {
			return nil, err
		}
	}

	out := make([]domain.Match, 0, len(all))
	for i := range all {
		m := all[i]
		m.Offer = offersByID[m.OfferID]
		m.Request = requestsByID[m.RequestID]
		if visible != nil && !matchVisible(&m, visible) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, matchID, actorID, actorRole string) (*domain.Match, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if o, err := s.offers.Get(ctx, m.OfferID); err == nil {
		m.Offer = o
	}
	if r, err := s.requests.Get(ctx, m.RequestID); err == nil {
		m.Request = r
	}
	if actorRole != domain.RoleAdmin {
		visible, err := s.visibleUserIDs(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !matchVisible(m, visible) {
			return nil, fmt.Errorf("match not visible to this user: %w", domain.ErrForbidden)
		}
	}
	return m, nil
}

// UpdateStatus moves a match through the pipeline. Status is the only
// mutable field; score and the pair itself never change.
func (s *service) UpdateStatus(ctx context.Context, matchID, actorID, actorRole, status string) (*domain.Match, error) {
	if !domain.ValidMatchStatus(status) {
		return nil, fmt.Errorf("invalid match status %q: %w", status, domain.ErrBadRequest)
	}
	m, err := s.Get(ctx, matchID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if err := s.matches.UpdateStatus(ctx, m.OfferID, m.RequestID, status); err != nil {
		return nil, err
	}
	m.Status = status
	return m, nil
}

// visibleUserIDs collects the actor plus every member of every team the
// actor belongs to.
func (s *service) visibleUserIDs(ctx context.Context, actorID string) (map[string]bool, error) {
	visible := map[string]bool{actorID: true}
	teams, err := s.teams.Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		member := false
		for _, tm := range t.Members {
			if tm.UserID == actorID {
				member = true
				break
			}
		}
		if !member {
			continue
		}
		for _, tm := range t.Members {
			visible[tm.UserID] = true
		}
	}
	return visible, nil
}

func matchVisible(m *domain.Match, visible map[string]bool) bool {
	if m.Offer != nil && visible[m.Offer.CreatedByID] {
		return true
	}
	if m.Request != nil && visible[m.Request.CreatedByID] {
		return true
	}
	return false
}
