package dashboard

import (
	"context"
	"sort"

	"github.com/aqarmatch/api/internal/domain"
)

// topBrokerLimit caps the KPI list at the five most active brokers.
const topBrokerLimit = 5

type Service interface {
	Summary(ctx context.Context, actorID, actorRole string) (*Summary, error)
	TopBrokers(ctx context.Context, actorID, actorRole string) ([]BrokerActivity, error)
	TopCities(ctx context.Context, actorID, actorRole string) ([]CityActivity, error)
}

// Summary holds the headline counts shown on the dashboard.
type Summary struct {
	Offers   int `json:"offers"`
	Requests int `json:"requests"`
	Matches  int `json:"matches"`
}

// BrokerActivity ranks a broker by the number of offers they created.
type BrokerActivity struct {
	BrokerID string `json:"broker_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// CityActivity ranks a city by the number of offers listed in it.
type CityActivity struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type offerStore interface {
	ScanAll(ctx context.Context) ([]domain.Offer, error)
}

type requestStore interface {
	ScanAll(ctx context.Context) ([]domain.Request, error)
}

type matchStore interface {
	ScanAll(ctx context.Context) ([]domain.Match, error)
}

type teamStore interface {
	Scan(ctx context.Context) ([]domain.Team, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	offers   offerStore
	requests requestStore
	matches  matchStore
	teams    teamStore
	users    userStore
}

func NewService(offers offerStore, requests requestStore, matches matchStore, teams teamStore, users userStore) Service {
	return &service{offers: offers, requests: requests, matches: matches, teams: teams, users: users}
}

// Summary counts the offers, requests and matches visible to the actor.
// Admins count everything; everyone else counts entities created by
// themselves or a teammate, and matches touching such an entity on
// either side.
func (s *service) Summary(ctx context.Context, actorID, actorRole string) (*Summary, error) {
	offers, err := s.offers.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := s.matches.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	visible, err := s.visibleUserIDs(ctx, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if visible == nil {
		return &Summary{Offers: len(offers), Requests: len(requests), Matches: len(matches)}, nil
	}

	sum := &Summary{}
	offerOwners := make(map[string]string, len(offers))
	for _, o := range offers {
		offerOwners[o.OfferID] = o.CreatedByID
		if visible[o.CreatedByID] {
			sum.Offers++
		}
	}
	requestOwners := make(map[string]string, len(requests))
	for _, r := range requests {
		requestOwners[r.RequestID] = r.CreatedByID
		if visible[r.CreatedByID] {
			sum.Requests++
		}
	}
	for _, m := range matches {
		if visible[offerOwners[m.OfferID]] || visible[requestOwners[m.RequestID]] {
			sum.Matches++
		}
	}
	return sum, nil
}

// TopBrokers ranks the visible brokers by offers created, most active
// first, capped at five. Names come from the users table; a broker
// whose user row is gone ranks under their id alone.
func (s *service) TopBrokers(ctx context.Context, actorID, actorRole string) ([]BrokerActivity, error) {
	offers, err := s.offers.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	visible, err := s.visibleUserIDs(ctx, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, o := range offers {
		if visible != nil && !visible[o.CreatedByID] {
			continue
		}
		counts[o.CreatedByID]++
	}

	ranked := make([]BrokerActivity, 0, len(counts))
	for brokerID, n := range counts {
		ranked = append(ranked, BrokerActivity{BrokerID: brokerID, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].BrokerID < ranked[j].BrokerID
	})
	if len(ranked) > topBrokerLimit {
		ranked = ranked[:topBrokerLimit]
	}

	for i := range ranked {
		if u, err := s.users.Get(ctx, ranked[i].BrokerID); err == nil {
			ranked[i].Name = u.Name
		}
	}
	return ranked, nil
}

// TopCities ranks cities by visible offer count, most listed first,
// capped at five.
func (s *service) TopCities(ctx context.Context, actorID, actorRole string) ([]CityActivity, error) {
	offers, err := s.offers.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	visible, err := s.visibleUserIDs(ctx, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, o := range offers {
		if visible != nil && !visible[o.CreatedByID] {
			continue
		}
		if o.City == "" {
			continue
		}
		counts[o.City]++
	}

	ranked := make([]CityActivity, 0, len(counts))
	for city, n := range counts {
		ranked = append(ranked, CityActivity{City: city, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].City < ranked[j].City
	})
	if len(ranked) > topBrokerLimit {
		ranked = ranked[:topBrokerLimit]
	}
	return ranked, nil
}

// visibleUserIDs returns nil for admins (no filtering); otherwise the
// actor plus every member of every team the actor belongs to. Same
// visibility rule the match listing applies.
func (s *service) visibleUserIDs(ctx context.Context, actorID, actorRole string) (map[string]bool, error) {
	if actorRole == domain.RoleAdmin {
		return nil, nil
	}
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
