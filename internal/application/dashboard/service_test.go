package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aqarmatch/api/internal/domain"
)

// --- mocks ---

type mockOfferStore struct{ mock.Mock }

func (m *mockOfferStore) ScanAll(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	if offers, _ := args.Get(0).([]domain.Offer); offers != nil {
		return offers, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRequestStore struct{ mock.Mock }

func (m *mockRequestStore) ScanAll(ctx context.Context) ([]domain.Request, error) {
	args := m.Called(ctx)
	if reqs, _ := args.Get(0).([]domain.Request); reqs != nil {
		return reqs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMatchStore struct{ mock.Mock }

func (m *mockMatchStore) ScanAll(ctx context.Context) ([]domain.Match, error) {
	args := m.Called(ctx)
	if matches, _ := args.Get(0).([]domain.Match); matches != nil {
		return matches, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTeamStore struct{ mock.Mock }

func (m *mockTeamStore) Scan(ctx context.Context) ([]domain.Team, error) {
	args := m.Called(ctx)
	if teams, _ := args.Get(0).([]domain.Team); teams != nil {
		return teams, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- fixtures ---
// broker-1 and broker-2 share a team; broker-3 works alone.

func fixtureTeams() []domain.Team {
	return []domain.Team{{
		TeamID: "t1",
		Name:   "فريق الرياض",
		Members: []domain.TeamMember{
			{UserID: "broker-1"},
			{UserID: "broker-2"},
		},
	}}
}

func fixtureOffers() []domain.Offer {
	return []domain.Offer{
		{OfferID: "o1", CreatedByID: "broker-1", City: "الرياض"},
		{OfferID: "o2", CreatedByID: "broker-2", City: "الرياض"},
		{OfferID: "o3", CreatedByID: "broker-2", City: "جدة"},
		{OfferID: "o4", CreatedByID: "broker-3", City: "جدة"},
	}
}

func fixtureRequests() []domain.Request {
	return []domain.Request{
		{RequestID: "r1", CreatedByID: "broker-1"},
		{RequestID: "r2", CreatedByID: "broker-3"},
	}
}

func fixtureMatches() []domain.Match {
	return []domain.Match{
		// Both sides inside the team.
		{MatchID: "m1", OfferID: "o1", RequestID: "r1"},
		// Offer side outside, request side inside.
		{MatchID: "m2", OfferID: "o4", RequestID: "r1"},
		// Both sides outside the team.
		{MatchID: "m3", OfferID: "o4", RequestID: "r2"},
	}
}

func newFixtureService() (Service, *mockUserStore) {
	os, rs, ms, ts, us := &mockOfferStore{}, &mockRequestStore{}, &mockMatchStore{}, &mockTeamStore{}, &mockUserStore{}
	os.On("ScanAll", mock.Anything).Return(fixtureOffers(), nil)
	rs.On("ScanAll", mock.Anything).Return(fixtureRequests(), nil)
	ms.On("ScanAll", mock.Anything).Return(fixtureMatches(), nil)
	ts.On("Scan", mock.Anything).Return(fixtureTeams(), nil)
	return NewService(os, rs, ms, ts, us), us
}

// --- Summary ---

func TestSummary_AdminCountsEverything(t *testing.T) {
	os, rs, ms, ts, us := &mockOfferStore{}, &mockRequestStore{}, &mockMatchStore{}, &mockTeamStore{}, &mockUserStore{}
	os.On("ScanAll", mock.Anything).Return(fixtureOffers(), nil)
	rs.On("ScanAll", mock.Anything).Return(fixtureRequests(), nil)
	ms.On("ScanAll", mock.Anything).Return(fixtureMatches(), nil)

	svc := NewService(os, rs, ms, ts, us)
	sum, err := svc.Summary(context.Background(), "admin-1", domain.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, &Summary{Offers: 4, Requests: 2, Matches: 3}, sum)
	ts.AssertNotCalled(t, "Scan", mock.Anything)
}

func TestSummary_BrokerScopedToTeam(t *testing.T) {
	svc, _ := newFixtureService()

	sum, err := svc.Summary(context.Background(), "broker-1", domain.RoleBroker)

	require.NoError(t, err)
	// o1, o2, o3 belong to the team; r1 does; m1 and m2 touch the team
	// on at least one side, m3 does not.
	assert.Equal(t, &Summary{Offers: 3, Requests: 1, Matches: 2}, sum)
}

func TestSummary_UnaffiliatedBrokerCountsOnlyOwn(t *testing.T) {
	svc, _ := newFixtureService()

	sum, err := svc.Summary(context.Background(), "broker-3", domain.RoleBroker)

	require.NoError(t, err)
	assert.Equal(t, &Summary{Offers: 1, Requests: 1, Matches: 2}, sum)
}

// --- TopBrokers ---

func TestTopBrokers_OrdersByOfferCount(t *testing.T) {
	svc, us := newFixtureService()
	us.On("Get", mock.Anything, "broker-2").Return(&domain.User{UserID: "broker-2", Name: "سارة"}, nil)
	us.On("Get", mock.Anything, "broker-1").Return(&domain.User{UserID: "broker-1", Name: "أحمد"}, nil)

	ranked, err := svc.TopBrokers(context.Background(), "broker-1", domain.RoleBroker)

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, BrokerActivity{BrokerID: "broker-2", Name: "سارة", Count: 2}, ranked[0])
	assert.Equal(t, BrokerActivity{BrokerID: "broker-1", Name: "أحمد", Count: 1}, ranked[1])
}

func TestTopBrokers_AdminSeesBrokersOutsideAnyTeam(t *testing.T) {
	os, rs, ms, ts, us := &mockOfferStore{}, &mockRequestStore{}, &mockMatchStore{}, &mockTeamStore{}, &mockUserStore{}
	os.On("ScanAll", mock.Anything).Return(fixtureOffers(), nil)
	us.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	svc := NewService(os, rs, ms, ts, us)
	ranked, err := svc.TopBrokers(context.Background(), "admin-1", domain.RoleAdmin)

	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "broker-2", ranked[0].BrokerID)
	// Missing user rows leave the name empty but keep the ranking.
	assert.Empty(t, ranked[0].Name)
}

func TestTopBrokers_CapsAtFive(t *testing.T) {
	os, rs, ms, ts, us := &mockOfferStore{}, &mockRequestStore{}, &mockMatchStore{}, &mockTeamStore{}, &mockUserStore{}
	offers := make([]domain.Offer, 0, 7)
	for i := 0; i < 7; i++ {
		offers = append(offers, domain.Offer{
			OfferID:     string(rune('a' + i)),
			CreatedByID: "broker-" + string(rune('a'+i)),
		})
	}
	os.On("ScanAll", mock.Anything).Return(offers, nil)
	us.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	svc := NewService(os, rs, ms, ts, us)
	ranked, err := svc.TopBrokers(context.Background(), "admin-1", domain.RoleAdmin)

	require.NoError(t, err)
	assert.Len(t, ranked, 5)
}

// --- TopCities ---

func TestTopCities_ScopedAndOrdered(t *testing.T) {
	svc, _ := newFixtureService()

	ranked, err := svc.TopCities(context.Background(), "broker-1", domain.RoleBroker)

	require.NoError(t, err)
	// Team offers: two in الرياض, one in جدة. broker-3's جدة offer is
	// outside the team and must not count.
	require.Len(t, ranked, 2)
	assert.Equal(t, CityActivity{City: "الرياض", Count: 2}, ranked[0])
	assert.Equal(t, CityActivity{City: "جدة", Count: 1}, ranked[1])
}
