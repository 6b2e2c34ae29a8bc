package match

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aqarmatch/api/internal/domain"
)

// --- mocks ---

type mockMatchStore struct{ mock.Mock }

func (m *mockMatchStore) ScanAll(ctx context.Context) ([]domain.Match, error) {
	args := m.Called(ctx)
	if ms, _ := args.Get(0).([]domain.Match); ms != nil {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMatchStore) GetByID(ctx context.Context, matchID string) (*domain.Match, error) {
	args := m.Called(ctx, matchID)
	if mt, _ := args.Get(0).(*domain.Match); mt != nil {
		return mt, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMatchStore) UpdateStatus(ctx context.Context, offerID, requestID, status string) error {
	return m.Called(ctx, offerID, requestID, status).Error(0)
}

type mockOfferStore struct{ mock.Mock }

func (m *mockOfferStore) Get(ctx context.Context, offerID string) (*domain.Offer, error) {
	args := m.Called(ctx, offerID)
	if o, _ := args.Get(0).(*domain.Offer); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOfferStore) ScanAll(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	if os, _ := args.Get(0).([]domain.Offer); os != nil {
		return os, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRequestStore struct{ mock.Mock }

func (m *mockRequestStore) Get(ctx context.Context, requestID string) (*domain.Request, error) {
	args := m.Called(ctx, requestID)
	if r, _ := args.Get(0).(*domain.Request); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRequestStore) ScanAll(ctx context.Context) ([]domain.Request, error) {
	args := m.Called(ctx)
	if rs, _ := args.Get(0).([]domain.Request); rs != nil {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTeamStore struct{ mock.Mock }

func (m *mockTeamStore) Scan(ctx context.Context) ([]domain.Team, error) {
	args := m.Called(ctx)
	if ts, _ := args.Get(0).([]domain.Team); ts != nil {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- fixtures ---

// Two matches: m1 belongs to broker-1's offer, m2 to broker-3's pair.
// broker-1 and broker-2 share a team; broker-3 is unaffiliated.
func fixtures() ([]domain.Match, []domain.Offer, []domain.Request, []domain.Team) {
	matches := []domain.Match{
		{MatchID: "m1", OfferID: "o1", RequestID: "r1", Score: 80, Status: domain.MatchNew},
		{MatchID: "m2", OfferID: "o2", RequestID: "r2", Score: 60, Status: domain.MatchNew},
	}
	offers := []domain.Offer{
		{OfferID: "o1", CreatedByID: "broker-1"},
		{OfferID: "o2", CreatedByID: "broker-3"},
	}
	requests := []domain.Request{
		{RequestID: "r1", CreatedByID: "broker-2"},
		{RequestID: "r2", CreatedByID: "broker-3"},
	}
	teams := []domain.Team{
		{TeamID: "t1", Name: "فريق الرياض", Members: []domain.TeamMember{
			{UserID: "broker-1", Role: domain.TeamMemberLead},
			{UserID: "broker-2", Role: domain.TeamMemberMember},
		}},
	}
	return matches, offers, requests, teams
}

func newFixtureService(t *testing.T) (Service, *mockMatchStore, *mockTeamStore) {
	t.Helper()
	matches, offers, requests, teams := fixtures()
	ms, os, rs, ts := &mockMatchStore{}, &mockOfferStore{}, &mockRequestStore{}, &mockTeamStore{}
	ms.On("ScanAll", mock.Anything).Return(matches, nil)
	os.On("ScanAll", mock.Anything).Return(offers, nil)
	rs.On("ScanAll", mock.Anything).Return(requests, nil)
	ts.On("Scan", mock.Anything).Return(teams, nil)
	return NewService(ms, os, rs, ts), ms, ts
}

// --- List tests ---

func TestList_AdminSeesEverything(t *testing.T) {
	svc, _, ts := newFixtureService(t)

	out, err := svc.List(context.Background(), "admin-1", domain.RoleAdmin)

	require.NoError(t, err)
	assert.Len(t, out, 2)
	ts.AssertNotCalled(t, "Scan", mock.Anything)
}

func TestList_BrokerSeesOwnAndTeammates(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	// broker-2 owns r1 and shares a team with broker-1 (owner of o1).
	out, err := svc.List(context.Background(), "broker-2", domain.RoleBroker)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "m1", out[0].MatchID)
	require.NotNil(t, out[0].Offer)
	require.NotNil(t, out[0].Request)
	assert.Equal(t, "broker-1", out[0].Offer.CreatedByID)
}

func TestList_UnaffiliatedBrokerSeesOnlyOwn(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	out, err := svc.List(context.Background(), "broker-3", domain.RoleBroker)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "m2", out[0].MatchID)
}

func TestList_StrangerSeesNothing(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	out, err := svc.List(context.Background(), "broker-9", domain.RoleBroker)

	require.NoError(t, err)
	assert.Empty(t, out)
}

// --- UpdateStatus tests ---

func TestUpdateStatus_InvalidStatusRejected(t *testing.T) {
	svc := NewService(&mockMatchStore{}, &mockOfferStore{}, &mockRequestStore{}, &mockTeamStore{})

	_, err := svc.UpdateStatus(context.Background(), "m1", "admin-1", domain.RoleAdmin, "DONE")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	ms, os, rs := &mockMatchStore{}, &mockOfferStore{}, &mockRequestStore{}
	ms.On("GetByID", mock.Anything, "m1").Return(&domain.Match{
		MatchID: "m1", OfferID: "o1", RequestID: "r1", Status: domain.MatchNew,
	}, nil)
	os.On("Get", mock.Anything, "o1").Return(&domain.Offer{OfferID: "o1", CreatedByID: "broker-1"}, nil)
	rs.On("Get", mock.Anything, "r1").Return(&domain.Request{RequestID: "r1", CreatedByID: "broker-2"}, nil)
	ms.On("UpdateStatus", mock.Anything, "o1", "r1", domain.MatchContacted).Return(nil)

	svc := NewService(ms, os, rs, &mockTeamStore{})
	m, err := svc.UpdateStatus(context.Background(), "m1", "admin-1", domain.RoleAdmin, domain.MatchContacted)

	require.NoError(t, err)
	assert.Equal(t, domain.MatchContacted, m.Status)
	ms.AssertExpectations(t)
}

func TestUpdateStatus_OutsiderForbidden(t *testing.T) {
	ms, os, rs, ts := &mockMatchStore{}, &mockOfferStore{}, &mockRequestStore{}, &mockTeamStore{}
	ms.On("GetByID", mock.Anything, "m1").Return(&domain.Match{
		MatchID: "m1", OfferID: "o1", RequestID: "r1",
	}, nil)
	os.On("Get", mock.Anything, "o1").Return(&domain.Offer{OfferID: "o1", CreatedByID: "broker-1"}, nil)
	rs.On("Get", mock.Anything, "r1").Return(&domain.Request{RequestID: "r1", CreatedByID: "broker-2"}, nil)
	ts.On("Scan", mock.Anything).Return([]domain.Team{}, nil)

	svc := NewService(ms, os, rs, ts)
	_, err := svc.UpdateStatus(context.Background(), "m1", "broker-9", domain.RoleBroker, domain.MatchClosed)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	ms.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
