package matching

import (
	"context"
	"errors"
	"fmt"
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

func (m *mockMatchStore) GetByPair(ctx context.Context, offerID, requestID string) (*domain.Match, error) {
	args := m.Called(ctx, offerID, requestID)
	if mt, _ := args.Get(0).(*domain.Match); mt != nil {
		return mt, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMatchStore) PutNew(ctx context.Context, mt *domain.Match) error {
	return m.Called(ctx, mt).Error(0)
}

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type mockPusher struct{ mock.Mock }

func (m *mockPusher) PushToUser(ctx context.Context, userID, event string, payload interface{}) error {
	return m.Called(ctx, userID, event, payload).Error(0)
}

// --- helpers ---

func newTestService(os *mockOfferStore, rs *mockRequestStore, ms *mockMatchStore, ns *mockNotificationStore, p pusher) *Service {
	return NewService(ServiceDeps{
		OfferRepo:        os,
		RequestRepo:      rs,
		MatchRepo:        ms,
		NotificationRepo: ns,
		Pusher:           p,
	})
}

func ownedOffer() *domain.Offer {
	o := baseOffer()
	o.CreatedByID = "broker-offer"
	return o
}

func ownedRequest() domain.Request {
	r := baseRequest()
	r.CreatedByID = "broker-request"
	return *r
}

// --- ReconcileOffer ---

func TestReconcileOffer_CreatesMatchAndNotifiesBothOwners(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}
	p := &mockPusher{}

	offer := ownedOffer()
	rs.On("ScanAll", mock.Anything).Return([]domain.Request{ownedRequest()}, nil)
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, domain.ErrNotFound)
	var persisted *domain.Match
	ms.On("PutNew", mock.Anything, mock.MatchedBy(func(m *domain.Match) bool {
		return m.OfferID == "o1" && m.RequestID == "r1" &&
			m.Score == 100 && m.Status == domain.MatchNew
	})).Run(func(args mock.Arguments) {
		persisted = args.Get(1).(*domain.Match)
	}).Return(nil)
	notified := map[string]*domain.Notification{}
	capture := func(args mock.Arguments) {
		n := args.Get(1).(*domain.Notification)
		notified[n.UserID] = n
	}
	ns.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "broker-offer" && n.Status == domain.NotificationUnread
	})).Run(capture).Return(nil).Once()
	ns.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "broker-request" && n.Status == domain.NotificationUnread
	})).Run(capture).Return(nil).Once()
	p.On("PushToUser", mock.Anything, "broker-offer", EventMatchCreated, mock.Anything).Return(nil)
	p.On("PushToUser", mock.Anything, "broker-request", EventMatchCreated, mock.Anything).Return(nil)

	svc := newTestService(os, rs, ms, ns, p)
	svc.ReconcileOffer(context.Background(), offer)

	ms.AssertExpectations(t)
	ns.AssertExpectations(t)
	p.AssertExpectations(t)
	ns.AssertNumberOfCalls(t, "Put", 2)

	// Both notification rows reference the match that was just persisted.
	require.NotNil(t, persisted)
	require.NotEmpty(t, persisted.MatchID)
	require.Len(t, notified, 2)
	assert.Equal(t, persisted.MatchID, notified["broker-offer"].MatchID)
	assert.Equal(t, persisted.MatchID, notified["broker-request"].MatchID)
}

func TestReconcileOffer_ZeroScorePairIsNeverPersisted(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	incompatible := ownedRequest()
	incompatible.Type = domain.PropertyProject
	incompatible.Usage = domain.UsageCommercial
	incompatible.City = "جدة"
	incompatible.AreaFrom = 5000
	incompatible.AreaTo = 6000
	incompatible.BudgetFrom = 9000000
	incompatible.BudgetTo = 9900000
	rs.On("ScanAll", mock.Anything).Return([]domain.Request{incompatible}, nil)

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileOffer(context.Background(), ownedOffer())

	ms.AssertNotCalled(t, "GetByPair", mock.Anything, mock.Anything, mock.Anything)
	ms.AssertNotCalled(t, "PutNew", mock.Anything, mock.Anything)
	ns.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestReconcileOffer_PartialScoreStillCreatesMatch(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	weak := ownedRequest()
	weak.AreaFrom = 2000
	weak.AreaTo = 3000
	weak.District = "الشاطئ"
	rs.On("ScanAll", mock.Anything).Return([]domain.Request{weak}, nil)
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, domain.ErrNotFound)
	ms.On("PutNew", mock.Anything, mock.MatchedBy(func(m *domain.Match) bool {
		return m.Score == 70
	})).Return(nil)
	ns.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileOffer(context.Background(), ownedOffer())

	ms.AssertExpectations(t)
	ns.AssertNumberOfCalls(t, "Put", 2)
}

func TestReconcileOffer_SecondRunIsNoOp(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	offer := ownedOffer()
	rs.On("ScanAll", mock.Anything).Return([]domain.Request{ownedRequest()}, nil)
	// First run: pair is new.
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, domain.ErrNotFound).Once()
	ms.On("PutNew", mock.Anything, mock.Anything).Return(nil).Once()
	ns.On("Put", mock.Anything, mock.Anything).Return(nil)
	// Second run: pair already exists.
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(&domain.Match{MatchID: "m1"}, nil).Once()

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileOffer(context.Background(), offer)
	svc.ReconcileOffer(context.Background(), offer)

	ms.AssertNumberOfCalls(t, "PutNew", 1)
	ns.AssertNumberOfCalls(t, "Put", 2)
}

func TestReconcileOffer_LostRaceSkipsFanOut(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	// Existence check passes, but a concurrent reconciliation inserts
	// first; the conditional write loses and fan-out must not run.
	rs.On("ScanAll", mock.Anything).Return([]domain.Request{ownedRequest()}, nil)
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, domain.ErrNotFound)
	ms.On("PutNew", mock.Anything, mock.Anything).
		Return(fmt.Errorf("match already exists: %w", domain.ErrConflict))

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileOffer(context.Background(), ownedOffer())

	ns.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestReconcileOffer_BadCandidateDoesNotAbortOthers(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	broken := ownedRequest()
	healthy := ownedRequest()
	healthy.RequestID = "r2"
	rs.On("ScanAll", mock.Anything).Return([]domain.Request{broken, healthy}, nil)

	// First candidate fails at the existence check with a store error.
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, errors.New("connection reset"))
	// Second candidate goes through.
	ms.On("GetByPair", mock.Anything, "o1", "r2").Return(nil, domain.ErrNotFound)
	ms.On("PutNew", mock.Anything, mock.MatchedBy(func(m *domain.Match) bool {
		return m.RequestID == "r2"
	})).Return(nil)
	ns.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileOffer(context.Background(), ownedOffer())

	ms.AssertExpectations(t)
	ms.AssertNumberOfCalls(t, "PutNew", 1)
}

func TestReconcileOffer_NotificationFailureForOneUserDoesNotBlockOther(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	rs.On("ScanAll", mock.Anything).Return([]domain.Request{ownedRequest()}, nil)
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, domain.ErrNotFound)
	ms.On("PutNew", mock.Anything, mock.Anything).Return(nil)
	ns.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "broker-offer"
	})).Return(errors.New("write throttled")).Once()
	ns.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "broker-request"
	})).Return(nil).Once()

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileOffer(context.Background(), ownedOffer())

	ns.AssertExpectations(t)
}

func TestReconcileOffer_PushFailureIsBestEffort(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}
	p := &mockPusher{}

	rs.On("ScanAll", mock.Anything).Return([]domain.Request{ownedRequest()}, nil)
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, domain.ErrNotFound)
	ms.On("PutNew", mock.Anything, mock.Anything).Return(nil)
	ns.On("Put", mock.Anything, mock.Anything).Return(nil)
	p.On("PushToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis down"))

	svc := newTestService(os, rs, ms, ns, p)
	svc.ReconcileOffer(context.Background(), ownedOffer())

	// Both notification rows are still written.
	ns.AssertNumberOfCalls(t, "Put", 2)
}

func TestReconcileOffer_LoadFailureAbortsQuietly(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	rs.On("ScanAll", mock.Anything).Return(nil, errors.New("throttled"))

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileOffer(context.Background(), ownedOffer())

	ms.AssertNotCalled(t, "PutNew", mock.Anything, mock.Anything)
}

// --- ReconcileRequest ---

func TestReconcileRequest_SymmetricPathScoresIdentically(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	req := ownedRequest()
	os.On("ScanAll", mock.Anything).Return([]domain.Offer{*ownedOffer()}, nil)
	ms.On("GetByPair", mock.Anything, "o1", "r1").Return(nil, domain.ErrNotFound)
	var persisted *domain.Match
	ms.On("PutNew", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.Get(1).(*domain.Match)
	}).Return(nil)
	ns.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileRequest(context.Background(), &req)

	require.NotNil(t, persisted)
	assert.Equal(t, Score(ownedOffer(), &req), persisted.Score)
	assert.Equal(t, "o1", persisted.OfferID)
	assert.Equal(t, "r1", persisted.RequestID)
}

func TestReconcileRequest_NoOffers(t *testing.T) {
	os, rs := &mockOfferStore{}, &mockRequestStore{}
	ms, ns := &mockMatchStore{}, &mockNotificationStore{}

	req := ownedRequest()
	os.On("ScanAll", mock.Anything).Return([]domain.Offer{}, nil)

	svc := newTestService(os, rs, ms, ns, nil)
	svc.ReconcileRequest(context.Background(), &req)

	ms.AssertNotCalled(t, "PutNew", mock.Anything, mock.Anything)
}
