package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/pkg/id"
)

// EventMatchCreated is the realtime event name pushed to both parties of
// a new match.
const EventMatchCreated = "match.created"

// MatchEvent is the realtime payload delivered alongside the durable
// notification row.
type MatchEvent struct {
	MatchID string `json:"match_id"`
	Message string `json:"message"`
	Score   int    `json:"score"`
}

type offerStore interface {
	ScanAll(ctx context.Context) ([]domain.Offer, error)
}

type requestStore interface {
	ScanAll(ctx context.Context) ([]domain.Request, error)
}

type matchStore interface {
	GetByPair(ctx context.Context, offerID, requestID string) (*domain.Match, error)
	PutNew(ctx context.Context, m *domain.Match) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

// pusher is the optional realtime layer. A nil pusher disables pushes;
// notification rows are still written.
type pusher interface {
	PushToUser(ctx context.Context, userID, event string, payload interface{}) error
}

// Service discovers and persists matches for newly created offers and
// requests. Reconciliation runs detached from the triggering HTTP
// request: nothing here ever propagates an error back to the handler.
type Service struct {
	offers        offerStore
	requests      requestStore
	matches       matchStore
	notifications notificationStore
	pusher        pusher
	log           *slog.Logger
}

type ServiceDeps struct {
	OfferRepo        offerStore
	RequestRepo      requestStore
	MatchRepo        matchStore
	NotificationRepo notificationStore
	Pusher           pusher
	Logger           *slog.Logger
}

func NewService(deps ServiceDeps) *Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		offers:        deps.OfferRepo,
		requests:      deps.RequestRepo,
		matches:       deps.MatchRepo,
		notifications: deps.NotificationRepo,
		pusher:        deps.Pusher,
		log:           log,
	}
}

// TriggerOffer starts reconciliation for a freshly persisted offer on a
// detached goroutine. The caller's request context is deliberately not
// used: the HTTP response must not wait on, or cancel, the scan.
func (s *Service) TriggerOffer(offer *domain.Offer) {
	go s.runDetached("offer", offer.OfferID, func(ctx context.Context) {
		s.ReconcileOffer(ctx, offer)
	})
}

// TriggerRequest is the symmetric trigger for a freshly persisted request.
func (s *Service) TriggerRequest(req *domain.Request) {
	go s.runDetached("request", req.RequestID, func(ctx context.Context) {
		s.ReconcileRequest(ctx, req)
	})
}

func (s *Service) runDetached(kind, entityID string, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("reconciliation panicked", "kind", kind, "id", entityID, "panic", r)
		}
	}()
	fn(context.Background())
}

// ReconcileOffer scans every request, scores each candidate pair and
// persists the ones that score above zero and aren't matched yet. Each
// candidate is independent: a failure on one is logged and the loop
// moves on.
func (s *Service) ReconcileOffer(ctx context.Context, offer *domain.Offer) {
	requests, err := s.requests.ScanAll(ctx)
	if err != nil {
		s.log.Error("load requests for reconciliation", "offer_id", offer.OfferID, "err", err)
		return
	}
	created := 0
	for i := range requests {
		if s.matchPair(ctx, offer, &requests[i]) {
			created++
		}
	}
	s.log.Info("offer reconciliation finished",
		"offer_id", offer.OfferID, "candidates", len(requests), "created", created)
}

// ReconcileRequest is the symmetric path: scans every offer for a new request.
func (s *Service) ReconcileRequest(ctx context.Context, req *domain.Request) {
	offers, err := s.offers.ScanAll(ctx)
	if err != nil {
		s.log.Error("load offers for reconciliation", "request_id", req.RequestID, "err", err)
		return
	}
	created := 0
	for i := range offers {
		if s.matchPair(ctx, &offers[i], req) {
			created++
		}
	}
	s.log.Info("request reconciliation finished",
		"request_id", req.RequestID, "candidates", len(offers), "created", created)
}

// matchPair scores one candidate pair and, when it qualifies and is new,
// persists the match and fans out notifications. Returns true only when
// a match row was actually created.
func (s *Service) matchPair(ctx context.Context, offer *domain.Offer, req *domain.Request) bool {
	score := Score(offer, req)
	if score == 0 {
		return false
	}

	// Existence check is an optimization only; the conditional write
	// below is what actually guarantees pair uniqueness under races.
	if _, err := s.matches.GetByPair(ctx, offer.OfferID, req.RequestID); err == nil {
		return false
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.log.Error("match existence check failed",
			"offer_id", offer.OfferID, "request_id", req.RequestID, "err", err)
		return false
	}

	now := time.Now().UTC()
	m := &domain.Match{
		MatchID:   id.New(),
		OfferID:   offer.OfferID,
		RequestID: req.RequestID,
		Score:     score,
		Status:    domain.MatchNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.matches.PutNew(ctx, m); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent reconciliation won the insert. Expected; the
			// winner handles fan-out.
			return false
		}
		s.log.Error("persist match",
			"offer_id", offer.OfferID, "request_id", req.RequestID, "err", err)
		return false
	}

	s.fanOut(ctx, m, offer.CreatedByID, req.CreatedByID)
	return true
}

// fanOut creates one UNREAD notification per party and pushes a
// realtime event to each. Every step is independent: a failure for one
// user never blocks the other, and the match row is never rolled back.
func (s *Service) fanOut(ctx context.Context, m *domain.Match, offerOwnerID, requestOwnerID string) {
	s.notifyUser(ctx, m, offerOwnerID,
		fmt.Sprintf("New match for your offer (score %d%%)", m.Score))
	s.notifyUser(ctx, m, requestOwnerID,
		fmt.Sprintf("New match for your request (score %d%%)", m.Score))
}

func (s *Service) notifyUser(ctx context.Context, m *domain.Match, userID, message string) {
	now := time.Now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		MatchID:        m.MatchID,
		Message:        message,
		Status:         domain.NotificationUnread,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.notifications.Put(ctx, n); err != nil {
		s.log.Error("create notification", "user_id", userID, "match_id", m.MatchID, "err", err)
	}

	if s.pusher == nil {
		return
	}
	event := MatchEvent{MatchID: m.MatchID, Message: message, Score: m.Score}
	if err := s.pusher.PushToUser(ctx, userID, EventMatchCreated, event); err != nil {
		// Best-effort only; the notification row is the durable record.
		s.log.Warn("realtime push failed", "user_id", userID, "match_id", m.MatchID, "err", err)
	}
}
