package submission

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/pkg/id"
)

type Service interface {
	CreateLink(ctx context.Context, targetUserID string, req domain.CreateSubmissionLinkRequest) (*CreateLinkResult, error)
	ListLinks(ctx context.Context, targetUserID string) ([]domain.SubmissionLink, error)
	DeactivateLink(ctx context.Context, linkID string) error
	SubmitOffer(ctx context.Context, rawToken string, req domain.CreateOfferRequest) (*domain.Offer, error)
	SubmitRequest(ctx context.Context, rawToken string, req domain.CreateRequestRequest) (*domain.Request, error)
}

// CreateLinkResult carries the raw token alongside the stored link.
// The token is shown exactly once; only its hash survives.
type CreateLinkResult struct {
	Link  *domain.SubmissionLink `json:"link"`
	Token string                 `json:"token"`
}

type linkStore interface {
	Put(ctx context.Context, l *domain.SubmissionLink) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.SubmissionLink, error)
	GetByLinkID(ctx context.Context, linkID string) (*domain.SubmissionLink, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SubmissionLink, error)
	Deactivate(ctx context.Context, tokenHash string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// offerCreator and requestCreator are the authenticated create paths;
// public submissions reuse them so the reconciliation trigger fires the
// same way it does for logged-in brokers.
type offerCreator interface {
	Create(ctx context.Context, creatorID string, req domain.CreateOfferRequest) (*domain.Offer, error)
}

type requestCreator interface {
	Create(ctx context.Context, creatorID string, req domain.CreateRequestRequest) (*domain.Request, error)
}

type service struct {
	links    linkStore
	users    userStore
	offers   offerCreator
	requests requestCreator
}

func NewService(links linkStore, users userStore, offers offerCreator, requests requestCreator) Service {
	return &service{links: links, users: users, offers: offers, requests: requests}
}

func (s *service) CreateLink(ctx context.Context, targetUserID string, req domain.CreateSubmissionLinkRequest) (*CreateLinkResult, error) {
	u, err := s.users.Get(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if u.Enable != 1 {
		return nil, fmt.Errorf("cannot create a submission link for a disabled user: %w", domain.ErrBadRequest)
	}

	actions := req.AllowedActions
	if len(actions) == 0 {
		actions = []string{domain.LinkActionOffer, domain.LinkActionRequest}
	}

	var expiresAt int64
	if req.ExpiresInDays > 0 {
		expiresAt = time.Now().Add(time.Duration(req.ExpiresInDays) * 24 * time.Hour).Unix()
	}

	rawToken, err := newLinkToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	link := &domain.SubmissionLink{
		TokenHash:      hashToken(rawToken),
		LinkID:         id.New(),
		UserID:         targetUserID,
		AllowedActions: actions,
		Enable:         true,
		ExpiresAt:      expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.links.Put(ctx, link); err != nil {
		return nil, err
	}
	return &CreateLinkResult{Link: link, Token: rawToken}, nil
}

func (s *service) ListLinks(ctx context.Context, targetUserID string) ([]domain.SubmissionLink, error) {
	return s.links.ListByUser(ctx, targetUserID)
}

func (s *service) DeactivateLink(ctx context.Context, linkID string) error {
	link, err := s.links.GetByLinkID(ctx, linkID)
	if err != nil {
		return err
	}
	return s.links.Deactivate(ctx, link.TokenHash)
}

func (s *service) SubmitOffer(ctx context.Context, rawToken string, req domain.CreateOfferRequest) (*domain.Offer, error) {
	link, err := s.resolveLink(ctx, rawToken, domain.LinkActionOffer)
	if err != nil {
		return nil, err
	}
	return s.offers.Create(ctx, link.UserID, req)
}

func (s *service) SubmitRequest(ctx context.Context, rawToken string, req domain.CreateRequestRequest) (*domain.Request, error) {
	link, err := s.resolveLink(ctx, rawToken, domain.LinkActionRequest)
	if err != nil {
		return nil, err
	}
	return s.requests.Create(ctx, link.UserID, req)
}

// resolveLink validates the raw token end to end: the link must exist,
// be active and unexpired, permit the requested action, and belong to
// an enabled user. Every rejection maps to ErrUnauthorized so the
// public endpoint leaks nothing about which check failed.
func (s *service) resolveLink(ctx context.Context, rawToken, action string) (*domain.SubmissionLink, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("missing submission token: %w", domain.ErrUnauthorized)
	}
	link, err := s.links.GetByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		return nil, fmt.Errorf("invalid submission token: %w", domain.ErrUnauthorized)
	}
	if !link.Enable {
		return nil, fmt.Errorf("submission link is inactive: %w", domain.ErrUnauthorized)
	}
	if link.Expired(time.Now()) {
		return nil, fmt.Errorf("submission link has expired: %w", domain.ErrUnauthorized)
	}
	if !link.Allows(action) {
		return nil, fmt.Errorf("submission link does not allow %s submissions: %w", action, domain.ErrUnauthorized)
	}
	owner, err := s.users.Get(ctx, link.UserID)
	if err != nil || owner.Enable != 1 {
		return nil, fmt.Errorf("submission link owner is not active: %w", domain.ErrUnauthorized)
	}
	return link, nil
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

func newLinkToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate submission token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
