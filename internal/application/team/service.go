package team

import (
	"context"
	"fmt"
	"time"

	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/infrastructure/dynamo"
	"github.com/aqarmatch/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateTeamRequest) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Get(ctx context.Context, teamID string) (*domain.Team, error)
	AddMember(ctx context.Context, teamID string, req domain.AddTeamMemberRequest) (*domain.Team, error)
	RemoveMember(ctx context.Context, teamID, userID string) (*domain.Team, error)
}

type service struct {
	repo     *dynamo.TeamRepo
	userRepo *dynamo.UserRepo
}

func NewService(repo *dynamo.TeamRepo, userRepo *dynamo.UserRepo) Service {
	return &service{repo: repo, userRepo: userRepo}
}

func (s *service) Create(ctx context.Context, req domain.CreateTeamRequest) (*domain.Team, error) {
	now := time.Now().UTC()
	t := &domain.Team{
		TeamID:    id.New(),
		Name:      req.Name,
		Type:      req.Type,
		Members:   []domain.TeamMember{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) List(ctx context.Context) ([]domain.Team, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, teamID string) (*domain.Team, error) {
	t, err := s.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	// Join member user records; a missing user leaves the slot as-is.
	for i := range t.Members {
		if u, err := s.userRepo.Get(ctx, t.Members[i].UserID); err == nil {
			t.Members[i].User = u
		}
	}
	return t, nil
}

func (s *service) AddMember(ctx context.Context, teamID string, req domain.AddTeamMemberRequest) (*domain.Team, error) {
	t, err := s.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.Get(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	for _, m := range t.Members {
		if m.UserID == req.UserID {
			return nil, fmt.Errorf("user already on team: %w", domain.ErrConflict)
		}
	}
	role := req.Role
	if role == "" {
		role = domain.TeamMemberMember
	}
	t.Members = append(t.Members, domain.TeamMember{
		UserID:  req.UserID,
		Role:    role,
		AddedAt: time.Now().UTC(),
	})
	if err := s.repo.SetMembers(ctx, teamID, t.Members); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) RemoveMember(ctx context.Context, teamID, userID string) (*domain.Team, error) {
	t, err := s.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	kept := t.Members[:0]
	found := false
	for _, m := range t.Members {
		if m.UserID == userID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return nil, fmt.Errorf("user not on team: %w", domain.ErrNotFound)
	}
	t.Members = kept
	if err := s.repo.SetMembers(ctx, teamID, t.Members); err != nil {
		return nil, err
	}
	return t, nil
}
