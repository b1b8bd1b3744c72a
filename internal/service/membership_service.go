package service

import (
	"context"
	"errors"
	"strings"

	"gymtracker/gym-api/internal/cache"
	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"

	"github.com/sirupsen/logrus"
)

type NewMembership struct {
	UserID    int64
	Name      string
	StartDate domain.Date
	EndDate   domain.Date
	Price     float64
	Status    domain.MembershipStatus
}

type MembershipService interface {
	List(ctx context.Context) ([]domain.Membership, error)
	Get(ctx context.Context, caller Caller, id int64) (*domain.Membership, error)
	// ListByUser and Active use the caller's id when userID is 0.
	ListByUser(ctx context.Context, caller Caller, userID int64) ([]domain.Membership, error)
	// Active returns nil without error when the user has no active membership.
	Active(ctx context.Context, caller Caller, userID int64) (*domain.Membership, error)
	Create(ctx context.Context, in NewMembership) (*domain.Membership, error)
	Update(ctx context.Context, id int64, patch domain.MembershipPatch) (*domain.Membership, error)
	Delete(ctx context.Context, id int64) error
	Revenue(ctx context.Context) (domain.MembershipStats, error)
}

type membershipService struct {
	membershipRepo repository.MembershipRepository
	cache          cache.Cache
	log            *logrus.Logger
}

// NewMembershipService wires membership management. c may be nil.
func NewMembershipService(membershipRepo repository.MembershipRepository, c cache.Cache, log *logrus.Logger) MembershipService {
	if c == nil {
		c = cache.Noop{}
	}
	return &membershipService{membershipRepo: membershipRepo, cache: c, log: log}
}

func (s *membershipService) List(ctx context.Context) ([]domain.Membership, error) {
	return s.membershipRepo.FindAll(ctx)
}

func (s *membershipService) Get(ctx context.Context, caller Caller, id int64) (*domain.Membership, error) {
	m, err := s.membershipRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrMembershipNotFound)
	}
	if caller.IsMember() && m.UserID != caller.UserID {
		return nil, forbidden("access forbidden")
	}
	return m, nil
}

func (s *membershipService) ListByUser(ctx context.Context, caller Caller, userID int64) ([]domain.Membership, error) {
	userID, err := ownUserID(caller, userID)
	if err != nil {
		return nil, err
	}
	return s.membershipRepo.FindByUser(ctx, userID)
}

func (s *membershipService) Active(ctx context.Context, caller Caller, userID int64) (*domain.Membership, error) {
	userID, err := ownUserID(caller, userID)
	if err != nil {
		return nil, err
	}
	return activeMembership(ctx, s.membershipRepo, userID)
}

func (s *membershipService) Create(ctx context.Context, in NewMembership) (*domain.Membership, error) {
	name := strings.TrimSpace(in.Name)
	if in.UserID <= 0 || name == "" {
		return nil, invalidf("userId and name are required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, invalidf("startDate and endDate are required")
	}
	if in.EndDate.Before(in.StartDate.Time) {
		return nil, ErrInvalidDateRange
	}
	if in.Price < 0 {
		return nil, invalidf("price cannot be negative")
	}
	if in.Status == "" {
		in.Status = domain.MembershipActive
	}
	if !in.Status.Valid() {
		return nil, invalidf("invalid membership status %q", in.Status)
	}

	id, err := s.membershipRepo.Create(ctx, &domain.Membership{
		UserID:    in.UserID,
		Name:      name,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Price:     in.Price,
		Status:    in.Status,
	})
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	dropAdminDashboard(ctx, s.cache, s.log)

	s.log.WithFields(logrus.Fields{"membershipId": id, "userId": in.UserID}).Info("membership created")
	return s.find(ctx, id)
}

func (s *membershipService) Update(ctx context.Context, id int64, patch domain.MembershipPatch) (*domain.Membership, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalidf("name cannot be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, invalidf("price cannot be negative")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalidf("invalid membership status %q", *patch.Status)
	}
	if patch.StartDate != nil || patch.EndDate != nil {
		current, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		start, end := current.StartDate, current.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		if end.Before(start.Time) {
			return nil, ErrInvalidDateRange
		}
	}

	modified, err := s.membershipRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, mapRepoErr(err, ErrMembershipNotFound)
	}
	if !modified {
		return nil, ErrMembershipNotFound
	}
	dropAdminDashboard(ctx, s.cache, s.log)
	return s.find(ctx, id)
}

func (s *membershipService) Delete(ctx context.Context, id int64) error {
	removed, err := s.membershipRepo.Delete(ctx, id)
	if err != nil {
		return mapRepoErr(err, ErrMembershipNotFound)
	}
	if !removed {
		return ErrMembershipNotFound
	}
	dropAdminDashboard(ctx, s.cache, s.log)
	return nil
}

func (s *membershipService) Revenue(ctx context.Context) (domain.MembershipStats, error) {
	return s.membershipRepo.GetStats(ctx)
}

func (s *membershipService) find(ctx context.Context, id int64) (*domain.Membership, error) {
	m, err := s.membershipRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrMembershipNotFound)
	}
	return m, nil
}

// activeMembership treats a missing active membership as a valid nil result.
func activeMembership(ctx context.Context, memberships repository.MembershipRepository, userID int64) (*domain.Membership, error) {
	m, err := memberships.GetActiveMembership(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ownUserID resolves a target user id: 0 means the caller, and members may
// only target themselves.
func ownUserID(caller Caller, userID int64) (int64, error) {
	if userID == 0 {
		return caller.UserID, nil
	}
	if caller.IsMember() && userID != caller.UserID {
		return 0, forbidden("members can only view their own memberships")
	}
	return userID, nil
}
