package service

import (
	"context"
	"math"
	"time"

	"gymtracker/gym-api/internal/cache"
	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"

	"github.com/sirupsen/logrus"
)

const adminDashboardKey = "dashboard:admin"

// DashboardService builds the read-only overview for each role.
type DashboardService interface {
	Member(ctx context.Context, caller Caller) (*domain.MemberDashboard, error)
	Trainer(ctx context.Context, caller Caller) (*domain.TrainerDashboard, error)
	Admin(ctx context.Context) (*domain.AdminDashboard, error)
}

type dashboardService struct {
	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	membershipRepo repository.MembershipRepository
	reviewRepo     repository.ReviewRepository
	cache          cache.Cache
	cacheTTL       time.Duration
}

// NewDashboardService wires the dashboard. A nil c disables caching of the admin view.
func NewDashboardService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	membershipRepo repository.MembershipRepository,
	reviewRepo repository.ReviewRepository,
	c cache.Cache,
	cacheTTL time.Duration,
) DashboardService {
	if c == nil {
		c = cache.Noop{}
	}
	return &dashboardService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		membershipRepo: membershipRepo,
		reviewRepo:     reviewRepo,
		cache:          c,
		cacheTTL:       cacheTTL,
	}
}

func (s *dashboardService) Member(ctx context.Context, caller Caller) (*domain.MemberDashboard, error) {
	stats, err := s.sessionRepo.GetMemberStats(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	membership, err := activeMembership(ctx, s.membershipRepo, caller.UserID)
	if err != nil {
		return nil, err
	}
	member, err := s.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}

	return &domain.MemberDashboard{
		Member:     member,
		Membership: membership,
		Sessions:   stats,
	}, nil
}

func (s *dashboardService) Trainer(ctx context.Context, caller Caller) (*domain.TrainerDashboard, error) {
	trainerID := caller.UserID
	sessions, err := s.sessionRepo.FindAll(ctx, repository.SessionFilter{TrainerID: &trainerID})
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.FindByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	rating, err := s.reviewRepo.GetAverageRating(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	stats := domain.SummarizeSessions(sessions)
	members := make(map[int64]struct{})
	for _, session := range sessions {
		members[session.MemberID] = struct{}{}
	}

	return &domain.TrainerDashboard{
		TotalSessions:     stats.Total,
		CompletedSessions: stats.Completed,
		MissedSessions:    stats.Missed,
		ScheduledSessions: stats.Scheduled,
		ActiveMembers:     int64(len(members)),
		Reviews:           int64(len(reviews)),
		Rating:            rating.AverageRating,
	}, nil
}

// Admin returns the global overview, served from cache for cacheTTL.
func (s *dashboardService) Admin(ctx context.Context) (*domain.AdminDashboard, error) {
	return cache.GetOrSet(ctx, s.cache, adminDashboardKey, s.cacheTTL, s.buildAdmin)
}

func (s *dashboardService) buildAdmin(ctx context.Context) (*domain.AdminDashboard, error) {
	users, err := s.userRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.membershipRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.AdminDashboard{
		Users:   users,
		Revenue: revenue,
		Sessions: domain.AdminSessionStats{
			SessionStats:   sessions,
			CompletionRate: completionPercent(sessions.Completed, sessions.Total),
		},
	}, nil
}

// dropAdminDashboard evicts the cached admin overview after a write it summarizes.
func dropAdminDashboard(ctx context.Context, c cache.Cache, log *logrus.Logger) {
	if err := c.Invalidate(ctx, adminDashboardKey); err != nil {
		log.WithError(err).Warn("failed to invalidate admin dashboard cache")
	}
}

// completionPercent is completed/total as a percentage rounded to two decimals.
func completionPercent(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}
