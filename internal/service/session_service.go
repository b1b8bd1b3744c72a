package service

import (
	"context"
	"time"

	"gymtracker/gym-api/internal/cache"
	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"

	"github.com/sirupsen/logrus"
)

// NewSession is a session to schedule. TrainerID is taken from the caller
// when a trainer schedules it.
type NewSession struct {
	MemberID      int64
	TrainerID     *int64
	WorkoutPlanID *int64
	Date          domain.Date
	StartTime     string
	EndTime       string
}

type SessionService interface {
	List(ctx context.Context, caller Caller, filter repository.SessionFilter) ([]domain.Session, error)
	Get(ctx context.Context, caller Caller, id int64) (*domain.Session, error)
	Missed(ctx context.Context) ([]domain.Session, error)
	Create(ctx context.Context, caller Caller, in NewSession) (*domain.Session, error)
	Update(ctx context.Context, caller Caller, id int64, patch domain.SessionPatch) (*domain.Session, error)
	Complete(ctx context.Context, caller Caller, id int64, completedExercises []int64) (*domain.Session, error)
	Delete(ctx context.Context, caller Caller, id int64) error
	// MemberStats counts a member's sessions. memberID 0 means the caller, or
	// for trainers every session assigned to them.
	MemberStats(ctx context.Context, caller Caller, memberID int64) (domain.SessionStats, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	cache       cache.Cache
	log         *logrus.Logger
}

// NewSessionService wires session scheduling. c may be nil.
func NewSessionService(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, c cache.Cache, log *logrus.Logger) SessionService {
	if c == nil {
		c = cache.Noop{}
	}
	return &sessionService{sessionRepo: sessionRepo, userRepo: userRepo, cache: c, log: log}
}

// List scopes members to their own sessions and trainers to the sessions assigned to them.
func (s *sessionService) List(ctx context.Context, caller Caller, filter repository.SessionFilter) ([]domain.Session, error) {
	switch {
	case caller.IsMember():
		filter.MemberID = &caller.UserID
		filter.TrainerID = nil
	case caller.IsTrainer():
		filter.TrainerID = &caller.UserID
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, invalidf("invalid session status %q", *filter.Status)
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(filter.DateFrom.Time) {
		return nil, ErrInvalidDateRange
	}
	return s.sessionRepo.FindAll(ctx, filter)
}

func (s *sessionService) Get(ctx context.Context, caller Caller, id int64) (*domain.Session, error) {
	session, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(caller, session) {
		return nil, forbidden("access forbidden")
	}
	return session, nil
}

func (s *sessionService) Missed(ctx context.Context) ([]domain.Session, error) {
	return s.sessionRepo.FindMissed(ctx)
}

func (s *sessionService) Create(ctx context.Context, caller Caller, in NewSession) (*domain.Session, error) {
	if in.MemberID <= 0 {
		return nil, invalidf("memberId is required")
	}
	if in.Date.IsZero() {
		return nil, invalidf("date is required")
	}
	if err := validateTimes(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	trainerID := in.TrainerID
	if caller.IsTrainer() {
		trainerID = &caller.UserID
	}

	member, err := s.userRepo.FindByID(ctx, in.MemberID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	if !member.IsMember() {
		return nil, invalidf("memberId must reference a member")
	}
	if trainerID != nil && !caller.IsTrainer() {
		if err := s.checkTrainer(ctx, *trainerID); err != nil {
			return nil, err
		}
	}

	id, err := s.sessionRepo.Create(ctx, &domain.Session{
		MemberID:      in.MemberID,
		TrainerID:     trainerID,
		WorkoutPlanID: in.WorkoutPlanID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Status:        domain.SessionScheduled,
	})
	if err != nil {
		return nil, mapRepoErr(err, ErrSessionNotFound)
	}
	dropAdminDashboard(ctx, s.cache, s.log)

	s.log.WithFields(logrus.Fields{"sessionId": id, "memberId": in.MemberID}).Info("session scheduled")
	return s.find(ctx, id)
}

func (s *sessionService) Update(ctx context.Context, caller Caller, id int64, patch domain.SessionPatch) (*domain.Session, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(caller, current) {
		return nil, forbidden("session is assigned to another trainer")
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, invalidf("invalid session status %q", *patch.Status)
		}
		if !current.Status.CanTransitionTo(*patch.Status) {
			return nil, ErrInvalidStatusTransition
		}
	}
	if patch.StartTime != nil || patch.EndTime != nil {
		start, end := current.StartTime, current.EndTime
		if patch.StartTime != nil {
			start = *patch.StartTime
		}
		if patch.EndTime != nil {
			end = *patch.EndTime
		}
		if err := validateTimes(start, end); err != nil {
			return nil, err
		}
	}
	if patch.TrainerID != nil {
		if caller.IsTrainer() && *patch.TrainerID != caller.UserID {
			return nil, forbidden("trainers cannot reassign sessions")
		}
		if !caller.IsTrainer() {
			if err := s.checkTrainer(ctx, *patch.TrainerID); err != nil {
				return nil, err
			}
		}
	}
	if patch.CompletedExercises != nil {
		ids := uniqueIDs(*patch.CompletedExercises)
		patch.CompletedExercises = &ids
	}

	if err := s.apply(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Complete marks a scheduled session as completed with the given exercise ids.
// Allowed for the session's member, its trainer and admins.
func (s *sessionService) Complete(ctx context.Context, caller Caller, id int64, completedExercises []int64) (*domain.Session, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(caller, current) {
		return nil, forbidden("only the session's member or trainer can complete it")
	}
	if !current.Status.CanTransitionTo(domain.SessionCompleted) {
		return nil, ErrInvalidStatusTransition
	}

	status := domain.SessionCompleted
	ids := uniqueIDs(completedExercises)
	if err := s.apply(ctx, id, domain.SessionPatch{Status: &status, CompletedExercises: &ids}); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"sessionId": id, "completed": len(ids)}).Info("session completed")
	return s.find(ctx, id)
}

func (s *sessionService) Delete(ctx context.Context, caller Caller, id int64) error {
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(caller, current) {
		return forbidden("session is assigned to another trainer")
	}

	removed, err := s.sessionRepo.Delete(ctx, id)
	if err != nil {
		return mapRepoErr(err, ErrSessionNotFound)
	}
	if !removed {
		return ErrSessionNotFound
	}
	dropAdminDashboard(ctx, s.cache, s.log)
	return nil
}

// MemberStats counts a member's sessions. Trainers only see the sessions
// assigned to them; without memberID that is all of their sessions.
func (s *sessionService) MemberStats(ctx context.Context, caller Caller, memberID int64) (domain.SessionStats, error) {
	if caller.IsTrainer() {
		filter := repository.SessionFilter{TrainerID: &caller.UserID}
		if memberID != 0 {
			filter.MemberID = &memberID
		}
		sessions, err := s.sessionRepo.FindAll(ctx, filter)
		if err != nil {
			return domain.SessionStats{}, err
		}
		return domain.SummarizeSessions(sessions), nil
	}

	if memberID == 0 {
		memberID = caller.UserID
	}
	if caller.IsMember() && memberID != caller.UserID {
		return domain.SessionStats{}, forbidden("members can only view their own stats")
	}
	return s.sessionRepo.GetMemberStats(ctx, memberID)
}

func (s *sessionService) checkTrainer(ctx context.Context, id int64) error {
	trainer, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, ErrUserNotFound)
	}
	if !trainer.IsTrainer() {
		return invalidf("trainerId must reference a trainer")
	}
	return nil
}

func (s *sessionService) find(ctx context.Context, id int64) (*domain.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrSessionNotFound)
	}
	return session, nil
}

func (s *sessionService) apply(ctx context.Context, id int64, patch domain.SessionPatch) error {
	modified, err := s.sessionRepo.Update(ctx, id, patch)
	if err != nil {
		return mapRepoErr(err, ErrSessionNotFound)
	}
	if !modified {
		return ErrSessionNotFound
	}
	dropAdminDashboard(ctx, s.cache, s.log)
	return nil
}

// canView reports whether caller takes part in the session or is an admin.
func canView(caller Caller, session *domain.Session) bool {
	switch {
	case caller.IsAdmin():
		return true
	case caller.IsMember():
		return session.MemberID == caller.UserID
	case caller.IsTrainer():
		return session.TrainerID != nil && *session.TrainerID == caller.UserID
	}
	return false
}

// canManage reports whether caller may edit or delete the session.
func canManage(caller Caller, session *domain.Session) bool {
	if caller.IsAdmin() {
		return true
	}
	return caller.IsTrainer() && session.TrainerID != nil && *session.TrainerID == caller.UserID
}

const clockLayout = "15:04"

// validateTimes checks HH:MM bounds. Either may be empty.
func validateTimes(start, end string) error {
	var st, et time.Time
	var err error
	if start != "" {
		if st, err = time.Parse(clockLayout, start); err != nil {
			return invalidf("startTime must be in HH:MM format")
		}
	}
	if end != "" {
		if et, err = time.Parse(clockLayout, end); err != nil {
			return invalidf("endTime must be in HH:MM format")
		}
	}
	if start != "" && end != "" && !et.After(st) {
		return invalidf("endTime must be after startTime")
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
