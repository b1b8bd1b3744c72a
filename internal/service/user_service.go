package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gymtracker/gym-api/internal/auth"
	"gymtracker/gym-api/internal/cache"
	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/events"
	"gymtracker/gym-api/internal/repository"

	"github.com/sirupsen/logrus"
)

// NewAccount holds the fields needed to create any user account.
type NewAccount struct {
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	Phone       string
	DateOfBirth *domain.Date
}

type UserService interface {
	List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, account NewAccount) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.UserStats, error)
}

type userService struct {
	userRepo  repository.UserRepository
	publisher events.Publisher
	cache     cache.Cache
	log       *logrus.Logger
}

// NewUserService wires user administration. publisher and c may be nil.
func NewUserService(userRepo repository.UserRepository, publisher events.Publisher, c cache.Cache, log *logrus.Logger) UserService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &userService{userRepo: userRepo, publisher: publisher, cache: c, log: log}
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.userRepo.FindAll(ctx, filter)
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	return user, nil
}

// Create adds an account of any role. Only admins reach this through the API.
func (s *userService) Create(ctx context.Context, account NewAccount) (*domain.User, error) {
	if account.Role == "" {
		account.Role = domain.RoleMember
	}
	if !account.Role.Valid() {
		return nil, ErrInvalidRole
	}
	return createAccount(ctx, s.userRepo, s.publisher, s.cache, s.log, account)
}

func (s *userService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, invalidf("email cannot be empty")
		}
		patch.Email = &email
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalidf("name cannot be empty")
	}

	modified, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	if !modified {
		return nil, ErrUserNotFound
	}
	dropAdminDashboard(ctx, s.cache, s.log)
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	removed, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return mapRepoErr(err, ErrUserNotFound)
	}
	if !removed {
		return ErrUserNotFound
	}
	dropAdminDashboard(ctx, s.cache, s.log)
	s.log.WithField("userId", id).Info("user deleted")
	return nil
}

func (s *userService) Stats(ctx context.Context) (domain.UserStats, error) {
	return s.userRepo.GetStats(ctx)
}

// createAccount hashes the password, stores the user, re-reads it with its
// joined fields and announces it on the event bus.
func createAccount(ctx context.Context, users repository.UserRepository, publisher events.Publisher, c cache.Cache, log *logrus.Logger, account NewAccount) (*domain.User, error) {
	name := strings.TrimSpace(account.Name)
	email := normalizeEmail(account.Email)
	if name == "" || email == "" || account.Password == "" {
		return nil, invalidf("name, email and password are required")
	}

	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(account.Password)
	if err != nil {
		return nil, err
	}

	id, err := users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         account.Role,
		Phone:        strings.TrimSpace(account.Phone),
		DateOfBirth:  account.DateOfBirth,
		IsActive:     true,
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	dropAdminDashboard(ctx, c, log)

	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event := events.UserRegistered{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         string(user.Role),
		RegisteredAt: time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, events.RoutingKeyUserRegistered, event); err != nil {
		log.WithError(err).WithField("userId", user.ID).Warn("failed to publish user.registered event")
	}

	log.WithFields(logrus.Fields{"userId": user.ID, "role": user.Role}).Info("user created")
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
