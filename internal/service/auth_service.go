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
	"gymtracker/gym-api/internal/storage"

	"github.com/sirupsen/logrus"
)

// Profile is the caller's own account. ProfilePicURL is a short-lived download link.
type Profile struct {
	domain.User
	ProfilePicURL string `json:"profilePicUrl,omitempty"`
}

// ProfileUpdate holds the self-editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string
	Phone       *string
	DateOfBirth *domain.Date
}

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, account NewAccount) (token string, user *domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Profile, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	RequestProfilePictureUpload(ctx context.Context, userID int64, contentType string) (*domain.ProfilePictureUpload, error)
	ConfirmProfilePicture(ctx context.Context, userID int64, objectKey string) (*Profile, error)
}

// --- Service Implementation ---

type authService struct {
	userRepo  repository.UserRepository
	tokens    *auth.TokenManager
	files     storage.FileStorage // nil when object storage is not configured
	publisher events.Publisher
	cache     cache.Cache
	log       *logrus.Logger
}

// NewAuthService creates a new instance of authService. files and c may be nil.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	files storage.FileStorage,
	publisher events.Publisher,
	c cache.Cache,
	log *logrus.Logger,
) AuthService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		files:     files,
		publisher: publisher,
		cache:     c,
		log:       log,
	}
}

// Register creates a member or trainer account and signs the caller in.
func (s *authService) Register(ctx context.Context, account NewAccount) (string, *domain.User, error) {
	if account.Role == "" {
		account.Role = domain.RoleMember
	}
	// Admins are only created by other admins.
	if account.Role != domain.RoleMember && account.Role != domain.RoleTrainer {
		return "", nil, ErrInvalidRole
	}

	user, err := createAccount(ctx, s.userRepo, s.publisher, s.cache, s.log, account)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks the credentials and returns a fresh token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrAuthenticationFailed
	}
	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.log.WithField("userId", user.ID).Debug("user logged in")
	return token, user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	return s.profile(ctx, user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Profile, error) {
	patch := domain.UserPatch{
		Name:        update.Name,
		Phone:       update.Phone,
		DateOfBirth: update.DateOfBirth,
	}
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalidf("name cannot be empty")
	}

	modified, err := s.userRepo.Update(ctx, userID, patch)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	if !modified {
		return nil, ErrUserNotFound
	}
	return s.GetProfile(ctx, userID)
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if newPassword == "" {
		return invalidf("new password is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return mapRepoErr(err, ErrUserNotFound)
	}
	if err := auth.CheckPassword(user.PasswordHash, currentPassword); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	modified, err := s.userRepo.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return err
	}
	if !modified {
		return ErrUserNotFound
	}

	s.log.WithField("userId", userID).Info("password changed")
	return nil
}

// RequestProfilePictureUpload reserves a new object key for the caller and
// returns a presigned PUT URL for it. The picture is attached by ConfirmProfilePicture.
func (s *authService) RequestProfilePictureUpload(ctx context.Context, userID int64, contentType string) (*domain.ProfilePictureUpload, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}

	key, err := storage.ProfilePictureKey(userID, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, validationError(err.Error())
		}
		return nil, err
	}

	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &domain.ProfilePictureUpload{
		UploadURL:   url,
		ObjectKey:   key,
		ContentType: contentType,
		ExpiresAt:   time.Now().UTC().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// ConfirmProfilePicture stores objectKey as the caller's picture and removes the previous one.
func (s *authService) ConfirmProfilePicture(ctx context.Context, userID int64, objectKey string) (*Profile, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}
	if !storage.OwnsProfilePictureKey(userID, objectKey) {
		return nil, forbidden("object key does not belong to this user")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	previous := user.ProfilePic

	modified, err := s.userRepo.Update(ctx, userID, domain.UserPatch{ProfilePic: &objectKey})
	if err != nil {
		return nil, err
	}
	if !modified {
		return nil, ErrUserNotFound
	}

	if previous != "" && previous != objectKey && storage.OwnsProfilePictureKey(userID, previous) {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.log.WithError(err).WithField("key", previous).Warn("failed to delete previous profile picture")
		}
	}

	return s.GetProfile(ctx, userID)
}

// profile attaches a download URL for the stored picture when storage is available.
func (s *authService) profile(ctx context.Context, user *domain.User) *Profile {
	p := &Profile{User: *user}
	if s.files == nil || user.ProfilePic == "" {
		return p
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, user.ProfilePic, storage.DefaultPresignedURLExpiry)
	if err != nil {
		s.log.WithError(err).WithField("userId", user.ID).Warn("failed to presign profile picture URL")
		return p
	}
	p.ProfilePicURL = url
	return p
}
