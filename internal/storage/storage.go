package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ProfilePicturePrefix is the key prefix under which every profile picture is stored.
const ProfilePicturePrefix = "profile-pictures"

// ErrUnsupportedContentType is returned for uploads that are not images.
var ErrUnsupportedContentType = errors.New("unsupported content type: only image/jpeg, image/png and image/webp are allowed")

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// ProfilePictureKey builds a fresh object key for a user's picture: profile-pictures/<userID>/<uuid>.<ext>.
func ProfilePictureKey(userID int64, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedContentType
	}
	name := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	return path.Join(ProfilePicturePrefix, strconv.FormatInt(userID, 10), name), nil
}

// OwnsProfilePictureKey reports whether key lies in userID's profile picture folder.
func OwnsProfilePictureKey(userID int64, key string) bool {
	prefix := path.Join(ProfilePicturePrefix, strconv.FormatInt(userID, 10)) + "/"
	return strings.HasPrefix(key, prefix) && path.Clean(key) == key && len(key) > len(prefix)
}
