package domain

import (
	"time"
)

// ProfilePictureUpload describes a pending direct-to-storage upload of a user's profile picture.
// The client PUTs the file to UploadURL with the same ContentType, then confirms ObjectKey.
type ProfilePictureUpload struct {
	UploadURL   string    `json:"uploadUrl"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
