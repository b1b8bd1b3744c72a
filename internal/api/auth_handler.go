package api

import (
	"net/http"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name        string       `json:"name" binding:"required,min=2,max=100"`
	Email       string       `json:"email" binding:"required,email"`
	Password    string       `json:"password" binding:"required,min=6"`
	Role        domain.Role  `json:"role"`
	Phone       string       `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth *domain.Date `json:"dateOfBirth"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type UpdateProfileRequest struct {
	Name        *string      `json:"name" binding:"omitempty,min=2,max=100"`
	Phone       *string      `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth *domain.Date `json:"dateOfBirth"`
}

type ProfileResponse struct {
	Message string           `json:"message"`
	User    *service.Profile `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type ProfilePictureUploadRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=image/jpeg image/png image/webp"`
}

type ConfirmProfilePictureRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new member or trainer
// @Description Creates an account and returns an access token. Admin accounts cannot be self-registered.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errorResponse "Validation error or email already registered"
// @Failure 429 {object} errorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Register(c.Request.Context(), service.NewAccount{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Message: "User registered successfully", Token: token, User: user})
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse "Invalid email or password"
// @Failure 403 {object} errorResponse "Account is inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Message: "Login successful", Token: token, User: user})
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Description Only the fields present in the body are changed.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errorResponse
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), caller.UserID, service.ProfileUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Message: "Profile updated successfully", User: profile})
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwords body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse "Current password is incorrect"
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), caller.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}

// RequestProfilePictureUpload godoc
// @Summary Get a presigned URL for uploading a profile picture
// @Description The client PUTs the image to uploadUrl with the same Content-Type, then confirms objectKey.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body ProfilePictureUploadRequest true "Image content type"
// @Success 200 {object} domain.ProfilePictureUpload
// @Failure 400 {object} errorResponse
// @Failure 503 {object} errorResponse "File storage not configured"
// @Router /auth/profile/picture [post]
func (h *AuthHandler) RequestProfilePictureUpload(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ProfilePictureUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.authService.RequestProfilePictureUpload(c.Request.Context(), caller.UserID, req.ContentType)
	if err != nil {
		respondError(c, err, "Failed to prepare profile picture upload")
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmProfilePicture godoc
// @Summary Attach an uploaded picture to the caller's profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body ConfirmProfilePictureRequest true "Uploaded object key"
// @Success 200 {object} ProfileResponse
// @Failure 403 {object} errorResponse "Object key belongs to another user"
// @Failure 503 {object} errorResponse "File storage not configured"
// @Router /auth/profile/picture [put]
func (h *AuthHandler) ConfirmProfilePicture(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ConfirmProfilePictureRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.authService.ConfirmProfilePicture(c.Request.Context(), caller.UserID, req.ObjectKey)
	if err != nil {
		respondError(c, err, "Failed to update profile picture")
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Message: "Profile picture updated successfully", User: profile})
}
