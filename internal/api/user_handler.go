package api

import (
	"net/http"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Name        string       `json:"name" binding:"required,min=2,max=100"`
	Email       string       `json:"email" binding:"required,email"`
	Password    string       `json:"password" binding:"required,min=6"`
	Role        domain.Role  `json:"role" binding:"omitempty,oneof=admin trainer member"`
	Phone       string       `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth *domain.Date `json:"dateOfBirth"`
}

type UpdateUserRequest struct {
	Name        *string      `json:"name" binding:"omitempty,min=2,max=100"`
	Email       *string      `json:"email" binding:"omitempty,email"`
	Role        *domain.Role `json:"role" binding:"omitempty,oneof=admin trainer member"`
	Phone       *string      `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth *domain.Date `json:"dateOfBirth"`
	IsActive    *bool        `json:"isActive"`
}

type UserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(admin, trainer, member)
// @Success 200 {array} domain.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := repository.UserFilter{Role: domain.Role(c.Query("role"))}

	users, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// GetUser godoc
// @Summary Get a user by id
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} errorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserStats godoc
// @Summary Head count by role (admin)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserStats
// @Router /users/stats [get]
func (h *UserHandler) GetUserStats(c *gin.Context) {
	stats, err := h.userService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch user statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateUser godoc
// @Summary Create a user of any role (admin)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "New user"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), service.NewAccount{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, UserResponse{Message: "User created successfully", User: user})
}

// UpdateUser godoc
// @Summary Update a user (admin)
// @Description Only the fields present in the body are changed.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errorResponse "No changes made or invalid field"
// @Failure 404 {object} errorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, domain.UserPatch{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, UserResponse{Message: "User updated successfully", User: user})
}

// DeleteUser godoc
// @Summary Delete a user (admin)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
