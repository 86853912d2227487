package controllers

import (
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-shift-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController serves account administration
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

type userResponse struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
	ImageURL string `json:"imageUrl"`
	Status   string `json:"status"`
}

// updateUserRequest uses pointers so that absent fields stay untouched
type updateUserRequest struct {
	Email    string  `json:"email"`
	Fullname *string `json:"fullname"`
	Role     *string `json:"role"`
	ImageURL *string `json:"imageUrl"`
	Status   *string `json:"status"`
	Password *string `json:"password"`
}

// ListUsers godoc
// @Summary List accounts
// @Description All accounts ordered by fullname, disabled ones included
// @Tags users
// @Produce json
// @Success 200 {object} map[string][]userResponse
// @Failure 500 {object} models.APIError
// @Router /api/users [get]
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			Email:    u.Email,
			Fullname: u.Fullname,
			Role:     u.Role,
			ImageURL: u.ImageURL,
			Status:   u.Status,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// UpdateUser godoc
// @Summary Update an account
// @Description Only the supplied fields change. A blank password is ignored.
// @Tags users
// @Accept json
// @Produce json
// @Param user body updateUserRequest true "Fields to update"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/update-user [post]
func (uc *UserController) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	err := uc.userService.UpdateProfile(c.Request.Context(), req.Email, services.ProfileUpdate{
		Fullname: req.Fullname,
		Role:     req.Role,
		ImageURL: req.ImageURL,
		Status:   req.Status,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, "Update failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// DisableUser godoc
// @Summary Disable an account
// @Description Soft delete: the account is kept with status "disabled"
// @Tags users
// @Produce json
// @Param email path string true "Account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/users/{email} [delete]
func (uc *UserController) DisableUser(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))

	if err := uc.userService.Disable(c.Request.Context(), email); err != nil {
		respondError(c, err, "Disable failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User disabled"})
}
