package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-shift-api/internal/auth"
	"github.com/franciscosanchezn/gin-shift-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthController serves registration, login and password changes
type AuthController struct {
	userService services.UserService
	tokens      *auth.TokenIssuer
}

// NewAuthController creates a new AuthController
func NewAuthController(userService services.UserService, tokens *auth.TokenIssuer) *AuthController {
	return &AuthController{
		userService: userService,
		tokens:      tokens,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Fullname string `json:"fullname"`
	ImageURL string `json:"imageUrl"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Register godoc
// @Summary Register an account
// @Description Create an active account. The role defaults to "user".
// @Tags auth
// @Accept json
// @Produce json
// @Param account body registerRequest true "Account details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Router /api/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	_, err := ac.userService.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Fullname: req.Fullname,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondError(c, err, "User may already exist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered"})
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and return the profile with an advisory token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Router /api/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}

	token, err := ac.tokens.Issue(user.Email, user.Role)
	if err != nil {
		respondError(c, err, "Token generation failed")
		return
	}

	var imageURL *string
	if user.ImageURL != "" {
		imageURL = &user.ImageURL
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"email":      user.Email,
		"role":       user.Role,
		"fullname":   user.Fullname,
		"imageUrl":   imageURL,
		"status":     user.Status,
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int64(ac.tokens.TTL().Seconds()),
	})
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Param passwords body changePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/change-password [post]
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := ac.userService.ChangePassword(c.Request.Context(), req.Email, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
