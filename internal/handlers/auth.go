package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/services"
	"github.com/taskflow/taskflow-api/internal/utils"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required,max=150"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := fieldErrors(err); details != nil {
			apierrors.BadRequestWithDetails(c, "Validation failed", details)
			return
		}
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", map[string]string{
			"password": err.Error(),
		})
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Token authenticates a user and issues an access/refresh token pair.
func (h *AuthHandler) Token(c *gin.Context) {
	type TokenRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := fieldErrors(err); details != nil {
			apierrors.BadRequestWithDetails(c, "Validation failed", details)
			return
		}
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.InvalidCredentials(c, "No active account found with the given credentials")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	pair, err := h.tokenService.IssuePair(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue tokens")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// TokenRefresh rotates a refresh token into a new token pair. The presented
// token is invalidated even when concurrent requests race on it.
func (h *AuthHandler) TokenRefresh(c *gin.Context) {
	type RefreshRequest struct {
		Refresh string `json:"refresh" binding:"required"`
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := fieldErrors(err); details != nil {
			apierrors.BadRequestWithDetails(c, "Validation failed", details)
			return
		}
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pair, err := h.tokenService.Rotate(req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenRevoked), errors.Is(err, services.ErrInvalidToken):
			apierrors.Unauthorized(c, "Token is invalid or expired")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.BadRequestWithDetails(c, "Validation failed", map[string]string{
			"username": "This field is required.",
		})
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "A user with that username already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, "User no longer exists")
	default:
		apierrors.InternalError(c, "")
	}
}
