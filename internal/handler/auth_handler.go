package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/internal/dto"
	"github.com/campusdeals/campus-deals-api/internal/middleware"
	"github.com/campusdeals/campus-deals-api/internal/service"
	"github.com/campusdeals/campus-deals-api/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles user registration
// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, "An account with this email already exists")
			return
		}
		h.fail(c, err)
		return
	}

	response.Created(c, "Account created", result)
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Credentials())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, response.CodeInvalidCredentials, "Invalid email or password")
			return
		}
		if errors.Is(err, service.ErrUserInactive) {
			response.Forbidden(c, "Account is inactive")
			return
		}
		h.fail(c, err)
		return
	}

	response.Success(c, "Login successful", result)
}

// Refresh handles token rotation
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Token() == "" {
		response.BadRequest(c, "Refresh token is required")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.Token())
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, response.CodeInvalidToken, "Invalid or expired refresh token")
			return
		}
		h.fail(c, err)
		return
	}

	response.Success(c, "Token refreshed", result)
}

// Logout is advisory: no refresh tokens are stored server-side, so nothing
// can be revoked. The client is told to discard its local tokens.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		response.Unauthorized(c, response.CodeInvalidToken, "Authorization header is required")
		return
	}

	if _, err := h.authService.Logout(c.Request.Context(), token); err != nil {
		response.Unauthorized(c, response.CodeInvalidToken, "Invalid or expired token")
		return
	}

	response.Success(c, "Logged out. Discard the refresh token on the client; it remains valid until it expires.", nil)
}

// Me returns the caller's profile
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, response.CodeInvalidToken, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		response.NotFound(c, "User not found")
		return
	}

	response.Success(c, "OK", dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Phone:       user.Phone,
		Department:  user.Department,
		YearOfStudy: user.YearOfStudy,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UpdateMe updates the caller's profile
// PUT /auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, response.CodeInvalidToken, "Not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID.(string), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		h.fail(c, err)
		return
	}

	response.Success(c, "Profile updated", dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Phone:       user.Phone,
		Department:  user.Department,
		YearOfStudy: user.YearOfStudy,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// fail maps the residual service errors onto the envelope
func (h *AuthHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnavailable) {
		response.Unavailable(c, "Backing store is unavailable, try again later")
		return
	}
	response.InternalError(c, err)
}
