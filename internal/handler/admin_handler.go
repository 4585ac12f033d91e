package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/internal/domain"
	"github.com/campusdeals/campus-deals-api/internal/dto"
	"github.com/campusdeals/campus-deals-api/internal/middleware"
	"github.com/campusdeals/campus-deals-api/internal/service"
	"github.com/campusdeals/campus-deals-api/pkg/response"
)

// AdminHandler handles admin bootstrap, login and listing
type AdminHandler struct {
	authService service.AuthService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(authService service.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// Bootstrap creates the first admin. Permitted only while the admin
// collection is empty; afterwards every attempt is Forbidden.
// POST /admins/bootstrap
func (h *AdminHandler) Bootstrap(c *gin.Context) {
	var req dto.BootstrapAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.authService.BootstrapAdmin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAdminExists) {
			response.Forbidden(c, "An admin already exists; bootstrap is closed")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, "An admin with this email already exists")
			return
		}
		h.fail(c, err)
		return
	}

	response.Created(c, "Admin created", result)
}

// Login authenticates an admin
// POST /admin-login
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.authService.AdminLogin(c.Request.Context(), req.Credentials())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, response.CodeInvalidCredentials, "Invalid email or password")
			return
		}
		h.fail(c, err)
		return
	}

	response.Success(c, "Login successful", result)
}

// List returns all admins. The gate is conditional: while zero admins
// exist the endpoint is open (so bootstrap tooling can discover state);
// the instant one exists it requires an admin bearer token. The gate is
// recomputed from the store on every request, never cached in process.
// GET /admins
func (h *AdminHandler) List(c *gin.Context) {
	gated, err := h.authService.AdminGateActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	if gated {
		token, ok := middleware.BearerToken(c)
		if !ok {
			response.Unauthorized(c, response.CodeInvalidToken, "Authorization header is required")
			return
		}
		claims, err := h.authService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, response.CodeInvalidToken, "Invalid or expired token")
			return
		}
		if claims.Role != domain.RoleAdmin {
			response.Forbidden(c, "Admin access required")
			return
		}
	}

	admins, err := h.authService.ListAdmins(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, "OK", admins)
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnavailable) {
		response.Unavailable(c, "Backing store is unavailable, try again later")
		return
	}
	response.InternalError(c, err)
}
