package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/internal/service"
	"github.com/campusdeals/campus-deals-api/pkg/response"
)

// Context keys set by RequireAuth
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token from the Authorization header
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
		return "", false
	}
	return authHeader[len(bearerPrefix):], true
}

// RequireAuth validates the bearer access token and stores the caller's
// identity in the request context
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		claims, err := authService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.SubjectID)
		c.Set(ContextRole, string(claims.Role))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
		Success: false,
		Message: message,
		Error: &response.ErrorData{
			Code:    response.CodeInvalidToken,
			Message: message,
		},
	})
}
