package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/internal/domain"
	"github.com/campusdeals/campus-deals-api/internal/dto"
	"github.com/campusdeals/campus-deals-api/internal/middleware"
	"github.com/campusdeals/campus-deals-api/internal/service"
)

func authRouter(svc *stubAuthService) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)
	return r
}

func TestSignupHandler(t *testing.T) {
	svc := &stubAuthService{
		signupFn: func(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
			return &dto.AuthResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    900,
				User:         dto.UserResponse{ID: "user-1", Email: req.Credentials().Identifier},
			}, nil
		},
	}

	body := map[string]interface{}{
		"email":    "alice@campus.edu",
		"password": "Str0ng!pass",
		"name":     "Alice",
	}
	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/signup", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	if !env.Success {
		t.Error("success = false on signup")
	}
}

func TestSignupHandlerDuplicate(t *testing.T) {
	svc := &stubAuthService{
		signupFn: func(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
			return nil, service.ErrEmailTaken
		},
	}

	body := map[string]interface{}{
		"email":    "alice@campus.edu",
		"password": "Str0ng!pass",
		"name":     "Alice",
	}
	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/signup", body, nil)
	assertErrorCode(t, w, env, http.StatusConflict, "CONFLICT")
}

func TestSignupHandlerWeakPassword(t *testing.T) {
	// Validation rejects before the service is ever reached
	svc := &stubAuthService{}

	body := map[string]interface{}{
		"email":    "alice@campus.edu",
		"password": "weak",
		"name":     "Alice",
	}
	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/signup", body, nil)
	assertErrorCode(t, w, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, creds dto.Credentials) (*dto.AuthResponse, error) {
			return nil, service.ErrInvalidCredentials
		},
	}

	body := map[string]string{"email": "alice@campus.edu", "password": "wrong"}
	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/login", body, nil)
	assertErrorCode(t, w, env, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestLoginHandlerInactive(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, creds dto.Credentials) (*dto.AuthResponse, error) {
			return nil, service.ErrUserInactive
		},
	}

	body := map[string]string{"email": "alice@campus.edu", "password": "Str0ng!pass"}
	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/login", body, nil)
	assertErrorCode(t, w, env, http.StatusForbidden, "FORBIDDEN")
}

func TestLoginHandlerUnavailable(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, creds dto.Credentials) (*dto.AuthResponse, error) {
			return nil, service.ErrUnavailable
		},
	}

	body := map[string]string{"email": "alice@campus.edu", "password": "Str0ng!pass"}
	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/login", body, nil)
	assertErrorCode(t, w, env, http.StatusServiceUnavailable, "UNAVAILABLE")
}

func TestRefreshHandler(t *testing.T) {
	svc := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
			if refreshToken != "the-refresh-token" {
				t.Errorf("service received token %q", refreshToken)
			}
			return &dto.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900}, nil
		},
	}
	router := authRouter(svc)

	// Both field spellings reach the service
	for _, body := range []map[string]string{
		{"refreshToken": "the-refresh-token"},
		{"refresh_token": "the-refresh-token"},
	} {
		w, env := doJSON(t, router, http.MethodPost, "/auth/refresh", body, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		if !env.Success {
			t.Error("success = false on refresh")
		}
	}
}

func TestRefreshHandlerMissingToken(t *testing.T) {
	svc := &stubAuthService{}

	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/refresh", map[string]string{}, nil)
	assertErrorCode(t, w, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestRefreshHandlerInvalidToken(t *testing.T) {
	svc := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
			return nil, service.ErrInvalidToken
		},
	}

	body := map[string]string{"refreshToken": "expired-or-garbage"}
	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/refresh", body, nil)
	assertErrorCode(t, w, env, http.StatusUnauthorized, "INVALID_TOKEN")
}

func TestLogoutHandler(t *testing.T) {
	svc := &stubAuthService{
		logoutFn: func(ctx context.Context, accessToken string) (*domain.Claims, error) {
			return &domain.Claims{SubjectID: "user-1", Role: domain.RoleUser, TokenType: domain.TokenTypeAccess}, nil
		},
	}

	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/logout", nil,
		map[string]string{"Authorization": "Bearer some-access-token"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if !env.Success {
		t.Error("success = false on logout")
	}
}

func TestMeHandlerVanishedUser(t *testing.T) {
	// Token is valid but the account no longer exists in the store
	svc := &stubAuthService{
		getUserFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, nil
		},
	}
	h := NewAuthHandler(svc)
	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-gone")
	}, h.Me)

	w, env := doJSON(t, r, http.MethodGet, "/auth/me", nil, nil)
	assertErrorCode(t, w, env, http.StatusNotFound, "NOT_FOUND")
}

func TestLogoutHandlerMissingHeader(t *testing.T) {
	svc := &stubAuthService{}

	w, env := doJSON(t, authRouter(svc), http.MethodPost, "/auth/logout", nil, nil)
	assertErrorCode(t, w, env, http.StatusUnauthorized, "INVALID_TOKEN")
}
