package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/internal/domain"
	"github.com/campusdeals/campus-deals-api/internal/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService implements service.AuthService with per-call overrides
type stubAuthService struct {
	signupFn         func(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	loginFn          func(ctx context.Context, creds dto.Credentials) (*dto.AuthResponse, error)
	adminLoginFn     func(ctx context.Context, creds dto.Credentials) (*dto.AdminAuthResponse, error)
	refreshFn        func(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	logoutFn         func(ctx context.Context, accessToken string) (*domain.Claims, error)
	bootstrapFn      func(ctx context.Context, req *dto.BootstrapAdminRequest) (*dto.AdminResponse, error)
	listAdminsFn     func(ctx context.Context) ([]*dto.AdminResponse, error)
	gateActiveFn     func(ctx context.Context) (bool, error)
	validateFn       func(ctx context.Context, token string) (*domain.Claims, error)
	getUserFn        func(ctx context.Context, id string) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	return s.signupFn(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, creds dto.Credentials) (*dto.AuthResponse, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubAuthService) AdminLogin(ctx context.Context, creds dto.Credentials) (*dto.AdminAuthResponse, error) {
	return s.adminLoginFn(ctx, creds)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, accessToken string) (*domain.Claims, error) {
	return s.logoutFn(ctx, accessToken)
}

func (s *stubAuthService) BootstrapAdmin(ctx context.Context, req *dto.BootstrapAdminRequest) (*dto.AdminResponse, error) {
	return s.bootstrapFn(ctx, req)
}

func (s *stubAuthService) ListAdmins(ctx context.Context) ([]*dto.AdminResponse, error) {
	return s.listAdminsFn(ctx)
}

func (s *stubAuthService) AdminGateActive(ctx context.Context) (bool, error) {
	return s.gateActiveFn(ctx)
}

func (s *stubAuthService) ValidateAccessToken(ctx context.Context, token string) (*domain.Claims, error) {
	return s.validateFn(ctx, token)
}

func (s *stubAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, req)
}

// envelope mirrors the wire shape of every response for assertions
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("response is not an envelope: %v\nbody: %s", err, w.Body.String())
		}
	}
	return w, env
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, env envelope, wantStatus int, wantCode string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d (body %s)", w.Code, wantStatus, w.Body.String())
	}
	if env.Success {
		t.Error("success = true on an error response")
	}
	if env.Error == nil {
		t.Fatal("error payload missing")
	}
	if env.Error.Code != wantCode {
		t.Errorf("error code = %q, want %q", env.Error.Code, wantCode)
	}
}
