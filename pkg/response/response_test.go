package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(write func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSuccessEnvelope(t *testing.T) {
	w, resp := record(func(c *gin.Context) {
		Success(c, "OK", gin.H{"id": "abc"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Message != "OK" {
		t.Errorf("message = %q, want OK", resp.Message)
	}
	if resp.Error != nil {
		t.Error("error populated on success")
	}
}

func TestCreatedEnvelope(t *testing.T) {
	w, resp := record(func(c *gin.Context) {
		Created(c, "Created", nil)
	})
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if !resp.Success {
		t.Error("success = false")
	}
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "nope") }, http.StatusBadRequest, CodeValidation},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, CodeInvalidToken, "nope") }, http.StatusUnauthorized, CodeInvalidToken},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "nope") }, http.StatusForbidden, CodeForbidden},
		{"not found", func(c *gin.Context) { NotFound(c, "nope") }, http.StatusNotFound, CodeNotFound},
		{"conflict", func(c *gin.Context) { Conflict(c, "nope") }, http.StatusConflict, CodeConflict},
		{"unavailable", func(c *gin.Context) { Unavailable(c, "nope") }, http.StatusServiceUnavailable, CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := record(tt.write)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if resp.Success {
				t.Error("success = true on error")
			}
			if resp.Error == nil {
				t.Fatal("error payload missing")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestInternalError(t *testing.T) {
	w, resp := record(func(c *gin.Context) {
		InternalError(c, errors.New("pool exhausted"))
	})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != CodeInternal {
		t.Fatalf("error = %+v, want code %s", resp.Error, CodeInternal)
	}
	if resp.Error.Details != "pool exhausted" {
		t.Errorf("details = %q, want pool exhausted", resp.Error.Details)
	}
}
