package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func idempotentRouter(store RedisStore, calls *int) *gin.Engine {
	r := gin.New()
	r.POST("/orders", Idempotency(IdempotencyConfig{Redis: store, KeyPrefix: "idem:"}), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"call": *calls})
	})
	return r
}

func postKeyed(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	calls := 0
	r := idempotentRouter(newFakeRedis(), &calls)

	first := postKeyed(r, "key-1", `{"listing_id":"l"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first request: status = %d, want 201", first.Code)
	}
	if first.Header().Get(ReplayHeader) != "" {
		t.Error("first request marked as replay")
	}

	second := postKeyed(r, "key-1", `{"listing_id":"l"}`)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: status = %d, want 201", second.Code)
	}
	if second.Header().Get(ReplayHeader) != "true" {
		t.Error("replay header missing on served-from-store response")
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replayed body %q differs from original %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestIdempotencyRejectsConflictingPayload(t *testing.T) {
	calls := 0
	r := idempotentRouter(newFakeRedis(), &calls)

	if w := postKeyed(r, "key-1", `{"listing_id":"l1"}`); w.Code != http.StatusCreated {
		t.Fatalf("first request: status = %d, want 201", w.Code)
	}

	w := postKeyed(r, "key-1", `{"listing_id":"l2"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("key reuse with new payload: status = %d, want 409", w.Code)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestIdempotencyRejectsInProgressDuplicate(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	r := idempotentRouter(store, &calls)

	// Seed the record a concurrent in-flight request would have written
	body := `{"listing_id":"l"}`
	sum := sha256.Sum256(append([]byte("POST/orders"), []byte(body)...))
	record, _ := json.Marshal(idempotencyRecord{
		Status:      statusProcessing,
		RequestHash: hex.EncodeToString(sum[:]),
	})
	store.data["idem:key-1"] = string(record)

	w := postKeyed(r, "key-1", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate of in-flight request: status = %d, want 409", w.Code)
	}
	if calls != 0 {
		t.Errorf("handler calls = %d, want 0", calls)
	}
}

func TestIdempotencyDoesNotPinServerErrors(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	r := gin.New()
	r.POST("/orders", Idempotency(IdempotencyConfig{Redis: store, KeyPrefix: "idem:"}), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusInternalServerError, gin.H{"boom": true})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	if w := postKeyed(r, "key-1", `{}`); w.Code != http.StatusInternalServerError {
		t.Fatalf("first request: status = %d, want 500", w.Code)
	}
	// The failure was not stored; the retry executes for real
	if w := postKeyed(r, "key-1", `{}`); w.Code != http.StatusCreated {
		t.Fatalf("retry after 500: status = %d, want 201", w.Code)
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

func TestIdempotencyPassThroughWithoutHeader(t *testing.T) {
	calls := 0
	r := idempotentRouter(newFakeRedis(), &calls)

	for i := 0; i < 3; i++ {
		if w := postKeyed(r, "", `{}`); w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", w.Code)
		}
	}
	if calls != 3 {
		t.Errorf("handler calls = %d, want 3 without idempotency key", calls)
	}
}

func TestIdempotencyPassThroughWithoutRedis(t *testing.T) {
	// Best effort: a keyed request still executes when no Redis is wired
	calls := 0
	r := idempotentRouter(nil, &calls)

	if w := postKeyed(r, "key-1", `{}`); w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}
