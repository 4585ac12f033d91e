package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/pkg/response"
)

const (
	// IdempotencyKeyHeader is the header name for the idempotency key
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// ReplayHeader marks a response served from the idempotency store
	ReplayHeader = "X-Idempotent-Replay"
)

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

// idempotencyRecord stores the state of an idempotent request
type idempotencyRecord struct {
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
	CreatedAt    time.Time         `json:"created_at"`
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Redis RedisStore
	// TTL for completed records (default: 24h)
	TTL time.Duration
	// ProcessingTTL bounds how long an in-flight record blocks retries (default: 60s)
	ProcessingTTL time.Duration
	// KeyPrefix namespaces the Redis records
	KeyPrefix string
}

// Idempotency makes mutating endpoints safe to retry: a repeated
// X-Idempotency-Key replays the stored response instead of re-executing
// the handler. Requests without the header pass through untouched.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.ProcessingTTL == 0 {
		cfg.ProcessingTTL = 60 * time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "idempotency:"
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || cfg.Redis == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Failed to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		sum := sha256.Sum256(append([]byte(c.Request.Method+c.FullPath()), body...))
		requestHash := hex.EncodeToString(sum[:])

		redisKey := cfg.KeyPrefix + key
		ctx := c.Request.Context()

		record := idempotencyRecord{
			Status:      statusProcessing,
			RequestHash: requestHash,
			CreatedAt:   time.Now(),
		}
		payload, _ := json.Marshal(record)

		acquired, err := cfg.Redis.SetNX(ctx, redisKey, payload, cfg.ProcessingTTL).Result()
		if err != nil {
			// Fail open: idempotency is best effort, not a correctness gate
			c.Next()
			return
		}

		if !acquired {
			stored, err := cfg.Redis.Get(ctx, redisKey).Result()
			if err != nil {
				c.Next()
				return
			}
			var prev idempotencyRecord
			if err := json.Unmarshal([]byte(stored), &prev); err != nil {
				c.Next()
				return
			}

			if prev.RequestHash != requestHash {
				response.Conflict(c, "Idempotency key reused with a different request")
				c.Abort()
				return
			}
			if prev.Status == statusProcessing {
				response.Conflict(c, "Request with this idempotency key is still in progress")
				c.Abort()
				return
			}

			c.Header(ReplayHeader, "true")
			c.Data(prev.ResponseCode, "application/json; charset=utf-8", []byte(prev.ResponseBody))
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			// Do not pin failures; let the client retry for real
			cfg.Redis.Del(ctx, redisKey)
			return
		}

		record.Status = statusCompleted
		record.ResponseCode = status
		record.ResponseBody = writer.body.String()
		payload, _ = json.Marshal(record)
		cfg.Redis.Set(ctx, redisKey, payload, cfg.TTL)
	}
}

// captureWriter duplicates the response body so it can be replayed
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
