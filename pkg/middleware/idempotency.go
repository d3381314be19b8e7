package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/enigmAsad/ticketing-service/pkg/logger"
	"github.com/enigmAsad/ticketing-service/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency key
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// IdempotentReplayHeader marks a response served from the idempotency cache
	IdempotentReplayHeader = "Idempotent-Replayed"
	// ContextKeyIdempotencyKey is the context key for idempotency key
	ContextKeyIdempotencyKey = "idempotency_key"
	// DefaultIdempotencyTTL is how long a completed response is replayed
	DefaultIdempotencyTTL = 5 * time.Minute
	// DefaultProcessingTTL bounds how long an in-flight claim blocks retries
	DefaultProcessingTTL = 30 * time.Second
	// IdempotencyKeyPrefix namespaces idempotency records in Redis
	IdempotencyKeyPrefix = "idempotency:"

	maxIdempotencyKeyLength = 255

	codeIdempotencyKeyReused = "IDEMPOTENCY_KEY_REUSED"
	codeRequestInProgress    = "REQUEST_IN_PROGRESS"
)

// IdempotencyStatus represents the status of an idempotency record
type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord stores the state of an idempotent request
type IdempotencyRecord struct {
	Status       IdempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code,omitempty"`
	ResponseBody string            `json:"response_body,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// IdempotencyStore is the subset of Redis commands the middleware needs
type IdempotencyStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	Store IdempotencyStore
	// TTL for completed records
	TTL time.Duration
	// TTL for the in-flight claim
	ProcessingTTL time.Duration
	Logger        *logger.Logger
}

// Idempotency replays the stored response when a client retries a request
// with the same X-Idempotency-Key. Requests without the header pass through.
// Store failures let the request through without deduplication.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultIdempotencyTTL
	}
	if cfg.ProcessingTTL <= 0 {
		cfg.ProcessingTTL = DefaultProcessingTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Get()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				response.BadRequest("X-Idempotency-Key must be at most 255 characters"))
			return
		}
		c.Set(ContextKeyIdempotencyKey, key)

		body, err := readAndRestoreBody(c)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
					response.ErrorWithDetails(response.CodePayloadTooLarge, "Payload Too Large", "Request body exceeds size limit."))
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, response.BadRequest("Unable to read request body"))
			return
		}

		ctx := c.Request.Context()
		log := cfg.Logger.With(zap.String("request_id", GetRequestID(c)), zap.String("idempotency_key", key))
		redisKey := IdempotencyKeyPrefix + key
		record := &IdempotencyRecord{
			Status:      StatusProcessing,
			RequestHash: hashRequest(c.Request.Method, c.Request.URL.Path, body),
			CreatedAt:   time.Now().UTC(),
		}

		claimed, err := claimRecord(ctx, cfg.Store, redisKey, record, cfg.ProcessingTTL)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing without deduplication", zap.Error(err))
			c.Next()
			return
		}

		if !claimed {
			existing, err := loadRecord(ctx, cfg.Store, redisKey)
			switch {
			case errors.Is(err, redis.Nil):
				// Claim expired between SETNX and GET; treat as in progress.
				abortInProgress(c)
			case err != nil:
				log.Warn("Idempotency record unreadable, processing without deduplication", zap.Error(err))
				c.Next()
			default:
				replayOrReject(c, existing, record.RequestHash)
			}
			return
		}

		capture := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		saveCtx := context.WithoutCancel(ctx)
		status := capture.Status()
		if status >= http.StatusInternalServerError {
			if err := cfg.Store.Del(saveCtx, redisKey).Err(); err != nil {
				log.Warn("Failed to release idempotency claim", zap.Error(err))
			}
			return
		}

		record.Status = StatusCompleted
		record.ResponseCode = status
		record.ResponseBody = capture.body.String()
		if err := storeRecord(saveCtx, cfg.Store, redisKey, record, cfg.TTL); err != nil {
			log.Warn("Failed to store idempotent response", zap.Error(err))
		}
	}
}

// GetIdempotencyKey extracts idempotency key from gin context
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	key, exists := c.Get(ContextKeyIdempotencyKey)
	if !exists {
		return "", false
	}
	k, ok := key.(string)
	return k, ok
}

func replayOrReject(c *gin.Context, existing *IdempotencyRecord, requestHash string) {
	if existing.RequestHash != requestHash {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
			response.Error(codeIdempotencyKeyReused, "Idempotency key already used with a different request"))
		return
	}
	if existing.Status != StatusCompleted {
		abortInProgress(c)
		return
	}

	c.Header(IdempotentReplayHeader, "true")
	c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	c.Abort()
}

func abortInProgress(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusConflict,
		response.Error(codeRequestInProgress, "A request with this idempotency key is already being processed"))
}

func readAndRestoreBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, err
}

func hashRequest(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func claimRecord(ctx context.Context, store IdempotencyStore, key string, record *IdempotencyRecord, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, string(data), ttl).Result()
}

func loadRecord(ctx context.Context, store IdempotencyStore, key string) (*IdempotencyRecord, error) {
	raw, err := store.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var record IdempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func storeRecord(ctx context.Context, store IdempotencyStore, key string, record *IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(data), ttl).Err()
}

// capturingWriter tees the response body so it can be replayed
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
