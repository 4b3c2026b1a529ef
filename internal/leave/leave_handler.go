package leave

import (
	"encoding/json"
	"net/http"
	"time"

	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsCacheKey = "leave:stats"
const statsCacheTTL = 30 * time.Second

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis additionally caches the stats aggregation and completes
// the idempotency protocol on successful applies.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Apply(c *gin.Context) {
	actorID := c.GetString("user_id")

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), actorID, req)
	if err != nil {
		h.releaseIdempotencyLock(c)
		h.writeServiceError(c, err)
		return
	}

	h.settleIdempotency(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetMy(c *gin.Context) {
	actorID := c.GetString("user_id")

	resp, err := h.service.GetMyLeaves(c.Request.Context(), actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := LeaveFilter{
		Status:    c.Query("status"),
		LeaveType: c.Query("leaveType"),
	}

	resp, err := h.service.GetAllLeaves(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats LeaveStatsResponse
			if json.Unmarshal([]byte(cached), &stats) == nil {
				response.Success(c, http.StatusOK, stats, nil)
				return
			}
		}
	}

	resp, err := h.service.GetStats(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err()
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Review(c *gin.Context) {
	id := c.Param("id")
	actorID := c.GetString("user_id")
	actorRole := c.GetString("role")

	var req ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Review(c.Request.Context(), actorID, actorRole, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	actorID := c.GetString("user_id")
	actorRole := c.GetString("role")

	if err := h.service.Cancel(c.Request.Context(), actorID, actorRole, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Leave request cancelled"}, nil)
}

// settleIdempotency caches the successful result under the key the middleware
// reserved and releases its in-flight lock.
func (h *Handler) settleIdempotency(c *gin.Context, resp LeaveResponse) {
	if h.rdb == nil {
		return
	}

	cacheKey := c.GetString("idempotency_cache_key")
	lockKey := c.GetString("idempotency_lock_key")
	if cacheKey == "" {
		return
	}

	ctx := c.Request.Context()
	if raw, err := json.Marshal(resp); err == nil {
		_ = h.rdb.Set(ctx, cacheKey, raw, 24*time.Hour).Err()
	}
	if lockKey != "" {
		_ = h.rdb.Del(ctx, lockKey).Err()
	}
}

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}

	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		_ = h.rdb.Del(c.Request.Context(), lockKey).Err()
	}
}
