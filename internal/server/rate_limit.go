package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stormline/roofcrm/internal/observability/logger"
	obsmetrics "github.com/stormline/roofcrm/internal/observability/metrics"
	obstracing "github.com/stormline/roofcrm/internal/observability/tracing"
	"go.uber.org/zap"
)

const rateLimitReasonUserRate = "user-rate"

type generationRateLimitKey struct {
	CreatedByID   string `json:"created_by_id"`
	MaterialGrade string `json:"material_grade"`
}

// GenerationRateLimit throttles proposal generation per requesting user. The
// limiter fails open, so a Redis outage never blocks generation.
func (s *Server) GenerationRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		key, err := readGenerationKey(c)
		if err != nil {
			logger.FromContext(ctx).Warn("generation rate limit read body failed", zap.Error(err))
			AbortWithError(c, invalidRequestError())
			return
		}
		if key.MaterialGrade != "" {
			c.Set(obstracing.GradeKey, key.MaterialGrade)
		}

		if s.genLimiter == nil || !s.genLimiter.Enabled() {
			c.Next()
			return
		}

		endpoint := normalizeRateLimitEndpoint(c)
		userID := key.CreatedByID
		if userID == "" {
			userID = strings.TrimSpace(c.GetHeader("X-Actor-Id"))
		}

		res, err := s.genLimiter.Allow(ctx, userID)
		if err != nil {
			logger.FromContext(ctx).Warn("generation rate limit check failed", zap.Error(err))
		}
		if res != nil && !res.Allowed {
			retryAfter := int(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			denyGenerationRateLimit(c, endpoint, rateLimitReasonUserRate, retryAfter, s.obsMetrics)
			return
		}
		if res != nil {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}

		recordRateLimitAllowed(ctx, endpoint, s.obsMetrics)
		c.Next()
	}
}

func denyGenerationRateLimit(c *gin.Context, endpoint, reason string, retryAfter int, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	log.Warn("proposal generation rate limit exceeded",
		zap.String("reason", reason),
		zap.String("endpoint", endpoint),
	)
	recordRateLimitDenied(ctx, endpoint, reason, metrics)

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.Header("X-Rate-Limited-Reason", reason)
	AbortWithError(c, ErrRateLimited)
}

func recordRateLimitAllowed(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitAllowed(ctx, endpoint)
}

func recordRateLimitDenied(ctx context.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint, reason)
}

// readGenerationKey peeks at the request body and restores it for the handler.
func readGenerationKey(c *gin.Context) (generationRateLimitKey, error) {
	var key generationRateLimitKey
	if c.Request.Body == nil {
		return key, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return key, err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return key, nil
	}

	if err := json.Unmarshal(body, &key); err != nil {
		return generationRateLimitKey{}, nil
	}
	key.CreatedByID = strings.TrimSpace(key.CreatedByID)
	key.MaterialGrade = strings.ToLower(strings.TrimSpace(key.MaterialGrade))
	return key, nil
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
