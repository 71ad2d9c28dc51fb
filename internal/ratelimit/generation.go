package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/stormline/roofcrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyProposalGenerate = "proposal:generate:user:%s"

// GenerationLimiter throttles AI-backed proposal generation per requesting user.
type GenerationLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int
}

// NewGenerationLimiter returns nil when rate limiting is disabled.
func NewGenerationLimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*GenerationLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.GenerateRate <= 0 || limitCfg.GenerateBurst <= 0 {
		return nil, errors.New("proposal generation rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
	}

	return newGenerationLimiter(client, limitCfg.GenerateRate, limitCfg.GenerateBurst, log), nil
}

func newGenerationLimiter(client redis.Scripter, rate float64, burst int, log *zap.Logger) *GenerationLimiter {
	return &GenerationLimiter{
		bucket: NewTokenBucket(client),
		log:    log.Named("ratelimit.generate"),
		rate:   rate,
		burst:  burst,
	}
}

func (l *GenerationLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow reports whether userID may start another generation. A limiter error
// is returned alongside an allowing result so callers can fail open.
func (l *GenerationLimiter) Allow(ctx context.Context, userID string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "anonymous"
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyProposalGenerate, userID), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request", zap.Error(err))
		return &RateLimitResult{Allowed: true, Limit: l.burst}, err
	}
	return res, nil
}
