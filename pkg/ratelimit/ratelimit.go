// Package ratelimit 基于 Redis 令牌桶的请求限流
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Limiter 限流器接口
type Limiter interface {
	// Allow 判断给定键的本次请求是否放行
	Allow(ctx context.Context, key string) (*Decision, error)
}

// Decision 限流判定结果
type Decision struct {
	// 是否放行
	Allowed bool
	// 拒绝时建议的重试等待时长
	RetryAfter time.Duration
}

// RedisLimiter 基于 redis_rate 的限流器，限额按秒计
type RedisLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
}

// NewRedisLimiter 创建 Redis 限流器；rate 为每秒请求数上限，burst 为突发容量
func NewRedisLimiter(rdb *redis.Client, rate, burst int) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(rdb),
		limit: redis_rate.Limit{
			Rate:   rate,
			Period: time.Second,
			Burst:  burst,
		},
	}
}

// Allow 判断请求是否放行
func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Decision, error) {
	res, err := l.limiter.Allow(ctx, key, l.limit)
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	return &Decision{
		Allowed:    res.Allowed > 0,
		RetryAfter: res.RetryAfter,
	}, nil
}
