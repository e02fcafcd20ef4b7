package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const resetTokenPrefix = "forgot-password:"

// ResetTokenCache holds single-use password-reset tokens. Each entry maps an
// opaque token to a user id and vanishes after the configured TTL.
type ResetTokenCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewResetTokenCache(client *redisv9.Client, ttl time.Duration) *ResetTokenCache {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &ResetTokenCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ResetTokenCache) Set(ctx context.Context, token string, userID uint) error {
	key := c.key(token)
	if err := c.client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set reset token failed: %w", err)
	}
	return nil
}

// Get returns the user id for a token, with found=false for tokens that
// never existed, expired, or were already consumed.
func (c *ResetTokenCache) Get(ctx context.Context, token string) (uint, bool, error) {
	key := c.key(token)
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get reset token failed: %w", err)
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse reset token value failed: %w", err)
	}
	return uint(userID), true, nil
}

func (c *ResetTokenCache) Delete(ctx context.Context, token string) error {
	key := c.key(token)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete reset token failed: %w", err)
	}
	return nil
}

func (c *ResetTokenCache) key(token string) string {
	return resetTokenPrefix + token
}
