package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshTokenPrefix = "refresh_token:"

var _ RefreshTokenRepository = (*RedisRefreshTokenRepository)(nil)

// RedisRefreshTokenRepository keeps exactly one live refresh token per account.
type RedisRefreshTokenRepository struct {
	client *redis.Client
}

func NewRedisRefreshTokenRepository(client *redis.Client) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client}
}

// Set overwrites whatever token the account had before.
func (r *RedisRefreshTokenRepository) Set(ctx context.Context, accountID uuid.UUID, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshTokenKey(accountID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	return nil
}

func (r *RedisRefreshTokenRepository) Get(ctx context.Context, accountID uuid.UUID) (string, error) {
	token, err := r.client.Get(ctx, refreshTokenKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return token, nil
}

func (r *RedisRefreshTokenRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	deleted, err := r.client.Del(ctx, refreshTokenKey(accountID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func refreshTokenKey(accountID uuid.UUID) string {
	return refreshTokenPrefix + accountID.String()
}
