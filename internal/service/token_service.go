package service

import (
	"context"
	"time"

	"quiz_tournament_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const resetTokenTTL = 15 * time.Minute

// TokenService 密码重置令牌，存 Redis 带 TTL，过期自动失效
type TokenService struct {
	Redis *redis.Client
}

func NewTokenService(rdb *redis.Client) *TokenService {
	return &TokenService{Redis: rdb}
}

// CreateResetToken 为邮箱生成一次性重置令牌
func (s *TokenService) CreateResetToken(ctx context.Context, email string) (string, error) {
	token := uuid.New().String()
	if err := s.Redis.Set(ctx, "reset_token:"+token, email, resetTokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken 校验并销毁令牌，返回关联的邮箱。
// 令牌是一次性的，取到即删。
func (s *TokenService) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", util.ErrInvalidResetToken
	}

	key := "reset_token:" + token
	email, err := s.Redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", util.ErrInvalidResetToken
	}
	if err != nil {
		return "", err
	}

	s.Redis.Del(ctx, key)
	return email, nil
}
