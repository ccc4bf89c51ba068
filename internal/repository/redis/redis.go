package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bazaarHub/domain"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned for tokens that were never issued, expired or were revoked.
var ErrTokenNotFound = errors.New("token not found or expired")

// TokenRepository keeps issued JWTs in Redis so logout can revoke them
// before they expire.
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func sessionKey(token string) string {
	return "session:token:" + token
}

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("session:user:%d", userID)
}

func (r *TokenRepository) StoreToken(ctx context.Context, token string, session domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(token), payload, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), token)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// ValidateToken returns the session stored for token.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (domain.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, ErrTokenNotFound
		}
		return domain.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return domain.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return session, nil
}

func (r *TokenRepository) RevokeToken(ctx context.Context, userID uint, token string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	pipe.SRem(ctx, userSessionsKey(userID), token)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// RevokeUser drops every live session of a user, used when an account is banned or deleted.
func (r *TokenRepository) RevokeUser(ctx context.Context, userID uint) error {
	tokens, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}
