package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers tokens that must stop working before they expire.
// Single tokens are revoked by JTI on logout and refresh rotation. A user is
// revoked as a whole when staff deactivate the account or change its role,
// which rejects every token issued up to that second.
type RevocationStore interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	TokenRevoked(ctx context.Context, jti string) (bool, error)
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	UserRevokedAt(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// RedisRevocationStore shares revocations between server instances
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationStore stores revocations under prefix, "auth:revoked:" when empty
func NewRedisRevocationStore(client *redis.Client, prefix string) *RedisRevocationStore {
	if prefix == "" {
		prefix = "auth:revoked:"
	}
	return &RedisRevocationStore{client: client, prefix: prefix}
}

func (s *RedisRevocationStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	// an already expired token is rejected by its signature check
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+"jti:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) TokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func (s *RedisRevocationStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+"user:"+userID, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) UserRevokedAt(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+"user:"+userID).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check revoked user: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation time %q: %w", raw, err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

// MemoryRevocationStore keeps revocations in process memory, for single
// instance deployments running without Redis
type MemoryRevocationStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // jti -> token expiry
	users  map[string]int64     // user id -> unix cutoff
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		tokens: make(map[string]time.Time),
		users:  make(map[string]int64),
	}
}

func (s *MemoryRevocationStore) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, id)
		}
	}
	s.tokens[jti] = now.Add(ttl)
	return nil
}

func (s *MemoryRevocationStore) TokenRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[jti]
	return ok && time.Now().Before(exp), nil
}

// RevokeUser ignores ttl; the cutoff only matters while old tokens can still verify
func (s *MemoryRevocationStore) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = time.Now().Unix()
	return nil
}

func (s *MemoryRevocationStore) UserRevokedAt(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff, ok := s.users[userID]
	return ok && issuedAt.Unix() <= cutoff, nil
}

var (
	_ RevocationStore = (*RedisRevocationStore)(nil)
	_ RevocationStore = (*MemoryRevocationStore)(nil)
)
