// Package session tracks which admin session ids are live, so tokens can be
// revoked before their JWT expiry. The store holds only opaque ids; claims
// live in the token itself.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	redisclient "github.com/livingwaters/fundraiser-backend/pkg/redis"
)

// Store records active admin session ids.
type Store interface {
	Put(ctx context.Context, sessionID string, ttl time.Duration) error
	Has(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in process memory. Sessions vanish on restart,
// which matches the deployment's volatility elsewhere.
type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[sessionID] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) Has(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.expires[sessionID]
	if !ok {
		return false, nil
	}
	if s.now().After(deadline) {
		delete(s.expires, sessionID)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Revoke(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, sessionID)
	return nil
}

// RedisStore backs sessions with Redis so they survive API restarts when a
// Redis URL is configured.
type RedisStore struct {
	client *redisclient.Client
}

func NewRedisStore(client *redisclient.Client) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	return s.client.Set(ctx, s.client.SessionKey(sessionID), "1", ttl)
}

func (s *RedisStore) Has(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.client.Get(ctx, s.client.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.client.SessionKey(sessionID))
}
