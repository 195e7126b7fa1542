package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionBlacklist revokes sessions before their tokens expire (logout)
type SessionBlacklist interface {
	// Revoke blacklists sid for ttl, normally the token's remaining lifetime
	Revoke(ctx context.Context, sid string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sid string) (bool, error)
}

const sessionKeyPrefix = "session:blacklist:"

// RedisSessionBlacklist implements SessionBlacklist using Redis
type RedisSessionBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionBlacklist creates a session blacklist over an existing Redis client
func NewRedisSessionBlacklist(client *redis.Client) *RedisSessionBlacklist {
	return &RedisSessionBlacklist{client: client, keyPrefix: sessionKeyPrefix}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (b *RedisSessionBlacklist) key(sid string) string {
	return b.keyPrefix + sid
}

// Revoke stores sid with a TTL
func (b *RedisSessionBlacklist) Revoke(ctx context.Context, sid string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.key(sid), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks whether sid is blacklisted
func (b *RedisSessionBlacklist) IsRevoked(ctx context.Context, sid string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.key(sid)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session blacklist: %w", err)
	}
	return exists > 0, nil
}

// InMemorySessionBlacklist keeps revoked sessions in process memory.
// Used when Redis is disabled; revocations do not survive restarts.
type InMemorySessionBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemorySessionBlacklist creates an empty in-memory blacklist
func NewInMemorySessionBlacklist() *InMemorySessionBlacklist {
	return &InMemorySessionBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke blacklists sid until now+ttl
func (b *InMemorySessionBlacklist) Revoke(_ context.Context, sid string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for k, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, k)
		}
	}
	b.entries[sid] = now.Add(ttl)
	return nil
}

// IsRevoked checks whether sid is blacklisted and unexpired
func (b *InMemorySessionBlacklist) IsRevoked(_ context.Context, sid string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	exp, ok := b.entries[sid]
	return ok && b.now().Before(exp), nil
}
