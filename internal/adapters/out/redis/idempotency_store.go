// Package redis keeps idempotency reservations for stock adjustment requests.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockledger/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "stockledger"
	idempotencyPrefix = "idempotency"

	// DefaultTTL is how long a confirmed reservation blocks replays of the same key.
	DefaultTTL = 24 * time.Hour
	// DefaultPendingTTL bounds a reservation whose request never confirmed it,
	// for example after a crash between Reserve and the ledger commit.
	DefaultPendingTTL = 2 * time.Minute

	maxKeyLength = 255
)

// ErrKeyIsInvalid is returned for an empty or oversized idempotency key.
var ErrKeyIsInvalid = errors.New("idempotency key is invalid")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Config holds the connection settings. An empty Address disables the store.
type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration

	PendingTTL time.Duration
}

// IdempotencyStore reserves client supplied idempotency keys with SETNX.
// A reservation lives for the pending TTL until Confirm extends it to the
// full TTL once the adjustment is committed.
//
// A disabled store (no address configured) accepts every reservation, so
// replays are only detected when Redis is available.
type IdempotencyStore struct {
	store      cmdable
	raw        *redis.Client
	ttl        time.Duration
	pendingTTL time.Duration
}

// New connects to Redis and verifies connectivity. It returns a disabled store
// when cfg.Address is empty.
func New(ctx context.Context, cfg Config) (*IdempotencyStore, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.PendingTTL <= 0 || cfg.PendingTTL > cfg.TTL {
		cfg.PendingTTL = min(DefaultPendingTTL, cfg.TTL)
	}
	if cfg.Address == "" {
		return &IdempotencyStore{ttl: cfg.TTL, pendingTTL: cfg.PendingTTL}, nil
	}

	raw := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &IdempotencyStore{store: raw, raw: raw, ttl: cfg.TTL, pendingTTL: cfg.PendingTTL}, nil
}

// Enabled reports whether reservations are backed by Redis.
func (s *IdempotencyStore) Enabled() bool {
	return s != nil && s.store != nil
}

// Reserve claims key for tenantID for the pending TTL. It returns false when
// the key is already held.
func (s *IdempotencyStore) Reserve(ctx context.Context, tenantID kernel.UUID, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	if !s.Enabled() {
		return true, nil
	}

	ok, err := s.store.SetNX(ctx, s.Key(tenantID, key), time.Now().UTC().Format(time.RFC3339Nano), s.pendingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	return ok, nil
}

// Confirm extends a reservation to the full TTL after the adjustment was
// committed. A reservation that already lapsed is taken again.
func (s *IdempotencyStore) Confirm(ctx context.Context, tenantID kernel.UUID, key string) error {
	if !s.Enabled() || validateKey(key) != nil {
		return nil
	}

	redisKey := s.Key(tenantID, key)
	extended, err := s.store.Expire(ctx, redisKey, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("expire: %w", err)
	}
	if extended {
		return nil
	}
	if err = s.store.SetNX(ctx, redisKey, time.Now().UTC().Format(time.RFC3339Nano), s.ttl).Err(); err != nil {
		return fmt.Errorf("setnx: %w", err)
	}
	return nil
}

// Release drops a reservation so the caller may retry with the same key.
func (s *IdempotencyStore) Release(ctx context.Context, tenantID kernel.UUID, key string) error {
	if !s.Enabled() || validateKey(key) != nil {
		return nil
	}
	return s.store.Del(ctx, s.Key(tenantID, key)).Err()
}

// Ping verifies the connection. A disabled store is always healthy.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if any.
func (s *IdempotencyStore) Close() error {
	if s == nil || s.raw == nil {
		return nil
	}
	return s.raw.Close()
}

// Key returns the namespaced Redis key of a reservation.
func (s *IdempotencyStore) Key(tenantID kernel.UUID, key string) string {
	return strings.Join([]string{keyNamespace, idempotencyPrefix, tenantID.String(), strings.TrimSpace(key)}, ":")
}

func validateKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > maxKeyLength {
		return ErrKeyIsInvalid
	}
	return nil
}
