package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stockledger/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve_SecondReservationIsRejected(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &IdempotencyStore{store: mock, ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}
	tenantID := kernel.NewUUID()

	ok, err := store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, DefaultPendingTTL, mock.ttls[store.Key(tenantID, "adjust-1")])
}

func TestConfirm_ExtendsReservationToFullTTL(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &IdempotencyStore{store: mock, ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}
	tenantID := kernel.NewUUID()

	ok, err := store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Confirm(ctx, tenantID, "adjust-1"))

	assert.Equal(t, DefaultTTL, mock.ttls[store.Key(tenantID, "adjust-1")])
	ok, err = store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_RetakesLapsedReservation(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &IdempotencyStore{store: mock, ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}
	tenantID := kernel.NewUUID()

	require.NoError(t, store.Confirm(ctx, tenantID, "adjust-1"))

	assert.Equal(t, DefaultTTL, mock.ttls[store.Key(tenantID, "adjust-1")])
}

func TestReserve_UnconfirmedReservationExpiresEarly(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &IdempotencyStore{store: mock, ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}
	tenantID := kernel.NewUUID()

	ok, err := store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	require.True(t, ok)

	// the process dies before Confirm; the pending TTL lapses
	mock.expire(store.Key(tenantID, "adjust-1"))

	ok, err = store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirm_StoreError(t *testing.T) {
	mock := newMockCmdable()
	mock.err = errors.New("connection refused")
	store := &IdempotencyStore{store: mock, ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}

	err := store.Confirm(context.Background(), kernel.NewUUID(), "adjust-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNew_PendingTTLDefaults(t *testing.T) {
	store, err := New(context.Background(), Config{TTL: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, store.pendingTTL)

	store, err = New(context.Background(), Config{PendingTTL: 30 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, store.ttl)
	assert.Equal(t, 30*time.Second, store.pendingTTL)
}

func TestReserve_ScopedByTenant(t *testing.T) {
	ctx := context.Background()
	store := &IdempotencyStore{store: newMockCmdable(), ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}

	ok, err := store.Reserve(ctx, kernel.NewUUID(), "adjust-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Reserve(ctx, kernel.NewUUID(), "adjust-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRelease_AllowsRetry(t *testing.T) {
	ctx := context.Background()
	store := &IdempotencyStore{store: newMockCmdable(), ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}
	tenantID := kernel.NewUUID()

	_, err := store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, tenantID, "adjust-1"))

	ok, err := store.Reserve(ctx, tenantID, "adjust-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReserve_InvalidKey(t *testing.T) {
	store := &IdempotencyStore{store: newMockCmdable(), ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}

	for _, key := range []string{"", "   ", string(make([]byte, maxKeyLength+1))} {
		_, err := store.Reserve(context.Background(), kernel.NewUUID(), key)
		assert.ErrorIs(t, err, ErrKeyIsInvalid)
	}
}

func TestReserve_RedisFailure(t *testing.T) {
	mock := newMockCmdable()
	mock.err = errors.New("connection refused")
	store := &IdempotencyStore{store: mock, ttl: DefaultTTL, pendingTTL: DefaultPendingTTL}

	_, err := store.Reserve(context.Background(), kernel.NewUUID(), "adjust-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNew_WithoutAddress_IsDisabled(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, Config{})
	require.NoError(t, err)

	assert.False(t, store.Enabled())
	assert.NoError(t, store.Ping(ctx))

	tenantID := kernel.NewUUID()
	for range 2 {
		ok, err := store.Reserve(ctx, tenantID, "adjust-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.NoError(t, store.Release(ctx, tenantID, "adjust-1"))
	assert.NoError(t, store.Close())
}

func TestKey(t *testing.T) {
	tenantID, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	store := &IdempotencyStore{}

	assert.Equal(t,
		"stockledger:idempotency:550e8400-e29b-41d4-a716-446655440000:adjust-1",
		store.Key(tenantID, " adjust-1 "),
	)
}

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.err)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if m.err != nil {
		return redis.NewBoolResult(false, m.err)
	}
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if m.err != nil {
		return redis.NewBoolResult(false, m.err)
	}
	if _, exists := m.data[key]; !exists {
		return redis.NewBoolResult(false, nil)
	}
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) expire(key string) {
	delete(m.data, key)
	delete(m.ttls, key)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
