package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestManager_ExecuteRunsOperationOnce(t *testing.T) {
	client := setupTestRedis(t)
	m := NewManager(NewRedisStore(client, testLogger()), testLogger())
	ctx := context.Background()

	calls := 0
	op := func(ctx context.Context) (interface{}, error) {
		calls++
		return "done", nil
	}

	first, err := m.Execute(ctx, "msg:1:42", time.Hour, op)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := m.Execute(ctx, "msg:1:42", time.Hour, op)
	require.NoError(t, err)
	assert.True(t, second.FromCache)

	assert.Equal(t, 1, calls)
}

func TestManager_ExecuteDistinctKeysRunIndependently(t *testing.T) {
	client := setupTestRedis(t)
	m := NewManager(NewRedisStore(client, testLogger()), testLogger())
	ctx := context.Background()

	calls := 0
	op := func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, nil
	}

	_, err := m.Execute(ctx, "msg:1:1", time.Hour, op)
	require.NoError(t, err)
	_, err = m.Execute(ctx, "msg:1:2", time.Hour, op)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestManager_ExecuteFailedOperationIsNotCached(t *testing.T) {
	client := setupTestRedis(t)
	m := NewManager(NewRedisStore(client, testLogger()), testLogger())
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := m.Execute(ctx, "msg:1:3", time.Hour, func(ctx context.Context) (interface{}, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}
