package conversation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granabot/grana-bot/internal/apperr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	return client, func() {
		_ = client.Close()
		server.Close()
	}
}

func sampleState(userID string) *State {
	return &State{
		UserID: userID,
		Flow:   FlowGoal,
		Step:   Step("awaiting_title"),
		Goal:   &GoalDraft{Title: "Viagem", TargetAmount: 3000},
		Next:   FlowExpense,
	}
}

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Set(ctx, "u1", sampleState("u1"))
	require.NoError(t, err)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, FlowGoal, got.Flow)
	assert.Equal(t, Step("awaiting_title"), got.Step)
	assert.Equal(t, "Viagem", got.Goal.Title)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()

	state, err := store.Get(context.Background(), "missing")
	assert.Nil(t, state)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", sampleState("u1")))
	require.NoError(t, store.Delete(ctx, "u1"))

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", sampleState("u1")))

	first, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	first.Step = Step("mutated")

	second, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Step("awaiting_title"), second.Step)
}

func TestMemoryStore_EvictBefore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	clock := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Set(ctx, "stale", sampleState("stale")))

	clock = clock.Add(45 * time.Minute)
	require.NoError(t, store.Set(ctx, "fresh", sampleState("fresh")))

	evicted := store.evictBefore(clock.Add(-30 * time.Minute))
	assert.Equal(t, 1, evicted)

	_, err := store.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrStateNotFound)

	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger(), time.Hour)
	ctx := context.Background()

	err := store.Set(ctx, "u42", sampleState("u42"))
	require.NoError(t, err)

	got, err := store.Get(ctx, "u42")
	require.NoError(t, err)
	assert.Equal(t, "u42", got.UserID)
	assert.Equal(t, FlowGoal, got.Flow)
	assert.Equal(t, FlowExpense, got.Next)
	if assert.NotNil(t, got.Goal) {
		assert.InDelta(t, 3000, got.Goal.TargetAmount, 1e-9)
	}
}

func TestRedisStore_GetNotFound(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger(), time.Hour)

	state, err := store.Get(context.Background(), "nobody")
	assert.Nil(t, state)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStore_CorruptStateIsDroppedAndReported(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger(), time.Hour)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, conversationKey("u9"), "{not json", time.Hour).Err())

	state, err := store.Get(ctx, "u9")
	assert.Nil(t, state)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "E400", appErr.Code)

	// The corrupt record must be gone so the next message starts fresh.
	_, err = store.Get(ctx, "u9")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger(), time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u7", sampleState("u7")))
	require.NoError(t, store.Delete(ctx, "u7"))

	_, err := store.Get(ctx, "u7")
	assert.ErrorIs(t, err, ErrStateNotFound)
}
