package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/granabot/grana-bot/internal/apperr"
)

const conversationKeyPattern = "conversation:state:%s"

// RedisStore persists conversation state in Redis with a TTL so open
// dialogues survive a process restart and expire on their own.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
	ttl    time.Duration
}

// NewRedisStore initializes a Redis-backed Store implementation.
func NewRedisStore(client *redis.Client, log *slog.Logger, ttl time.Duration) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

// Get returns the stored conversation state or ErrStateNotFound when absent.
func (s *RedisStore) Get(ctx context.Context, userID string) (*State, error) {
	data, err := s.client.Get(ctx, conversationKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}

		s.log.Error("failed to get conversation state from redis", "user_id", userID, "error", err)
		return nil, err
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		s.log.Error("failed to decode conversation state", "user_id", userID, "error", err)
		// A corrupt record would wedge the dialog forever; drop it so the
		// user can start over.
		_ = s.client.Del(ctx, conversationKey(userID)).Err()
		return nil, apperr.NewStateError(fmt.Sprintf("corrupt conversation state for user %s", userID))
	}

	return &state, nil
}

// Set saves the conversation state with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, userID string, state *State) error {
	state.UserID = userID
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		s.log.Error("failed to encode conversation state", "user_id", userID, "error", err)
		return err
	}

	if err := s.client.Set(ctx, conversationKey(userID), data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save conversation state in redis", "user_id", userID, "error", err)
		return err
	}

	return nil
}

// Delete removes the stored conversation state for the given user.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, conversationKey(userID)).Err(); err != nil {
		s.log.Error("failed to clear conversation state", "user_id", userID, "error", err)
		return err
	}

	return nil
}

func conversationKey(userID string) string {
	return fmt.Sprintf(conversationKeyPattern, userID)
}
