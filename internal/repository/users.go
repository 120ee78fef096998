package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/granabot/grana-bot/internal/domain"
)

type userRepository struct {
	client *supabase.Client
	log    *slog.Logger
}

// NewUserRepository creates a Supabase-backed user repository.
func NewUserRepository(client *supabase.Client, log *slog.Logger) UserRepository {
	if log == nil {
		log = slog.Default()
	}

	return &userRepository{client: client, log: log}
}

// FindByTelegramID retrieves a user by their Telegram identifier.
func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Eq("telegram_id", strconv.FormatInt(telegramID, 10)).
		Execute()
	if err != nil {
		r.log.Error("failed to fetch user", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
		return nil, fmt.Errorf("select user by telegram id: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	if len(users) == 0 {
		return nil, ErrNotFound
	}

	return &users[0], nil
}

// Create persists a new user record and returns it with the generated id.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	data, err := execWithRetry(ctx, func() ([]byte, error) {
		d, _, execErr := r.client.From("users").Insert(user, false, "", "representation", "").Execute()
		return d, execErr
	})
	if err != nil {
		r.log.Error("failed to create user", slog.Int64("telegram_id", user.TelegramID), slog.Any("error", err))
		return nil, fmt.Errorf("insert user: %w", err)
	}

	var created []domain.User
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode created user: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("insert user: empty response")
	}

	return &created[0], nil
}

// MarkOnboarded flags the user's onboarding as complete.
func (r *userRepository) MarkOnboarded(ctx context.Context, userID string) error {
	payload := map[string]any{"onboarded": true}

	if _, err := execWithRetry(ctx, func() ([]byte, error) {
		_, _, execErr := r.client.From("users").Update(payload, "", "").Eq("id", userID).Execute()
		return nil, execErr
	}); err != nil {
		r.log.Error("failed to mark user onboarded", slog.String("user_id", userID), slog.Any("error", err))
		return fmt.Errorf("update user onboarded: %w", err)
	}

	return nil
}
