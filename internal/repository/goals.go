package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/granabot/grana-bot/internal/domain"
)

type goalRepository struct {
	client *supabase.Client
	log    *slog.Logger
}

// NewGoalRepository creates a Supabase-backed goal repository.
func NewGoalRepository(client *supabase.Client, log *slog.Logger) GoalRepository {
	if log == nil {
		log = slog.Default()
	}

	return &goalRepository{client: client, log: log}
}

// Create persists a new goal and returns it with the generated id.
func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	data, err := execWithRetry(ctx, func() ([]byte, error) {
		d, _, execErr := r.client.From("goals").Insert(goal, false, "", "representation", "").Execute()
		return d, execErr
	})
	if err != nil {
		r.log.Error("failed to create goal", slog.String("user_id", goal.UserID), slog.Any("error", err))
		return nil, fmt.Errorf("insert goal: %w", err)
	}

	var created []domain.Goal
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode created goal: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("insert goal: empty response")
	}

	return &created[0], nil
}

// AddContribution records a deposit against a goal and updates the goal's
// running total, returning the updated goal record.
func (r *goalRepository) AddContribution(ctx context.Context, goalID string, amount float64, note string) (*domain.Goal, error) {
	contribution := domain.Contribution{GoalID: goalID, Amount: amount, Note: note}
	if _, err := execWithRetry(ctx, func() ([]byte, error) {
		_, _, execErr := r.client.From("goal_contributions").Insert(contribution, false, "", "", "").Execute()
		return nil, execErr
	}); err != nil {
		r.log.Error("failed to record contribution", slog.String("goal_id", goalID), slog.Any("error", err))
		return nil, fmt.Errorf("insert contribution: %w", err)
	}

	goal, err := r.findByID(goalID)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"current_amount": goal.CurrentAmount + amount}
	data, err := execWithRetry(ctx, func() ([]byte, error) {
		d, _, execErr := r.client.From("goals").Update(payload, "representation", "").Eq("id", goalID).Execute()
		return d, execErr
	})
	if err != nil {
		r.log.Error("failed to update goal total", slog.String("goal_id", goalID), slog.Any("error", err))
		return nil, fmt.Errorf("update goal total: %w", err)
	}

	var updated []domain.Goal
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, fmt.Errorf("decode updated goal: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}

	return &updated[0], nil
}

// ListByUser returns every goal belonging to the user.
func (r *goalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	data, _, err := r.client.From("goals").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select goals: %w", err)
	}

	var goals []domain.Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("decode goals: %w", err)
	}

	return goals, nil
}

func (r *goalRepository) findByID(goalID string) (*domain.Goal, error) {
	data, _, err := r.client.From("goals").
		Select("*", "", false).
		Eq("id", goalID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select goal: %w", err)
	}

	var goals []domain.Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("decode goal: %w", err)
	}
	if len(goals) == 0 {
		return nil, ErrNotFound
	}

	return &goals[0], nil
}
