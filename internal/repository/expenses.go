package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/granabot/grana-bot/internal/domain"
)

type expenseRepository struct {
	client *supabase.Client
	log    *slog.Logger
}

// NewExpenseRepository creates a Supabase-backed recurring expense repository.
func NewExpenseRepository(client *supabase.Client, log *slog.Logger) ExpenseRepository {
	if log == nil {
		log = slog.Default()
	}

	return &expenseRepository{client: client, log: log}
}

// Create persists a new recurring expense and returns it with the generated id.
func (r *expenseRepository) Create(ctx context.Context, expense *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	data, err := execWithRetry(ctx, func() ([]byte, error) {
		d, _, execErr := r.client.From("recurring_expenses").Insert(expense, false, "", "representation", "").Execute()
		return d, execErr
	})
	if err != nil {
		r.log.Error("failed to create recurring expense", slog.String("user_id", expense.UserID), slog.Any("error", err))
		return nil, fmt.Errorf("insert recurring expense: %w", err)
	}

	var created []domain.RecurringExpense
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode created recurring expense: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("insert recurring expense: empty response")
	}

	return &created[0], nil
}

// ListByUser returns every recurring expense belonging to the user.
func (r *expenseRepository) ListByUser(ctx context.Context, userID string) ([]domain.RecurringExpense, error) {
	data, _, err := r.client.From("recurring_expenses").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select recurring expenses: %w", err)
	}

	var expenses []domain.RecurringExpense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("decode recurring expenses: %w", err)
	}

	return expenses, nil
}
