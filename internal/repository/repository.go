// Package repository implements Supabase-backed storage for bot data.
package repository

import (
	"context"
	"errors"

	"github.com/granabot/grana-bot/internal/apperr"
	"github.com/granabot/grana-bot/internal/domain"
)

// ErrNotFound indicates that a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// execWithRetry runs a PostgREST write under the shared backoff policy.
// Failures are wrapped as retryable storage errors so a transient backend
// hiccup gets another attempt before surfacing to the user.
func execWithRetry(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	var data []byte
	err := apperr.WithRetry(ctx, func() error {
		d, execErr := fn()
		if execErr != nil {
			return apperr.NewStorageError(execErr)
		}
		data = d
		return nil
	})

	return data, err
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	MarkOnboarded(ctx context.Context, userID string) error
}

// GoalRepository defines persistence operations for savings goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	AddContribution(ctx context.Context, goalID string, amount float64, note string) (*domain.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Goal, error)
}

// IncomeSourceRepository defines persistence operations for recurring income.
type IncomeSourceRepository interface {
	Create(ctx context.Context, source *domain.IncomeSource) (*domain.IncomeSource, error)
	ListByUser(ctx context.Context, userID string) ([]domain.IncomeSource, error)
}

// ExpenseRepository defines persistence operations for recurring expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.RecurringExpense) (*domain.RecurringExpense, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RecurringExpense, error)
}

// CategoryRepository exposes the fixed category catalog.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// TransactionRepository defines persistence operations for one-off transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}
