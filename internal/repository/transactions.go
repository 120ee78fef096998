package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	supabase "github.com/supabase-community/supabase-go"

	"github.com/granabot/grana-bot/internal/domain"
)

type transactionRepository struct {
	client *supabase.Client
	log    *slog.Logger
}

// NewTransactionRepository creates a Supabase-backed transaction repository.
func NewTransactionRepository(client *supabase.Client, log *slog.Logger) TransactionRepository {
	if log == nil {
		log = slog.Default()
	}

	return &transactionRepository{client: client, log: log}
}

// Create persists a one-off transaction, generating a client-side id so the
// record can be referenced before the backend replies.
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC()
	}

	data, err := execWithRetry(ctx, func() ([]byte, error) {
		d, _, execErr := r.client.From("transactions").Insert(tx, false, "", "representation", "").Execute()
		return d, execErr
	})
	if err != nil {
		r.log.Error("failed to create transaction", slog.String("user_id", tx.UserID), slog.Any("error", err))
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	var created []domain.Transaction
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode created transaction: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("insert transaction: empty response")
	}

	return &created[0], nil
}

// ListByUser returns the user's transactions, newest first.
func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	data, _, err := r.client.From("transactions").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("date.desc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	var transactions []domain.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	return transactions, nil
}
