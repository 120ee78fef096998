package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/granabot/grana-bot/internal/domain"
)

type incomeSourceRepository struct {
	client *supabase.Client
	log    *slog.Logger
	now    func() time.Time
}

// NewIncomeSourceRepository creates a Supabase-backed income source repository.
func NewIncomeSourceRepository(client *supabase.Client, log *slog.Logger) IncomeSourceRepository {
	if log == nil {
		log = slog.Default()
	}

	return &incomeSourceRepository{client: client, log: log, now: time.Now}
}

// Create persists a new income source, computing the next expected payout
// date from the frequency and configured days.
func (r *incomeSourceRepository) Create(ctx context.Context, source *domain.IncomeSource) (*domain.IncomeSource, error) {
	next := domain.NextOccurrence(source.Frequency, source.Days, r.now())
	source.NextExpectedAt = &next

	data, err := execWithRetry(ctx, func() ([]byte, error) {
		d, _, execErr := r.client.From("income_sources").Insert(source, false, "", "representation", "").Execute()
		return d, execErr
	})
	if err != nil {
		r.log.Error("failed to create income source", slog.String("user_id", source.UserID), slog.Any("error", err))
		return nil, fmt.Errorf("insert income source: %w", err)
	}

	var created []domain.IncomeSource
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode created income source: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("insert income source: empty response")
	}

	return &created[0], nil
}

// ListByUser returns every income source belonging to the user.
func (r *incomeSourceRepository) ListByUser(ctx context.Context, userID string) ([]domain.IncomeSource, error) {
	data, _, err := r.client.From("income_sources").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select income sources: %w", err)
	}

	var sources []domain.IncomeSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("decode income sources: %w", err)
	}

	return sources, nil
}
