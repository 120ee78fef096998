package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/granabot/grana-bot/internal/domain"
)

// DueReader answers the queries the reminder scan needs: which income
// sources and recurring expenses fall due on a given day, and who owns them.
type DueReader struct {
	client *supabase.Client
	log    *slog.Logger
	now    func() time.Time
}

// NewDueReader creates a Supabase-backed due-date reader.
func NewDueReader(client *supabase.Client, log *slog.Logger) *DueReader {
	if log == nil {
		log = slog.Default()
	}

	return &DueReader{client: client, log: log, now: time.Now}
}

// IncomeDueOn returns income sources whose next expected payout falls on the
// given calendar day.
func (r *DueReader) IncomeDueOn(ctx context.Context, date time.Time) ([]domain.IncomeSource, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	data, _, err := r.client.From("income_sources").
		Select("*", "", false).
		Gte("next_expected_at", dayStart.Format(time.RFC3339)).
		Lt("next_expected_at", dayEnd.Format(time.RFC3339)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select due income sources: %w", err)
	}

	var sources []domain.IncomeSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("decode due income sources: %w", err)
	}

	return sources, nil
}

// ExpensesDueOn returns recurring expenses whose due day matches the given
// day of month.
func (r *DueReader) ExpensesDueOn(ctx context.Context, day int) ([]domain.RecurringExpense, error) {
	data, _, err := r.client.From("recurring_expenses").
		Select("*", "", false).
		Eq("due_day", strconv.Itoa(day)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select due recurring expenses: %w", err)
	}

	var expenses []domain.RecurringExpense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("decode due recurring expenses: %w", err)
	}

	return expenses, nil
}

// UserByID fetches a user record by its application id.
func (r *DueReader) UserByID(ctx context.Context, userID string) (*domain.User, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Eq("id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select user by id: %w", err)
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

// AdvanceNextExpected rolls the income source forward to its next payout
// date after a reminder fired.
func (r *DueReader) AdvanceNextExpected(ctx context.Context, source *domain.IncomeSource) error {
	next := domain.NextOccurrence(source.Frequency, source.Days, r.now())
	payload := map[string]any{"next_expected_at": next.Format(time.RFC3339)}

	if _, err := execWithRetry(ctx, func() ([]byte, error) {
		_, _, execErr := r.client.From("income_sources").Update(payload, "", "").Eq("id", source.ID).Execute()
		return nil, execErr
	}); err != nil {
		r.log.Error("failed to advance income source", slog.String("income_source_id", source.ID), slog.Any("error", err))
		return fmt.Errorf("update income source next_expected_at: %w", err)
	}

	return nil
}
