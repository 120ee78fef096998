package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/granabot/grana-bot/internal/domain"
	"github.com/granabot/grana-bot/internal/flow"
)

// DueStore answers the queries the scan needs.
type DueStore interface {
	IncomeDueOn(ctx context.Context, date time.Time) ([]domain.IncomeSource, error)
	ExpensesDueOn(ctx context.Context, day int) ([]domain.RecurringExpense, error)
	UserByID(ctx context.Context, userID string) (*domain.User, error)
	AdvanceNextExpected(ctx context.Context, source *domain.IncomeSource) error
}

// DueScanHandler processes one due-scan task: finds income and expenses due
// on the scan date and messages their owners. Private chats share the user's
// telegram id, so that doubles as the chat id.
type DueScanHandler struct {
	store DueStore
	msg   flow.Messenger
	log   *slog.Logger
	now   func() time.Time
}

// NewDueScanHandler builds the scan handler.
func NewDueScanHandler(store DueStore, msg flow.Messenger, log *slog.Logger) *DueScanHandler {
	if log == nil {
		log = slog.Default()
	}

	return &DueScanHandler{store: store, msg: msg, log: log, now: time.Now}
}

// ProcessTask implements asynq.Handler.
func (h *DueScanHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload DueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.ErrorContext(ctx, "due scan: failed to decode payload", slog.String("task_type", t.Type()), slog.Any("error", err))
		return err
	}

	date := h.now()
	if payload.Date != "" {
		parsed, err := time.ParseInLocation(payloadDateLayout, payload.Date, date.Location())
		if err != nil {
			h.log.ErrorContext(ctx, "due scan: invalid payload date", slog.String("date", payload.Date))
			return err
		}
		date = parsed
	}

	if err := h.remindIncome(ctx, date); err != nil {
		return err
	}

	return h.remindExpenses(ctx, date)
}

func (h *DueScanHandler) remindIncome(ctx context.Context, date time.Time) error {
	sources, err := h.store.IncomeDueOn(ctx, date)
	if err != nil {
		return fmt.Errorf("list due income: %w", err)
	}

	for _, source := range sources {
		source := source

		u, err := h.store.UserByID(ctx, source.UserID)
		if err != nil {
			h.log.WarnContext(ctx, "due scan: owner lookup failed", slog.String("income_source_id", source.ID), slog.Any("error", err))
			continue
		}

		text := fmt.Sprintf("💰 Hoje é dia de *%s*! Deve entrar %s. Quando cair, me avisa que eu registro. 😉", source.Name, flow.FormatBRL(source.Amount))
		if err := h.msg.Send(ctx, u.TelegramID, text, nil); err != nil {
			h.log.WarnContext(ctx, "due scan: income reminder send failed", slog.String("user_id", u.ID), slog.Any("error", err))
			continue
		}

		if err := h.store.AdvanceNextExpected(ctx, &source); err != nil {
			h.log.WarnContext(ctx, "due scan: failed to roll income forward", slog.String("income_source_id", source.ID), slog.Any("error", err))
		}
	}

	return nil
}

func (h *DueScanHandler) remindExpenses(ctx context.Context, date time.Time) error {
	expenses, err := h.store.ExpensesDueOn(ctx, date.Day())
	if err != nil {
		return fmt.Errorf("list due expenses: %w", err)
	}

	for _, expense := range expenses {
		u, err := h.store.UserByID(ctx, expense.UserID)
		if err != nil {
			h.log.WarnContext(ctx, "due scan: owner lookup failed", slog.String("recurring_expense_id", expense.ID), slog.Any("error", err))
			continue
		}

		text := fmt.Sprintf("📌 Lembrete: *%s* vence hoje (%s). Não esquece! 🙂", expense.Name, flow.FormatBRL(expense.Amount))
		if err := h.msg.Send(ctx, u.TelegramID, text, nil); err != nil {
			h.log.WarnContext(ctx, "due scan: expense reminder send failed", slog.String("user_id", u.ID), slog.Any("error", err))
		}
	}

	return nil
}
