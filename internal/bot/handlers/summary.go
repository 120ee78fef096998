package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/apperr"
	"github.com/granabot/grana-bot/internal/charts"
	"github.com/granabot/grana-bot/internal/flow"
	"github.com/granabot/grana-bot/internal/repository"
)

// PhotoSender delivers rendered images to a chat.
type PhotoSender interface {
	SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error
}

// NewSummaryHandler renders the 30-day dashboard for the user's transactions
// and sends it as a photo.
func NewSummaryHandler(
	transactions repository.TransactionRepository,
	renderer *charts.Renderer,
	photos PhotoSender,
	log *slog.Logger,
) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		u := CurrentUser(c)
		if u == nil || c.Chat() == nil {
			log.Warn("summary handler invoked without resolved user")
			return nil
		}

		ctx := context.Background()

		history, err := transactions.ListByUser(ctx, u.ID)
		if err != nil {
			return apperr.NewStorageError(err)
		}

		now := time.Now()
		png, err := renderer.MonthlyDashboard(history, now)
		if err != nil {
			log.Error("failed to render dashboard", slog.String("user_id", u.ID), slog.Any("error", err))
			return err
		}

		if len(png) == 0 {
			return c.Send("Ainda não tenho movimentações suas nos últimos 30 dias. Me conta um gasto que eu começo a acompanhar! 📝")
		}

		var income, expense float64
		cutoff := now.AddDate(0, 0, -30)
		for _, tx := range history {
			if tx.Date.Before(cutoff) {
				continue
			}
			if tx.Kind == "income" {
				income += tx.Amount
			} else {
				expense += tx.Amount
			}
		}

		caption := fmt.Sprintf("📊 Últimos 30 dias\nEntradas: %s\nSaídas: %s\nSaldo: %s",
			flow.FormatBRL(income), flow.FormatBRL(expense), flow.FormatBRL(income-expense))

		return photos.SendPhoto(ctx, c.Chat().ID, png, caption)
	}
}
