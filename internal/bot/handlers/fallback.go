package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/apperr"
	"github.com/granabot/grana-bot/internal/bot/keyboard"
	"github.com/granabot/grana-bot/internal/classifier"
	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/domain"
	"github.com/granabot/grana-bot/internal/flow"
	"github.com/granabot/grana-bot/internal/repository"
	"github.com/granabot/grana-bot/internal/textparse"
)

const fallbackHelp = "Não entendi. 🤔 Você pode me contar um gasto (\"gastei 50 no mercado\"), " +
	"uma entrada (\"recebi 200\"), ou usar o menu aí embaixo. 👇"

// NewHelpHandler explains what the bot understands.
func NewHelpHandler() Handler {
	return func(c telebot.Context) error {
		return c.Send(fallbackHelp, keyboard.Reply(flow.DefaultKeyboard()))
	}
}

// NewQuickAddHandler prompts for a free-text transaction.
func NewQuickAddHandler() Handler {
	return func(c telebot.Context) error {
		return c.Send("Me conta a movimentação! Por exemplo: \"gastei 35 no almoço\" ou \"recebi 200 de freela\". ✍️")
	}
}

// NewFallbackHandler runs when no flow consumed the message: it asks the
// intent classifier what the user meant and acts on the structured result.
func NewFallbackHandler(
	cls classifier.Classifier,
	goals *flow.GoalMachine,
	transactions repository.TransactionRepository,
	log *slog.Logger,
) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		u := CurrentUser(c)
		if u == nil || c.Chat() == nil {
			log.Warn("fallback handler invoked without resolved user")
			return nil
		}

		ctx := context.Background()
		chatID := c.Chat().ID

		result, err := cls.Classify(ctx, c.Text())
		if err != nil {
			log.Warn("classification unavailable", slog.String("user_id", u.ID), slog.Any("error", err))
			return c.Send(fallbackHelp, keyboard.Reply(flow.DefaultKeyboard()))
		}

		switch result.Intent {
		case classifier.IntentRegisterTransaction:
			return registerTransaction(ctx, c, u, result, transactions)

		case classifier.IntentCreateGoal:
			draft := conversation.GoalDraft{Title: result.GoalTitle}
			if amount, parseErr := textparse.ParseAmount(result.GoalAmount); parseErr == nil {
				draft.TargetAmount = amount
			}
			return goals.Start(ctx, u.ID, chatID, draft)

		case classifier.IntentGoalInfo:
			if kind, ok := goalInfoKind(result.InfoField); ok {
				return goals.InjectInfo(ctx, u.ID, chatID, kind, result.InfoValue)
			}
			return c.Send(fallbackHelp, keyboard.Reply(flow.DefaultKeyboard()))

		default:
			return c.Send(fallbackHelp, keyboard.Reply(flow.DefaultKeyboard()))
		}
	}
}

func registerTransaction(
	ctx context.Context,
	c telebot.Context,
	u *domain.User,
	result *classifier.Result,
	transactions repository.TransactionRepository,
) error {
	if result.Amount <= 0 {
		appErr := apperr.NewValidationError("Pode repetir a movimentação com o valor? 🙏")
		return c.Send(appErr.UserMessage)
	}

	kind := result.Kind
	if kind != "income" {
		kind = "expense"
	}

	tx, err := transactions.Create(ctx, &domain.Transaction{
		UserID:      u.ID,
		Kind:        kind,
		Amount:      result.Amount,
		Description: result.Description,
		CategoryID:  result.CategoryID,
		Date:        time.Now(),
	})
	if err != nil {
		return err
	}

	reply := fmt.Sprintf("✅ Gasto de %s registrado!", flow.FormatBRL(tx.Amount))
	if tx.Kind == "income" {
		reply = fmt.Sprintf("✅ Entrada de %s registrada!", flow.FormatBRL(tx.Amount))
	}
	if tx.Description != "" {
		reply += " (" + tx.Description + ")"
	}

	return c.Send(reply, keyboard.Reply(flow.DefaultKeyboard()))
}

func goalInfoKind(field string) (flow.GoalInfoKind, bool) {
	switch field {
	case "title", "name":
		return flow.GoalInfoTitle, true
	case "target_amount", "amount":
		return flow.GoalInfoTargetAmount, true
	case "initial_amount":
		return flow.GoalInfoInitialAmount, true
	case "target_date", "date":
		return flow.GoalInfoTargetDate, true
	default:
		return "", false
	}
}
