package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/bot/keyboard"
	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/flow"
)

// NewCancelHandler discards any open conversation and restores the main menu.
func NewCancelHandler(states conversation.Store, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		u := CurrentUser(c)
		if u == nil {
			log.Warn("cancel handler invoked without resolved user")
			return nil
		}

		if err := states.Delete(context.Background(), u.ID); err != nil && !errors.Is(err, conversation.ErrStateNotFound) {
			log.Error("failed to clear conversation state", slog.String("user_id", u.ID), slog.Any("error", err))
			return err
		}

		return c.Send("Tudo certo, cancelei. O que vamos fazer agora? 🙂", keyboard.Reply(flow.DefaultKeyboard()))
	}
}
