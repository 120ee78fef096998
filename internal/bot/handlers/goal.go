package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/flow"
)

// NewGoalHandler opens a fresh goal creation conversation.
func NewGoalHandler(goals *flow.GoalMachine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		u := CurrentUser(c)
		if u == nil || c.Chat() == nil {
			log.Warn("goal handler invoked without resolved user")
			return nil
		}

		return goals.Start(context.Background(), u.ID, c.Chat().ID, conversation.GoalDraft{})
	}
}

// NewConfigureHandler opens the income and fixed-expense configuration flow.
func NewConfigureHandler(income *flow.IncomeMachine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		u := CurrentUser(c)
		if u == nil || c.Chat() == nil {
			log.Warn("configure handler invoked without resolved user")
			return nil
		}

		return income.Start(context.Background(), u.ID, c.Chat().ID)
	}
}
