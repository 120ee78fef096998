package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/bot/keyboard"
	"github.com/granabot/grana-bot/internal/flow"
)

// NewStartHandler greets the user and, for profiles that never finished
// onboarding, opens the income configuration flow.
func NewStartHandler(income *flow.IncomeMachine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		u := CurrentUser(c)
		if u == nil || c.Chat() == nil {
			log.Warn("start handler invoked without resolved user")
			return nil
		}

		greeting := fmt.Sprintf("Oi, %s! 👋 Eu sou o Grana, seu assistente de finanças pessoais.", u.FirstName)

		if !u.Onboarded && income != nil {
			if err := c.Send(greeting); err != nil {
				return err
			}
			return income.Start(context.Background(), u.ID, c.Chat().ID)
		}

		return c.Send(
			greeting+"\n\nMe conta um gasto (\"gastei 50 no mercado\") ou use o menu aí embaixo. 👇",
			keyboard.Reply(flow.DefaultKeyboard()),
		)
	}
}
