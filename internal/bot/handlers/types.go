package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/domain"
)

// Handler processes an incoming Telegram update.
type Handler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// userContextKey is the telebot context-store slot the auth middleware fills
// with the resolved application user.
const userContextKey = "grana_user"

// SetCurrentUser stores the resolved user on the telebot context.
func SetCurrentUser(c telebot.Context, u *domain.User) {
	if c == nil {
		return
	}

	c.Set(userContextKey, u)
}

// CurrentUser returns the user resolved by the auth middleware, or nil.
func CurrentUser(c telebot.Context) *domain.User {
	if c == nil {
		return nil
	}

	u, _ := c.Get(userContextKey).(*domain.User)
	return u
}
