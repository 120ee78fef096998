package bot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/bot/keyboard"
	"github.com/granabot/grana-bot/internal/flow"
)

// Sender adapts the telebot API to the flow.Messenger contract so the dialog
// machines never see transport types.
type Sender struct {
	bot *telebot.Bot
	log *slog.Logger
}

// NewSender wraps a telebot instance as a flow Messenger.
func NewSender(bot *telebot.Bot, log *slog.Logger) *Sender {
	if log == nil {
		log = slog.Default()
	}

	return &Sender{bot: bot, log: log}
}

// Send delivers a text message, translating keyboard options into telebot
// reply markup.
func (s *Sender) Send(ctx context.Context, chatID int64, text string, opts *flow.SendOptions) error {
	if s.bot == nil {
		return fmt.Errorf("telebot not configured")
	}

	sendOpts := &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
	if opts != nil {
		switch {
		case opts.RemoveKeyboard:
			sendOpts.ReplyMarkup = keyboard.Remove()
		case len(opts.Keyboard) > 0:
			sendOpts.ReplyMarkup = keyboard.Reply(opts.Keyboard)
		}
	}

	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, text, sendOpts); err != nil {
		s.log.Error("failed to send message", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendPhoto delivers a PNG with an optional caption.
func (s *Sender) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error {
	if s.bot == nil {
		return fmt.Errorf("telebot not configured")
	}

	photo := &telebot.Photo{
		File:    telebot.FromReader(bytes.NewReader(png)),
		Caption: caption,
	}

	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, photo); err != nil {
		s.log.Error("failed to send photo", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return fmt.Errorf("send photo: %w", err)
	}

	return nil
}
