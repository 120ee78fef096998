// Package keyboard builds telebot reply markup from plain button-label rows.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// Reply builds a resizable reply keyboard from rows of button labels.
// Empty input yields nil so callers can pass optional keyboards through.
func Reply(rows [][]string) *telebot.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}

	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	replyRows := make([]telebot.Row, 0, len(rows))
	for _, labels := range rows {
		if len(labels) == 0 {
			continue
		}

		buttons := make([]telebot.Btn, 0, len(labels))
		for _, label := range labels {
			buttons = append(buttons, markup.Text(label))
		}
		replyRows = append(replyRows, markup.Row(buttons...))
	}

	markup.Reply(replyRows...)
	return markup
}

// Remove builds markup that removes any visible reply keyboard.
func Remove() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{RemoveKeyboard: true}
}
