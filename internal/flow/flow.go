// Package flow drives the multi-turn conversation state machines.
package flow

import (
	"context"
	"strconv"
	"strings"
)

// SendOptions carries the optional reply-keyboard spec for an outbound message.
type SendOptions struct {
	// Keyboard is rows of reply button labels shown under the input field.
	Keyboard [][]string
	// RemoveKeyboard hides any custom reply keyboard.
	RemoveKeyboard bool
}

// Messenger is the outbound messaging collaborator. Delivery failures
// surface as errors but the machines treat sends as fire-and-forget.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, opts *SendOptions) error
}

// DefaultKeyboard is the main-menu reply keyboard restored whenever a flow
// completes or is cancelled.
func DefaultKeyboard() [][]string {
	return [][]string{
		{"💰 Nova transação", "🎯 Nova meta"},
		{"📊 Resumo", "⚙️ Configurar"},
	}
}

func yesNoKeyboard() *SendOptions {
	return &SendOptions{Keyboard: [][]string{{"Sim", "Não"}}}
}

// FormatBRL renders an amount in Brazilian currency notation.
func FormatBRL(value float64) string {
	return "R$ " + strings.Replace(strconv.FormatFloat(value, 'f', 2, 64), ".", ",", 1)
}

const genericErrorMessage = "Ops, algo deu errado ao salvar. 😕 Tente começar de novo em instantes."
