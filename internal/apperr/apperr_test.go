package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name      string
		err       *AppError
		code      string
		retryable bool
	}{
		{"validation", NewValidationError("valor inválido"), "E100", false},
		{"storage", NewStorageError(errors.New("timeout")), "E200", true},
		{"external", NewExternalAPIError("classifier", errors.New("503")), "E300", true},
		{"state", NewStateError("corrupt conversation state"), "E400", false},
		{"rate limit", NewRateLimitError(60), "E500", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.retryable, tc.err.Retryable)
			assert.NotEmpty(t, tc.err.UserMessage)
		})
	}
}

func TestValidationErrorUserMessage(t *testing.T) {
	err := NewValidationError("Pode repetir com o valor? 🙏")
	assert.Equal(t, "Não entendi. Pode repetir com o valor? 🙏", err.UserMessage)
}

func TestRateLimitErrorUserMessage(t *testing.T) {
	err := NewRateLimitError(60)
	assert.Contains(t, err.UserMessage, "60 segundos")
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError(cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
