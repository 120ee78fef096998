package apperr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_RetriesRetryableErrors(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return NewStorageError(errors.New("connection reset"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_StopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return NewValidationError("valor inválido")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return NewStorageError(errors.New("still down"))
	})

	require.Error(t, err)
	assert.Equal(t, MaxRetries+1, attempts)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "E200", appErr.Code)
}

func TestWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(NewValidationError("x")))
	assert.False(t, IsRetryable(NewStateError("x")))
	assert.False(t, IsRetryable(NewRateLimitError(30)))
	assert.True(t, IsRetryable(NewStorageError(errors.New("x"))))
	assert.True(t, IsRetryable(NewExternalAPIError("classifier", errors.New("x"))))
}
