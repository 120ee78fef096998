package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granabot/grana-bot/internal/apperr"
)

func TestExecWithRetry_TransientFailureRecovers(t *testing.T) {
	attempts := 0
	data, err := execWithRetry(context.Background(), func() ([]byte, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("connection reset")
		}
		return []byte(`[{"id":"t1"}]`), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.JSONEq(t, `[{"id":"t1"}]`, string(data))
}

func TestExecWithRetry_PersistentFailureSurfacesStorageError(t *testing.T) {
	attempts := 0
	_, err := execWithRetry(context.Background(), func() ([]byte, error) {
		attempts++
		return nil, errors.New("backend down")
	})

	require.Error(t, err)
	assert.Equal(t, apperr.MaxRetries+1, attempts)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "E200", appErr.Code)
	assert.True(t, appErr.Retryable)
}

func TestExecWithRetry_SuccessRunsOnce(t *testing.T) {
	attempts := 0
	data, err := execWithRetry(context.Background(), func() ([]byte, error) {
		attempts++
		return []byte("[]"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, "[]", string(data))
}
