package classifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPClient_ClassifyDecodesIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gastei 50 no mercado", req.Text)

		_ = json.NewEncoder(w).Encode(Result{
			Intent:      IntentRegisterTransaction,
			Amount:      50,
			Description: "mercado",
			Kind:        "expense",
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{URL: srv.URL, APIKey: "secret"}, testLogger())

	result, err := c.Classify(context.Background(), "gastei 50 no mercado")
	require.NoError(t, err)
	assert.Equal(t, IntentRegisterTransaction, result.Intent)
	assert.Equal(t, 50.0, result.Amount)
	assert.Equal(t, "mercado", result.Description)
}

func TestHTTPClient_ClassifyEmptyIntentFallsBackToUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{URL: srv.URL}, testLogger())

	result, err := c.Classify(context.Background(), "oi")
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, result.Intent)
}

func TestHTTPClient_ClassifyServerErrorIsExternalAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{URL: srv.URL}, testLogger())

	_, err := c.Classify(context.Background(), "oi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classifier")
}

func TestHTTPClient_NoURLConfiguredMeansUnknown(t *testing.T) {
	c := NewHTTPClient(Config{}, testLogger())

	result, err := c.Classify(context.Background(), "qualquer coisa")
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, result.Intent)
}
