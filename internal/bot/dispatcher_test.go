package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMachine struct {
	inFlow   bool
	consumes bool
	err      error
	handled  int
}

func (f *fakeMachine) IsUserInFlow(ctx context.Context, userID string) bool {
	return f.inFlow
}

func (f *fakeMachine) HandleMessage(ctx context.Context, userID string, chatID int64, text string) (bool, error) {
	f.handled++
	return f.consumes, f.err
}

func TestDispatcher_FirstConsumingMachineWins(t *testing.T) {
	first := &fakeMachine{consumes: true}
	second := &fakeMachine{consumes: true}
	d := NewDispatcher(testLogger(), first, second)

	consumed, err := d.HandleMessage(context.Background(), "user-1", 10, "oi")
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, 1, first.handled)
	assert.Zero(t, second.handled)
}

func TestDispatcher_FallsThroughWhenNothingConsumes(t *testing.T) {
	first := &fakeMachine{}
	second := &fakeMachine{}
	d := NewDispatcher(testLogger(), first, second)

	consumed, err := d.HandleMessage(context.Background(), "user-1", 10, "oi")
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.Equal(t, 1, first.handled)
	assert.Equal(t, 1, second.handled)
}

func TestDispatcher_ErrorStopsTheChain(t *testing.T) {
	first := &fakeMachine{err: errors.New("storage down")}
	second := &fakeMachine{consumes: true}
	d := NewDispatcher(testLogger(), first, second)

	_, err := d.HandleMessage(context.Background(), "user-1", 10, "oi")
	require.Error(t, err)
	assert.Zero(t, second.handled)
}

func TestDispatcher_IsUserInFlow(t *testing.T) {
	d := NewDispatcher(testLogger(), &fakeMachine{}, &fakeMachine{inFlow: true})
	assert.True(t, d.IsUserInFlow(context.Background(), "user-1"))

	empty := NewDispatcher(testLogger(), &fakeMachine{})
	assert.False(t, empty.IsUserInFlow(context.Background(), "user-1"))
}

func TestCommandName(t *testing.T) {
	cases := map[string]string{
		"/meta":                "/meta",
		"/meta@grana_bot":      "/meta",
		"/meta viagem 3000":    "/meta",
		"/resumo@grana_bot 30": "/resumo",
	}

	for input, want := range cases {
		assert.Equal(t, want, commandName(input), input)
	}
}
