package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/domain"
)

const (
	goalUserID = "user-1"
	goalChatID = int64(100)
)

func newGoalMachine(t *testing.T) (*GoalMachine, *conversation.MemoryStore, *mockGoalRepo, *recordingMessenger) {
	t.Helper()

	states := conversation.NewMemoryStore()
	goals := &mockGoalRepo{}
	msg := &recordingMessenger{}

	m := NewGoalMachine(states, goals, msg, testLogger())
	m.now = func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	}

	return m, states, goals, msg
}

func step(t *testing.T, m *GoalMachine, text string) {
	t.Helper()

	consumed, err := m.HandleMessage(context.Background(), goalUserID, goalChatID, text)
	require.NoError(t, err)
	require.True(t, consumed)
}

func TestGoalMachine_FullWalk(t *testing.T) {
	m, states, goals, msg := newGoalMachine(t)
	ctx := context.Background()

	goals.On("Create", mock.Anything, mock.MatchedBy(func(goal *domain.Goal) bool {
		return goal.UserID == goalUserID &&
			goal.Title == "Viagem" &&
			goal.TargetAmount == 3000 &&
			goal.TargetDate != nil
	})).Return(&domain.Goal{ID: "goal-1", Title: "Viagem", TargetAmount: 3000}, nil).Once()
	goals.On("AddContribution", mock.Anything, "goal-1", 500.0, mock.Anything).
		Return(&domain.Goal{ID: "goal-1", CurrentAmount: 500}, nil).Once()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{}))
	assert.Contains(t, msg.last().text, "nome")

	step(t, m, "Viagem")
	assert.Contains(t, msg.last().text, "juntar")

	step(t, m, "3000")
	step(t, m, "500")
	step(t, m, "25/12/2026")
	assert.Contains(t, msg.last().text, "Confirma")

	step(t, m, "sim")
	assert.Contains(t, msg.last().text, "Meta criada")

	goals.AssertExpectations(t)

	_, err := states.Get(ctx, goalUserID)
	assert.ErrorIs(t, err, conversation.ErrStateNotFound)
}

func TestGoalMachine_FastPathSendsSingleConfirmation(t *testing.T) {
	m, states, _, msg := newGoalMachine(t)
	ctx := context.Background()

	draft := conversation.GoalDraft{Title: "Viagem", TargetAmount: 3000}
	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, draft))

	assert.Equal(t, 1, msg.count())
	assert.Contains(t, msg.last().text, "Confirma")
	assert.NotContains(t, msg.last().text, "nome dela")

	state, err := states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, StepGoalConfirm, state.Step)
}

func TestGoalMachine_InvalidTargetAmountRepromptsWithoutTransition(t *testing.T) {
	m, states, _, _ := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{}))
	step(t, m, "Viagem")

	step(t, m, "abc")

	state, err := states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, StepGoalTargetAmount, state.Step)
	assert.Zero(t, state.Goal.TargetAmount)
}

func TestGoalMachine_NegativeIntentInitialAmountBecomesZero(t *testing.T) {
	for _, token := range []string{"não", "nao", "n", "no", "0"} {
		t.Run(token, func(t *testing.T) {
			m, states, _, _ := newGoalMachine(t)
			ctx := context.Background()

			require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{}))
			step(t, m, "Viagem")
			step(t, m, "3000")

			step(t, m, token)

			state, err := states.Get(ctx, goalUserID)
			require.NoError(t, err)
			assert.Equal(t, StepGoalTargetDate, state.Step)
			assert.Zero(t, state.Goal.InitialAmount)
		})
	}
}

func TestGoalMachine_MalformedInitialAmountSilentlyBecomesZero(t *testing.T) {
	m, states, _, _ := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{}))
	step(t, m, "Viagem")
	step(t, m, "3000")

	step(t, m, "uns trocados")

	state, err := states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, StepGoalTargetDate, state.Step)
	assert.Zero(t, state.Goal.InitialAmount)
}

func TestGoalMachine_PastDateCoercesToNilAndStillAdvances(t *testing.T) {
	m, states, _, _ := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{}))
	step(t, m, "Viagem")
	step(t, m, "3000")
	step(t, m, "não")

	step(t, m, "09/03/2026")

	state, err := states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, StepGoalConfirm, state.Step)
	assert.Nil(t, state.Goal.TargetDate)
}

func TestGoalMachine_TransitionsAreForwardOnly(t *testing.T) {
	m, states, _, _ := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{}))
	step(t, m, "Viagem")
	step(t, m, "100")
	step(t, m, "não")

	// Re-sending an amount at the date step is read under the date parser,
	// never replayed against the amount step.
	step(t, m, "100")

	state, err := states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, StepGoalConfirm, state.Step)
	assert.Equal(t, 100.0, state.Goal.TargetAmount)
	assert.Nil(t, state.Goal.TargetDate)
}

func TestGoalMachine_DeclineAtConfirmationDiscardsDraft(t *testing.T) {
	m, states, goals, msg := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{Title: "Viagem", TargetAmount: 3000}))
	step(t, m, "não")

	assert.Contains(t, msg.last().text, "descartada")
	goals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	_, err := states.Get(ctx, goalUserID)
	assert.ErrorIs(t, err, conversation.ErrStateNotFound)
}

func TestGoalMachine_PersistenceFailureClearsStateAndApologizes(t *testing.T) {
	m, states, goals, msg := newGoalMachine(t)
	ctx := context.Background()

	goals.On("Create", mock.Anything, mock.Anything).
		Return((*domain.Goal)(nil), errors.New("backend down")).Once()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{Title: "Viagem", TargetAmount: 3000}))
	step(t, m, "sim")

	assert.Contains(t, msg.last().text, "deu errado")

	_, err := states.Get(ctx, goalUserID)
	assert.ErrorIs(t, err, conversation.ErrStateNotFound)
}

func TestGoalMachine_AbandonedConversationNeverPersists(t *testing.T) {
	m, states, goals, _ := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, goalUserID, goalChatID, conversation.GoalDraft{}))
	step(t, m, "Viagem")
	step(t, m, "3000")

	// No further messages arrive: the draft stays in memory only.
	goals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	goals.AssertNotCalled(t, "AddContribution", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	state, err := states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, "Viagem", state.Goal.Title)
}

func TestGoalMachine_InjectInfoResumesChain(t *testing.T) {
	m, states, _, msg := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, m.InjectInfo(ctx, goalUserID, goalChatID, GoalInfoTargetAmount, "2000"))

	state, err := states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, StepGoalTitle, state.Step)
	assert.Equal(t, 2000.0, state.Goal.TargetAmount)

	require.NoError(t, m.InjectInfo(ctx, goalUserID, goalChatID, GoalInfoTitle, "Reserva"))

	state, err = states.Get(ctx, goalUserID)
	require.NoError(t, err)
	assert.Equal(t, StepGoalConfirm, state.Step)
	assert.Contains(t, msg.last().text, "Confirma")
}

func TestGoalMachine_UnknownStepClearsStateAndFallsThrough(t *testing.T) {
	m, states, _, _ := newGoalMachine(t)
	ctx := context.Background()

	require.NoError(t, states.Set(ctx, goalUserID, &conversation.State{
		UserID: goalUserID,
		Flow:   conversation.FlowGoal,
		Step:   conversation.Step("goal_bogus"),
	}))

	consumed, err := m.HandleMessage(ctx, goalUserID, goalChatID, "oi")
	require.NoError(t, err)
	assert.False(t, consumed)

	_, err = states.Get(ctx, goalUserID)
	assert.ErrorIs(t, err, conversation.ErrStateNotFound)
}

func TestGoalMachine_NoOpenStateIsNotConsumed(t *testing.T) {
	m, _, _, _ := newGoalMachine(t)

	consumed, err := m.HandleMessage(context.Background(), goalUserID, goalChatID, "oi")
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.False(t, m.IsUserInFlow(context.Background(), goalUserID))
}
