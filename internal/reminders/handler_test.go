package reminders

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/granabot/grana-bot/internal/domain"
	"github.com/granabot/grana-bot/internal/flow"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockDueStore struct {
	mock.Mock
}

func (m *mockDueStore) IncomeDueOn(ctx context.Context, date time.Time) ([]domain.IncomeSource, error) {
	args := m.Called(ctx, date)
	sources, _ := args.Get(0).([]domain.IncomeSource)
	return sources, args.Error(1)
}

func (m *mockDueStore) ExpensesDueOn(ctx context.Context, day int) ([]domain.RecurringExpense, error) {
	args := m.Called(ctx, day)
	expenses, _ := args.Get(0).([]domain.RecurringExpense)
	return expenses, args.Error(1)
}

func (m *mockDueStore) UserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockDueStore) AdvanceNextExpected(ctx context.Context, source *domain.IncomeSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

type recordingMessenger struct {
	mu    sync.Mutex
	sends []string
	chats []int64
}

func (r *recordingMessenger) Send(ctx context.Context, chatID int64, text string, opts *flow.SendOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, text)
	r.chats = append(r.chats, chatID)
	return nil
}

func TestDueScanHandler_RemindsIncomeAndExpenses(t *testing.T) {
	store := &mockDueStore{}
	msg := &recordingMessenger{}
	h := NewDueScanHandler(store, msg, testLogger())
	h.now = func() time.Time {
		return time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)
	}

	salary := domain.IncomeSource{ID: "inc-1", UserID: "user-1", Name: "Salário", Amount: 2500}
	rent := domain.RecurringExpense{ID: "exp-1", UserID: "user-1", Name: "Aluguel", Amount: 1200, DueDay: 5}

	store.On("IncomeDueOn", mock.Anything, mock.Anything).Return([]domain.IncomeSource{salary}, nil).Once()
	store.On("ExpensesDueOn", mock.Anything, 5).Return([]domain.RecurringExpense{rent}, nil).Once()
	store.On("UserByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1", TelegramID: 42}, nil).Twice()
	store.On("AdvanceNextExpected", mock.Anything, mock.MatchedBy(func(s *domain.IncomeSource) bool {
		return s.ID == "inc-1"
	})).Return(nil).Once()

	task, err := NewDueScanTask(time.Time{})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))

	store.AssertExpectations(t)
	require.Len(t, msg.sends, 2)
	assert.Contains(t, msg.sends[0], "Salário")
	assert.Contains(t, msg.sends[1], "Aluguel")
	assert.Equal(t, []int64{42, 42}, msg.chats)
}

func TestDueScanHandler_PayloadDatePinsScanDay(t *testing.T) {
	store := &mockDueStore{}
	msg := &recordingMessenger{}
	h := NewDueScanHandler(store, msg, testLogger())

	store.On("IncomeDueOn", mock.Anything, mock.MatchedBy(func(d time.Time) bool {
		return d.Day() == 15 && d.Month() == time.January
	})).Return(nil, nil).Once()
	store.On("ExpensesDueOn", mock.Anything, 15).Return(nil, nil).Once()

	task, err := NewDueScanTask(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	store.AssertExpectations(t)
}

func TestDueScanHandler_OwnerLookupFailureSkipsEntry(t *testing.T) {
	store := &mockDueStore{}
	msg := &recordingMessenger{}
	h := NewDueScanHandler(store, msg, testLogger())

	salary := domain.IncomeSource{ID: "inc-1", UserID: "ghost"}
	store.On("IncomeDueOn", mock.Anything, mock.Anything).Return([]domain.IncomeSource{salary}, nil).Once()
	store.On("UserByID", mock.Anything, "ghost").Return((*domain.User)(nil), assert.AnError).Once()
	store.On("ExpensesDueOn", mock.Anything, mock.Anything).Return(nil, nil).Once()

	task, err := NewDueScanTask(time.Time{})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Empty(t, msg.sends)
	store.AssertNotCalled(t, "AdvanceNextExpected", mock.Anything, mock.Anything)
}

var _ asynq.Handler = (*DueScanHandler)(nil)
