package flow

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/granabot/grana-bot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentMessage struct {
	chatID int64
	text   string
	opts   *SendOptions
}

// recordingMessenger captures outbound messages for assertions.
type recordingMessenger struct {
	mu    sync.Mutex
	sends []sentMessage
}

func (r *recordingMessenger) Send(ctx context.Context, chatID int64, text string, opts *SendOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sends = append(r.sends, sentMessage{chatID: chatID, text: text, opts: opts})
	return nil
}

func (r *recordingMessenger) last() sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sends) == 0 {
		return sentMessage{}
	}
	return r.sends[len(r.sends)-1]
}

func (r *recordingMessenger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sends)
}

type mockGoalRepo struct {
	mock.Mock
}

func (m *mockGoalRepo) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	args := m.Called(ctx, goal)
	created, _ := args.Get(0).(*domain.Goal)
	return created, args.Error(1)
}

func (m *mockGoalRepo) AddContribution(ctx context.Context, goalID string, amount float64, note string) (*domain.Goal, error) {
	args := m.Called(ctx, goalID, amount, note)
	updated, _ := args.Get(0).(*domain.Goal)
	return updated, args.Error(1)
}

func (m *mockGoalRepo) ListByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	args := m.Called(ctx, userID)
	goals, _ := args.Get(0).([]domain.Goal)
	return goals, args.Error(1)
}

type mockIncomeRepo struct {
	mock.Mock
}

func (m *mockIncomeRepo) Create(ctx context.Context, source *domain.IncomeSource) (*domain.IncomeSource, error) {
	args := m.Called(ctx, source)
	created, _ := args.Get(0).(*domain.IncomeSource)
	return created, args.Error(1)
}

func (m *mockIncomeRepo) ListByUser(ctx context.Context, userID string) ([]domain.IncomeSource, error) {
	args := m.Called(ctx, userID)
	sources, _ := args.Get(0).([]domain.IncomeSource)
	return sources, args.Error(1)
}

type mockExpenseRepo struct {
	mock.Mock
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	args := m.Called(ctx, expense)
	created, _ := args.Get(0).(*domain.RecurringExpense)
	return created, args.Error(1)
}

func (m *mockExpenseRepo) ListByUser(ctx context.Context, userID string) ([]domain.RecurringExpense, error) {
	args := m.Called(ctx, userID)
	expenses, _ := args.Get(0).([]domain.RecurringExpense)
	return expenses, args.Error(1)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]domain.Category)
	return categories, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*domain.User)
	return created, args.Error(1)
}

func (m *mockUserRepo) MarkOnboarded(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1234,56", FormatBRL(1234.56))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "R$ 50,00", FormatBRL(50))
	assert.Equal(t, "R$ -12,30", FormatBRL(-12.3))
}
