package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/domain"
	"github.com/granabot/grana-bot/internal/repository"
	"github.com/granabot/grana-bot/internal/textparse"
	"github.com/granabot/grana-bot/pkg/metrics"
)

// Income onboarding steps.
const (
	StepIncomeGate           conversation.Step = "income_initial"
	StepIncomeName           conversation.Step = "income_awaiting_name"
	StepIncomeAmount         conversation.Step = "income_awaiting_amount"
	StepIncomeFrequency      conversation.Step = "income_awaiting_frequency"
	StepIncomeDayMonthly     conversation.Step = "income_awaiting_day_monthly"
	StepIncomeDayBiweekly1   conversation.Step = "income_awaiting_day_biweekly_first"
	StepIncomeDayBiweekly2   conversation.Step = "income_awaiting_day_biweekly_second"
	StepIncomeDayWeekly      conversation.Step = "income_awaiting_day_weekly"
	StepIncomeAddAnother     conversation.Step = "income_awaiting_add_another"
	StepExpenseGate          conversation.Step = "expense_initial"
	StepExpenseName          conversation.Step = "expense_awaiting_name"
	StepExpenseAmount        conversation.Step = "expense_awaiting_amount"
	StepExpenseDueDay        conversation.Step = "expense_awaiting_due_day"
	StepExpenseCategory      conversation.Step = "expense_awaiting_category"
	StepExpenseAddAnother    conversation.Step = "expense_awaiting_add_another"
)

// incomeNext is the linear part of the onboarding transition table. The
// frequency step fans out into the three day-collection shapes and the
// yes/no gates branch, so those transitions are decided in their handlers.
var incomeNext = map[conversation.Step]conversation.Step{
	StepIncomeGate:         StepIncomeName,
	StepIncomeName:         StepIncomeAmount,
	StepIncomeAmount:       StepIncomeFrequency,
	StepIncomeDayBiweekly1: StepIncomeDayBiweekly2,
	StepExpenseGate:        StepExpenseName,
	StepExpenseName:        StepExpenseAmount,
	StepExpenseAmount:      StepExpenseDueDay,
	StepExpenseDueDay:      StepExpenseCategory,
}

const skipCategoryLabel = "Pular"

// IncomeMachine drives the recurring income and expense onboarding dialogue:
// income sub-flow, chained expense sub-flow, then a completion summary.
type IncomeMachine struct {
	states     conversation.Store
	incomes    repository.IncomeSourceRepository
	expenses   repository.ExpenseRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	msg        Messenger
	log        *slog.Logger
}

// NewIncomeMachine constructs the income configuration machine.
func NewIncomeMachine(
	states conversation.Store,
	incomes repository.IncomeSourceRepository,
	expenses repository.ExpenseRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	msg Messenger,
	log *slog.Logger,
) *IncomeMachine {
	if log == nil {
		log = slog.Default()
	}

	return &IncomeMachine{
		states:     states,
		incomes:    incomes,
		expenses:   expenses,
		categories: categories,
		users:      users,
		msg:        msg,
		log:        log,
	}
}

// Start opens the onboarding dialogue at the income yes/no gate. The expense
// sub-flow is queued as an explicit continuation on the state record.
func (m *IncomeMachine) Start(ctx context.Context, userID string, chatID int64) error {
	state := &conversation.State{
		UserID: userID,
		Flow:   conversation.FlowIncome,
		Step:   StepIncomeGate,
		Income: &conversation.IncomeDraft{},
		Next:   conversation.FlowExpense,
	}

	if err := m.states.Set(ctx, userID, state); err != nil {
		return err
	}

	return m.msg.Send(ctx, chatID,
		"Vamos configurar suas finanças! 💪\n\nVocê tem alguma renda recorrente (salário, freelas fixos)?",
		yesNoKeyboard())
}

// IsUserInFlow reports whether the user has an open onboarding conversation.
func (m *IncomeMachine) IsUserInFlow(ctx context.Context, userID string) bool {
	state, err := m.states.Get(ctx, userID)
	if err != nil {
		return false
	}

	return state.Flow == conversation.FlowIncome || state.Flow == conversation.FlowExpense
}

// HandleMessage interprets an inbound reply under the user's current
// onboarding step, returning false when the message is not for this machine.
func (m *IncomeMachine) HandleMessage(ctx context.Context, userID string, chatID int64, text string) (bool, error) {
	state, err := m.states.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, conversation.ErrStateNotFound) {
			return false, nil
		}
		return false, err
	}

	if state.Flow != conversation.FlowIncome && state.Flow != conversation.FlowExpense {
		return false, nil
	}
	if state.Income == nil {
		state.Income = &conversation.IncomeDraft{}
	}
	if state.Expense == nil {
		state.Expense = &conversation.ExpenseDraft{}
	}

	switch state.Step {
	case StepIncomeGate:
		return true, m.handleIncomeGate(ctx, state, chatID, text)
	case StepIncomeName:
		return true, m.handleIncomeName(ctx, state, chatID, text)
	case StepIncomeAmount:
		return true, m.handleIncomeAmount(ctx, state, chatID, text)
	case StepIncomeFrequency:
		return true, m.handleIncomeFrequency(ctx, state, chatID, text)
	case StepIncomeDayMonthly:
		return true, m.handleIncomeDayMonthly(ctx, state, chatID, text)
	case StepIncomeDayBiweekly1:
		return true, m.handleIncomeDayBiweeklyFirst(ctx, state, chatID, text)
	case StepIncomeDayBiweekly2:
		return true, m.handleIncomeDayBiweeklySecond(ctx, state, chatID, text)
	case StepIncomeDayWeekly:
		return true, m.handleIncomeDayWeekly(ctx, state, chatID, text)
	case StepIncomeAddAnother:
		return true, m.handleIncomeAddAnother(ctx, state, chatID, text)
	case StepExpenseGate:
		return true, m.handleExpenseGate(ctx, state, chatID, text)
	case StepExpenseName:
		return true, m.handleExpenseName(ctx, state, chatID, text)
	case StepExpenseAmount:
		return true, m.handleExpenseAmount(ctx, state, chatID, text)
	case StepExpenseDueDay:
		return true, m.handleExpenseDueDay(ctx, state, chatID, text)
	case StepExpenseCategory:
		return true, m.handleExpenseCategory(ctx, state, chatID, text)
	case StepExpenseAddAnother:
		return true, m.handleExpenseAddAnother(ctx, state, chatID, text)
	default:
		m.log.Warn("unknown onboarding step, clearing state",
			slog.String("user_id", userID), slog.String("step", string(state.Step)))
		if err := m.states.Delete(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}
}

func (m *IncomeMachine) handleIncomeGate(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	yes, err := textparse.ParseYesNo(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Responda *sim* ou *não*, por favor. 🙂", yesNoKeyboard())
	}

	if !yes {
		return m.startExpenseGate(ctx, state, chatID)
	}

	return m.advance(ctx, state, chatID, incomeNext[StepIncomeGate])
}

func (m *IncomeMachine) handleIncomeName(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	name := strings.TrimSpace(text)
	if name == "" {
		return m.msg.Send(ctx, chatID, "Me diga o nome dessa renda (ex: *Salário*).", nil)
	}

	state.Income.Name = name

	return m.advance(ctx, state, chatID, incomeNext[StepIncomeName])
}

func (m *IncomeMachine) handleIncomeAmount(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	amount, err := textparse.ParseAmount(text)
	if err != nil || amount <= 0 {
		return m.msg.Send(ctx, chatID, "Não entendi o valor. 🤔 Envie algo como *2500* ou *1850,75*.", nil)
	}

	state.Income.Amount = amount

	return m.advance(ctx, state, chatID, incomeNext[StepIncomeAmount])
}

// handleIncomeFrequency fans out into the three day-collection shapes.
func (m *IncomeMachine) handleIncomeFrequency(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	normalized := strings.ToLower(strings.TrimSpace(text))

	var next conversation.Step
	switch {
	case strings.Contains(normalized, "mensal"):
		state.Income.Frequency = domain.FrequencyMonthly
		next = StepIncomeDayMonthly
	case strings.Contains(normalized, "quinzenal"):
		state.Income.Frequency = domain.FrequencyBiweekly
		next = StepIncomeDayBiweekly1
	case strings.Contains(normalized, "semanal"):
		state.Income.Frequency = domain.FrequencyWeekly
		next = StepIncomeDayWeekly
	default:
		return m.msg.Send(ctx, chatID, "Escolha uma das opções: *Mensal*, *Quinzenal* ou *Semanal*.", frequencyKeyboard())
	}

	state.Income.Days = nil

	return m.advance(ctx, state, chatID, next)
}

func (m *IncomeMachine) handleIncomeDayMonthly(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	day, err := textparse.ParseDueDay(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Envie um dia do mês entre 1 e 31.", nil)
	}

	state.Income.Days = []int{textparse.ClampDay(day, 1, 31)}

	return m.persistIncome(ctx, state, chatID)
}

func (m *IncomeMachine) handleIncomeDayBiweeklyFirst(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	day, err := textparse.ParseDueDay(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Envie o primeiro dia de pagamento (1 a 31).", nil)
	}

	state.Income.Days = []int{textparse.ClampDay(day, 1, 31)}

	return m.advance(ctx, state, chatID, incomeNext[StepIncomeDayBiweekly1])
}

func (m *IncomeMachine) handleIncomeDayBiweeklySecond(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	day, err := textparse.ParseDueDay(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Envie o segundo dia de pagamento (1 a 31).", nil)
	}

	state.Income.Days = append(state.Income.Days, textparse.ClampDay(day, 1, 31))

	return m.persistIncome(ctx, state, chatID)
}

func (m *IncomeMachine) handleIncomeDayWeekly(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	weekday, err := textparse.ParseWeekday(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Qual dia da semana? (ex: *Sexta*)", weekdayKeyboard())
	}

	state.Income.Days = []int{textparse.ClampDay(weekday, 0, 6)}

	return m.persistIncome(ctx, state, chatID)
}

func (m *IncomeMachine) persistIncome(ctx context.Context, state *conversation.State, chatID int64) error {
	source := &domain.IncomeSource{
		UserID:    state.UserID,
		Name:      state.Income.Name,
		Amount:    state.Income.Amount,
		Frequency: state.Income.Frequency,
		Days:      state.Income.Days,
	}

	created, err := m.incomes.Create(ctx, source)
	if err != nil {
		return m.fail(ctx, state, chatID, "income_source", err)
	}

	confirmation := incomeConfirmation(created)
	metrics.RecordStepTransition(string(state.Flow), string(state.Step), string(StepIncomeAddAnother))
	state.Step = StepIncomeAddAnother
	if err := m.states.Set(ctx, state.UserID, state); err != nil {
		return err
	}

	return m.msg.Send(ctx, chatID, confirmation+"\n\nQuer cadastrar outra renda?", yesNoKeyboard())
}

// incomeConfirmation words the acknowledgement according to frequency kind.
func incomeConfirmation(source *domain.IncomeSource) string {
	switch source.Frequency {
	case domain.FrequencyBiweekly:
		return fmt.Sprintf("Renda *%s* de %s cadastrada, nos dias %d e %d. ✅",
			source.Name, FormatBRL(source.Amount), source.Days[0], source.Days[1])
	case domain.FrequencyWeekly:
		return fmt.Sprintf("Renda *%s* de %s cadastrada, toda %s. ✅",
			source.Name, FormatBRL(source.Amount), textparse.WeekdayNames[source.Days[0]])
	default:
		return fmt.Sprintf("Renda *%s* de %s cadastrada, todo dia %d. ✅",
			source.Name, FormatBRL(source.Amount), source.Days[0])
	}
}

func (m *IncomeMachine) handleIncomeAddAnother(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	yes, err := textparse.ParseYesNo(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Responda *sim* ou *não*, por favor. 🙂", yesNoKeyboard())
	}

	if yes {
		state.Income = &conversation.IncomeDraft{}
		return m.advance(ctx, state, chatID, StepIncomeName)
	}

	return m.startExpenseGate(ctx, state, chatID)
}

// startExpenseGate hands over to the queued continuation flow.
func (m *IncomeMachine) startExpenseGate(ctx context.Context, state *conversation.State, chatID int64) error {
	metrics.RecordStepTransition(string(state.Flow), string(state.Step), string(StepExpenseGate))
	state.Flow = state.Next
	state.Next = conversation.FlowNone
	state.Step = StepExpenseGate
	state.Expense = &conversation.ExpenseDraft{}

	if err := m.states.Set(ctx, state.UserID, state); err != nil {
		return err
	}

	return m.msg.Send(ctx, chatID,
		"E despesas fixas (aluguel, contas, assinaturas)? Quer cadastrar alguma?",
		yesNoKeyboard())
}

func (m *IncomeMachine) handleExpenseGate(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	yes, err := textparse.ParseYesNo(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Responda *sim* ou *não*, por favor. 🙂", yesNoKeyboard())
	}

	if !yes {
		return m.finishConfiguration(ctx, state, chatID)
	}

	return m.advance(ctx, state, chatID, incomeNext[StepExpenseGate])
}

func (m *IncomeMachine) handleExpenseName(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	name := strings.TrimSpace(text)
	if name == "" {
		return m.msg.Send(ctx, chatID, "Me diga o nome da despesa (ex: *Aluguel*).", nil)
	}

	state.Expense.Name = name

	return m.advance(ctx, state, chatID, incomeNext[StepExpenseName])
}

func (m *IncomeMachine) handleExpenseAmount(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	amount, err := textparse.ParseAmount(text)
	if err != nil || amount <= 0 {
		return m.msg.Send(ctx, chatID, "Não entendi o valor. 🤔 Envie algo como *1200* ou *89,90*.", nil)
	}

	state.Expense.Amount = amount

	return m.advance(ctx, state, chatID, incomeNext[StepExpenseAmount])
}

func (m *IncomeMachine) handleExpenseDueDay(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	day, err := textparse.ParseDueDay(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Envie o dia do vencimento (1 a 31).", nil)
	}

	state.Expense.DueDay = day

	return m.advance(ctx, state, chatID, incomeNext[StepExpenseDueDay])
}

// handleExpenseCategory resolves the reply against the expense category
// catalog, stripping a leading emoji from keyboard labels. No match and an
// explicit skip both store a nil category.
func (m *IncomeMachine) handleExpenseCategory(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	reply := stripLeadingEmoji(text)

	if !strings.EqualFold(reply, skipCategoryLabel) && !textparse.IsSkipToken(reply) {
		categories, err := m.categories.List(ctx)
		if err != nil {
			return m.fail(ctx, state, chatID, "category", err)
		}

		for _, category := range categories {
			if category.Kind == domain.CategoryExpense && strings.EqualFold(category.Name, reply) {
				id := category.ID
				state.Expense.CategoryID = &id
				break
			}
		}
	}

	return m.persistExpense(ctx, state, chatID)
}

func (m *IncomeMachine) persistExpense(ctx context.Context, state *conversation.State, chatID int64) error {
	expense := &domain.RecurringExpense{
		UserID:     state.UserID,
		Name:       state.Expense.Name,
		Amount:     state.Expense.Amount,
		DueDay:     state.Expense.DueDay,
		CategoryID: state.Expense.CategoryID,
	}

	created, err := m.expenses.Create(ctx, expense)
	if err != nil {
		return m.fail(ctx, state, chatID, "recurring_expense", err)
	}

	metrics.RecordStepTransition(string(state.Flow), string(state.Step), string(StepExpenseAddAnother))
	state.Step = StepExpenseAddAnother
	if err := m.states.Set(ctx, state.UserID, state); err != nil {
		return err
	}

	text := fmt.Sprintf("Despesa *%s* de %s cadastrada, vence dia %d. ✅\n\nQuer cadastrar outra despesa?",
		created.Name, FormatBRL(created.Amount), created.DueDay)

	return m.msg.Send(ctx, chatID, text, yesNoKeyboard())
}

func (m *IncomeMachine) handleExpenseAddAnother(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	yes, err := textparse.ParseYesNo(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Responda *sim* ou *não*, por favor. 🙂", yesNoKeyboard())
	}

	if yes {
		state.Expense = &conversation.ExpenseDraft{}
		return m.advance(ctx, state, chatID, StepExpenseName)
	}

	return m.finishConfiguration(ctx, state, chatID)
}

// finishConfiguration is the terminal step for both sub-flows: it marks
// onboarding complete, renders the monthly summary and clears all state.
func (m *IncomeMachine) finishConfiguration(ctx context.Context, state *conversation.State, chatID int64) error {
	if err := m.users.MarkOnboarded(ctx, state.UserID); err != nil {
		return m.fail(ctx, state, chatID, "user", err)
	}

	sources, err := m.incomes.ListByUser(ctx, state.UserID)
	if err != nil {
		return m.fail(ctx, state, chatID, "income_source", err)
	}

	expenses, err := m.expenses.ListByUser(ctx, state.UserID)
	if err != nil {
		return m.fail(ctx, state, chatID, "recurring_expense", err)
	}

	var monthlyIncome, monthlyExpense float64
	for _, source := range sources {
		monthlyIncome += source.MonthlyIncome()
	}
	for _, expense := range expenses {
		monthlyExpense += expense.Amount
	}
	balance := monthlyIncome - monthlyExpense

	if err := m.states.Delete(ctx, state.UserID); err != nil {
		return err
	}
	metrics.RecordFlowCompleted(string(conversation.FlowIncome), "persisted")

	return m.msg.Send(ctx, chatID, summaryMessage(monthlyIncome, monthlyExpense, balance),
		&SendOptions{Keyboard: DefaultKeyboard()})
}

func summaryMessage(income, expense, balance float64) string {
	var b strings.Builder
	b.WriteString("Configuração concluída! 🎉\n\n")
	fmt.Fprintf(&b, "📈 Renda mensal: %s\n", FormatBRL(income))
	fmt.Fprintf(&b, "📉 Despesas fixas: %s\n", FormatBRL(expense))
	fmt.Fprintf(&b, "⚖️ Saldo estimado: %s\n\n", FormatBRL(balance))

	if balance >= 0 {
		b.WriteString("Sobra dinheiro todo mês — que tal criar uma meta de economia? 🎯")
	} else {
		b.WriteString("Suas despesas superam a renda. Vale revisar os gastos fixos. 🚨")
	}

	return b.String()
}

// advance moves the conversation to the next step and sends its prompt.
func (m *IncomeMachine) advance(ctx context.Context, state *conversation.State, chatID int64, next conversation.Step) error {
	metrics.RecordStepTransition(string(state.Flow), string(state.Step), string(next))
	state.Step = next

	if err := m.states.Set(ctx, state.UserID, state); err != nil {
		return err
	}

	return m.prompt(ctx, state, chatID)
}

func (m *IncomeMachine) prompt(ctx context.Context, state *conversation.State, chatID int64) error {
	switch state.Step {
	case StepIncomeName:
		return m.msg.Send(ctx, chatID, "Qual o nome dessa renda? (ex: *Salário*)", &SendOptions{RemoveKeyboard: true})
	case StepIncomeAmount:
		return m.msg.Send(ctx, chatID, "Quanto você recebe? (ex: *2500*)", nil)
	case StepIncomeFrequency:
		return m.msg.Send(ctx, chatID, "Com que frequência?", frequencyKeyboard())
	case StepIncomeDayMonthly:
		return m.msg.Send(ctx, chatID, "Em que dia do mês você recebe? (1 a 31)", &SendOptions{RemoveKeyboard: true})
	case StepIncomeDayBiweekly1:
		return m.msg.Send(ctx, chatID, "Qual o primeiro dia de pagamento? (1 a 31)", &SendOptions{RemoveKeyboard: true})
	case StepIncomeDayBiweekly2:
		return m.msg.Send(ctx, chatID, "E o segundo dia de pagamento? (1 a 31)", nil)
	case StepIncomeDayWeekly:
		return m.msg.Send(ctx, chatID, "Em que dia da semana você recebe?", weekdayKeyboard())
	case StepExpenseName:
		return m.msg.Send(ctx, chatID, "Qual o nome da despesa? (ex: *Aluguel*)", &SendOptions{RemoveKeyboard: true})
	case StepExpenseAmount:
		return m.msg.Send(ctx, chatID, "Qual o valor dela? (ex: *1200*)", nil)
	case StepExpenseDueDay:
		return m.msg.Send(ctx, chatID, "Em que dia ela vence? (1 a 31)", nil)
	case StepExpenseCategory:
		return m.promptExpenseCategory(ctx, chatID)
	default:
		return nil
	}
}

// promptExpenseCategory builds a dynamic keyboard from the expense entries of
// the category catalog plus a skip option.
func (m *IncomeMachine) promptExpenseCategory(ctx context.Context, chatID int64) error {
	var rows [][]string

	categories, err := m.categories.List(ctx)
	if err != nil {
		m.log.Warn("category catalog unavailable, offering skip only", slog.Any("error", err))
	} else {
		var row []string
		for _, category := range categories {
			if category.Kind != domain.CategoryExpense {
				continue
			}

			label := strings.TrimSpace(category.Icon + " " + category.Name)
			row = append(row, label)
			if len(row) == 2 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	rows = append(rows, []string{skipCategoryLabel})

	return m.msg.Send(ctx, chatID, "Em qual categoria ela se encaixa?", &SendOptions{Keyboard: rows})
}

// fail applies the uniform collaborator-failure policy (clear and apologize).
func (m *IncomeMachine) fail(ctx context.Context, state *conversation.State, chatID int64, entity string, err error) error {
	m.log.Error("onboarding flow persistence failed",
		slog.String("user_id", state.UserID), slog.String("entity", entity), slog.Any("error", err))
	metrics.RecordPersistenceError(entity)
	metrics.RecordFlowCompleted(string(state.Flow), "failed")

	if delErr := m.states.Delete(ctx, state.UserID); delErr != nil {
		m.log.Error("failed to clear state after persistence failure",
			slog.String("user_id", state.UserID), slog.Any("error", delErr))
	}

	return m.msg.Send(ctx, chatID, genericErrorMessage, &SendOptions{Keyboard: DefaultKeyboard()})
}

func frequencyKeyboard() *SendOptions {
	return &SendOptions{Keyboard: [][]string{{"Mensal", "Quinzenal", "Semanal"}}}
}

func weekdayKeyboard() *SendOptions {
	return &SendOptions{Keyboard: [][]string{
		{"Segunda", "Terça", "Quarta"},
		{"Quinta", "Sexta"},
		{"Sábado", "Domingo"},
	}}
}

// stripLeadingEmoji drops anything before the first letter or digit so a
// keyboard label like "🏠 Moradia" matches the catalog name "Moradia".
func stripLeadingEmoji(text string) string {
	trimmed := strings.TrimSpace(text)
	for i, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.TrimSpace(trimmed[i:])
		}
	}

	return trimmed
}
