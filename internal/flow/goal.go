package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/domain"
	"github.com/granabot/grana-bot/internal/repository"
	"github.com/granabot/grana-bot/internal/textparse"
	"github.com/granabot/grana-bot/pkg/metrics"
)

// Goal creation steps.
const (
	StepGoalTitle         conversation.Step = "goal_awaiting_title"
	StepGoalTargetAmount  conversation.Step = "goal_awaiting_target_amount"
	StepGoalInitialAmount conversation.Step = "goal_awaiting_initial_amount"
	StepGoalTargetDate    conversation.Step = "goal_awaiting_target_date"
	StepGoalConfirm       conversation.Step = "goal_confirmation"
)

// goalNext is the forward transition table for the goal creation chain.
var goalNext = map[conversation.Step]conversation.Step{
	StepGoalTitle:         StepGoalTargetAmount,
	StepGoalTargetAmount:  StepGoalInitialAmount,
	StepGoalInitialAmount: StepGoalTargetDate,
	StepGoalTargetDate:    StepGoalConfirm,
}

// GoalInfoKind tags an out-of-band single-field update for an open goal
// conversation, injected by the intent classification layer.
type GoalInfoKind string

const (
	GoalInfoTitle         GoalInfoKind = "title"
	GoalInfoTargetAmount  GoalInfoKind = "target_amount"
	GoalInfoInitialAmount GoalInfoKind = "initial_amount"
	GoalInfoTargetDate    GoalInfoKind = "target_date"
)

// GoalMachine drives the savings goal creation dialogue.
type GoalMachine struct {
	states conversation.Store
	goals  repository.GoalRepository
	msg    Messenger
	log    *slog.Logger
	now    func() time.Time
}

// NewGoalMachine constructs the goal conversation machine.
func NewGoalMachine(states conversation.Store, goals repository.GoalRepository, msg Messenger, log *slog.Logger) *GoalMachine {
	if log == nil {
		log = slog.Default()
	}

	return &GoalMachine{
		states: states,
		goals:  goals,
		msg:    msg,
		log:    log,
		now:    time.Now,
	}
}

// Start opens a goal conversation. Fields already extracted upstream may be
// pre-populated on the draft; when both title and target amount are known the
// flow fast-paths straight to confirmation.
func (m *GoalMachine) Start(ctx context.Context, userID string, chatID int64, draft conversation.GoalDraft) error {
	state := &conversation.State{
		UserID: userID,
		Flow:   conversation.FlowGoal,
		Goal:   &draft,
	}

	return m.resume(ctx, state, chatID)
}

// InjectInfo applies a single field value to the user's goal draft without
// walking the per-step prompts, then resumes the chain at the first gap.
func (m *GoalMachine) InjectInfo(ctx context.Context, userID string, chatID int64, kind GoalInfoKind, value string) error {
	state, err := m.states.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, conversation.ErrStateNotFound) {
			return err
		}
		state = &conversation.State{
			UserID: userID,
			Flow:   conversation.FlowGoalInfo,
			Goal:   &conversation.GoalDraft{},
		}
	}
	if state.Goal == nil {
		state.Goal = &conversation.GoalDraft{}
	}

	switch kind {
	case GoalInfoTitle:
		state.Goal.Title = strings.TrimSpace(value)
	case GoalInfoTargetAmount:
		if amount, err := textparse.ParseAmount(value); err == nil {
			state.Goal.TargetAmount = amount
		}
	case GoalInfoInitialAmount:
		if amount, err := textparse.ParseAmountOrSkip(value); err == nil {
			state.Goal.InitialAmount = amount
		}
	case GoalInfoTargetDate:
		state.Goal.TargetDate = textparse.ParseTargetDate(value, m.now())
	}

	return m.resume(ctx, state, chatID)
}

// IsUserInFlow reports whether the user has an open goal conversation.
func (m *GoalMachine) IsUserInFlow(ctx context.Context, userID string) bool {
	state, err := m.states.Get(ctx, userID)
	if err != nil {
		return false
	}

	return state.Flow == conversation.FlowGoal || state.Flow == conversation.FlowGoalInfo
}

// HandleMessage interprets an inbound reply under the user's current goal
// step. It returns false when the message does not belong to this machine so
// the dispatcher can fall through to other handlers.
func (m *GoalMachine) HandleMessage(ctx context.Context, userID string, chatID int64, text string) (bool, error) {
	state, err := m.states.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, conversation.ErrStateNotFound) {
			return false, nil
		}
		return false, err
	}

	if state.Flow != conversation.FlowGoal && state.Flow != conversation.FlowGoalInfo {
		return false, nil
	}
	if state.Goal == nil {
		state.Goal = &conversation.GoalDraft{}
	}

	switch state.Step {
	case StepGoalTitle:
		return true, m.handleTitle(ctx, state, chatID, text)
	case StepGoalTargetAmount:
		return true, m.handleTargetAmount(ctx, state, chatID, text)
	case StepGoalInitialAmount:
		return true, m.handleInitialAmount(ctx, state, chatID, text)
	case StepGoalTargetDate:
		return true, m.handleTargetDate(ctx, state, chatID, text)
	case StepGoalConfirm:
		return true, m.handleConfirm(ctx, state, chatID, text)
	default:
		// Unknown step: the state is unusable, clear it and fall through.
		m.log.Warn("unknown goal step, clearing state",
			slog.String("user_id", userID), slog.String("step", string(state.Step)))
		if err := m.states.Delete(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}
}

func (m *GoalMachine) handleTitle(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	title := strings.TrimSpace(text)
	if title == "" {
		return m.msg.Send(ctx, chatID, "Me diga um nome para a sua meta. 🎯", nil)
	}

	state.Goal.Title = title

	return m.advance(ctx, state, chatID, goalNext[StepGoalTitle])
}

func (m *GoalMachine) handleTargetAmount(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	amount, err := textparse.ParseAmount(text)
	if err != nil || amount <= 0 {
		return m.msg.Send(ctx, chatID, "Não entendi o valor. 🤔 Envie algo como *3000* ou *1500,50*.", nil)
	}

	state.Goal.TargetAmount = amount

	return m.advance(ctx, state, chatID, goalNext[StepGoalTargetAmount])
}

// handleInitialAmount never re-prompts: a negative-intent token or malformed
// reply becomes zero so the flow keeps moving (best-effort forward progress).
func (m *GoalMachine) handleInitialAmount(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	amount, err := textparse.ParseAmountOrSkip(text)
	if err != nil || amount < 0 {
		amount = 0
	}

	state.Goal.InitialAmount = amount

	return m.advance(ctx, state, chatID, goalNext[StepGoalInitialAmount])
}

// handleTargetDate always transitions: an unparseable or past date is treated
// as "no deadline" rather than stalling the flow on an ambiguous reply.
func (m *GoalMachine) handleTargetDate(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	state.Goal.TargetDate = textparse.ParseTargetDate(text, m.now())

	return m.advance(ctx, state, chatID, goalNext[StepGoalTargetDate])
}

func (m *GoalMachine) handleConfirm(ctx context.Context, state *conversation.State, chatID int64, text string) error {
	draft := state.Goal
	if draft.Title == "" || draft.TargetAmount <= 0 {
		// No well-defined recovery step: abort instead of re-prompting.
		if err := m.states.Delete(ctx, state.UserID); err != nil {
			return err
		}
		metrics.RecordFlowCompleted(string(conversation.FlowGoal), "aborted")
		return m.msg.Send(ctx, chatID,
			"Faltou o nome ou o valor da meta. 😕 Envie *🎯 Nova meta* para começar de novo.",
			&SendOptions{Keyboard: DefaultKeyboard()})
	}

	confirmed, err := textparse.ParseYesNo(text)
	if err != nil {
		return m.msg.Send(ctx, chatID, "Confirma a criação da meta? Responda *sim* ou *não*.", yesNoKeyboard())
	}

	if !confirmed {
		if err := m.states.Delete(ctx, state.UserID); err != nil {
			return err
		}
		metrics.RecordFlowCompleted(string(conversation.FlowGoal), "cancelled")
		return m.msg.Send(ctx, chatID, "Tudo bem, meta descartada. 👍",
			&SendOptions{Keyboard: DefaultKeyboard()})
	}

	return m.persist(ctx, state, chatID)
}

func (m *GoalMachine) persist(ctx context.Context, state *conversation.State, chatID int64) error {
	draft := state.Goal
	goal := &domain.Goal{
		UserID:       state.UserID,
		Title:        draft.Title,
		TargetAmount: draft.TargetAmount,
		TargetDate:   draft.TargetDate,
		CategoryID:   draft.CategoryID,
	}

	created, err := m.goals.Create(ctx, goal)
	if err != nil {
		return m.fail(ctx, state, chatID, "goal", err)
	}

	if draft.InitialAmount > 0 {
		if _, err := m.goals.AddContribution(ctx, created.ID, draft.InitialAmount, "Depósito inicial"); err != nil {
			return m.fail(ctx, state, chatID, "goal_contribution", err)
		}
	}

	if err := m.states.Delete(ctx, state.UserID); err != nil {
		return err
	}
	metrics.RecordFlowCompleted(string(conversation.FlowGoal), "persisted")

	return m.msg.Send(ctx, chatID, m.successMessage(draft), &SendOptions{Keyboard: DefaultKeyboard()})
}

func (m *GoalMachine) successMessage(draft *conversation.GoalDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meta criada! 🎉\n\n🎯 *%s*\n💰 Objetivo: %s\n", draft.Title, FormatBRL(draft.TargetAmount))
	if draft.InitialAmount > 0 {
		fmt.Fprintf(&b, "🏦 Valor inicial: %s\n", FormatBRL(draft.InitialAmount))
	}
	if draft.TargetDate != nil {
		fmt.Fprintf(&b, "🗓 Prazo: %s\n", draft.TargetDate.Format("02/01/2006"))
	}
	b.WriteString("\nVou te ajudar a acompanhar o progresso!")

	return b.String()
}

// advance moves the conversation to the next step and sends its prompt.
// Every transition emits exactly one outbound message.
func (m *GoalMachine) advance(ctx context.Context, state *conversation.State, chatID int64, next conversation.Step) error {
	metrics.RecordStepTransition(string(state.Flow), string(state.Step), string(next))
	state.Step = next

	if err := m.states.Set(ctx, state.UserID, state); err != nil {
		return err
	}

	return m.prompt(ctx, state, chatID)
}

// resume places the conversation at the first step whose field is still
// missing, fast-pathing to confirmation when title and amount are known.
func (m *GoalMachine) resume(ctx context.Context, state *conversation.State, chatID int64) error {
	switch {
	case state.Goal.Title == "":
		return m.advance(ctx, state, chatID, StepGoalTitle)
	case state.Goal.TargetAmount <= 0:
		return m.advance(ctx, state, chatID, StepGoalTargetAmount)
	default:
		return m.advance(ctx, state, chatID, StepGoalConfirm)
	}
}

func (m *GoalMachine) prompt(ctx context.Context, state *conversation.State, chatID int64) error {
	switch state.Step {
	case StepGoalTitle:
		return m.msg.Send(ctx, chatID, "Vamos criar sua meta! 🎯 Qual é o nome dela?", &SendOptions{RemoveKeyboard: true})
	case StepGoalTargetAmount:
		return m.msg.Send(ctx, chatID, "Quanto você quer juntar? Envie o valor (ex: *3000* ou *1500,50*).", nil)
	case StepGoalInitialAmount:
		return m.msg.Send(ctx, chatID, "Você já tem algum valor guardado? Envie o valor ou responda *não*.", nil)
	case StepGoalTargetDate:
		return m.msg.Send(ctx, chatID, "Até quando você quer alcançar? Envie uma data (DD/MM/AAAA) ou *sem prazo*.", nil)
	case StepGoalConfirm:
		return m.msg.Send(ctx, chatID, m.confirmMessage(state.Goal), yesNoKeyboard())
	default:
		return nil
	}
}

func (m *GoalMachine) confirmMessage(draft *conversation.GoalDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Confere pra mim? 🎯\n\n*%s* — %s\n", draft.Title, FormatBRL(draft.TargetAmount))
	if draft.InitialAmount > 0 {
		fmt.Fprintf(&b, "Começando com %s\n", FormatBRL(draft.InitialAmount))
	}
	if draft.TargetDate != nil {
		fmt.Fprintf(&b, "Prazo: %s\n", draft.TargetDate.Format("02/01/2006"))
	} else {
		b.WriteString("Sem prazo definido\n")
	}
	b.WriteString("\nConfirma a criação? (sim/não)")

	return b.String()
}

// fail applies the uniform collaborator-failure policy: log, count, clear the
// conversation and apologize. The user restarts the flow instead of retrying
// the same message against a transient backend error.
func (m *GoalMachine) fail(ctx context.Context, state *conversation.State, chatID int64, entity string, err error) error {
	m.log.Error("goal flow persistence failed",
		slog.String("user_id", state.UserID), slog.String("entity", entity), slog.Any("error", err))
	metrics.RecordPersistenceError(entity)
	metrics.RecordFlowCompleted(string(conversation.FlowGoal), "failed")

	if delErr := m.states.Delete(ctx, state.UserID); delErr != nil {
		m.log.Error("failed to clear state after persistence failure",
			slog.String("user_id", state.UserID), slog.Any("error", delErr))
	}

	return m.msg.Send(ctx, chatID, genericErrorMessage, &SendOptions{Keyboard: DefaultKeyboard()})
}
