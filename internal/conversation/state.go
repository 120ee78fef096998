// Package conversation tracks per-user multi-turn dialogue state.
package conversation

import (
	"time"

	"github.com/granabot/grana-bot/internal/domain"
)

// FlowKind identifies which multi-turn dialogue owns a conversation state.
type FlowKind string

const (
	// FlowNone means no follow-up flow is queued.
	FlowNone FlowKind = ""
	// FlowGoal is the goal creation dialogue.
	FlowGoal FlowKind = "goal_creation"
	// FlowGoalInfo is the out-of-band goal follow-up dialogue.
	FlowGoalInfo FlowKind = "goal_info"
	// FlowIncome is the recurring income onboarding dialogue.
	FlowIncome FlowKind = "income_setup"
	// FlowExpense is the recurring expense onboarding dialogue.
	FlowExpense FlowKind = "expense_setup"
)

// Step is a position inside a flow. Each flow defines its own step constants
// and transition table; the store treats steps as opaque.
type Step string

// GoalDraft is the partially-filled goal under construction.
type GoalDraft struct {
	Title         string     `json:"title"`
	TargetAmount  float64    `json:"target_amount"`
	InitialAmount float64    `json:"initial_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	CategoryID    *string    `json:"category_id,omitempty"`
}

// IncomeDraft is the partially-filled income source under construction.
type IncomeDraft struct {
	Name      string           `json:"name"`
	Amount    float64          `json:"amount"`
	Frequency domain.Frequency `json:"frequency,omitempty"`
	Days      []int            `json:"days,omitempty"`
}

// ExpenseDraft is the partially-filled recurring expense under construction.
type ExpenseDraft struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	DueDay     int     `json:"due_day"`
	CategoryID *string `json:"category_id,omitempty"`
}

// State captures where a user currently is within an open dialogue.
// One state exists per user; the draft matching Flow is the only one set.
type State struct {
	UserID    string        `json:"user_id"`
	Flow      FlowKind      `json:"flow"`
	Step      Step          `json:"step"`
	Goal      *GoalDraft    `json:"goal,omitempty"`
	Income    *IncomeDraft  `json:"income,omitempty"`
	Expense   *ExpenseDraft `json:"expense,omitempty"`
	Next      FlowKind      `json:"next,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}
