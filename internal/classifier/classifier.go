// Package classifier resolves free-text messages into structured intents via
// an external LLM HTTP service.
package classifier

import (
	"context"
)

// Intent labels what the user meant with a free-text message.
type Intent string

const (
	IntentUnknown             Intent = "unknown"
	IntentRegisterTransaction Intent = "register_transaction"
	IntentCreateGoal          Intent = "create_goal"
	IntentGoalInfo            Intent = "goal_info"
)

// Result is the structured reading of a message. Fields are filled only when
// the service extracted them with confidence.
type Result struct {
	Intent      Intent  `json:"intent"`
	Amount      float64 `json:"amount,omitempty"`
	Description string  `json:"description,omitempty"`
	Kind        string  `json:"kind,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`

	GoalTitle  string `json:"goal_title,omitempty"`
	GoalAmount string `json:"goal_amount,omitempty"`

	InfoField string `json:"info_field,omitempty"`
	InfoValue string `json:"info_value,omitempty"`
}

// Classifier turns a raw message into an intent.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Result, error)
}
