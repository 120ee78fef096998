package domain

import "time"

// Frequency describes how often a recurring income source pays out.
type Frequency string

const (
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
)

// CategoryKind distinguishes expense categories from income categories.
type CategoryKind string

const (
	CategoryExpense CategoryKind = "expense"
	CategoryIncome  CategoryKind = "income"
)

// Goal is a savings target created through the goal conversation.
type Goal struct {
	ID            string     `json:"id,omitempty"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	CategoryID    *string    `json:"category_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}

// Contribution is a single deposit registered against a goal.
type Contribution struct {
	ID        string    `json:"id,omitempty"`
	GoalID    string    `json:"goal_id"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IncomeSource is a recurring income configured during onboarding.
type IncomeSource struct {
	ID             string     `json:"id,omitempty"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Amount         float64    `json:"amount"`
	Frequency      Frequency  `json:"frequency"`
	Days           []int      `json:"days"`
	IsVariable     bool       `json:"is_variable"`
	NextExpectedAt *time.Time `json:"next_expected_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`
}

// RecurringExpense is a fixed monthly bill configured during onboarding.
type RecurringExpense struct {
	ID         string    `json:"id,omitempty"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Amount     float64   `json:"amount"`
	DueDay     int       `json:"due_day"`
	CategoryID *string   `json:"category_id,omitempty"`
	IsVariable bool      `json:"is_variable"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Category is an entry of the fixed category catalog.
type Category struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Icon string       `json:"icon"`
	Kind CategoryKind `json:"kind"`
}

// Transaction is a one-off income or expense registered from free text.
type Transaction struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// MonthlyIncome sums the expected monthly value of an income source.
// Weekly sources count roughly 4.33 pay periods per month, biweekly 2.
func (s IncomeSource) MonthlyIncome() float64 {
	switch s.Frequency {
	case FrequencyWeekly:
		return s.Amount * 52.0 / 12.0
	case FrequencyBiweekly:
		return s.Amount * 2
	default:
		return s.Amount
	}
}
