package domain

import "time"

// User represents an application user stored in the backend.
type User struct {
	ID         string    `json:"id,omitempty"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	Username   string    `json:"username"`
	Onboarded  bool      `json:"onboarded"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
