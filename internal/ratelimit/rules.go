package ratelimit

import (
	"errors"
	"time"
)

// Config carries the configured per-user limit and whitelist.
type Config struct {
	PerUserLimit  int
	PerUserWindow time.Duration
	Whitelist     []int64
}

// Rules encapsulates configured rate limits and helper methods.
type Rules struct {
	config Config
}

// NewRules constructs rate limiting rules from configuration settings.
func NewRules(cfg Config) *Rules {
	return &Rules{config: cfg}
}

// IsWhitelisted returns true if the userID bypasses rate limits.
func (r *Rules) IsWhitelisted(userID int64) bool {
	for _, id := range r.config.Whitelist {
		if id == userID {
			return true
		}
	}
	return false
}

// GetPerUserLimit returns the per-user rate limiting rule.
func (r *Rules) GetPerUserLimit() (int, time.Duration, error) {
	if r.config.PerUserLimit <= 0 || r.config.PerUserWindow <= 0 {
		return 0, 0, errors.New("per-user rate limit is not configured")
	}

	return r.config.PerUserLimit, r.config.PerUserWindow, nil
}
