// Package textparse converts free-text pt-BR replies into typed values.
package textparse

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidAmount indicates that a reply could not be read as a currency amount.
	ErrInvalidAmount = errors.New("invalid currency amount")
	// ErrInvalidDay indicates that a reply is not a day of month in [1,31].
	ErrInvalidDay = errors.New("invalid day of month")
	// ErrInvalidWeekday indicates that a reply does not name a weekday.
	ErrInvalidWeekday = errors.New("invalid weekday")
	// ErrAmbiguousAnswer indicates that a reply is neither a yes nor a no.
	ErrAmbiguousAnswer = errors.New("ambiguous yes/no answer")
)

// skipTokens are replies treated as "none/zero" where a step allows skipping.
var skipTokens = []string{"não", "nao", "n", "no", "0"}

// noDeadlineTokens are replies treated as "no target date".
var noDeadlineTokens = []string{"não", "nao", "n", "no", "sem prazo", "sem data", "indefinido"}

// weekday maps pt-BR weekday names to time-style indexes (0 = Sunday).
// Ordered so that a combined "Sábado/Domingo" label resolves to Saturday.
var weekdays = []struct {
	name  string
	index int
}{
	{"segunda", 1},
	{"terça", 2},
	{"terca", 2},
	{"quarta", 3},
	{"quinta", 4},
	{"sexta", 5},
	{"sábado", 6},
	{"sabado", 6},
	{"domingo", 0},
}

// WeekdayNames lists the pt-BR weekday names indexed 0 (Sunday) through 6.
var WeekdayNames = [7]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

// ParseAmount reads a currency amount from free text. Currency symbols and
// whitespace are stripped and the first comma is treated as the decimal
// separator ("150,50" -> 150.5). Thousands separators are not understood;
// replies such as "1.234,56" fail rather than mis-parse.
func ParseAmount(text string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, "r$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.Replace(s, ",", ".", 1)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidAmount
	}

	return value, nil
}

// ParseAmountOrSkip behaves like ParseAmount but also accepts the fixed set
// of negative-intent tokens ("não", "n", ...) as an explicit zero.
func ParseAmountOrSkip(text string) (float64, error) {
	if IsSkipToken(text) {
		return 0, nil
	}

	return ParseAmount(text)
}

// IsSkipToken reports whether the reply is one of the negative-intent tokens.
func IsSkipToken(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, token := range skipTokens {
		if normalized == token {
			return true
		}
	}

	return false
}

// ParseDueDay reads a day of month and requires it to fall within [1,31].
func ParseDueDay(text string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || day < 1 || day > 31 {
		return 0, ErrInvalidDay
	}

	return day, nil
}

// targetDateLayouts are the explicit shapes accepted for a goal deadline,
// tried in order before giving up.
var targetDateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02/01/06",
	"02-01-2006",
	"02.01.2006",
}

// ParseTargetDate reads a goal deadline from free text. The fixed set of
// "no deadline" tokens, an unparseable reply, and a date that is not strictly
// in the future all yield nil so the flow never stalls on an ambiguous date.
func ParseTargetDate(text string, now time.Time) *time.Time {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, token := range noDeadlineTokens {
		if normalized == token {
			return nil
		}
	}

	for _, layout := range targetDateLayouts {
		parsed, err := time.ParseInLocation(layout, strings.TrimSpace(text), now.Location())
		if err != nil {
			continue
		}

		if !parsed.After(now) {
			return nil
		}

		return &parsed
	}

	return nil
}

// ParseWeekday matches a pt-BR weekday name by case-insensitive substring,
// returning 0 (Sunday) through 6 (Saturday).
func ParseWeekday(text string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, wd := range weekdays {
		if strings.Contains(normalized, wd.name) {
			return wd.index, nil
		}
	}

	return 0, ErrInvalidWeekday
}

// ParseYesNo reads an affirmative or negative reply by substring match.
// Anything that contains neither "sim" nor "não" is ambiguous.
func ParseYesNo(text string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(normalized, "sim") {
		return true, nil
	}
	if strings.Contains(normalized, "não") || strings.Contains(normalized, "nao") {
		return false, nil
	}

	return false, ErrAmbiguousAnswer
}

// ClampDay bounds a day value to the closed range valid for its frequency
// kind: [1,31] for month days and [0,6] for weekdays.
func ClampDay(day, min, max int) int {
	if day < min {
		return min
	}
	if day > max {
		return max
	}

	return day
}
