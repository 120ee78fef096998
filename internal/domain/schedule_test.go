package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence_Monthly(t *testing.T) {
	from := time.Date(2026, time.April, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, date(2026, time.April, 15), NextOccurrence(FrequencyMonthly, []int{15}, from))
	assert.Equal(t, date(2026, time.May, 5), NextOccurrence(FrequencyMonthly, []int{5}, from))
	assert.Equal(t, date(2026, time.May, 10), NextOccurrence(FrequencyMonthly, []int{10}, from))
}

func TestNextOccurrence_MonthlyClampsToMonthEnd(t *testing.T) {
	from := date(2026, time.February, 1)

	assert.Equal(t, date(2026, time.February, 28), NextOccurrence(FrequencyMonthly, []int{31}, from))
}

func TestNextOccurrence_Biweekly(t *testing.T) {
	from := date(2026, time.April, 16)

	assert.Equal(t, date(2026, time.April, 30), NextOccurrence(FrequencyBiweekly, []int{15, 30}, from))

	from = date(2026, time.April, 30)
	assert.Equal(t, date(2026, time.May, 15), NextOccurrence(FrequencyBiweekly, []int{15, 30}, from))
}

func TestNextOccurrence_Weekly(t *testing.T) {
	// 2026-04-10 is a Friday.
	from := date(2026, time.April, 10)

	assert.Equal(t, date(2026, time.April, 13), NextOccurrence(FrequencyWeekly, []int{1}, from))
	assert.Equal(t, date(2026, time.April, 17), NextOccurrence(FrequencyWeekly, []int{5}, from))
}

func TestMonthlyIncome(t *testing.T) {
	assert.InDelta(t, 2500, IncomeSource{Amount: 2500, Frequency: FrequencyMonthly}.MonthlyIncome(), 1e-9)
	assert.InDelta(t, 2000, IncomeSource{Amount: 1000, Frequency: FrequencyBiweekly}.MonthlyIncome(), 1e-9)
	assert.InDelta(t, 500*52.0/12.0, IncomeSource{Amount: 500, Frequency: FrequencyWeekly}.MonthlyIncome(), 1e-9)
}
